package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	RouteCacheTTL   = 60 * time.Second // Route details change rarely outside admin edits
	PopularCacheTTL = 30 * time.Second // Popular listing is purely a convenience read
)

// Key prefixes
const (
	routeCachePrefix = "cache:route:"
	popularCacheKey  = "cache:routes:popular"
)

// CachedRoute represents a cached route entity.
type CachedRoute struct {
	ID          string   `json:"id"`
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Departure   string   `json:"departure"`
	Arrival     string   `json:"arrival"`
	Price       float64  `json:"price"`
	BusCompany  string   `json:"bus_company"`
	BusType     string   `json:"bus_type"`
	Amenities   []string `json:"amenities,omitempty"`
	TotalSeats  int      `json:"total_seats"`
	Available   int      `json:"available_seats"`
	Status      string   `json:"status"`
}

// GetRoute retrieves a route from cache. A nil result means cache miss.
func (s *CacheStore) GetRoute(ctx context.Context, routeID string) (*CachedRoute, error) {
	data, err := s.client.Get(ctx, routeCachePrefix+routeID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var route CachedRoute
	if err := json.Unmarshal(data, &route); err != nil {
		return nil, err
	}
	return &route, nil
}

// SetRoute stores a route in cache.
func (s *CacheStore) SetRoute(ctx context.Context, route *CachedRoute) error {
	data, err := json.Marshal(route)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, routeCachePrefix+route.ID, data, RouteCacheTTL).Err()
}

// InvalidateRoute removes a route from cache. Admin edits call this so
// search and booking reads see fresh data.
func (s *CacheStore) InvalidateRoute(ctx context.Context, routeID string) error {
	if err := s.client.Del(ctx, routeCachePrefix+routeID).Err(); err != nil {
		return err
	}
	return s.client.Del(ctx, popularCacheKey).Err()
}

// GetPopularRoutes retrieves the cached popular listing. Nil means miss.
func (s *CacheStore) GetPopularRoutes(ctx context.Context) ([]CachedRoute, error) {
	data, err := s.client.Get(ctx, popularCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var routes []CachedRoute
	if err := json.Unmarshal(data, &routes); err != nil {
		return nil, err
	}
	return routes, nil
}

// SetPopularRoutes stores the popular listing.
func (s *CacheStore) SetPopularRoutes(ctx context.Context, routes []CachedRoute) error {
	data, err := json.Marshal(routes)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, popularCacheKey, data, PopularCacheTTL).Err()
}
