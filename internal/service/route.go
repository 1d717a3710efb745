package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/redis"
	"github.com/tzinegf/AG-TUR/internal/repository"
)

const popularRoutesLimit = 10

// RouteService handles route search and the admin route catalogue.
type RouteService struct {
	routeRepo  repository.RouteRepository
	cacheStore *redis.CacheStore
}

// NewRouteService creates a new RouteService. cacheStore may be nil.
func NewRouteService(routeRepo repository.RouteRepository, cacheStore *redis.CacheStore) *RouteService {
	return &RouteService{
		routeRepo:  routeRepo,
		cacheStore: cacheStore,
	}
}

// Search retrieves active routes matching origin and destination on or after
// the given date.
func (s *RouteService) Search(ctx context.Context, origin, destination string, date time.Time) ([]*domain.Route, error) {
	if origin == "" || destination == "" {
		return nil, ErrInvalidRouteData
	}
	return s.routeRepo.Search(ctx, origin, destination, date)
}

// GetRoute retrieves a route by ID, consulting the cache first.
func (s *RouteService) GetRoute(ctx context.Context, routeID string) (*domain.Route, error) {
	if routeID == "" {
		return nil, ErrInvalidRouteID
	}

	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetRoute(ctx, routeID); err == nil && cached != nil {
			if route := cachedToRoute(cached); route != nil {
				return route, nil
			}
		}
	}

	route, err := s.routeRepo.GetByID(ctx, routeID)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetRoute(ctx, routeToCached(route))
	}

	return route, nil
}

// GetPopular retrieves the next departing routes, consulting the cache first.
func (s *RouteService) GetPopular(ctx context.Context) ([]*domain.Route, error) {
	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetPopularRoutes(ctx); err == nil && cached != nil {
			routes := make([]*domain.Route, 0, len(cached))
			for i := range cached {
				if route := cachedToRoute(&cached[i]); route != nil {
					routes = append(routes, route)
				}
			}
			if len(routes) == len(cached) {
				return routes, nil
			}
		}
	}

	routes, err := s.routeRepo.GetPopular(ctx, popularRoutesLimit)
	if err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		cached := make([]redis.CachedRoute, 0, len(routes))
		for _, route := range routes {
			cached = append(cached, *routeToCached(route))
		}
		_ = s.cacheStore.SetPopularRoutes(ctx, cached)
	}

	return routes, nil
}

// GetAll retrieves all routes for the admin surface.
func (s *RouteService) GetAll(ctx context.Context) ([]*domain.Route, error) {
	return s.routeRepo.GetAll(ctx)
}

// CreateRouteRequest contains the parameters for creating a route.
type CreateRouteRequest struct {
	Origin      string
	Destination string
	Departure   time.Time
	Arrival     time.Time
	Price       float64
	BusCompany  string
	BusType     domain.BusType
	Amenities   []string
	TotalSeats  int
}

// CreateRoute creates a route in the admin catalogue.
func (s *RouteService) CreateRoute(ctx context.Context, req CreateRouteRequest) (*domain.Route, error) {
	if err := validateRouteRequest(req); err != nil {
		return nil, err
	}

	route := &domain.Route{
		ID:             uuid.New().String(),
		Origin:         req.Origin,
		Destination:    req.Destination,
		Departure:      req.Departure,
		Arrival:        req.Arrival,
		Price:          req.Price,
		BusCompany:     req.BusCompany,
		BusType:        req.BusType,
		Amenities:      req.Amenities,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: req.TotalSeats,
		Status:         domain.RouteStatusActive,
		CreatedAt:      time.Now(),
	}

	if err := s.routeRepo.Create(ctx, route); err != nil {
		return nil, err
	}

	return route, nil
}

// UpdateRoute updates a route and invalidates its cache entry.
func (s *RouteService) UpdateRoute(ctx context.Context, route *domain.Route) (*domain.Route, error) {
	if route.ID == "" {
		return nil, ErrInvalidRouteID
	}

	if err := s.routeRepo.Update(ctx, route); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateRoute(ctx, route.ID)
	}

	return route, nil
}

// DeleteRoute removes a route and invalidates its cache entry.
func (s *RouteService) DeleteRoute(ctx context.Context, routeID string) error {
	if routeID == "" {
		return ErrInvalidRouteID
	}

	if err := s.routeRepo.Delete(ctx, routeID); err != nil {
		return err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateRoute(ctx, routeID)
	}

	return nil
}

func validateRouteRequest(req CreateRouteRequest) error {
	if req.Origin == "" || req.Destination == "" || req.Origin == req.Destination {
		return ErrInvalidRouteData
	}
	if req.Departure.IsZero() || req.Arrival.IsZero() || !req.Arrival.After(req.Departure) {
		return ErrInvalidRouteData
	}
	if req.Price <= 0 {
		return ErrInvalidRouteData
	}
	if req.TotalSeats <= 0 {
		return ErrInvalidRouteData
	}
	return nil
}

func routeToCached(route *domain.Route) *redis.CachedRoute {
	return &redis.CachedRoute{
		ID:          route.ID,
		Origin:      route.Origin,
		Destination: route.Destination,
		Departure:   route.Departure.Format(time.RFC3339),
		Arrival:     route.Arrival.Format(time.RFC3339),
		Price:       route.Price,
		BusCompany:  route.BusCompany,
		BusType:     string(route.BusType),
		Amenities:   route.Amenities,
		TotalSeats:  route.TotalSeats,
		Available:   route.AvailableSeats,
		Status:      string(route.Status),
	}
}

func cachedToRoute(cached *redis.CachedRoute) *domain.Route {
	departure, err := time.Parse(time.RFC3339, cached.Departure)
	if err != nil {
		return nil
	}
	arrival, err := time.Parse(time.RFC3339, cached.Arrival)
	if err != nil {
		return nil
	}

	return &domain.Route{
		ID:             cached.ID,
		Origin:         cached.Origin,
		Destination:    cached.Destination,
		Departure:      departure,
		Arrival:        arrival,
		Price:          cached.Price,
		BusCompany:     cached.BusCompany,
		BusType:        domain.BusType(cached.BusType),
		Amenities:      cached.Amenities,
		TotalSeats:     cached.TotalSeats,
		AvailableSeats: cached.Available,
		Status:         domain.RouteStatus(cached.Status),
	}
}
