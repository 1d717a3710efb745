package repository

import (
	"context"
	"time"

	"github.com/tzinegf/AG-TUR/internal/domain"
)

// RouteRepository defines the persistence operations for routes.
type RouteRepository interface {
	// Create persists a new route.
	Create(ctx context.Context, route *domain.Route) error

	// GetByID retrieves a route by ID.
	GetByID(ctx context.Context, id string) (*domain.Route, error)

	// Search retrieves routes matching origin and destination departing on
	// or after the given date, ordered by departure time.
	Search(ctx context.Context, origin, destination string, date time.Time) ([]*domain.Route, error)

	// GetAll retrieves all routes ordered by departure time.
	GetAll(ctx context.Context) ([]*domain.Route, error)

	// GetPopular retrieves the next departing routes.
	GetPopular(ctx context.Context, limit int) ([]*domain.Route, error)

	// Update updates an existing route.
	Update(ctx context.Context, route *domain.Route) error

	// Delete removes a route.
	Delete(ctx context.Context, id string) error
}
