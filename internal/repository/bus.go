package repository

import (
	"context"

	"github.com/tzinegf/AG-TUR/internal/domain"
)

// BusRepository defines the persistence operations for the fleet registry.
type BusRepository interface {
	// Create persists a new bus.
	Create(ctx context.Context, bus *domain.Bus) error

	// GetByID retrieves a bus by ID.
	GetByID(ctx context.Context, id string) (*domain.Bus, error)

	// GetAll retrieves the full fleet.
	GetAll(ctx context.Context) ([]*domain.Bus, error)

	// Update updates an existing bus.
	Update(ctx context.Context, bus *domain.Bus) error

	// Delete removes a bus.
	Delete(ctx context.Context, id string) error
}
