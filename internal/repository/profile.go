package repository

import (
	"context"

	"github.com/tzinegf/AG-TUR/internal/domain"
)

// ProfileRepository defines the persistence operations for profiles.
type ProfileRepository interface {
	// GetByID retrieves a profile by user ID.
	GetByID(ctx context.Context, id string) (*domain.Profile, error)

	// Update updates the mutable fields of a profile.
	Update(ctx context.Context, profile *domain.Profile) error
}

// StripeCustomerRepository maps application users to payment-provider
// customer IDs.
type StripeCustomerRepository interface {
	// GetCustomerID retrieves the provider customer for a user.
	// Returns ErrNotFound when no mapping exists.
	GetCustomerID(ctx context.Context, userID string) (string, error)

	// SaveCustomerID stores or replaces the mapping for a user.
	SaveCustomerID(ctx context.Context, userID, customerID string) error
}
