package repository

import (
	"context"

	"github.com/tzinegf/AG-TUR/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByID retrieves a booking by ID.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetByUser retrieves a user's bookings, newest first.
	GetByUser(ctx context.Context, userID string) ([]*domain.Booking, error)

	// GetAll retrieves all bookings, newest first.
	GetAll(ctx context.Context) ([]*domain.Booking, error)

	// UpdateStatus updates the lifecycle status of a booking.
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) error

	// UpdatePaymentStatus updates the payment status of a booking and,
	// when non-empty, stores the issued QR code.
	UpdatePaymentStatus(ctx context.Context, id string, status domain.BookingPaymentStatus, qrCode string) error

	// Delete removes a booking. Used as the compensating action when a
	// later step of the booking flow fails.
	Delete(ctx context.Context, id string) error

	// Stats aggregates booking counts and completed revenue.
	Stats(ctx context.Context) (*domain.BookingStats, error)
}
