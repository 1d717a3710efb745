package repository

import (
	"context"

	"github.com/tzinegf/AG-TUR/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment. Returns ErrRelationMissing when the
	// payments table does not exist in the current deployment.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByBookingID retrieves the payment tied to a booking.
	// Returns nil if no payment exists for the booking.
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error)

	// UpsertByTransaction creates or updates the payment identified by an
	// external transaction ID. Used by the payment-provider webhook.
	UpsertByTransaction(ctx context.Context, payment *domain.Payment) error

	// UpdateStatus updates the status of a payment.
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, transactionID string) error
}
