package repository

import (
	"context"

	"github.com/tzinegf/AG-TUR/internal/domain"
)

// SeatRepository defines the persistence operations for the seat ledger.
type SeatRepository interface {
	// GetByRoute retrieves all seats in a route's bus configuration.
	GetByRoute(ctx context.Context, routeID string) ([]*domain.Seat, error)

	// GetByRouteAndNumbers resolves seat identifiers within a route.
	// Seats whose numbers are not part of the route are absent from the result.
	GetByRouteAndNumbers(ctx context.Context, routeID string, seatNumbers []string) ([]*domain.Seat, error)

	// Reserve links the given seats to a booking along with passenger
	// metadata. Only free seats are claimed; if any requested seat is
	// already occupied nothing is reserved and ErrSeatConflict is returned.
	Reserve(ctx context.Context, routeID, bookingID string, passengers []domain.Passenger) error

	// Release frees all seats held by a booking.
	Release(ctx context.Context, bookingID string) error
}
