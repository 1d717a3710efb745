package service

import (
	"context"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/repository"
)

// AvailabilityService answers seat-availability questions against the seat
// ledger. It performs plain reads and takes no locks; the booking flow pairs
// it with a Redis hold and a conditional ledger write to cover the gap
// between checking and reserving.
type AvailabilityService struct {
	seatRepo repository.SeatRepository
}

// NewAvailabilityService creates a new AvailabilityService.
func NewAvailabilityService(seatRepo repository.SeatRepository) *AvailabilityService {
	return &AvailabilityService{seatRepo: seatRepo}
}

// CheckSeats reports whether every requested seat exists on the route and is
// free. The returned seats are the resolved ledger rows for the request.
func (s *AvailabilityService) CheckSeats(ctx context.Context, routeID string, seatNumbers []string) (bool, []*domain.Seat, error) {
	if routeID == "" {
		return false, nil, ErrInvalidRouteID
	}
	if len(seatNumbers) == 0 {
		return false, nil, ErrInvalidSeatSelection
	}

	seats, err := s.seatRepo.GetByRouteAndNumbers(ctx, routeID, seatNumbers)
	if err != nil {
		return false, nil, err
	}

	if len(seats) != len(seatNumbers) {
		// A seat number that is not part of the route's configuration.
		return false, seats, nil
	}

	for _, seat := range seats {
		if seat.Reserved() {
			return false, seats, nil
		}
	}

	return true, seats, nil
}

// SeatMap retrieves the full seat layout for a route.
func (s *AvailabilityService) SeatMap(ctx context.Context, routeID string) ([]*domain.Seat, error) {
	if routeID == "" {
		return nil, ErrInvalidRouteID
	}
	return s.seatRepo.GetByRoute(ctx, routeID)
}
