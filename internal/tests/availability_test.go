package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/service"
)

// ──────────────────────────────────────────────
// SEAT AVAILABILITY
// ──────────────────────────────────────────────

func TestCheckSeats_AllFree_Available(t *testing.T) {
	t.Parallel()

	seatRepo := NewMockSeatRepository()
	seatRepo.AddSeats("route-1", "1A", "1B", "2A")
	availability := service.NewAvailabilityService(seatRepo)

	available, seats, err := availability.CheckSeats(context.Background(), "route-1", []string{"1A", "2A"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !available {
		t.Error("expected seats to be available")
	}
	if len(seats) != 2 {
		t.Errorf("expected 2 resolved seats, got %d", len(seats))
	}
}

func TestCheckSeats_OneOccupied_NotAvailable(t *testing.T) {
	t.Parallel()

	seatRepo := NewMockSeatRepository()
	seatRepo.AddSeats("route-1", "1A", "1B")
	if err := seatRepo.Reserve(context.Background(), "route-1", "booking-x", []domain.Passenger{{SeatNumber: "1B"}}); err != nil {
		t.Fatalf("setup reserve failed: %v", err)
	}
	availability := service.NewAvailabilityService(seatRepo)

	available, _, err := availability.CheckSeats(context.Background(), "route-1", []string{"1A", "1B"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if available {
		t.Error("expected seats to be unavailable")
	}
}

func TestCheckSeats_UnknownSeat_NotAvailable(t *testing.T) {
	t.Parallel()

	seatRepo := NewMockSeatRepository()
	seatRepo.AddSeats("route-1", "1A")
	availability := service.NewAvailabilityService(seatRepo)

	available, _, err := availability.CheckSeats(context.Background(), "route-1", []string{"1A", "99Z"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if available {
		t.Error("expected unknown seat to make the request unavailable")
	}
}

func TestCheckSeats_InvalidInput_Fails(t *testing.T) {
	t.Parallel()

	availability := service.NewAvailabilityService(NewMockSeatRepository())

	if _, _, err := availability.CheckSeats(context.Background(), "", []string{"1A"}); !errors.Is(err, service.ErrInvalidRouteID) {
		t.Errorf("expected ErrInvalidRouteID, got %v", err)
	}
	if _, _, err := availability.CheckSeats(context.Background(), "route-1", nil); !errors.Is(err, service.ErrInvalidSeatSelection) {
		t.Errorf("expected ErrInvalidSeatSelection, got %v", err)
	}
}

func TestSeatMap_ReturnsFullLayout(t *testing.T) {
	t.Parallel()

	seatRepo := NewMockSeatRepository()
	seatRepo.AddSeats("route-1", "1A", "1B", "2A", "2B")
	if err := seatRepo.Reserve(context.Background(), "route-1", "booking-x", []domain.Passenger{{SeatNumber: "2B"}}); err != nil {
		t.Fatalf("setup reserve failed: %v", err)
	}
	availability := service.NewAvailabilityService(seatRepo)

	seats, err := availability.SeatMap(context.Background(), "route-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(seats) != 4 {
		t.Fatalf("expected 4 seats, got %d", len(seats))
	}

	occupied := 0
	for _, s := range seats {
		if s.Reserved() {
			occupied++
		}
	}
	if occupied != 1 {
		t.Errorf("expected 1 occupied seat, got %d", occupied)
	}
}
