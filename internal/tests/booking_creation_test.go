package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/repository"
	"github.com/tzinegf/AG-TUR/internal/service"
)

func activeRoute(id string) *domain.Route {
	return &domain.Route{
		ID:             id,
		Origin:         "São Paulo",
		Destination:    "Rio de Janeiro",
		Departure:      time.Now().Add(24 * time.Hour),
		Arrival:        time.Now().Add(30 * time.Hour),
		Price:          120.50,
		BusCompany:     "AG-TUR",
		BusType:        domain.BusTypeExecutive,
		TotalSeats:     40,
		AvailableSeats: 40,
		Status:         domain.RouteStatusActive,
	}
}

func newBookingFixture() (*service.BookingService, *MockBookingRepository, *MockSeatRepository, *MockPaymentRepository, *MockRouteRepository) {
	routeRepo := NewMockRouteRepository()
	seatRepo := NewMockSeatRepository()
	bookingRepo := NewMockBookingRepository()
	paymentRepo := NewMockPaymentRepository()
	availability := service.NewAvailabilityService(seatRepo)

	bookingService := service.NewBookingService(bookingRepo, seatRepo, paymentRepo, routeRepo, availability, nil, nil)
	return bookingService, bookingRepo, seatRepo, paymentRepo, routeRepo
}

// ──────────────────────────────────────────────
// 1. BOOKING CREATION
// ──────────────────────────────────────────────

func TestBookingCreation_ValidInput_Succeeds(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, seatRepo, paymentRepo, routeRepo := newBookingFixture()
	routeRepo.AddRoute(activeRoute("route-1"))
	seatRepo.AddSeats("route-1", "12A", "12B")

	booking, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:        "user-1",
		RouteID:       "route-1",
		SeatNumbers:   []string{"12A", "12B"},
		TotalPrice:    241.00,
		PaymentMethod: domain.PaymentMethodCredit,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if booking.ID == "" {
		t.Error("expected booking ID to be set")
	}
	if booking.Status != domain.BookingStatusPending {
		t.Errorf("expected status pending, got %s", booking.Status)
	}
	if booking.PaymentStatus != domain.BookingPaymentPending {
		t.Errorf("expected payment status pending, got %s", booking.PaymentStatus)
	}
	if bookingRepo.Count() != 1 {
		t.Errorf("expected 1 stored booking, got %d", bookingRepo.Count())
	}
	if paymentRepo.Count() != 1 {
		t.Errorf("expected 1 payment record, got %d", paymentRepo.Count())
	}

	for _, n := range []string{"12A", "12B"} {
		seat := seatRepo.GetSeat("route-1", n)
		if seat.BookingID != booking.ID {
			t.Errorf("expected seat %s reserved by %s, got %q", n, booking.ID, seat.BookingID)
		}
	}
}

func TestBookingCreation_PixWithPassengerInfo(t *testing.T) {
	t.Parallel()

	bookingService, _, seatRepo, _, routeRepo := newBookingFixture()
	routeRepo.AddRoute(activeRoute("route-1"))
	seatRepo.AddSeats("route-1", "12A")

	booking, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:      "user-1",
		RouteID:     "route-1",
		SeatNumbers: []string{"12A"},
		Passengers: []domain.Passenger{
			{SeatNumber: "12A", Name: "Maria Silva", Document: "123.456.789-00"},
		},
		TotalPrice:    89.90,
		PaymentMethod: domain.PaymentMethodPix,
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if booking.PaymentMethod != domain.PaymentMethodPix {
		t.Errorf("expected pix, got %s", booking.PaymentMethod)
	}
	if booking.PaymentStatus != domain.BookingPaymentPending {
		t.Errorf("expected payment pending, got %s", booking.PaymentStatus)
	}

	seat := seatRepo.GetSeat("route-1", "12A")
	if seat.PassengerName != "Maria Silva" {
		t.Errorf("expected passenger name recorded, got %q", seat.PassengerName)
	}
	if seat.PassengerDocument != "123.456.789-00" {
		t.Errorf("expected passenger document recorded, got %q", seat.PassengerDocument)
	}

	// The seat is gone for any later attempt.
	_, err = bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:      "user-2",
		RouteID:     "route-1",
		SeatNumbers: []string{"12A"},
		TotalPrice:  89.90,
	})
	if !errors.Is(err, service.ErrSeatUnavailable) {
		t.Errorf("expected ErrSeatUnavailable on rebooking, got %v", err)
	}
}

func TestBookingCreation_InvalidInput_Fails(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		req     service.CreateBookingRequest
		wantErr error
	}{
		{
			name: "missing user",
			req: service.CreateBookingRequest{
				RouteID:     "route-1",
				SeatNumbers: []string{"12A"},
				TotalPrice:  100,
			},
			wantErr: service.ErrNotAuthenticated,
		},
		{
			name: "missing route",
			req: service.CreateBookingRequest{
				UserID:      "user-1",
				SeatNumbers: []string{"12A"},
				TotalPrice:  100,
			},
			wantErr: service.ErrInvalidRouteID,
		},
		{
			name: "no seats",
			req: service.CreateBookingRequest{
				UserID:     "user-1",
				RouteID:    "route-1",
				TotalPrice: 100,
			},
			wantErr: service.ErrInvalidSeatSelection,
		},
		{
			name: "duplicate seats",
			req: service.CreateBookingRequest{
				UserID:      "user-1",
				RouteID:     "route-1",
				SeatNumbers: []string{"12A", "12A"},
				TotalPrice:  100,
			},
			wantErr: service.ErrInvalidSeatSelection,
		},
		{
			name: "zero price",
			req: service.CreateBookingRequest{
				UserID:      "user-1",
				RouteID:     "route-1",
				SeatNumbers: []string{"12A"},
			},
			wantErr: service.ErrInvalidPrice,
		},
		{
			name: "unknown payment method",
			req: service.CreateBookingRequest{
				UserID:        "user-1",
				RouteID:       "route-1",
				SeatNumbers:   []string{"12A"},
				TotalPrice:    100,
				PaymentMethod: "boleto",
			},
			wantErr: service.ErrInvalidPaymentMethod,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			bookingService, bookingRepo, _, _, routeRepo := newBookingFixture()
			routeRepo.AddRoute(activeRoute("route-1"))

			_, err := bookingService.CreateBooking(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
			if bookingRepo.Count() != 0 {
				t.Error("expected no booking to be stored")
			}
		})
	}
}

func TestBookingCreation_CancelledRoute_Fails(t *testing.T) {
	t.Parallel()

	bookingService, _, seatRepo, _, routeRepo := newBookingFixture()
	route := activeRoute("route-1")
	route.Status = domain.RouteStatusCancelled
	routeRepo.AddRoute(route)
	seatRepo.AddSeats("route-1", "12A")

	_, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:      "user-1",
		RouteID:     "route-1",
		SeatNumbers: []string{"12A"},
		TotalPrice:  100,
	})
	if !errors.Is(err, service.ErrRouteNotBookable) {
		t.Errorf("expected ErrRouteNotBookable, got %v", err)
	}
}

func TestBookingCreation_OccupiedSeat_FailsWithoutWrites(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, seatRepo, paymentRepo, routeRepo := newBookingFixture()
	routeRepo.AddRoute(activeRoute("route-1"))
	seatRepo.AddSeats("route-1", "12A", "12B")

	// Occupy 12B through an earlier booking.
	if err := seatRepo.Reserve(context.Background(), "route-1", "other-booking", []domain.Passenger{{SeatNumber: "12B"}}); err != nil {
		t.Fatalf("setup reserve failed: %v", err)
	}
	seatRepo.ReserveCallCount = 0

	_, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:      "user-1",
		RouteID:     "route-1",
		SeatNumbers: []string{"12A", "12B"},
		TotalPrice:  241.00,
	})
	if !errors.Is(err, service.ErrSeatUnavailable) {
		t.Errorf("expected ErrSeatUnavailable, got %v", err)
	}

	// The availability check fails before any write happens.
	if bookingRepo.Count() != 0 {
		t.Error("expected no booking row")
	}
	if paymentRepo.Count() != 0 {
		t.Error("expected no payment row")
	}
	if atomic.LoadInt32(&seatRepo.ReserveCallCount) != 0 {
		t.Error("expected no reservation attempt")
	}
}

func TestBookingCreation_UnknownSeatNumber_Fails(t *testing.T) {
	t.Parallel()

	bookingService, _, seatRepo, _, routeRepo := newBookingFixture()
	routeRepo.AddRoute(activeRoute("route-1"))
	seatRepo.AddSeats("route-1", "12A")

	_, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:      "user-1",
		RouteID:     "route-1",
		SeatNumbers: []string{"99Z"},
		TotalPrice:  100,
	})
	if !errors.Is(err, service.ErrSeatUnavailable) {
		t.Errorf("expected ErrSeatUnavailable, got %v", err)
	}
}

// ──────────────────────────────────────────────
// 2. SAGA COMPENSATIONS
// ──────────────────────────────────────────────

func TestBookingCreation_BookingInsertFails_StopsEverything(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, seatRepo, paymentRepo, routeRepo := newBookingFixture()
	routeRepo.AddRoute(activeRoute("route-1"))
	seatRepo.AddSeats("route-1", "12A")
	bookingRepo.CreateError = errors.New("insert refused")

	_, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:      "user-1",
		RouteID:     "route-1",
		SeatNumbers: []string{"12A"},
		TotalPrice:  120.50,
	})
	if !errors.Is(err, service.ErrBookingCreateFailed) {
		t.Fatalf("expected ErrBookingCreateFailed, got %v", err)
	}

	// The flow stops before touching the ledger or the payments table.
	if atomic.LoadInt32(&seatRepo.ReserveCallCount) != 0 {
		t.Errorf("expected no reservation attempt, got %d", seatRepo.ReserveCallCount)
	}
	if paymentRepo.Count() != 0 {
		t.Error("expected no payment row")
	}
	if seat := seatRepo.GetSeat("route-1", "12A"); seat.BookingID != "" {
		t.Errorf("expected seat to stay free, held by %q", seat.BookingID)
	}
}

func TestBookingCreation_SeatReservationFails_DeletesBooking(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, seatRepo, paymentRepo, routeRepo := newBookingFixture()
	routeRepo.AddRoute(activeRoute("route-1"))
	seatRepo.AddSeats("route-1", "12A")
	seatRepo.ReserveError = errors.New("ledger write refused")

	_, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:      "user-1",
		RouteID:     "route-1",
		SeatNumbers: []string{"12A"},
		TotalPrice:  120.50,
	})
	if !errors.Is(err, service.ErrSeatReservationFailed) {
		t.Fatalf("expected ErrSeatReservationFailed, got %v", err)
	}

	if bookingRepo.Count() != 0 {
		t.Error("expected booking row to be compensated away")
	}
	if atomic.LoadInt32(&bookingRepo.DeleteCallCount) != 1 {
		t.Errorf("expected 1 compensating delete, got %d", bookingRepo.DeleteCallCount)
	}
	if paymentRepo.Count() != 0 {
		t.Error("expected no payment row")
	}
}

func TestBookingCreation_PaymentInsertFails_CompensatesSeatsAndBooking(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, seatRepo, paymentRepo, routeRepo := newBookingFixture()
	routeRepo.AddRoute(activeRoute("route-1"))
	seatRepo.AddSeats("route-1", "12A")
	paymentRepo.CreateError = errors.New("connection reset")

	_, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:      "user-1",
		RouteID:     "route-1",
		SeatNumbers: []string{"12A"},
		TotalPrice:  120.50,
	})
	if !errors.Is(err, service.ErrPaymentRecordFailed) {
		t.Fatalf("expected ErrPaymentRecordFailed, got %v", err)
	}

	if bookingRepo.Count() != 0 {
		t.Error("expected booking row to be compensated away")
	}
	if seat := seatRepo.GetSeat("route-1", "12A"); seat.BookingID != "" {
		t.Errorf("expected seat released, still held by %q", seat.BookingID)
	}
	if atomic.LoadInt32(&seatRepo.ReleaseCallCount) != 1 {
		t.Errorf("expected 1 seat release, got %d", seatRepo.ReleaseCallCount)
	}
}

func TestBookingCreation_MissingPaymentsRelation_Succeeds(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, seatRepo, paymentRepo, routeRepo := newBookingFixture()
	routeRepo.AddRoute(activeRoute("route-1"))
	seatRepo.AddSeats("route-1", "12A")
	paymentRepo.CreateError = repository.ErrRelationMissing

	booking, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:      "user-1",
		RouteID:     "route-1",
		SeatNumbers: []string{"12A"},
		TotalPrice:  120.50,
	})
	if err != nil {
		t.Fatalf("expected degraded success, got: %v", err)
	}

	if bookingRepo.GetBooking(booking.ID) == nil {
		t.Error("expected booking row to survive")
	}
	if seat := seatRepo.GetSeat("route-1", "12A"); seat.BookingID != booking.ID {
		t.Error("expected seat to stay reserved")
	}
	if paymentRepo.Count() != 0 {
		t.Error("expected no payment row in degraded mode")
	}
}

func TestBookingCreation_FailedCompensation_StillReturnsSagaError(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, seatRepo, _, routeRepo := newBookingFixture()
	routeRepo.AddRoute(activeRoute("route-1"))
	seatRepo.AddSeats("route-1", "12A")
	seatRepo.ReserveError = errors.New("ledger write refused")
	bookingRepo.DeleteError = errors.New("delete refused")

	_, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:      "user-1",
		RouteID:     "route-1",
		SeatNumbers: []string{"12A"},
		TotalPrice:  120.50,
	})
	if !errors.Is(err, service.ErrSeatReservationFailed) {
		t.Fatalf("expected ErrSeatReservationFailed, got %v", err)
	}

	// The orphaned booking row stays; the failure is only logged.
	if bookingRepo.Count() != 1 {
		t.Errorf("expected orphan booking to remain, got %d rows", bookingRepo.Count())
	}
}

// ──────────────────────────────────────────────
// 3. CONCURRENT ATTEMPTS ON THE SAME SEAT
// ──────────────────────────────────────────────

func TestBookingCreation_ConcurrentSameSeat_AtMostOneWins(t *testing.T) {
	t.Parallel()

	bookingService, _, seatRepo, _, routeRepo := newBookingFixture()
	routeRepo.AddRoute(activeRoute("route-1"))
	seatRepo.AddSeats("route-1", "12A")

	const attempts = 16
	var wg sync.WaitGroup
	var successes int32

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
				UserID:      "user-1",
				RouteID:     "route-1",
				SeatNumbers: []string{"12A"},
				TotalPrice:  120.50,
			})
			if err == nil {
				atomic.AddInt32(&successes, 1)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("expected exactly 1 winning booking, got %d", successes)
	}

	if seat := seatRepo.GetSeat("route-1", "12A"); seat.BookingID == "" {
		t.Error("expected the seat to end up reserved")
	}
}

func TestBookingCreation_SeatHoldContention_RejectsSecondAttempt(t *testing.T) {
	t.Parallel()

	routeRepo := NewMockRouteRepository()
	seatRepo := NewMockSeatRepository()
	bookingRepo := NewMockBookingRepository()
	paymentRepo := NewMockPaymentRepository()
	locks := NewMockSeatLockStore()
	availability := service.NewAvailabilityService(seatRepo)

	bookingService := service.NewBookingService(bookingRepo, seatRepo, paymentRepo, routeRepo, availability, locks, nil)

	routeRepo.AddRoute(activeRoute("route-1"))
	seatRepo.AddSeats("route-1", "12A")

	// Simulate another in-flight attempt holding the seat.
	if held, _ := locks.AcquireSeats(context.Background(), "route-1", []string{"12A"}, time.Minute); !held {
		t.Fatal("setup hold failed")
	}

	_, err := bookingService.CreateBooking(context.Background(), service.CreateBookingRequest{
		UserID:      "user-1",
		RouteID:     "route-1",
		SeatNumbers: []string{"12A"},
		TotalPrice:  120.50,
	})
	if !errors.Is(err, service.ErrSeatUnavailable) {
		t.Errorf("expected ErrSeatUnavailable, got %v", err)
	}
	if atomic.LoadInt32(&bookingRepo.CreateCallCount) != 0 {
		t.Error("expected no booking insert while seat is held")
	}
}
