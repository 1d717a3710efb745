package tests

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/repository"
	"github.com/tzinegf/AG-TUR/internal/service"
)

// ──────────────────────────────────────────────
// BOOKING CANCELLATION AND ACCESS CONTROL
// ──────────────────────────────────────────────

func seedBooking(t *testing.T, bookingRepo *MockBookingRepository, seatRepo *MockSeatRepository) *domain.Booking {
	t.Helper()

	seatRepo.AddSeats("route-1", "12A", "12B")
	booking := &domain.Booking{
		ID:            "booking-1",
		UserID:        "user-1",
		RouteID:       "route-1",
		SeatNumbers:   []string{"12A", "12B"},
		TotalPrice:    241.00,
		PaymentMethod: domain.PaymentMethodCredit,
		PaymentStatus: domain.BookingPaymentPending,
		Status:        domain.BookingStatusPending,
		CreatedAt:     time.Now(),
	}
	bookingRepo.AddBooking(booking)

	if err := seatRepo.Reserve(context.Background(), "route-1", booking.ID, []domain.Passenger{
		{SeatNumber: "12A"}, {SeatNumber: "12B"},
	}); err != nil {
		t.Fatalf("setup reserve failed: %v", err)
	}
	return booking
}

func TestCancelBooking_Owner_ReleasesSeats(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, seatRepo, _, _ := newBookingFixture()
	booking := seedBooking(t, bookingRepo, seatRepo)

	cancelled, err := bookingService.CancelBooking(context.Background(), booking.ID, "user-1", false)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cancelled.Status != domain.BookingStatusCancelled {
		t.Errorf("expected cancelled status, got %s", cancelled.Status)
	}
	for _, n := range []string{"12A", "12B"} {
		if seat := seatRepo.GetSeat("route-1", n); seat.BookingID != "" {
			t.Errorf("expected seat %s released, held by %q", n, seat.BookingID)
		}
	}
}

func TestCancelBooking_NotOwner_Forbidden(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, seatRepo, _, _ := newBookingFixture()
	booking := seedBooking(t, bookingRepo, seatRepo)

	_, err := bookingService.CancelBooking(context.Background(), booking.ID, "user-2", false)
	if !errors.Is(err, service.ErrNotBookingOwner) {
		t.Errorf("expected ErrNotBookingOwner, got %v", err)
	}

	if seat := seatRepo.GetSeat("route-1", "12A"); seat.BookingID != booking.ID {
		t.Error("expected seats to stay reserved")
	}
}

func TestCancelBooking_Staff_CanCancelAnyBooking(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, seatRepo, _, _ := newBookingFixture()
	booking := seedBooking(t, bookingRepo, seatRepo)

	cancelled, err := bookingService.CancelBooking(context.Background(), booking.ID, "admin-1", true)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if cancelled.Status != domain.BookingStatusCancelled {
		t.Errorf("expected cancelled status, got %s", cancelled.Status)
	}
}

func TestCancelBooking_AlreadyCancelled_Fails(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, seatRepo, _, _ := newBookingFixture()
	booking := seedBooking(t, bookingRepo, seatRepo)
	booking.Status = domain.BookingStatusCancelled

	_, err := bookingService.CancelBooking(context.Background(), booking.ID, "user-1", false)
	if !errors.Is(err, service.ErrBookingAlreadyCancelled) {
		t.Errorf("expected ErrBookingAlreadyCancelled, got %v", err)
	}
	if atomic.LoadInt32(&seatRepo.ReleaseCallCount) != 0 {
		t.Error("expected no seat release for an already cancelled booking")
	}
}

func TestCancelBooking_Unknown_NotFound(t *testing.T) {
	t.Parallel()

	bookingService, _, _, _, _ := newBookingFixture()

	_, err := bookingService.CancelBooking(context.Background(), "missing", "user-1", false)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCancelBooking_ReleaseFails_StatusUnchanged(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, seatRepo, _, _ := newBookingFixture()
	booking := seedBooking(t, bookingRepo, seatRepo)
	seatRepo.ReleaseError = errors.New("ledger unavailable")

	_, err := bookingService.CancelBooking(context.Background(), booking.ID, "user-1", false)
	if err == nil {
		t.Fatal("expected an error")
	}

	if stored := bookingRepo.GetBooking(booking.ID); stored.Status != domain.BookingStatusPending {
		t.Errorf("expected status to stay pending, got %s", stored.Status)
	}
}

func TestCancelBooking_StatusUpdateFails_SeatsStayReleased(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, seatRepo, _, _ := newBookingFixture()
	booking := seedBooking(t, bookingRepo, seatRepo)
	bookingRepo.UpdateStatusError = errors.New("write refused")

	_, err := bookingService.CancelBooking(context.Background(), booking.ID, "user-1", false)
	if err == nil {
		t.Fatal("expected an error")
	}

	// No compensation re-reserves the seats.
	if seat := seatRepo.GetSeat("route-1", "12A"); seat.BookingID != "" {
		t.Error("expected seats to stay released after failed status update")
	}
}

func TestGetBooking_OwnershipEnforcement(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, seatRepo, _, _ := newBookingFixture()
	booking := seedBooking(t, bookingRepo, seatRepo)

	if _, err := bookingService.GetBooking(context.Background(), booking.ID, "user-1", false); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
	if _, err := bookingService.GetBooking(context.Background(), booking.ID, "user-2", false); !errors.Is(err, service.ErrNotBookingOwner) {
		t.Errorf("expected ErrNotBookingOwner, got %v", err)
	}
	if _, err := bookingService.GetBooking(context.Background(), booking.ID, "user-2", true); err != nil {
		t.Errorf("staff read failed: %v", err)
	}
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, seatRepo, _, _ := newBookingFixture()
	booking := seedBooking(t, bookingRepo, seatRepo)

	if _, err := bookingService.UpdateStatus(context.Background(), booking.ID, "shipped"); err == nil {
		t.Error("expected an error for unknown status")
	}

	updated, err := bookingService.UpdateStatus(context.Background(), booking.ID, domain.BookingStatusConfirmed)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if updated.Status != domain.BookingStatusConfirmed {
		t.Errorf("expected confirmed, got %s", updated.Status)
	}
}

func TestStats_CountsPaidRevenueOnly(t *testing.T) {
	t.Parallel()

	bookingService, bookingRepo, _, _, _ := newBookingFixture()
	bookingRepo.AddBooking(&domain.Booking{ID: "b1", UserID: "u1", TotalPrice: 100, PaymentStatus: domain.BookingPaymentPaid})
	bookingRepo.AddBooking(&domain.Booking{ID: "b2", UserID: "u1", TotalPrice: 50, PaymentStatus: domain.BookingPaymentPending})

	stats, err := bookingService.Stats(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if stats.TotalBookings != 2 {
		t.Errorf("expected 2 bookings, got %d", stats.TotalBookings)
	}
	if stats.CompletedBookings != 1 {
		t.Errorf("expected 1 completed, got %d", stats.CompletedBookings)
	}
	if stats.TotalRevenue != 100 {
		t.Errorf("expected revenue 100, got %.2f", stats.TotalRevenue)
	}
}
