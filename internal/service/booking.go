package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/redis"
	"github.com/tzinegf/AG-TUR/internal/repository"
)

// seatHoldTTL bounds how long a booking attempt may hold seats in Redis
// before the holds expire on their own.
const seatHoldTTL = 30 * time.Second

// BookingService orchestrates booking creation and cancellation. Creation is
// a best-effort saga over three remote writes (booking row, seat ledger,
// payment row) with synchronous single-shot compensations: there is no
// durable intermediate state, and a failed compensation leaves an orphan
// that is only logged.
type BookingService struct {
	bookingRepo  repository.BookingRepository
	seatRepo     repository.SeatRepository
	paymentRepo  repository.PaymentRepository
	routeRepo    repository.RouteRepository
	availability *AvailabilityService
	seatLocks    redis.SeatLockStoreInterface
	notifier     *NotificationService
}

// NewBookingService creates a new BookingService. seatLocks may be nil, in
// which case booking attempts race on the ledger's conditional write alone.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	seatRepo repository.SeatRepository,
	paymentRepo repository.PaymentRepository,
	routeRepo repository.RouteRepository,
	availability *AvailabilityService,
	seatLocks redis.SeatLockStoreInterface,
	notifier *NotificationService,
) *BookingService {
	return &BookingService{
		bookingRepo:  bookingRepo,
		seatRepo:     seatRepo,
		paymentRepo:  paymentRepo,
		routeRepo:    routeRepo,
		availability: availability,
		seatLocks:    seatLocks,
		notifier:     notifier,
	}
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	UserID        string
	RouteID       string
	SeatNumbers   []string
	Passengers    []domain.Passenger // Optional per-seat passenger info
	TotalPrice    float64
	PaymentMethod domain.PaymentMethod
}

// CreateBooking runs the booking saga:
//  1. availability check (no writes on failure),
//  2. seat resolution,
//  3. booking row insert,
//  4. seat reservation (compensate: delete booking),
//  5. payment row insert (missing payments relation degrades to success;
//     any other failure compensates seats and booking).
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	route, err := s.routeRepo.GetByID(ctx, req.RouteID)
	if err != nil {
		return nil, err
	}
	if route.Status != domain.RouteStatusActive {
		return nil, ErrRouteNotBookable
	}

	// Best-effort hold to narrow the check/reserve race between concurrent
	// attempts on the same seats. The ledger write below stays conditional
	// regardless.
	if s.seatLocks != nil {
		held, err := s.seatLocks.AcquireSeats(ctx, req.RouteID, req.SeatNumbers, seatHoldTTL)
		if err != nil {
			return nil, err
		}
		if !held {
			return nil, ErrSeatUnavailable
		}
		defer func() {
			_ = s.seatLocks.ReleaseSeats(ctx, req.RouteID, req.SeatNumbers)
		}()
	}

	// Step 1: availability check. Fails with no writes performed.
	available, seats, err := s.availability.CheckSeats(ctx, req.RouteID, req.SeatNumbers)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, ErrSeatUnavailable
	}

	// Step 2: resolve seat numbers and attach passenger metadata.
	passengers := resolvePassengers(seats, req.Passengers)

	// Step 3: insert the booking row.
	now := time.Now()
	booking := &domain.Booking{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		RouteID:       req.RouteID,
		SeatNumbers:   req.SeatNumbers,
		TotalPrice:    req.TotalPrice,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: domain.BookingPaymentPending,
		Status:        domain.BookingStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBookingCreateFailed, err)
	}

	// Step 4: reserve the seats. Compensate by deleting the booking row.
	if err := s.seatRepo.Reserve(ctx, req.RouteID, booking.ID, passengers); err != nil {
		if delErr := s.bookingRepo.Delete(ctx, booking.ID); delErr != nil {
			log.Printf("booking %s: failed to delete booking after seat reservation failure: %v", booking.ID, delErr)
		}
		return nil, fmt.Errorf("%w: %v", ErrSeatReservationFailed, err)
	}

	// Step 5: insert the payment record.
	payment := &domain.Payment{
		ID:        uuid.New().String(),
		BookingID: booking.ID,
		Amount:    req.TotalPrice,
		Method:    req.PaymentMethod,
		Status:    domain.PaymentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrRelationMissing) {
			// Deployment without a payments table: proceed without a record.
			log.Printf("booking %s: payments relation missing, continuing without payment record", booking.ID)
		} else {
			if relErr := s.seatRepo.Release(ctx, booking.ID); relErr != nil {
				log.Printf("booking %s: failed to release seats after payment failure: %v", booking.ID, relErr)
			}
			if delErr := s.bookingRepo.Delete(ctx, booking.ID); delErr != nil {
				log.Printf("booking %s: failed to delete booking after payment failure: %v", booking.ID, delErr)
			}
			return nil, fmt.Errorf("%w: %v", ErrPaymentRecordFailed, err)
		}
	}

	if s.notifier != nil {
		_ = s.notifier.NotifyBookingCreated(ctx, booking, route)
	}

	return booking, nil
}

// validateCreateRequest validates the create booking request.
func (s *BookingService) validateCreateRequest(req CreateBookingRequest) error {
	if req.UserID == "" {
		return ErrNotAuthenticated
	}
	if req.RouteID == "" {
		return ErrInvalidRouteID
	}
	if len(req.SeatNumbers) == 0 {
		return ErrInvalidSeatSelection
	}

	seen := make(map[string]struct{}, len(req.SeatNumbers))
	for _, seat := range req.SeatNumbers {
		if seat == "" {
			return ErrInvalidSeatSelection
		}
		if _, dup := seen[seat]; dup {
			return ErrInvalidSeatSelection
		}
		seen[seat] = struct{}{}
	}

	if req.TotalPrice <= 0 {
		return ErrInvalidPrice
	}

	if _, err := ValidatePaymentMethod(string(req.PaymentMethod)); err != nil {
		return err
	}

	return nil
}

// resolvePassengers pairs the resolved ledger seats with the caller-supplied
// passenger info, keyed by seat number. Seats without info get empty metadata.
func resolvePassengers(seats []*domain.Seat, supplied []domain.Passenger) []domain.Passenger {
	bySeat := make(map[string]domain.Passenger, len(supplied))
	for _, p := range supplied {
		bySeat[p.SeatNumber] = p
	}

	passengers := make([]domain.Passenger, 0, len(seats))
	for _, seat := range seats {
		p, ok := bySeat[seat.SeatNumber]
		if !ok {
			p = domain.Passenger{SeatNumber: seat.SeatNumber}
		}
		passengers = append(passengers, p)
	}
	return passengers
}

// GetBooking retrieves a booking, enforcing ownership for non-staff callers.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, userID string, staff bool) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !staff && booking.UserID != userID {
		return nil, ErrNotBookingOwner
	}

	return booking, nil
}

// GetUserBookings retrieves the caller's bookings, newest first.
func (s *BookingService) GetUserBookings(ctx context.Context, userID string) ([]*domain.Booking, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	return s.bookingRepo.GetByUser(ctx, userID)
}

// CancelBooking releases the booking's seat reservations and then marks the
// booking cancelled. If the status update fails after the release, the
// seats stay released and the error is surfaced; there is no compensation.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID string, staff bool) (*domain.Booking, error) {
	booking, err := s.GetBooking(ctx, bookingID, userID, staff)
	if err != nil {
		return nil, err
	}

	if booking.Status == domain.BookingStatusCancelled {
		return nil, ErrBookingAlreadyCancelled
	}

	if err := s.seatRepo.Release(ctx, booking.ID); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, booking.ID, domain.BookingStatusCancelled); err != nil {
		log.Printf("booking %s: seats released but status update failed: %v", booking.ID, err)
		return nil, err
	}

	booking.Status = domain.BookingStatusCancelled
	booking.UpdatedAt = time.Now()

	if s.notifier != nil {
		_ = s.notifier.NotifyBookingCancelled(ctx, booking)
	}

	return booking, nil
}

// UpdateStatus sets a booking's lifecycle status. Admin surface only.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID string, status domain.BookingStatus) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	switch status {
	case domain.BookingStatusPending, domain.BookingStatusConfirmed, domain.BookingStatusCancelled:
	default:
		return nil, ErrInvalidBookingID
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, err
	}

	return s.bookingRepo.GetByID(ctx, bookingID)
}

// Stats aggregates booking figures for the admin dashboard.
func (s *BookingService) Stats(ctx context.Context) (*domain.BookingStats, error) {
	return s.bookingRepo.Stats(ctx)
}

// AllBookings retrieves every booking for the admin surface.
func (s *BookingService) AllBookings(ctx context.Context) ([]*domain.Booking, error) {
	return s.bookingRepo.GetAll(ctx)
}

// ValidatePaymentMethod validates a payment method string.
func ValidatePaymentMethod(method string) (domain.PaymentMethod, error) {
	switch domain.PaymentMethod(method) {
	case domain.PaymentMethodCredit, domain.PaymentMethodDebit, domain.PaymentMethodPix:
		return domain.PaymentMethod(method), nil
	case "":
		return domain.PaymentMethodCredit, nil // Default to credit card
	default:
		return "", ErrInvalidPaymentMethod
	}
}
