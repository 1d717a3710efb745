package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/repository"
)

// WebhookService applies payment-provider events to the payments and
// bookings tables. Signature verification happens at the HTTP boundary;
// this service receives already-verified events.
type WebhookService struct {
	paymentRepo repository.PaymentRepository
	bookingRepo repository.BookingRepository
	notifier    *NotificationService
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(paymentRepo repository.PaymentRepository, bookingRepo repository.BookingRepository, notifier *NotificationService) *WebhookService {
	return &WebhookService{
		paymentRepo: paymentRepo,
		bookingRepo: bookingRepo,
		notifier:    notifier,
	}
}

// ProcessEvent dispatches a verified provider event. Unknown event types are
// ignored.
func (s *WebhookService) ProcessEvent(ctx context.Context, event stripe.Event) error {
	switch event.Type {
	case "payment_intent.succeeded":
		return s.handlePaymentIntent(ctx, event, true)
	case "payment_intent.payment_failed":
		return s.handlePaymentIntent(ctx, event, false)
	case "charge.refunded":
		return s.handleChargeRefunded(ctx, event)
	default:
		return nil
	}
}

func (s *WebhookService) handlePaymentIntent(ctx context.Context, event stripe.Event, succeeded bool) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return fmt.Errorf("unmarshal payment intent: %w", err)
	}

	bookingID := pi.Metadata["booking_id"]

	amount := pi.Amount
	status := domain.PaymentStatusFailed
	if succeeded {
		status = domain.PaymentStatusCompleted
		if pi.AmountReceived > 0 {
			amount = pi.AmountReceived
		}
	}

	method := "card"
	if len(pi.PaymentMethodTypes) > 0 {
		method = pi.PaymentMethodTypes[0]
	}

	if err := s.upsertPayment(ctx, pi.ID, bookingID, float64(amount)/100, method, status); err != nil {
		return err
	}

	if bookingID == "" {
		return nil
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("webhook: event %s references unknown booking %s", event.ID, bookingID)
			return nil
		}
		return err
	}

	if succeeded {
		qrCode := issueTicketCode(bookingID)
		if err := s.bookingRepo.UpdatePaymentStatus(ctx, bookingID, domain.BookingPaymentPaid, qrCode); err != nil {
			return err
		}
		if s.notifier != nil {
			_ = s.notifier.NotifyPaymentConfirmed(ctx, booking, float64(amount)/100)
		}
		return nil
	}

	// A failed intent leaves the booking awaiting another payment attempt.
	if err := s.bookingRepo.UpdatePaymentStatus(ctx, bookingID, domain.BookingPaymentPending, ""); err != nil {
		return err
	}
	if s.notifier != nil {
		_ = s.notifier.NotifyPaymentFailed(ctx, booking, float64(amount)/100)
	}
	return nil
}

func (s *WebhookService) handleChargeRefunded(ctx context.Context, event stripe.Event) error {
	var charge stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &charge); err != nil {
		return fmt.Errorf("unmarshal charge: %w", err)
	}

	transactionID := charge.ID
	if charge.PaymentIntent != nil && charge.PaymentIntent.ID != "" {
		transactionID = charge.PaymentIntent.ID
	}

	method := "card"
	if charge.PaymentMethodDetails != nil && charge.PaymentMethodDetails.Type != "" {
		method = string(charge.PaymentMethodDetails.Type)
	}

	bookingID := charge.Metadata["booking_id"]

	if err := s.upsertPayment(ctx, transactionID, bookingID, float64(charge.AmountRefunded)/100, method, domain.PaymentStatusRefunded); err != nil {
		return err
	}

	if bookingID == "" {
		return nil
	}

	if err := s.bookingRepo.UpdatePaymentStatus(ctx, bookingID, domain.BookingPaymentRefunded, ""); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("webhook: event %s references unknown booking %s", event.ID, bookingID)
			return nil
		}
		return err
	}

	return nil
}

func (s *WebhookService) upsertPayment(ctx context.Context, transactionID, bookingID string, amount float64, method string, status domain.PaymentStatus) error {
	now := time.Now()
	err := s.paymentRepo.UpsertByTransaction(ctx, &domain.Payment{
		ID:            uuid.New().String(),
		BookingID:     bookingID,
		Amount:        amount,
		Method:        domain.PaymentMethod(method),
		Status:        status,
		TransactionID: transactionID,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrRelationMissing) {
			log.Printf("webhook: payments relation missing, skipping payment upsert for %s", transactionID)
			return nil
		}
		return err
	}
	return nil
}

// issueTicketCode builds the QR payload embedded in a paid booking's ticket.
func issueTicketCode(bookingID string) string {
	return fmt.Sprintf("AG-TUR-%s-%d", bookingID, time.Now().UnixMilli())
}
