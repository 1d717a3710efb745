package tests

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v82"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/repository"
	"github.com/tzinegf/AG-TUR/internal/service"
)

// ──────────────────────────────────────────────
// PAYMENT PROVIDER WEBHOOK EVENTS
// ──────────────────────────────────────────────

func paymentIntentEvent(t *testing.T, eventType, intentID, bookingID string, amount int64) stripe.Event {
	t.Helper()

	payload := map[string]any{
		"id":                   intentID,
		"amount":               amount,
		"amount_received":      amount,
		"payment_method_types": []string{"card"},
		"metadata":             map[string]string{"booking_id": bookingID},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal event payload: %v", err)
	}

	return stripe.Event{
		ID:   "evt_" + intentID,
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{Raw: raw},
	}
}

func newWebhookFixture() (*service.WebhookService, *MockBookingRepository, *MockPaymentRepository) {
	bookingRepo := NewMockBookingRepository()
	paymentRepo := NewMockPaymentRepository()
	webhookService := service.NewWebhookService(paymentRepo, bookingRepo, nil)
	return webhookService, bookingRepo, paymentRepo
}

func TestWebhook_PaymentSucceeded_MarksBookingPaidWithTicketCode(t *testing.T) {
	t.Parallel()

	webhookService, bookingRepo, paymentRepo := newWebhookFixture()
	bookingRepo.AddBooking(&domain.Booking{
		ID:            "booking-1",
		UserID:        "user-1",
		TotalPrice:    120.50,
		PaymentStatus: domain.BookingPaymentPending,
		Status:        domain.BookingStatusPending,
		CreatedAt:     time.Now(),
	})

	event := paymentIntentEvent(t, "payment_intent.succeeded", "pi_123", "booking-1", 12050)
	if err := webhookService.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	booking := bookingRepo.GetBooking("booking-1")
	if booking.PaymentStatus != domain.BookingPaymentPaid {
		t.Errorf("expected paid, got %s", booking.PaymentStatus)
	}
	if !strings.HasPrefix(booking.QRCode, "AG-TUR-booking-1-") {
		t.Errorf("expected ticket code for booking-1, got %q", booking.QRCode)
	}

	payment := paymentRepo.GetByTransaction("pi_123")
	if payment == nil {
		t.Fatal("expected payment record for pi_123")
	}
	if payment.Status != domain.PaymentStatusCompleted {
		t.Errorf("expected completed payment, got %s", payment.Status)
	}
	if payment.Amount != 120.50 {
		t.Errorf("expected amount 120.50, got %.2f", payment.Amount)
	}
}

func TestWebhook_PaymentFailed_BookingStaysPending(t *testing.T) {
	t.Parallel()

	webhookService, bookingRepo, paymentRepo := newWebhookFixture()
	bookingRepo.AddBooking(&domain.Booking{
		ID:            "booking-1",
		UserID:        "user-1",
		PaymentStatus: domain.BookingPaymentPending,
	})

	event := paymentIntentEvent(t, "payment_intent.payment_failed", "pi_456", "booking-1", 12050)
	if err := webhookService.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	booking := bookingRepo.GetBooking("booking-1")
	if booking.PaymentStatus != domain.BookingPaymentPending {
		t.Errorf("expected pending, got %s", booking.PaymentStatus)
	}
	if booking.QRCode != "" {
		t.Error("expected no ticket code on failure")
	}

	payment := paymentRepo.GetByTransaction("pi_456")
	if payment == nil || payment.Status != domain.PaymentStatusFailed {
		t.Error("expected failed payment record")
	}
}

func TestWebhook_ChargeRefunded_MarksBothRefunded(t *testing.T) {
	t.Parallel()

	webhookService, bookingRepo, paymentRepo := newWebhookFixture()
	bookingRepo.AddBooking(&domain.Booking{
		ID:            "booking-1",
		UserID:        "user-1",
		PaymentStatus: domain.BookingPaymentPaid,
	})

	raw, err := json.Marshal(map[string]any{
		"id":              "ch_789",
		"amount_refunded": 12050,
		"payment_intent":  map[string]any{"id": "pi_123"},
		"metadata":        map[string]string{"booking_id": "booking-1"},
	})
	if err != nil {
		t.Fatalf("marshal event payload: %v", err)
	}

	event := stripe.Event{
		ID:   "evt_refund",
		Type: "charge.refunded",
		Data: &stripe.EventData{Raw: raw},
	}
	if err := webhookService.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if booking := bookingRepo.GetBooking("booking-1"); booking.PaymentStatus != domain.BookingPaymentRefunded {
		t.Errorf("expected refunded booking, got %s", booking.PaymentStatus)
	}

	// The refund is keyed by the originating payment intent.
	payment := paymentRepo.GetByTransaction("pi_123")
	if payment == nil || payment.Status != domain.PaymentStatusRefunded {
		t.Error("expected refunded payment record keyed by pi_123")
	}
}

func TestWebhook_UnknownEventType_Ignored(t *testing.T) {
	t.Parallel()

	webhookService, _, paymentRepo := newWebhookFixture()

	event := stripe.Event{ID: "evt_x", Type: "customer.created", Data: &stripe.EventData{Raw: []byte(`{}`)}}
	if err := webhookService.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if paymentRepo.Count() != 0 {
		t.Error("expected no payment writes for ignored event")
	}
}

func TestWebhook_MissingBookingMetadata_RecordsPaymentOnly(t *testing.T) {
	t.Parallel()

	webhookService, bookingRepo, paymentRepo := newWebhookFixture()

	event := paymentIntentEvent(t, "payment_intent.succeeded", "pi_orphan", "", 5000)
	if err := webhookService.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if paymentRepo.GetByTransaction("pi_orphan") == nil {
		t.Error("expected payment record despite missing booking metadata")
	}
	if bookingRepo.Count() != 0 {
		t.Error("expected no booking writes")
	}
}

func TestWebhook_UnknownBooking_NoError(t *testing.T) {
	t.Parallel()

	webhookService, _, _ := newWebhookFixture()

	event := paymentIntentEvent(t, "payment_intent.succeeded", "pi_123", "missing-booking", 5000)
	if err := webhookService.ProcessEvent(context.Background(), event); err != nil {
		t.Errorf("expected unknown booking to be tolerated, got: %v", err)
	}
}

func TestWebhook_MissingPaymentsRelation_Tolerated(t *testing.T) {
	t.Parallel()

	webhookService, bookingRepo, paymentRepo := newWebhookFixture()
	paymentRepo.UpsertError = repository.ErrRelationMissing
	bookingRepo.AddBooking(&domain.Booking{
		ID:            "booking-1",
		UserID:        "user-1",
		PaymentStatus: domain.BookingPaymentPending,
	})

	event := paymentIntentEvent(t, "payment_intent.succeeded", "pi_123", "booking-1", 12050)
	if err := webhookService.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected degraded success, got: %v", err)
	}

	if booking := bookingRepo.GetBooking("booking-1"); booking.PaymentStatus != domain.BookingPaymentPaid {
		t.Error("expected booking marked paid even without a payments table")
	}
}

func TestWebhook_RepeatedDelivery_SinglePaymentRow(t *testing.T) {
	t.Parallel()

	webhookService, bookingRepo, paymentRepo := newWebhookFixture()
	bookingRepo.AddBooking(&domain.Booking{
		ID:            "booking-1",
		UserID:        "user-1",
		PaymentStatus: domain.BookingPaymentPending,
	})

	event := paymentIntentEvent(t, "payment_intent.succeeded", "pi_123", "booking-1", 12050)
	for i := 0; i < 3; i++ {
		if err := webhookService.ProcessEvent(context.Background(), event); err != nil {
			t.Fatalf("delivery %d failed: %v", i, err)
		}
	}

	if paymentRepo.Count() != 1 {
		t.Errorf("expected a single payment row after redelivery, got %d", paymentRepo.Count())
	}
}
