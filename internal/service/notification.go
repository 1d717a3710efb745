package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tzinegf/AG-TUR/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingCreated   NotificationType = "BOOKING_CREATED"
	NotificationBookingCancelled NotificationType = "BOOKING_CANCELLED"
	NotificationPaymentConfirmed NotificationType = "PAYMENT_CONFIRMED"
	NotificationPaymentFailed    NotificationType = "PAYMENT_FAILED"
	NotificationPaymentRefunded  NotificationType = "PAYMENT_REFUNDED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// A production deployment would plug in push (FCM/APNS), email and SMS
	// clients here; delivery is currently log-only.
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyBookingCreated notifies the passenger that a booking was created.
func (s *NotificationService) NotifyBookingCreated(ctx context.Context, booking *domain.Booking, route *domain.Route) error {
	return s.send(ctx, Notification{
		Type:        NotificationBookingCreated,
		RecipientID: booking.UserID,
		Title:       "Booking created",
		Message:     fmt.Sprintf("Your booking %s → %s is awaiting payment (R$ %.2f)", route.Origin, route.Destination, booking.TotalPrice),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"route_id":   booking.RouteID,
			"seats":      booking.SeatNumbers,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyBookingCancelled notifies the passenger about a cancellation.
func (s *NotificationService) NotifyBookingCancelled(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:        NotificationBookingCancelled,
		RecipientID: booking.UserID,
		Title:       "Booking cancelled",
		Message:     "Your booking has been cancelled and its seats were released.",
		Data: map[string]interface{}{
			"booking_id": booking.ID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentConfirmed notifies the passenger that payment went through.
func (s *NotificationService) NotifyPaymentConfirmed(ctx context.Context, booking *domain.Booking, amount float64) error {
	return s.send(ctx, Notification{
		Type:        NotificationPaymentConfirmed,
		RecipientID: booking.UserID,
		Title:       "Payment confirmed",
		Message:     fmt.Sprintf("Payment of R$ %.2f confirmed. Your ticket is ready.", amount),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"amount":     amount,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyPaymentFailed notifies the passenger of a failed payment.
func (s *NotificationService) NotifyPaymentFailed(ctx context.Context, booking *domain.Booking, amount float64) error {
	return s.send(ctx, Notification{
		Type:        NotificationPaymentFailed,
		RecipientID: booking.UserID,
		Title:       "Payment failed",
		Message:     fmt.Sprintf("Payment of R$ %.2f failed. Please try again.", amount),
		Data: map[string]interface{}{
			"booking_id": booking.ID,
			"amount":     amount,
		},
		CreatedAt: time.Now(),
	})
}

// send delivers a notification (log-only implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)
	return nil
}
