package domain

import "time"

// BookingStatus represents the lifecycle status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// BookingPaymentStatus represents the payment state carried on a booking.
type BookingPaymentStatus string

const (
	BookingPaymentPending  BookingPaymentStatus = "pending"
	BookingPaymentPaid     BookingPaymentStatus = "paid"
	BookingPaymentRefunded BookingPaymentStatus = "refunded"
)

// PaymentMethod represents how a booking is paid.
type PaymentMethod string

const (
	PaymentMethodCredit PaymentMethod = "credit"
	PaymentMethodDebit  PaymentMethod = "debit"
	PaymentMethodPix    PaymentMethod = "pix"
)

// Booking represents a passenger's reservation of one or more seats on a route.
type Booking struct {
	ID            string
	UserID        string
	RouteID       string
	SeatNumbers   []string
	TotalPrice    float64
	PaymentMethod PaymentMethod
	PaymentStatus BookingPaymentStatus
	Status        BookingStatus
	QRCode        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// BookingStats aggregates booking figures for the admin dashboard.
type BookingStats struct {
	TotalBookings     int
	CompletedBookings int
	TotalRevenue      float64
}
