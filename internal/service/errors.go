package service

import "errors"

var (
	// ErrSeatUnavailable is returned when any requested seat is already
	// reserved for the route. No writes have happened.
	ErrSeatUnavailable = errors.New("seat unavailable")

	// ErrBookingCreateFailed is returned when the booking row insert fails.
	ErrBookingCreateFailed = errors.New("booking create failed")

	// ErrSeatReservationFailed is returned when the seat ledger write fails
	// after the booking row was created. The booking row is deleted.
	ErrSeatReservationFailed = errors.New("seat reservation failed")

	// ErrPaymentRecordFailed is returned when the payment insert fails for a
	// reason other than a missing payments relation. Seats are released and
	// the booking row is deleted.
	ErrPaymentRecordFailed = errors.New("payment record failed")

	// ErrNotAuthenticated is returned when no user identity is present.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidRouteID is returned when the route ID is empty.
	ErrInvalidRouteID = errors.New("invalid route id")

	// ErrInvalidBookingID is returned when the booking ID is empty.
	ErrInvalidBookingID = errors.New("invalid booking id")

	// ErrInvalidSeatSelection is returned when no seats were requested or a
	// seat number is repeated.
	ErrInvalidSeatSelection = errors.New("invalid seat selection")

	// ErrInvalidPrice is returned when the total price is not positive.
	ErrInvalidPrice = errors.New("invalid total price")

	// ErrInvalidPaymentMethod is returned when the payment method is unknown.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrRouteNotBookable is returned when the route is cancelled.
	ErrRouteNotBookable = errors.New("route is not bookable")

	// ErrBookingAlreadyCancelled is returned when cancelling twice.
	ErrBookingAlreadyCancelled = errors.New("booking already cancelled")

	// ErrNotBookingOwner is returned when a user addresses another user's
	// booking.
	ErrNotBookingOwner = errors.New("booking belongs to another user")

	// ErrTicketNotPaid is returned when requesting a boarding ticket for an
	// unpaid booking.
	ErrTicketNotPaid = errors.New("booking is not paid")

	// ErrInvalidRouteData is returned when admin route input fails validation.
	ErrInvalidRouteData = errors.New("invalid route data")

	// ErrInvalidBusData is returned when admin fleet input fails validation.
	ErrInvalidBusData = errors.New("invalid bus data")

	// ErrInvalidAmount is returned when a payment-intent amount is not positive.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidCurrency is returned when a payment-intent currency is missing.
	ErrInvalidCurrency = errors.New("invalid currency")
)
