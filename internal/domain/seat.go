package domain

// Seat represents one seat in a route's bus configuration.
// A seat is free when BookingID is empty and reserved otherwise.
type Seat struct {
	ID                string
	RouteID           string
	SeatNumber        string
	BookingID         string
	PassengerName     string
	PassengerDocument string
}

// Reserved reports whether the seat is occupied by a booking.
func (s *Seat) Reserved() bool {
	return s.BookingID != ""
}

// Passenger carries the per-seat passenger metadata supplied at booking time.
type Passenger struct {
	SeatNumber string
	Name       string
	Document   string
}
