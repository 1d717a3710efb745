package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/repository"
)

// TicketService renders boarding tickets for paid bookings.
type TicketService struct {
	routeRepo repository.RouteRepository
	seatRepo  repository.SeatRepository
}

// NewTicketService creates a new TicketService.
func NewTicketService(routeRepo repository.RouteRepository, seatRepo repository.SeatRepository) *TicketService {
	return &TicketService{
		routeRepo: routeRepo,
		seatRepo:  seatRepo,
	}
}

// RenderTicket produces the PDF boarding ticket for a paid booking.
func (s *TicketService) RenderTicket(ctx context.Context, booking *domain.Booking) ([]byte, error) {
	if booking == nil {
		return nil, ErrInvalidBookingID
	}
	if booking.PaymentStatus != domain.BookingPaymentPaid {
		return nil, ErrTicketNotPaid
	}

	route, err := s.routeRepo.GetByID(ctx, booking.RouteID)
	if err != nil {
		return nil, err
	}

	seats, err := s.seatRepo.GetByRoute(ctx, booking.RouteID)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("AG TUR - Passagem", true)
	pdf.AddPage()

	// Core fonts are cp1252; route and passenger text arrives as UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, "AG TUR")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, tr(fmt.Sprintf("%s -> %s", route.Origin, route.Destination)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Departure: %s", route.Departure.Format("02/01/2006 15:04")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Arrival: %s", route.Arrival.Format("02/01/2006 15:04")))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Carrier: %s (%s)", route.BusCompany, route.BusType)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, seat := range bookingSeats(booking, seats) {
		name := seat.PassengerName
		if name == "" {
			name = "-"
		}
		pdf.Cell(0, 6, tr(fmt.Sprintf("Seat %s  %s  %s", seat.SeatNumber, name, seat.PassengerDocument)))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Total: R$ %.2f (%s)", booking.TotalPrice, booking.PaymentMethod))
	pdf.Ln(10)

	pdf.SetFont("Courier", "", 10)
	pdf.Cell(0, 6, booking.QRCode)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.Cell(0, 5, tr(fmt.Sprintf("Booking %s - seats %s", booking.ID, strings.Join(booking.SeatNumbers, ", "))))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// bookingSeats filters a route's seat ledger down to the booking's seats.
func bookingSeats(booking *domain.Booking, seats []*domain.Seat) []*domain.Seat {
	var out []*domain.Seat
	for _, seat := range seats {
		if seat.BookingID == booking.ID {
			out = append(out, seat)
		}
	}
	if len(out) > 0 {
		return out
	}

	// The ledger may already be released (e.g. historic bookings); fall back
	// to the seat numbers recorded on the booking itself.
	for _, number := range booking.SeatNumbers {
		out = append(out, &domain.Seat{SeatNumber: number})
	}
	return out
}
