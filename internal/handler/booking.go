package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tzinegf/AG-TUR/internal/domain"
	"github.com/tzinegf/AG-TUR/internal/middleware"
	"github.com/tzinegf/AG-TUR/internal/repository"
	"github.com/tzinegf/AG-TUR/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
	ticketService  *service.TicketService
	profileRepo    repository.ProfileRepository
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService, ticketService *service.TicketService, profileRepo repository.ProfileRepository) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		ticketService:  ticketService,
		profileRepo:    profileRepo,
	}
}

// PassengerRequest carries per-seat passenger info in a booking request.
type PassengerRequest struct {
	SeatNumber string `json:"seat_number"`
	Name       string `json:"name"`
	Document   string `json:"document,omitempty"`
}

// CreateBookingRequest is the HTTP request body for creating a booking.
type CreateBookingRequest struct {
	RouteID       string             `json:"route_id"`
	SeatNumbers   []string           `json:"seat_numbers"`
	Passengers    []PassengerRequest `json:"passengers,omitempty"`
	TotalPrice    float64            `json:"total_price"`
	PaymentMethod string             `json:"payment_method,omitempty"` // credit, debit, pix
}

// UpdateBookingStatusRequest is the HTTP request body for the admin status update.
type UpdateBookingStatusRequest struct {
	Status string `json:"status"`
}

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	ID            string   `json:"id"`
	UserID        string   `json:"user_id"`
	RouteID       string   `json:"route_id"`
	SeatNumbers   []string `json:"seat_numbers"`
	TotalPrice    float64  `json:"total_price"`
	PaymentMethod string   `json:"payment_method"`
	PaymentStatus string   `json:"payment_status"`
	Status        string   `json:"status"`
	QRCode        string   `json:"qr_code,omitempty"`
	CreatedAt     string   `json:"created_at"`
}

// StatsResponse is the HTTP response for the admin stats endpoint.
type StatsResponse struct {
	TotalBookings     int     `json:"total_bookings"`
	CompletedBookings int     `json:"completed_bookings"`
	TotalRevenue      float64 `json:"total_revenue"`
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		RouteID:       b.RouteID,
		SeatNumbers:   b.SeatNumbers,
		TotalPrice:    b.TotalPrice,
		PaymentMethod: string(b.PaymentMethod),
		PaymentStatus: string(b.PaymentStatus),
		Status:        string(b.Status),
		QRCode:        b.QRCode,
		CreatedAt:     b.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// CreateBooking handles POST /v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	paymentMethod, err := service.ValidatePaymentMethod(req.PaymentMethod)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	passengers := make([]domain.Passenger, 0, len(req.Passengers))
	for _, p := range req.Passengers {
		passengers = append(passengers, domain.Passenger{
			SeatNumber: p.SeatNumber,
			Name:       p.Name,
			Document:   p.Document,
		})
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		UserID:        userID,
		RouteID:       req.RouteID,
		SeatNumbers:   req.SeatNumbers,
		Passengers:    passengers,
		TotalPrice:    req.TotalPrice,
		PaymentMethod: paymentMethod,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toBookingResponse(booking))
}

// GetBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"), userID, h.isStaff(c, userID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// GetUserBookings handles GET /v1/bookings
func (h *BookingHandler) GetUserBookings(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	bookings, err := h.bookingService.GetUserBookings(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, toBookingResponse(b))
	}

	respondJSON(c, http.StatusOK, response)
}

// CancelBooking handles POST /v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	booking, err := h.bookingService.CancelBooking(c.Request.Context(), c.Param("id"), userID, h.isStaff(c, userID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// DownloadTicket handles GET /v1/bookings/:id/ticket
func (h *BookingHandler) DownloadTicket(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"), userID, h.isStaff(c, userID))
	if err != nil {
		respondError(c, err)
		return
	}

	pdf, err := h.ticketService.RenderTicket(c.Request.Context(), booking)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=ticket-%s.pdf", booking.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GetAllBookings handles GET /v1/admin/bookings
func (h *BookingHandler) GetAllBookings(c *gin.Context) {
	bookings, err := h.bookingService.AllBookings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		response = append(response, toBookingResponse(b))
	}

	respondJSON(c, http.StatusOK, response)
}

// GetStats handles GET /v1/admin/bookings/stats
func (h *BookingHandler) GetStats(c *gin.Context) {
	stats, err := h.bookingService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, StatsResponse{
		TotalBookings:     stats.TotalBookings,
		CompletedBookings: stats.CompletedBookings,
		TotalRevenue:      stats.TotalRevenue,
	})
}

// UpdateStatus handles PATCH /v1/admin/bookings/:id/status
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	status := domain.BookingStatus(req.Status)
	switch status {
	case domain.BookingStatusPending, domain.BookingStatusConfirmed, domain.BookingStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid booking status"})
		return
	}

	booking, err := h.bookingService.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}

// isStaff reports whether the authenticated user has a staff profile.
// Lookup failures are treated as non-staff.
func (h *BookingHandler) isStaff(c *gin.Context, userID string) bool {
	if userID == "" || h.profileRepo == nil {
		return false
	}
	profile, err := h.profileRepo.GetByID(c.Request.Context(), userID)
	if err != nil {
		return false
	}
	return profile.IsStaff()
}
