package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tzinegf/AG-TUR/internal/repository"
	"github.com/tzinegf/AG-TUR/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidRouteID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidSeatSelection),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidRouteData),
		errors.Is(err, service.ErrInvalidBusData),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidCurrency):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrSeatUnavailable),
		errors.Is(err, service.ErrSeatReservationFailed),
		errors.Is(err, service.ErrBookingAlreadyCancelled),
		errors.Is(err, service.ErrRouteNotBookable),
		errors.Is(err, repository.ErrSeatConflict),
		errors.Is(err, repository.ErrDuplicate):
		return http.StatusConflict

	// Authentication and ownership errors
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotBookingOwner),
		errors.Is(err, service.ErrTicketNotPaid):
		return http.StatusForbidden

	// Payment gateway errors
	case errors.Is(err, service.ErrStripeNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrStripeAPIError):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
