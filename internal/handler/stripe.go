package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tzinegf/AG-TUR/internal/middleware"
	"github.com/tzinegf/AG-TUR/internal/service"
)

// StripeHandler handles HTTP requests for the payment gateway surface.
type StripeHandler struct {
	stripeService *service.StripeService
}

// NewStripeHandler creates a new StripeHandler.
func NewStripeHandler(stripeService *service.StripeService) *StripeHandler {
	return &StripeHandler{stripeService: stripeService}
}

// CustomerResponse is the HTTP response for ensuring a gateway customer.
type CustomerResponse struct {
	CustomerID string `json:"customerId"`
}

// CreatePaymentIntentRequest is the HTTP request body for creating a payment intent.
type CreatePaymentIntentRequest struct {
	Amount    int64  `json:"amount"` // smallest currency unit
	Currency  string `json:"currency,omitempty"`
	BookingID string `json:"booking_id,omitempty"`
}

// EnsureCustomer handles POST /v1/stripe/customer
func (h *StripeHandler) EnsureCustomer(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	customerID, err := h.stripeService.EnsureCustomer(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CustomerResponse{CustomerID: customerID})
}

// ListPaymentMethods handles GET /v1/stripe/payment-methods
func (h *StripeHandler) ListPaymentMethods(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	methods, err := h.stripeService.ListPaymentMethods(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, methods)
}

// CreateSetupIntent handles POST /v1/stripe/setup-intent
func (h *StripeHandler) CreateSetupIntent(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	result, err := h.stripeService.CreateSetupIntent(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, result)
}

// DetachPaymentMethod handles DELETE /v1/stripe/payment-methods/:id
func (h *StripeHandler) DetachPaymentMethod(c *gin.Context) {
	if err := h.stripeService.DetachPaymentMethod(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"success": true})
}

// CreatePaymentIntent handles POST /v1/stripe/payment-intent
func (h *StripeHandler) CreatePaymentIntent(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	var req CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Currency == "" {
		req.Currency = "brl"
	}

	result, err := h.stripeService.CreatePaymentIntent(c.Request.Context(), userID, req.Amount, req.Currency, req.BookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, result)
}
