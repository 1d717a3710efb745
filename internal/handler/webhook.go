package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/tzinegf/AG-TUR/internal/service"
)

// maxWebhookBody bounds how much of an event payload is read.
const maxWebhookBody = int64(64 * 1024)

// WebhookHandler handles payment gateway webhook deliveries.
type WebhookHandler struct {
	webhookService *service.WebhookService
	signingSecret  string
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(webhookService *service.WebhookService, signingSecret string) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		signingSecret:  signingSecret,
	}
}

// HandleEvent handles POST /v1/stripe/webhook
//
// Signature verification uses the raw request body, so this handler must
// read it before any JSON binding. Processing failures return 500 so the
// gateway retries the delivery.
func (h *WebhookHandler) HandleEvent(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unable to read request body"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), h.signingSecret)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid webhook signature"})
		return
	}

	if err := h.webhookService.ProcessEvent(c.Request.Context(), event); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "event processing failed"})
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"received": true})
}
