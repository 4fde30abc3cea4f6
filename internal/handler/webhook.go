package handler

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"shelter/internal/service"
	stripeclient "shelter/internal/stripe"
)

// WebhookHandler handles incoming Stripe webhook deliveries.
type WebhookHandler struct {
	gateway        stripeclient.Gateway
	webhookService *service.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(gateway stripeclient.Gateway, webhookService *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		gateway:        gateway,
		webhookService: webhookService,
	}
}

// HandleStripeEvent handles POST /api/donations/webhook.
//
// Only a signature verification failure is surfaced to Stripe. Every other
// outcome acknowledges the delivery: a non-2xx response makes Stripe retry
// forever, which is wrong once the event has been durably understood.
func (h *WebhookHandler) HandleStripeEvent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "could not read request body"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	event, err := h.gateway.VerifyEvent(body, signature)
	if err != nil {
		log.Printf("[WEBHOOK] signature verification failed: %v", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "webhook signature verification failed"})
		return
	}

	if err := h.webhookService.ProcessEvent(c.Request.Context(), event); err != nil {
		log.Printf("[WEBHOOK] error processing event %s: %v", event.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
