package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shelter/internal/service"
)

// NewsletterHandler handles HTTP requests for newsletter subscriptions.
type NewsletterHandler struct {
	newsletterService *service.NewsletterService
}

// NewNewsletterHandler creates a new NewsletterHandler.
func NewNewsletterHandler(newsletterService *service.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{newsletterService: newsletterService}
}

// SubscribeRequest is the HTTP request body for a newsletter subscription.
type SubscribeRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Subscribe handles POST /api/newsletter/subscribe
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	subscriber, err := h.newsletterService.Subscribe(c.Request.Context(), service.SubscribeRequest{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, gin.H{
		"id":    subscriber.ID,
		"email": subscriber.Email,
	})
}

// UnsubscribeRequest is the HTTP request body for unsubscribing.
type UnsubscribeRequest struct {
	Email string `json:"email"`
}

// Unsubscribe handles POST /api/newsletter/unsubscribe
func (h *NewsletterHandler) Unsubscribe(c *gin.Context) {
	var req UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.newsletterService.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"unsubscribed": true})
}
