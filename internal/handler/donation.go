package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shelter/internal/domain"
	"shelter/internal/service"
)

// DonationHandler handles HTTP requests for donations.
type DonationHandler struct {
	donationService *service.DonationService
}

// NewDonationHandler creates a new DonationHandler.
func NewDonationHandler(donationService *service.DonationService) *DonationHandler {
	return &DonationHandler{donationService: donationService}
}

// CreateIntentRequest is the HTTP request body for a one-time donation.
type CreateIntentRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Metadata struct {
		DonorName  string `json:"donor_name"`
		DonorEmail string `json:"donor_email"`
	} `json:"metadata"`
}

// CreateIntent handles POST /api/donations/create-payment-intent
func (h *DonationHandler) CreateIntent(c *gin.Context) {
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.donationService.CreatePaymentIntent(c.Request.Context(), service.CreateIntentRequest{
		Amount:     req.Amount,
		Currency:   req.Currency,
		DonorName:  req.Metadata.DonorName,
		DonorEmail: req.Metadata.DonorEmail,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"payment_intent_id": result.PaymentIntentID,
		"client_secret":     result.ClientSecret,
	})
}

// CreateSubscriptionRequest is the HTTP request body for a monthly donation.
type CreateSubscriptionRequest struct {
	Amount          float64 `json:"amount"`
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	PaymentMethodID string  `json:"paymentMethodId"`
}

// CreateSubscription handles POST /api/donations/create-subscription
func (h *DonationHandler) CreateSubscription(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.donationService.CreateSubscription(c.Request.Context(), service.CreateSubscriptionRequest{
		Amount:          req.Amount,
		DonorName:       req.Name,
		DonorEmail:      req.Email,
		PaymentMethodID: req.PaymentMethodID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"success":               true,
		"subscription_id":       result.SubscriptionID,
		"client_secret":         result.ClientSecret,
		"payment_intent_status": result.PaymentIntentStatus,
		"donation_id":           result.DonationID,
	})
}

// DonationResponse is the HTTP response for donation data.
type DonationResponse struct {
	ID            string     `json:"id"`
	DonorName     string     `json:"donor_name"`
	DonorEmail    string     `json:"donor_email"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	DonationType  string     `json:"donation_type"`
	PaymentStatus string     `json:"payment_status"`
	TransactionID string     `json:"transaction_id"`
	IsRecurring   bool       `json:"is_recurring"`
	ReceiptSent   bool       `json:"receipt_sent"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// GetAll handles GET /api/donations
func (h *DonationHandler) GetAll(c *gin.Context) {
	donations, err := h.donationService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DonationResponse, 0, len(donations))
	for _, d := range donations {
		response = append(response, donationResponse(d))
	}

	respondJSON(c, http.StatusOK, response)
}

// Get handles GET /api/donations/:id
func (h *DonationHandler) Get(c *gin.Context) {
	donation, err := h.donationService.GetDonation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, donationResponse(donation))
}

func donationResponse(d *domain.Donation) DonationResponse {
	return DonationResponse{
		ID:            d.ID,
		DonorName:     d.DonorInfo.Name,
		DonorEmail:    d.DonorInfo.Email,
		Amount:        d.Amount,
		Currency:      d.Currency,
		DonationType:  string(d.DonationType),
		PaymentStatus: string(d.PaymentStatus),
		TransactionID: d.TransactionID,
		IsRecurring:   d.IsRecurring,
		ReceiptSent:   d.ReceiptSent,
		CompletedAt:   d.CompletedAt,
		CreatedAt:     d.CreatedAt,
	}
}
