package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shelter/internal/domain"
	"shelter/internal/service"
)

// SponsorHandler handles HTTP requests for sponsors.
type SponsorHandler struct {
	sponsorService *service.SponsorService
}

// NewSponsorHandler creates a new SponsorHandler.
func NewSponsorHandler(sponsorService *service.SponsorService) *SponsorHandler {
	return &SponsorHandler{sponsorService: sponsorService}
}

// SponsorRequest is the HTTP request body for creating a sponsor.
type SponsorRequest struct {
	Name       string `json:"name"`
	LogoURL    string `json:"logo_url"`
	WebsiteURL string `json:"website_url"`
	Tier       string `json:"tier"`
}

// SponsorResponse is the HTTP response for sponsor data.
type SponsorResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	LogoURL    string    `json:"logo_url"`
	WebsiteURL string    `json:"website_url"`
	Tier       string    `json:"tier"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// Create handles POST /api/sponsors
func (h *SponsorHandler) Create(c *gin.Context) {
	var req SponsorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	sponsor, err := h.sponsorService.Create(c.Request.Context(), service.CreateSponsorRequest{
		Name:       req.Name,
		LogoURL:    req.LogoURL,
		WebsiteURL: req.WebsiteURL,
		Tier:       req.Tier,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, sponsorResponse(sponsor))
}

// List handles GET /api/sponsors
func (h *SponsorHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	sponsors, err := h.sponsorService.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]SponsorResponse, 0, len(sponsors))
	for _, s := range sponsors {
		response = append(response, sponsorResponse(s))
	}

	respondJSON(c, http.StatusOK, response)
}

// Delete handles DELETE /api/sponsors/:id
func (h *SponsorHandler) Delete(c *gin.Context) {
	if err := h.sponsorService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func sponsorResponse(s *domain.Sponsor) SponsorResponse {
	return SponsorResponse{
		ID:         s.ID,
		Name:       s.Name,
		LogoURL:    s.LogoURL,
		WebsiteURL: s.WebsiteURL,
		Tier:       s.Tier,
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
	}
}
