package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shelter/internal/domain"
	"shelter/internal/service"
)

// VolunteerHandler handles HTTP requests for volunteer applications.
type VolunteerHandler struct {
	volunteerService *service.VolunteerService
}

// NewVolunteerHandler creates a new VolunteerHandler.
func NewVolunteerHandler(volunteerService *service.VolunteerService) *VolunteerHandler {
	return &VolunteerHandler{volunteerService: volunteerService}
}

// ApplyRequest is the HTTP request body for a volunteer application.
type ApplyRequest struct {
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Interests []string `json:"interests"`
}

// VolunteerResponse is the HTTP response for volunteer data.
type VolunteerResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Interests []string  `json:"interests"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Apply handles POST /api/volunteers
func (h *VolunteerHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	volunteer, err := h.volunteerService.Apply(c.Request.Context(), service.ApplyRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Interests: req.Interests,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, volunteerResponse(volunteer))
}

// List handles GET /api/volunteers
func (h *VolunteerHandler) List(c *gin.Context) {
	volunteers, err := h.volunteerService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]VolunteerResponse, 0, len(volunteers))
	for _, v := range volunteers {
		response = append(response, volunteerResponse(v))
	}

	respondJSON(c, http.StatusOK, response)
}

// UpdateStatusRequest is the HTTP request body for a status change.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/volunteers/:id/status
func (h *VolunteerHandler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	err := h.volunteerService.UpdateStatus(c.Request.Context(), c.Param("id"), domain.VolunteerStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"updated": true})
}

func volunteerResponse(v *domain.Volunteer) VolunteerResponse {
	return VolunteerResponse{
		ID:        v.ID,
		FirstName: v.FirstName,
		LastName:  v.LastName,
		Email:     v.Email,
		Phone:     v.Phone,
		Interests: v.Interests,
		Status:    string(v.Status),
		CreatedAt: v.CreatedAt,
	}
}
