package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shelter/internal/domain"
	"shelter/internal/repository"
	"shelter/internal/service"
)

// AnimalHandler handles HTTP requests for animals.
type AnimalHandler struct {
	animalService *service.AnimalService
}

// NewAnimalHandler creates a new AnimalHandler.
func NewAnimalHandler(animalService *service.AnimalService) *AnimalHandler {
	return &AnimalHandler{animalService: animalService}
}

// AnimalRequest is the HTTP request body for creating or updating an animal.
type AnimalRequest struct {
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	AgeMonths   int    `json:"age_months"`
	Gender      string `json:"gender"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// AnimalResponse is the HTTP response for animal data.
type AnimalResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Species      string     `json:"species"`
	Breed        string     `json:"breed"`
	AgeMonths    int        `json:"age_months"`
	Gender       string     `json:"gender"`
	Description  string     `json:"description"`
	ImageURL     string     `json:"image_url"`
	Status       string     `json:"status"`
	AdoptionDate *time.Time `json:"adoption_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Create handles POST /api/animals
func (h *AnimalHandler) Create(c *gin.Context) {
	var req AnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	animal, err := h.animalService.Create(c.Request.Context(), service.CreateAnimalRequest{
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		AgeMonths:   req.AgeMonths,
		Gender:      req.Gender,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, animalResponse(animal))
}

// List handles GET /api/animals
func (h *AnimalHandler) List(c *gin.Context) {
	filter := repository.AnimalFilter{
		Status:  domain.AnimalStatus(c.Query("status")),
		Species: c.Query("species"),
	}

	animals, err := h.animalService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]AnimalResponse, 0, len(animals))
	for _, a := range animals {
		response = append(response, animalResponse(a))
	}

	respondJSON(c, http.StatusOK, response)
}

// Get handles GET /api/animals/:id
func (h *AnimalHandler) Get(c *gin.Context) {
	animal, err := h.animalService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, animalResponse(animal))
}

// Update handles PUT /api/animals/:id
func (h *AnimalHandler) Update(c *gin.Context) {
	var req AnimalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	animal, err := h.animalService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	animal.Name = req.Name
	animal.Species = req.Species
	animal.Breed = req.Breed
	animal.AgeMonths = req.AgeMonths
	animal.Gender = req.Gender
	animal.Description = req.Description
	animal.ImageURL = req.ImageURL

	if err := h.animalService.Update(c.Request.Context(), animal); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, animalResponse(animal))
}

// Adopt handles POST /api/animals/:id/adopt
func (h *AnimalHandler) Adopt(c *gin.Context) {
	animal, err := h.animalService.Adopt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, animalResponse(animal))
}

// Delete handles DELETE /api/animals/:id
func (h *AnimalHandler) Delete(c *gin.Context) {
	if err := h.animalService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func animalResponse(a *domain.Animal) AnimalResponse {
	return AnimalResponse{
		ID:           a.ID,
		Name:         a.Name,
		Species:      a.Species,
		Breed:        a.Breed,
		AgeMonths:    a.AgeMonths,
		Gender:       a.Gender,
		Description:  a.Description,
		ImageURL:     a.ImageURL,
		Status:       string(a.Status),
		AdoptionDate: a.AdoptionDate,
		CreatedAt:    a.CreatedAt,
	}
}
