package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shelter/internal/domain"
	"shelter/internal/service"
)

// StoryHandler handles HTTP requests for success stories.
type StoryHandler struct {
	storyService *service.StoryService
}

// NewStoryHandler creates a new StoryHandler.
func NewStoryHandler(storyService *service.StoryService) *StoryHandler {
	return &StoryHandler{storyService: storyService}
}

// StoryRequest is the HTTP request body for creating a story.
type StoryRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	AnimalName string `json:"animal_name"`
	ImageURL   string `json:"image_url"`
}

// StoryResponse is the HTTP response for story data.
type StoryResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	AnimalName  string     `json:"animal_name"`
	ImageURL    string     `json:"image_url"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Create handles POST /api/stories
func (h *StoryHandler) Create(c *gin.Context) {
	var req StoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	story, err := h.storyService.Create(c.Request.Context(), service.CreateStoryRequest{
		Title:      req.Title,
		Content:    req.Content,
		AnimalName: req.AnimalName,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, storyResponse(story))
}

// List handles GET /api/stories
func (h *StoryHandler) List(c *gin.Context) {
	publishedOnly := c.Query("published") == "true"

	stories, err := h.storyService.List(c.Request.Context(), publishedOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]StoryResponse, 0, len(stories))
	for _, s := range stories {
		response = append(response, storyResponse(s))
	}

	respondJSON(c, http.StatusOK, response)
}

// Get handles GET /api/stories/:id
func (h *StoryHandler) Get(c *gin.Context) {
	story, err := h.storyService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, storyResponse(story))
}

// Publish handles POST /api/stories/:id/publish
func (h *StoryHandler) Publish(c *gin.Context) {
	if err := h.storyService.Publish(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"published": true})
}

func storyResponse(s *domain.Story) StoryResponse {
	return StoryResponse{
		ID:          s.ID,
		Title:       s.Title,
		Content:     s.Content,
		AnimalName:  s.AnimalName,
		ImageURL:    s.ImageURL,
		IsPublished: s.IsPublished,
		PublishedAt: s.PublishedAt,
		CreatedAt:   s.CreatedAt,
	}
}
