package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"shelter/internal/domain"
	"shelter/internal/repository"
)

// StoryService handles success stories.
type StoryService struct {
	storyRepo repository.StoryRepository
}

// NewStoryService creates a new StoryService.
func NewStoryService(storyRepo repository.StoryRepository) *StoryService {
	return &StoryService{storyRepo: storyRepo}
}

// CreateStoryRequest contains the parameters for a new story.
type CreateStoryRequest struct {
	Title      string
	Content    string
	AnimalName string
	ImageURL   string
}

// Create adds a new unpublished story.
func (s *StoryService) Create(ctx context.Context, req CreateStoryRequest) (*domain.Story, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Content) == "" {
		return nil, ErrInvalidStory
	}

	story := &domain.Story{
		ID:         uuid.New().String(),
		Title:      req.Title,
		Content:    req.Content,
		AnimalName: req.AnimalName,
		ImageURL:   req.ImageURL,
	}

	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, err
	}

	return story, nil
}

// Get retrieves a story by ID.
func (s *StoryService) Get(ctx context.Context, id string) (*domain.Story, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	return s.storyRepo.GetByID(ctx, id)
}

// List retrieves stories; the public site only sees published ones.
func (s *StoryService) List(ctx context.Context, publishedOnly bool) ([]*domain.Story, error) {
	return s.storyRepo.GetAll(ctx, publishedOnly)
}

// Publish makes a story visible on the public site.
func (s *StoryService) Publish(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}

	return s.storyRepo.Publish(ctx, id)
}
