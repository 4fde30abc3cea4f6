package repository

import (
	"context"

	"shelter/internal/domain"
)

// StoryRepository defines the persistence operations for success stories.
type StoryRepository interface {
	Create(ctx context.Context, story *domain.Story) error
	GetByID(ctx context.Context, id string) (*domain.Story, error)

	// GetAll retrieves stories, optionally only published ones.
	GetAll(ctx context.Context, publishedOnly bool) ([]*domain.Story, error)

	// Publish marks a story as published.
	Publish(ctx context.Context, id string) error

	CountPublished(ctx context.Context) (int, error)
}
