package postgres

import (
	"context"
	"database/sql"
	"errors"

	"shelter/internal/domain"
	"shelter/internal/repository"
)

// StoryRepository implements repository.StoryRepository using PostgreSQL.
type StoryRepository struct {
	db *sql.DB
}

// NewStoryRepository creates a new StoryRepository.
func NewStoryRepository(db *sql.DB) *StoryRepository {
	return &StoryRepository{db: db}
}

const storyColumns = `id, title, content, animal_name, image_url, is_published, published_at, created_at`

// Create adds a new story.
func (r *StoryRepository) Create(ctx context.Context, story *domain.Story) error {
	query := `
		INSERT INTO stories (id, title, content, animal_name, image_url, is_published, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		story.ID,
		story.Title,
		story.Content,
		story.AnimalName,
		story.ImageURL,
		story.IsPublished,
		nullTime(story.PublishedAt),
	)

	return err
}

// GetByID retrieves a story by ID.
func (r *StoryRepository) GetByID(ctx context.Context, id string) (*domain.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories WHERE id = $1`

	story, err := scanStory(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}

	return story, err
}

// GetAll retrieves stories, optionally only published ones, newest first.
func (r *StoryRepository) GetAll(ctx context.Context, publishedOnly bool) ([]*domain.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories`
	if publishedOnly {
		query += ` WHERE is_published = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []*domain.Story
	for rows.Next() {
		story, err := scanStory(rows)
		if err != nil {
			return nil, err
		}
		stories = append(stories, story)
	}

	return stories, rows.Err()
}

// Publish marks a story as published.
func (r *StoryRepository) Publish(ctx context.Context, id string) error {
	query := `
		UPDATE stories
		SET is_published = TRUE, published_at = NOW()
		WHERE id = $1 AND is_published = FALSE
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// CountPublished counts published stories.
func (r *StoryRepository) CountPublished(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stories WHERE is_published = TRUE`).Scan(&count)

	return count, err
}

func scanStory(s scanner) (*domain.Story, error) {
	var (
		story       domain.Story
		publishedAt sql.NullTime
	)

	err := s.Scan(
		&story.ID,
		&story.Title,
		&story.Content,
		&story.AnimalName,
		&story.ImageURL,
		&story.IsPublished,
		&publishedAt,
		&story.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if publishedAt.Valid {
		story.PublishedAt = &publishedAt.Time
	}

	return &story, nil
}
