package repository

import (
	"context"

	"shelter/internal/domain"
)

// SponsorRepository defines the persistence operations for sponsors.
type SponsorRepository interface {
	Create(ctx context.Context, sponsor *domain.Sponsor) error
	GetAll(ctx context.Context, activeOnly bool) ([]*domain.Sponsor, error)
	Delete(ctx context.Context, id string) error
}
