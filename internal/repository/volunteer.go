package repository

import (
	"context"

	"shelter/internal/domain"
)

// VolunteerRepository defines the persistence operations for volunteers.
type VolunteerRepository interface {
	Create(ctx context.Context, volunteer *domain.Volunteer) error
	GetByID(ctx context.Context, id string) (*domain.Volunteer, error)
	GetAll(ctx context.Context) ([]*domain.Volunteer, error)
	UpdateStatus(ctx context.Context, id string, status domain.VolunteerStatus) error
	Count(ctx context.Context) (int, error)
}
