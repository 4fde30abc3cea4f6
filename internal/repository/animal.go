package repository

import (
	"context"
	"time"

	"shelter/internal/domain"
)

// AnimalFilter narrows animal listings.
type AnimalFilter struct {
	Status  domain.AnimalStatus
	Species string
}

// AnimalRepository defines the persistence operations for animals.
type AnimalRepository interface {
	Create(ctx context.Context, animal *domain.Animal) error
	GetByID(ctx context.Context, id string) (*domain.Animal, error)
	GetAll(ctx context.Context, filter AnimalFilter) ([]*domain.Animal, error)
	Update(ctx context.Context, animal *domain.Animal) error
	Delete(ctx context.Context, id string) error

	// CountInCare counts animals that have not been adopted.
	CountInCare(ctx context.Context) (int, error)

	// CountAdoptedBetween counts adoptions in the given window.
	CountAdoptedBetween(ctx context.Context, from, to time.Time) (int, error)
}
