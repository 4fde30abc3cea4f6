package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"shelter/internal/domain"
	"shelter/internal/repository"
)

// AnimalService handles shelter animal management.
type AnimalService struct {
	animalRepo repository.AnimalRepository
}

// NewAnimalService creates a new AnimalService.
func NewAnimalService(animalRepo repository.AnimalRepository) *AnimalService {
	return &AnimalService{animalRepo: animalRepo}
}

// CreateAnimalRequest contains the parameters for adding an animal.
type CreateAnimalRequest struct {
	Name        string
	Species     string
	Breed       string
	AgeMonths   int
	Gender      string
	Description string
	ImageURL    string
}

// Create adds a new animal in available status.
func (s *AnimalService) Create(ctx context.Context, req CreateAnimalRequest) (*domain.Animal, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Species) == "" {
		return nil, ErrInvalidAnimal
	}

	animal := &domain.Animal{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		AgeMonths:   req.AgeMonths,
		Gender:      req.Gender,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Status:      domain.AnimalStatusAvailable,
	}

	if err := s.animalRepo.Create(ctx, animal); err != nil {
		return nil, err
	}

	return animal, nil
}

// Get retrieves an animal by ID.
func (s *AnimalService) Get(ctx context.Context, id string) (*domain.Animal, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	return s.animalRepo.GetByID(ctx, id)
}

// List retrieves animals matching the filter.
func (s *AnimalService) List(ctx context.Context, filter repository.AnimalFilter) ([]*domain.Animal, error) {
	return s.animalRepo.GetAll(ctx, filter)
}

// Update persists changes to an animal's profile.
func (s *AnimalService) Update(ctx context.Context, animal *domain.Animal) error {
	if animal.ID == "" {
		return ErrInvalidID
	}
	if strings.TrimSpace(animal.Name) == "" || strings.TrimSpace(animal.Species) == "" {
		return ErrInvalidAnimal
	}

	return s.animalRepo.Update(ctx, animal)
}

// Delete removes an animal.
func (s *AnimalService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}

	return s.animalRepo.Delete(ctx, id)
}

// Adopt marks an animal as adopted and stamps the adoption date.
func (s *AnimalService) Adopt(ctx context.Context, id string) (*domain.Animal, error) {
	animal, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if animal.Status == domain.AnimalStatusAdopted {
		return nil, ErrAnimalAlreadyAdopted
	}

	now := time.Now()
	animal.Status = domain.AnimalStatusAdopted
	animal.AdoptionDate = &now

	if err := s.animalRepo.Update(ctx, animal); err != nil {
		return nil, err
	}

	return animal, nil
}
