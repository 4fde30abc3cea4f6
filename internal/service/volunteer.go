package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"shelter/internal/domain"
	"shelter/internal/repository"
)

// VolunteerService handles volunteer intake.
type VolunteerService struct {
	volunteerRepo repository.VolunteerRepository
}

// NewVolunteerService creates a new VolunteerService.
func NewVolunteerService(volunteerRepo repository.VolunteerRepository) *VolunteerService {
	return &VolunteerService{volunteerRepo: volunteerRepo}
}

// ApplyRequest contains a volunteer intake application.
type ApplyRequest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Interests []string
}

// Apply records a new volunteer application in pending status.
func (s *VolunteerService) Apply(ctx context.Context, req ApplyRequest) (*domain.Volunteer, error) {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, ErrInvalidVolunteer
	}
	if !strings.Contains(req.Email, "@") {
		return nil, ErrInvalidEmail
	}

	volunteer := &domain.Volunteer{
		ID:        uuid.New().String(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Interests: req.Interests,
		Status:    domain.VolunteerStatusPending,
	}

	if err := s.volunteerRepo.Create(ctx, volunteer); err != nil {
		return nil, err
	}

	return volunteer, nil
}

// List retrieves all volunteer applications.
func (s *VolunteerService) List(ctx context.Context) ([]*domain.Volunteer, error) {
	return s.volunteerRepo.GetAll(ctx)
}

// UpdateStatus moves a volunteer between pending, active and inactive.
func (s *VolunteerService) UpdateStatus(ctx context.Context, id string, status domain.VolunteerStatus) error {
	if id == "" {
		return ErrInvalidID
	}

	switch status {
	case domain.VolunteerStatusPending, domain.VolunteerStatusActive, domain.VolunteerStatusInactive:
	default:
		return ErrInvalidStatus
	}

	return s.volunteerRepo.UpdateStatus(ctx, id, status)
}
