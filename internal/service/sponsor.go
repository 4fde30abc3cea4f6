package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"shelter/internal/domain"
	"shelter/internal/repository"
)

// SponsorService handles sponsor management.
type SponsorService struct {
	sponsorRepo repository.SponsorRepository
}

// NewSponsorService creates a new SponsorService.
func NewSponsorService(sponsorRepo repository.SponsorRepository) *SponsorService {
	return &SponsorService{sponsorRepo: sponsorRepo}
}

// CreateSponsorRequest contains the parameters for a new sponsor.
type CreateSponsorRequest struct {
	Name       string
	LogoURL    string
	WebsiteURL string
	Tier       string
}

// Create adds a new active sponsor.
func (s *SponsorService) Create(ctx context.Context, req CreateSponsorRequest) (*domain.Sponsor, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidSponsor
	}

	tier := req.Tier
	if tier == "" {
		tier = "standard"
	}

	sponsor := &domain.Sponsor{
		ID:         uuid.New().String(),
		Name:       req.Name,
		LogoURL:    req.LogoURL,
		WebsiteURL: req.WebsiteURL,
		Tier:       tier,
		IsActive:   true,
	}

	if err := s.sponsorRepo.Create(ctx, sponsor); err != nil {
		return nil, err
	}

	return sponsor, nil
}

// List retrieves sponsors, optionally only active ones.
func (s *SponsorService) List(ctx context.Context, activeOnly bool) ([]*domain.Sponsor, error) {
	return s.sponsorRepo.GetAll(ctx, activeOnly)
}

// Delete removes a sponsor.
func (s *SponsorService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}

	return s.sponsorRepo.Delete(ctx, id)
}
