package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"shelter/internal/domain"
	"shelter/internal/repository"
)

// NewsletterService handles newsletter subscriptions.
type NewsletterService struct {
	subscriberRepo repository.SubscriberRepository
}

// NewNewsletterService creates a new NewsletterService.
func NewNewsletterService(subscriberRepo repository.SubscriberRepository) *NewsletterService {
	return &NewsletterService{subscriberRepo: subscriberRepo}
}

// SubscribeRequest contains the parameters for a newsletter subscription.
type SubscribeRequest struct {
	Email     string
	FirstName string
	LastName  string
}

// Subscribe registers an email for the newsletter. An inactive subscriber is
// reactivated; an active one gets ErrAlreadySubscribed.
func (s *NewsletterService) Subscribe(ctx context.Context, req SubscribeRequest) (*domain.Subscriber, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}

	existing, err := s.subscriberRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.IsActive {
			return nil, ErrAlreadySubscribed
		}

		existing.IsActive = true
		existing.SubscribedAt = time.Now()
		existing.UnsubscribedAt = nil
		if req.FirstName != "" {
			existing.FirstName = req.FirstName
		}
		if req.LastName != "" {
			existing.LastName = req.LastName
		}

		if err := s.subscriberRepo.Update(ctx, existing); err != nil {
			return nil, err
		}

		return existing, nil
	}

	subscriber := &domain.Subscriber{
		ID:           uuid.New().String(),
		Email:        email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		IsActive:     true,
		SubscribedAt: time.Now(),
	}

	if err := s.subscriberRepo.Create(ctx, subscriber); err != nil {
		return nil, err
	}

	return subscriber, nil
}

// Unsubscribe deactivates a subscription.
func (s *NewsletterService) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}

	subscriber, err := s.subscriberRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if subscriber == nil || !subscriber.IsActive {
		return ErrNotSubscribed
	}

	now := time.Now()
	subscriber.IsActive = false
	subscriber.UnsubscribedAt = &now

	return s.subscriberRepo.Update(ctx, subscriber)
}

// ListActive retrieves all active subscribers.
func (s *NewsletterService) ListActive(ctx context.Context) ([]*domain.Subscriber, error) {
	return s.subscriberRepo.GetActive(ctx)
}
