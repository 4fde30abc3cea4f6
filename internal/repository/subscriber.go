package repository

import (
	"context"

	"shelter/internal/domain"
)

// SubscriberRepository defines the persistence operations for newsletter
// subscribers.
type SubscriberRepository interface {
	// Create persists a new subscriber. Returns ErrConflict if the email
	// is already registered.
	Create(ctx context.Context, subscriber *domain.Subscriber) error

	// GetByEmail retrieves a subscriber by email. Returns nil when absent.
	GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error)

	// Update persists subscription state changes.
	Update(ctx context.Context, subscriber *domain.Subscriber) error

	// GetActive retrieves all active subscribers.
	GetActive(ctx context.Context) ([]*domain.Subscriber, error)
}
