package repository

import (
	"context"
	"time"

	"shelter/internal/domain"
)

// DonationStats aggregates completed donations for the admin dashboard.
type DonationStats struct {
	Count   int
	Revenue float64
}

// DonationRepository defines the persistence operations for donations.
type DonationRepository interface {
	// Create persists a new donation. Returns ErrConflict if a donation
	// with the same transaction ID already exists.
	Create(ctx context.Context, donation *domain.Donation) error

	// GetByID retrieves a donation by ID.
	GetByID(ctx context.Context, id string) (*domain.Donation, error)

	// GetByTransactionID retrieves a donation by its processor transaction ID.
	// Returns nil if no donation exists for the transaction.
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.Donation, error)

	// GetBySubscriptionAndTransaction retrieves a donation by the pair of
	// subscription ID and transaction ID. Returns nil when absent.
	GetBySubscriptionAndTransaction(ctx context.Context, subscriptionID, transactionID string) (*domain.Donation, error)

	// MarkReceiptSent flips receipt_sent to true only if it is currently
	// false and reports whether the row changed. This is the dispatch gate:
	// at most one caller observes true for a given donation.
	MarkReceiptSent(ctx context.Context, id string, sentAt time.Time) (bool, error)

	// ClearReceiptSent reverts the dispatch gate after a failed send so a
	// redelivered event can retry.
	ClearReceiptSent(ctx context.Context, id string) error

	// UpdateStatus updates the payment status of a donation.
	UpdateStatus(ctx context.Context, id string, status domain.DonationStatus) error

	// GetAll retrieves all donations, newest first.
	GetAll(ctx context.Context) ([]*domain.Donation, error)

	// CompletedStats returns the count and revenue of completed donations.
	CompletedStats(ctx context.Context) (DonationStats, error)
}
