package postgres

import (
	"context"
	"database/sql"
	"errors"

	"shelter/internal/domain"
	"shelter/internal/repository"
)

// SubscriberRepository implements repository.SubscriberRepository using PostgreSQL.
type SubscriberRepository struct {
	db *sql.DB
}

// NewSubscriberRepository creates a new SubscriberRepository.
func NewSubscriberRepository(db *sql.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

const subscriberColumns = `id, email, first_name, last_name, is_active, subscribed_at, unsubscribed_at`

// Create persists a new subscriber. Returns repository.ErrConflict if the
// email is already registered.
func (r *SubscriberRepository) Create(ctx context.Context, subscriber *domain.Subscriber) error {
	query := `
		INSERT INTO newsletter_subscribers (id, email, first_name, last_name, is_active, subscribed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		subscriber.ID,
		subscriber.Email,
		subscriber.FirstName,
		subscriber.LastName,
		subscriber.IsActive,
		subscriber.SubscribedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}

	return err
}

// GetByEmail retrieves a subscriber by email. Returns nil when absent.
func (r *SubscriberRepository) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM newsletter_subscribers WHERE email = $1`

	subscriber, err := scanSubscriber(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return subscriber, err
}

// Update persists subscription state changes.
func (r *SubscriberRepository) Update(ctx context.Context, subscriber *domain.Subscriber) error {
	query := `
		UPDATE newsletter_subscribers
		SET first_name = $2, last_name = $3, is_active = $4, subscribed_at = $5, unsubscribed_at = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		subscriber.ID,
		subscriber.FirstName,
		subscriber.LastName,
		subscriber.IsActive,
		subscriber.SubscribedAt,
		nullTime(subscriber.UnsubscribedAt),
	)
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

// GetActive retrieves all active subscribers.
func (r *SubscriberRepository) GetActive(ctx context.Context) ([]*domain.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM newsletter_subscribers WHERE is_active = TRUE ORDER BY subscribed_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subscribers []*domain.Subscriber
	for rows.Next() {
		subscriber, err := scanSubscriber(rows)
		if err != nil {
			return nil, err
		}
		subscribers = append(subscribers, subscriber)
	}

	return subscribers, rows.Err()
}

func scanSubscriber(s scanner) (*domain.Subscriber, error) {
	var (
		subscriber     domain.Subscriber
		unsubscribedAt sql.NullTime
	)

	err := s.Scan(
		&subscriber.ID,
		&subscriber.Email,
		&subscriber.FirstName,
		&subscriber.LastName,
		&subscriber.IsActive,
		&subscriber.SubscribedAt,
		&unsubscribedAt,
	)
	if err != nil {
		return nil, err
	}

	if unsubscribedAt.Valid {
		subscriber.UnsubscribedAt = &unsubscribedAt.Time
	}

	return &subscriber, nil
}
