package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"shelter/internal/domain"
	"shelter/internal/repository"
)

// DonationRepository is a PostgreSQL implementation of repository.DonationRepository.
type DonationRepository struct {
	q Querier
}

// NewDonationRepository creates a new PostgreSQL donation repository.
func NewDonationRepository(db *sql.DB) *DonationRepository {
	return &DonationRepository{q: db}
}

// NewDonationRepositoryWithTx creates a donation repository using a transaction.
func NewDonationRepositoryWithTx(tx *sql.Tx) *DonationRepository {
	return &DonationRepository{q: tx}
}

const donationColumns = `
	id, donor_name, donor_email, amount, currency, donation_type,
	payment_method, payment_status, transaction_id, stripe_customer_id,
	stripe_subscription_id, is_recurring, receipt_sent, receipt_sent_at,
	completed_at, created_at
`

// Create persists a new donation. A unique violation on transaction_id is
// reported as repository.ErrConflict so the caller can re-fetch the record
// that won the race.
func (r *DonationRepository) Create(ctx context.Context, donation *domain.Donation) error {
	query := `
		INSERT INTO donations (
			id, donor_name, donor_email, amount, currency, donation_type,
			payment_method, payment_status, transaction_id, stripe_customer_id,
			stripe_subscription_id, is_recurring, receipt_sent, receipt_sent_at,
			completed_at, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	if donation.CreatedAt.IsZero() {
		donation.CreatedAt = time.Now()
	}

	_, err := r.q.ExecContext(ctx, query,
		donation.ID,
		donation.DonorInfo.Name,
		donation.DonorInfo.Email,
		donation.Amount,
		donation.Currency,
		donation.DonationType,
		donation.PaymentMethod,
		donation.PaymentStatus,
		donation.TransactionID,
		donation.StripeCustomerID,
		donation.StripeSubscriptionID,
		donation.IsRecurring,
		donation.ReceiptSent,
		nullTime(donation.ReceiptSentAt),
		nullTime(donation.CompletedAt),
		donation.CreatedAt,
	)
	if isUniqueViolation(err) {
		return repository.ErrConflict
	}

	return err
}

// GetByID retrieves a donation by ID.
func (r *DonationRepository) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1`

	donation, err := r.scanDonation(r.q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}

	return donation, err
}

// GetByTransactionID retrieves a donation by its processor transaction ID.
// Returns nil if no donation exists for the transaction.
func (r *DonationRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE transaction_id = $1`

	donation, err := r.scanDonation(r.q.QueryRowContext(ctx, query, transactionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return donation, err
}

// GetBySubscriptionAndTransaction retrieves a donation by the pair of
// subscription ID and transaction ID. Returns nil when absent.
func (r *DonationRepository) GetBySubscriptionAndTransaction(ctx context.Context, subscriptionID, transactionID string) (*domain.Donation, error) {
	query := `
		SELECT ` + donationColumns + `
		FROM donations
		WHERE stripe_subscription_id = $1 AND transaction_id = $2
	`

	donation, err := r.scanDonation(r.q.QueryRowContext(ctx, query, subscriptionID, transactionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	return donation, err
}

// MarkReceiptSent flips receipt_sent only when it is currently false and
// reports whether this caller won the gate.
func (r *DonationRepository) MarkReceiptSent(ctx context.Context, id string, sentAt time.Time) (bool, error) {
	query := `
		UPDATE donations
		SET receipt_sent = TRUE, receipt_sent_at = $2
		WHERE id = $1 AND receipt_sent = FALSE
	`

	result, err := r.q.ExecContext(ctx, query, id, sentAt)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}

// ClearReceiptSent reverts the dispatch gate after a failed send.
func (r *DonationRepository) ClearReceiptSent(ctx context.Context, id string) error {
	query := `UPDATE donations SET receipt_sent = FALSE, receipt_sent_at = NULL WHERE id = $1`

	_, err := r.q.ExecContext(ctx, query, id)

	return err
}

// UpdateStatus updates the payment status of a donation.
func (r *DonationRepository) UpdateStatus(ctx context.Context, id string, status domain.DonationStatus) error {
	query := `UPDATE donations SET payment_status = $1 WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
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

// GetAll retrieves all donations, newest first.
func (r *DonationRepository) GetAll(ctx context.Context) ([]*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []*domain.Donation
	for rows.Next() {
		donation, err := r.scanDonation(rows)
		if err != nil {
			return nil, err
		}
		donations = append(donations, donation)
	}

	return donations, rows.Err()
}

// CompletedStats returns the count and revenue of completed donations.
func (r *DonationRepository) CompletedStats(ctx context.Context) (repository.DonationStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(amount), 0)
		FROM donations
		WHERE payment_status = $1
	`

	var stats repository.DonationStats
	err := r.q.QueryRowContext(ctx, query, domain.DonationStatusCompleted).Scan(&stats.Count, &stats.Revenue)

	return stats, err
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (r *DonationRepository) scanDonation(s scanner) (*domain.Donation, error) {
	var (
		donation      domain.Donation
		receiptSentAt sql.NullTime
		completedAt   sql.NullTime
	)

	err := s.Scan(
		&donation.ID,
		&donation.DonorInfo.Name,
		&donation.DonorInfo.Email,
		&donation.Amount,
		&donation.Currency,
		&donation.DonationType,
		&donation.PaymentMethod,
		&donation.PaymentStatus,
		&donation.TransactionID,
		&donation.StripeCustomerID,
		&donation.StripeSubscriptionID,
		&donation.IsRecurring,
		&donation.ReceiptSent,
		&receiptSentAt,
		&completedAt,
		&donation.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if receiptSentAt.Valid {
		donation.ReceiptSentAt = &receiptSentAt.Time
	}
	if completedAt.Valid {
		donation.CompletedAt = &completedAt.Time
	}

	return &donation, nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique constraint
// violation (class 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
