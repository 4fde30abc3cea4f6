package postgres

import (
	"context"
	"database/sql"

	"shelter/internal/domain"
	"shelter/internal/repository"
)

// SponsorRepository implements repository.SponsorRepository using PostgreSQL.
type SponsorRepository struct {
	db *sql.DB
}

// NewSponsorRepository creates a new SponsorRepository.
func NewSponsorRepository(db *sql.DB) *SponsorRepository {
	return &SponsorRepository{db: db}
}

// Create adds a new sponsor.
func (r *SponsorRepository) Create(ctx context.Context, sponsor *domain.Sponsor) error {
	query := `
		INSERT INTO sponsors (id, name, logo_url, website_url, tier, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		sponsor.ID,
		sponsor.Name,
		sponsor.LogoURL,
		sponsor.WebsiteURL,
		sponsor.Tier,
		sponsor.IsActive,
	)

	return err
}

// GetAll retrieves sponsors, optionally only active ones.
func (r *SponsorRepository) GetAll(ctx context.Context, activeOnly bool) ([]*domain.Sponsor, error) {
	query := `SELECT id, name, logo_url, website_url, tier, is_active, created_at FROM sponsors`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sponsors []*domain.Sponsor
	for rows.Next() {
		var sponsor domain.Sponsor
		if err := rows.Scan(
			&sponsor.ID,
			&sponsor.Name,
			&sponsor.LogoURL,
			&sponsor.WebsiteURL,
			&sponsor.Tier,
			&sponsor.IsActive,
			&sponsor.CreatedAt,
		); err != nil {
			return nil, err
		}
		sponsors = append(sponsors, &sponsor)
	}

	return sponsors, rows.Err()
}

// Delete removes a sponsor.
func (r *SponsorRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sponsors WHERE id = $1`, id)
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

var _ repository.SponsorRepository = (*SponsorRepository)(nil)
