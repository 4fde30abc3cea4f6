package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"shelter/internal/domain"
	"shelter/internal/repository"
)

// VolunteerRepository implements repository.VolunteerRepository using PostgreSQL.
type VolunteerRepository struct {
	db *sql.DB
}

// NewVolunteerRepository creates a new VolunteerRepository.
func NewVolunteerRepository(db *sql.DB) *VolunteerRepository {
	return &VolunteerRepository{db: db}
}

// Create adds a new volunteer application.
func (r *VolunteerRepository) Create(ctx context.Context, volunteer *domain.Volunteer) error {
	query := `
		INSERT INTO volunteers (id, first_name, last_name, email, phone, interests, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		volunteer.ID,
		volunteer.FirstName,
		volunteer.LastName,
		volunteer.Email,
		volunteer.Phone,
		pq.Array(volunteer.Interests),
		volunteer.Status,
	)

	return err
}

// GetByID retrieves a volunteer by ID.
func (r *VolunteerRepository) GetByID(ctx context.Context, id string) (*domain.Volunteer, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, interests, status, created_at
		FROM volunteers WHERE id = $1
	`

	var volunteer domain.Volunteer
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&volunteer.ID,
		&volunteer.FirstName,
		&volunteer.LastName,
		&volunteer.Email,
		&volunteer.Phone,
		pq.Array(&volunteer.Interests),
		&volunteer.Status,
		&volunteer.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &volunteer, nil
}

// GetAll retrieves all volunteers, newest first.
func (r *VolunteerRepository) GetAll(ctx context.Context) ([]*domain.Volunteer, error) {
	query := `
		SELECT id, first_name, last_name, email, phone, interests, status, created_at
		FROM volunteers ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var volunteers []*domain.Volunteer
	for rows.Next() {
		var volunteer domain.Volunteer
		if err := rows.Scan(
			&volunteer.ID,
			&volunteer.FirstName,
			&volunteer.LastName,
			&volunteer.Email,
			&volunteer.Phone,
			pq.Array(&volunteer.Interests),
			&volunteer.Status,
			&volunteer.CreatedAt,
		); err != nil {
			return nil, err
		}
		volunteers = append(volunteers, &volunteer)
	}

	return volunteers, rows.Err()
}

// UpdateStatus updates the status of a volunteer application.
func (r *VolunteerRepository) UpdateStatus(ctx context.Context, id string, status domain.VolunteerStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE volunteers SET status = $1 WHERE id = $2`, status, id)
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

// Count counts all volunteers.
func (r *VolunteerRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM volunteers`).Scan(&count)

	return count, err
}
