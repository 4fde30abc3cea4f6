package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"shelter/internal/domain"
	"shelter/internal/repository"
)

// AnimalRepository implements repository.AnimalRepository using PostgreSQL.
type AnimalRepository struct {
	db *sql.DB
}

// NewAnimalRepository creates a new AnimalRepository.
func NewAnimalRepository(db *sql.DB) *AnimalRepository {
	return &AnimalRepository{db: db}
}

const animalColumns = `
	id, name, species, breed, age_months, gender, description,
	image_url, status, adoption_date, created_at
`

// Create adds a new animal.
func (r *AnimalRepository) Create(ctx context.Context, animal *domain.Animal) error {
	query := `
		INSERT INTO animals (id, name, species, breed, age_months, gender, description, image_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		animal.ID,
		animal.Name,
		animal.Species,
		animal.Breed,
		animal.AgeMonths,
		animal.Gender,
		animal.Description,
		animal.ImageURL,
		animal.Status,
	)

	return err
}

// GetByID retrieves an animal by ID.
func (r *AnimalRepository) GetByID(ctx context.Context, id string) (*domain.Animal, error) {
	query := `SELECT ` + animalColumns + ` FROM animals WHERE id = $1`

	animal, err := scanAnimal(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}

	return animal, err
}

// GetAll retrieves animals matching the filter, newest first.
func (r *AnimalRepository) GetAll(ctx context.Context, filter repository.AnimalFilter) ([]*domain.Animal, error) {
	query := `SELECT ` + animalColumns + ` FROM animals WHERE 1=1`
	var args []any

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $1`
	}
	if filter.Species != "" {
		args = append(args, filter.Species)
		if len(args) == 1 {
			query += ` AND species = $1`
		} else {
			query += ` AND species = $2`
		}
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var animals []*domain.Animal
	for rows.Next() {
		animal, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		animals = append(animals, animal)
	}

	return animals, rows.Err()
}

// Update persists changes to an animal.
func (r *AnimalRepository) Update(ctx context.Context, animal *domain.Animal) error {
	query := `
		UPDATE animals
		SET name = $2, species = $3, breed = $4, age_months = $5, gender = $6,
		    description = $7, image_url = $8, status = $9, adoption_date = $10
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		animal.ID,
		animal.Name,
		animal.Species,
		animal.Breed,
		animal.AgeMonths,
		animal.Gender,
		animal.Description,
		animal.ImageURL,
		animal.Status,
		nullTime(animal.AdoptionDate),
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

// Delete removes an animal.
func (r *AnimalRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, id)
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

// CountInCare counts animals that have not been adopted.
func (r *AnimalRepository) CountInCare(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM animals WHERE status <> $1`,
		domain.AnimalStatusAdopted,
	).Scan(&count)

	return count, err
}

// CountAdoptedBetween counts adoptions in the given window.
func (r *AnimalRepository) CountAdoptedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM animals WHERE status = $1 AND adoption_date BETWEEN $2 AND $3`,
		domain.AnimalStatusAdopted, from, to,
	).Scan(&count)

	return count, err
}

func scanAnimal(s scanner) (*domain.Animal, error) {
	var (
		animal       domain.Animal
		adoptionDate sql.NullTime
	)

	err := s.Scan(
		&animal.ID,
		&animal.Name,
		&animal.Species,
		&animal.Breed,
		&animal.AgeMonths,
		&animal.Gender,
		&animal.Description,
		&animal.ImageURL,
		&animal.Status,
		&adoptionDate,
		&animal.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if adoptionDate.Valid {
		animal.AdoptionDate = &adoptionDate.Time
	}

	return &animal, nil
}
