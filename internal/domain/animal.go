package domain

import "time"

// AnimalStatus represents where an animal is in the adoption pipeline.
type AnimalStatus string

const (
	AnimalStatusAvailable AnimalStatus = "available"
	AnimalStatusPending   AnimalStatus = "pending"
	AnimalStatusAdopted   AnimalStatus = "adopted"
)

// Animal represents an animal in the shelter's care.
type Animal struct {
	ID           string
	Name         string
	Species      string
	Breed        string
	AgeMonths    int
	Gender       string
	Description  string
	ImageURL     string
	Status       AnimalStatus
	AdoptionDate *time.Time
	CreatedAt    time.Time
}
