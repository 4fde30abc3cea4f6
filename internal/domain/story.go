package domain

import "time"

// Story represents a success story shown on the public site.
type Story struct {
	ID          string
	Title       string
	Content     string
	AnimalName  string
	ImageURL    string
	IsPublished bool
	PublishedAt *time.Time
	CreatedAt   time.Time
}
