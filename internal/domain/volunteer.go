package domain

import "time"

// VolunteerStatus represents the state of a volunteer application.
type VolunteerStatus string

const (
	VolunteerStatusPending  VolunteerStatus = "pending"
	VolunteerStatusActive   VolunteerStatus = "active"
	VolunteerStatusInactive VolunteerStatus = "inactive"
)

// Volunteer represents a volunteer intake application.
type Volunteer struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Interests []string
	Status    VolunteerStatus
	CreatedAt time.Time
}
