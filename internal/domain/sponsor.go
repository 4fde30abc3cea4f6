package domain

import "time"

// Sponsor represents an organization shown in the sponsors footer.
type Sponsor struct {
	ID         string
	Name       string
	LogoURL    string
	WebsiteURL string
	Tier       string
	IsActive   bool
	CreatedAt  time.Time
}
