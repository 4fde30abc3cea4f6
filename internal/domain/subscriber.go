package domain

import "time"

// Subscriber represents a newsletter subscription. Email is unique; an
// unsubscribed address is kept inactive and reactivated on resubscribe.
type Subscriber struct {
	ID             string
	Email          string
	FirstName      string
	LastName       string
	IsActive       bool
	SubscribedAt   time.Time
	UnsubscribedAt *time.Time
}
