package mailer

import (
	"context"
	"log"
)

// Delivery reports which recipients the provider accepted or rejected.
type Delivery struct {
	Accepted []string
	Rejected []string
}

// Mailer is the send-only email capability used for donation receipts.
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) (*Delivery, error)
}

// LogMailer is a Mailer that only logs. Used when no email provider is
// configured so local development does not send real mail.
type LogMailer struct{}

// NewLogMailer creates a new LogMailer.
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// Send logs the message and reports it as accepted.
func (m *LogMailer) Send(ctx context.Context, to, subject, html, text string) (*Delivery, error) {
	log.Printf("[EMAIL] (log only) to=%s subject=%q", to, subject)

	return &Delivery{Accepted: []string{to}}, nil
}
