package mailer

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"shelter/internal/config"
)

// SendGridMailer sends email through the SendGrid v3 API.
type SendGridMailer struct {
	client      *sendgrid.Client
	fromName    string
	fromAddress string
}

// NewSendGridMailer creates a new SendGridMailer.
func NewSendGridMailer(cfg config.EmailConfig) *SendGridMailer {
	return &SendGridMailer{
		client:      sendgrid.NewSendClient(cfg.SendGridAPIKey),
		fromName:    cfg.FromName,
		fromAddress: cfg.FromAddress,
	}
}

// Send delivers the message. A non-2xx provider response is a delivery error;
// the caller decides whether to retry.
func (m *SendGridMailer) Send(ctx context.Context, to, subject, html, text string) (*Delivery, error) {
	from := mail.NewEmail(m.fromName, m.fromAddress)
	recipient := mail.NewEmail(to, to)
	message := mail.NewSingleEmail(from, subject, recipient, text, html)

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 300 {
		log.Printf("[EMAIL] sendgrid rejected message: status=%d body=%s", resp.StatusCode, resp.Body)
		return &Delivery{Rejected: []string{to}}, fmt.Errorf("sendgrid responded with status %d", resp.StatusCode)
	}

	return &Delivery{Accepted: []string{to}}, nil
}
