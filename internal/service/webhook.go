package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"

	"shelter/internal/domain"
	"shelter/internal/mailer"
	"shelter/internal/repository"
	stripeclient "shelter/internal/stripe"
)

// WebhookService reconciles Stripe payment events against donation records
// and dispatches at most one receipt email per donation, no matter how many
// times the processor redelivers the same underlying event.
type WebhookService struct {
	donationRepo repository.DonationRepository
	normalizer   *Normalizer
	mailer       mailer.Mailer
	orgName      string
}

// NewWebhookService creates a new WebhookService.
func NewWebhookService(donationRepo repository.DonationRepository, gateway stripeclient.Gateway, m mailer.Mailer, orgName string) *WebhookService {
	return &WebhookService{
		donationRepo: donationRepo,
		normalizer:   NewNormalizer(gateway),
		mailer:       m,
		orgName:      orgName,
	}
}

// ProcessEvent routes a verified Stripe event. Unknown event types are a
// no-op: webhook endpoints must stay forward compatible with new types.
func (s *WebhookService) ProcessEvent(ctx context.Context, event *stripe.Event) error {
	log.Printf("[WEBHOOK] received event id=%s type=%s", event.ID, event.Type)

	switch event.Type {
	case "payment_intent.succeeded", "invoice.payment_succeeded", "invoice.paid", "invoice_payment.paid":
		return s.handlePaymentSucceeded(ctx, event)
	case "payment_intent.payment_failed":
		return s.handlePaymentFailed(ctx, event)
	default:
		log.Printf("[WEBHOOK] unhandled event type %s", event.Type)
		return nil
	}
}

// handlePaymentSucceeded runs the reconciliation flow: normalize, dedup
// against existing records, create the record if this is the first delivery,
// then dispatch the receipt behind the atomic receipt_sent gate.
func (s *WebhookService) handlePaymentSucceeded(ctx context.Context, event *stripe.Event) error {
	intent, err := s.normalizer.Normalize(ctx, event)
	if err != nil {
		return err
	}

	donation, err := s.findExisting(ctx, intent)
	if err != nil {
		return err
	}

	if donation != nil {
		log.Printf("[WEBHOOK] duplicate delivery for transaction %s", donation.TransactionID)
		if donation.ReceiptSent {
			log.Printf("[WEBHOOK] receipt already sent for transaction %s, skipping", donation.TransactionID)
			return nil
		}
	} else {
		if intent.DonorEmail == "" {
			// Terminal outcome, not an error: the event is acknowledged so the
			// processor stops redelivering something we can never action.
			log.Printf("[WEBHOOK] donor email unresolved for transaction %s, no donation created", intent.TransactionID)
			return nil
		}

		donation, err = s.createDonation(ctx, intent)
		if err != nil {
			return err
		}
		if donation == nil {
			return nil
		}
	}

	return s.dispatchReceipt(ctx, donation, intent.PaymentMethodDesc)
}

// findExisting looks up a donation by transaction ID, then by the
// subscription/transaction pair for recurring donations.
func (s *WebhookService) findExisting(ctx context.Context, intent *DonationIntent) (*domain.Donation, error) {
	if intent.TransactionID == "" {
		return nil, nil
	}

	donation, err := s.donationRepo.GetByTransactionID(ctx, intent.TransactionID)
	if err != nil {
		return nil, err
	}
	if donation != nil {
		return donation, nil
	}

	if intent.SubscriptionID != "" {
		return s.donationRepo.GetBySubscriptionAndTransaction(ctx, intent.SubscriptionID, intent.TransactionID)
	}

	return nil, nil
}

// createDonation persists a new completed donation. Losing the uniqueness
// race to a concurrent delivery is expected: the winner's record is re-fetched
// and used instead, never a second insert.
func (s *WebhookService) createDonation(ctx context.Context, intent *DonationIntent) (*domain.Donation, error) {
	now := time.Now()
	donation := &domain.Donation{
		ID: uuid.New().String(),
		DonorInfo: domain.DonorInfo{
			Name:  intent.DonorName,
			Email: intent.DonorEmail,
		},
		Amount:               intent.Amount,
		Currency:             intent.Currency,
		DonationType:         intent.DonationType,
		PaymentMethod:        "stripe",
		PaymentStatus:        domain.DonationStatusCompleted,
		TransactionID:        intent.TransactionID,
		StripeCustomerID:     intent.CustomerID,
		StripeSubscriptionID: intent.SubscriptionID,
		IsRecurring:          intent.IsRecurring,
		CompletedAt:          &now,
	}

	err := s.donationRepo.Create(ctx, donation)
	if err == nil {
		log.Printf("[WEBHOOK] donation %s created for transaction %s", donation.ID, donation.TransactionID)
		return donation, nil
	}

	if !errors.Is(err, repository.ErrConflict) {
		return nil, err
	}

	log.Printf("[WEBHOOK] concurrent insert for transaction %s, re-fetching winner", intent.TransactionID)

	winner, err := s.donationRepo.GetByTransactionID(ctx, intent.TransactionID)
	if err != nil {
		return nil, err
	}
	if winner == nil || winner.ReceiptSent {
		return nil, nil
	}

	return winner, nil
}

// dispatchReceipt sends the receipt email behind the receipt_sent gate: the
// atomic flip guarantees at most one send per donation even under concurrent
// deliveries. A failed send reverts the gate so a redelivered event retries.
func (s *WebhookService) dispatchReceipt(ctx context.Context, donation *domain.Donation, paymentMethod string) error {
	won, err := s.donationRepo.MarkReceiptSent(ctx, donation.ID, time.Now())
	if err != nil {
		return err
	}
	if !won {
		log.Printf("[RECEIPT] receipt for transaction %s already dispatched elsewhere", donation.TransactionID)
		return nil
	}

	subject, html, text := BuildReceiptEmail(donation, paymentMethod, s.orgName)

	log.Printf("[RECEIPT] sending receipt to %s for transaction %s", donation.DonorInfo.Email, donation.TransactionID)

	delivery, err := s.mailer.Send(ctx, donation.DonorInfo.Email, subject, html, text)
	if err != nil {
		log.Printf("[RECEIPT] error sending receipt email: %v", err)
		if clearErr := s.donationRepo.ClearReceiptSent(ctx, donation.ID); clearErr != nil {
			log.Printf("[RECEIPT] could not revert receipt gate for donation %s: %v", donation.ID, clearErr)
		}
		// Absorbed: the record exists, the processor's redelivery retries the send.
		return nil
	}

	log.Printf("[RECEIPT] receipt sent to %s (accepted=%v rejected=%v)", donation.DonorInfo.Email, delivery.Accepted, delivery.Rejected)

	return nil
}

// handlePaymentFailed marks the matching donation as failed. It never creates
// records and never sends receipts.
func (s *WebhookService) handlePaymentFailed(ctx context.Context, event *stripe.Event) error {
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return err
	}
	if pi.ID == "" {
		return nil
	}

	donation, err := s.donationRepo.GetByTransactionID(ctx, pi.ID)
	if err != nil {
		return err
	}
	if donation == nil {
		log.Printf("[WEBHOOK] payment failed for unknown transaction %s", pi.ID)
		return nil
	}

	log.Printf("[WEBHOOK] marking donation %s failed (transaction %s)", donation.ID, pi.ID)

	return s.donationRepo.UpdateStatus(ctx, donation.ID, domain.DonationStatusFailed)
}
