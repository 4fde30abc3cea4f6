package service

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"

	"shelter/internal/domain"
	"shelter/internal/repository"
	stripeclient "shelter/internal/stripe"
)

// DonationService handles donation creation and admin listings.
type DonationService struct {
	donationRepo    repository.DonationRepository
	gateway         stripeclient.Gateway
	defaultCurrency string
}

// NewDonationService creates a new DonationService.
func NewDonationService(donationRepo repository.DonationRepository, gateway stripeclient.Gateway, defaultCurrency string) *DonationService {
	return &DonationService{
		donationRepo:    donationRepo,
		gateway:         gateway,
		defaultCurrency: defaultCurrency,
	}
}

// CreateIntentRequest contains the parameters for a one-time donation intent.
type CreateIntentRequest struct {
	Amount     float64
	Currency   string
	DonorName  string
	DonorEmail string
}

// CreateIntentResult is returned to the frontend to confirm the payment.
type CreateIntentResult struct {
	PaymentIntentID string
	ClientSecret    string
}

// CreatePaymentIntent creates a Stripe payment intent carrying the donor
// metadata the webhook reads back. No donation record is created here; the
// record is only persisted once the webhook confirms payment.
func (s *DonationService) CreatePaymentIntent(ctx context.Context, req CreateIntentRequest) (*CreateIntentResult, error) {
	if req.Amount < 1 {
		return nil, ErrInvalidAmount
	}
	if !strings.Contains(req.DonorEmail, "@") {
		return nil, ErrInvalidEmail
	}
	if strings.TrimSpace(req.DonorName) == "" {
		return nil, ErrInvalidName
	}

	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	result, err := s.gateway.CreatePaymentIntent(ctx, stripeclient.IntentRequest{
		AmountCents:  toCents(req.Amount),
		Currency:     currency,
		DonorName:    req.DonorName,
		DonorEmail:   req.DonorEmail,
		DonationType: string(domain.DonationTypeOneTime),
	})
	if err != nil {
		return nil, err
	}

	return &CreateIntentResult{
		PaymentIntentID: result.PaymentIntentID,
		ClientSecret:    result.ClientSecret,
	}, nil
}

// CreateSubscriptionRequest contains the parameters for a monthly donation.
type CreateSubscriptionRequest struct {
	Amount          float64
	DonorName       string
	DonorEmail      string
	PaymentMethodID string
}

// CreateSubscriptionResult is returned to the frontend to confirm the first
// invoice's payment.
type CreateSubscriptionResult struct {
	SubscriptionID      string
	ClientSecret        string
	PaymentIntentStatus string
	DonationID          string
}

// CreateSubscription sets up a monthly donation subscription and records a
// pending donation. The webhook completes it when the first invoice is paid.
func (s *DonationService) CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (*CreateSubscriptionResult, error) {
	if req.Amount < 1 {
		return nil, ErrInvalidAmount
	}
	if !strings.Contains(req.DonorEmail, "@") {
		return nil, ErrInvalidEmail
	}
	if strings.TrimSpace(req.DonorName) == "" {
		return nil, ErrInvalidName
	}
	if req.PaymentMethodID == "" {
		return nil, ErrInvalidPaymentMethod
	}

	sub, err := s.gateway.CreateSubscription(ctx, stripeclient.SubscriptionRequest{
		AmountCents:     toCents(req.Amount),
		DonorName:       req.DonorName,
		DonorEmail:      req.DonorEmail,
		PaymentMethodID: req.PaymentMethodID,
	})
	if err != nil {
		return nil, err
	}

	donation := &domain.Donation{
		ID: uuid.New().String(),
		DonorInfo: domain.DonorInfo{
			Name:  req.DonorName,
			Email: req.DonorEmail,
		},
		Amount:               req.Amount,
		Currency:             s.defaultCurrency,
		DonationType:         domain.DonationTypeMonthly,
		PaymentMethod:        "stripe",
		PaymentStatus:        domain.DonationStatusPending,
		StripeCustomerID:     sub.CustomerID,
		StripeSubscriptionID: sub.SubscriptionID,
		IsRecurring:          true,
	}

	if err := s.donationRepo.Create(ctx, donation); err != nil {
		return nil, err
	}

	return &CreateSubscriptionResult{
		SubscriptionID:      sub.SubscriptionID,
		ClientSecret:        sub.ClientSecret,
		PaymentIntentStatus: sub.PaymentIntentStatus,
		DonationID:          donation.ID,
	}, nil
}

// GetDonation retrieves a donation by ID.
func (s *DonationService) GetDonation(ctx context.Context, id string) (*domain.Donation, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	return s.donationRepo.GetByID(ctx, id)
}

// GetAll retrieves all donations for the admin panel.
func (s *DonationService) GetAll(ctx context.Context) ([]*domain.Donation, error) {
	return s.donationRepo.GetAll(ctx)
}

// toCents converts a major-unit amount to minor units.
func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
