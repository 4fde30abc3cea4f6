package stripe

import (
	"context"

	"github.com/stripe/stripe-go/v74"
)

// IntentRequest contains the parameters for a one-time donation payment intent.
type IntentRequest struct {
	AmountCents  int64
	Currency     string
	DonorName    string
	DonorEmail   string
	DonationType string
}

// IntentResult is the outcome of creating a payment intent.
type IntentResult struct {
	PaymentIntentID string
	ClientSecret    string
}

// SubscriptionRequest contains the parameters for a monthly donation subscription.
type SubscriptionRequest struct {
	AmountCents     int64
	DonorName       string
	DonorEmail      string
	PaymentMethodID string
}

// SubscriptionResult is the outcome of creating a subscription.
type SubscriptionResult struct {
	SubscriptionID      string
	CustomerID          string
	ClientSecret        string
	PaymentIntentStatus string
}

// Gateway is the payment processor surface the services depend on. The
// retrieve calls are idempotent reads used by the webhook normalizer.
type Gateway interface {
	VerifyEvent(payload []byte, signature string) (*stripe.Event, error)
	RetrieveInvoice(ctx context.Context, id string) (*stripe.Invoice, error)
	RetrievePaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
	RetrieveCustomer(ctx context.Context, id string) (*stripe.Customer, error)
	CreatePaymentIntent(ctx context.Context, req IntentRequest) (*IntentResult, error)
	CreateSubscription(ctx context.Context, req SubscriptionRequest) (*SubscriptionResult, error)
}

// Ensure the concrete client implements the interface.
var _ Gateway = (*Client)(nil)
