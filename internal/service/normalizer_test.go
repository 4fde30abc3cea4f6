package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74"

	"shelter/internal/domain"
	stripeclient "shelter/internal/stripe"
)

// fakeGateway is a minimal in-package Gateway for normalizer tests.
type fakeGateway struct {
	invoice      *stripe.Invoice
	intent       *stripe.PaymentIntent
	customer     *stripe.Customer
	customerErr  error
	intentErr    error
	invoiceCalls int
}

func (f *fakeGateway) VerifyEvent(payload []byte, signature string) (*stripe.Event, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGateway) RetrieveInvoice(ctx context.Context, id string) (*stripe.Invoice, error) {
	f.invoiceCalls++
	if f.invoice == nil {
		return nil, errors.New("no invoice")
	}
	return f.invoice, nil
}

func (f *fakeGateway) RetrievePaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	if f.intentErr != nil {
		return nil, f.intentErr
	}
	if f.intent == nil {
		return nil, errors.New("no payment intent")
	}
	return f.intent, nil
}

func (f *fakeGateway) RetrieveCustomer(ctx context.Context, id string) (*stripe.Customer, error) {
	if f.customerErr != nil {
		return nil, f.customerErr
	}
	if f.customer == nil {
		return nil, errors.New("no customer")
	}
	return f.customer, nil
}

func (f *fakeGateway) CreatePaymentIntent(ctx context.Context, req stripeclient.IntentRequest) (*stripeclient.IntentResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeGateway) CreateSubscription(ctx context.Context, req stripeclient.SubscriptionRequest) (*stripeclient.SubscriptionResult, error) {
	return nil, errors.New("not implemented")
}

func intentEvent(raw string) *stripe.Event {
	return &stripe.Event{
		ID:   "evt_1",
		Type: "payment_intent.succeeded",
		Data: &stripe.EventData{Raw: json.RawMessage(raw)},
	}
}

func TestNormalize_DonorNamePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "snake_case metadata wins",
			raw:      `{"id":"pi_1","amount":100,"metadata":{"donor_name":"Snake","donorName":"Camel","donor_email":"a@b.c"},"shipping":{"name":"Ship"}}`,
			expected: "Snake",
		},
		{
			name:     "camelCase fallback",
			raw:      `{"id":"pi_1","amount":100,"metadata":{"donorName":"Camel","donor_email":"a@b.c"},"shipping":{"name":"Ship"}}`,
			expected: "Camel",
		},
		{
			name:     "shipping name fallback",
			raw:      `{"id":"pi_1","amount":100,"metadata":{"donor_email":"a@b.c"},"shipping":{"name":"Ship"}}`,
			expected: "Ship",
		},
		{
			name:     "default when nothing present",
			raw:      `{"id":"pi_1","amount":100,"metadata":{"donor_email":"a@b.c"}}`,
			expected: "Supporter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer(&fakeGateway{})
			intent, err := n.Normalize(context.Background(), intentEvent(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, intent.DonorName)
		})
	}
}

func TestNormalize_AmountAndCurrency(t *testing.T) {
	n := NewNormalizer(&fakeGateway{})

	intent, err := n.Normalize(context.Background(), intentEvent(
		`{"id":"pi_1","amount":2500,"currency":"usd","metadata":{"donor_email":"a@b.c"}}`,
	))
	require.NoError(t, err)

	assert.Equal(t, 25.00, intent.Amount)
	assert.Equal(t, "USD", intent.Currency)
	assert.Equal(t, "pi_1", intent.TransactionID)
}

func TestNormalize_MissingCurrency_DefaultsUSD(t *testing.T) {
	n := NewNormalizer(&fakeGateway{})

	intent, err := n.Normalize(context.Background(), intentEvent(
		`{"id":"pi_1","amount":100,"metadata":{"donor_email":"a@b.c"}}`,
	))
	require.NoError(t, err)

	assert.Equal(t, "USD", intent.Currency)
}

func TestNormalize_DonationTypeMetadata(t *testing.T) {
	n := NewNormalizer(&fakeGateway{})

	intent, err := n.Normalize(context.Background(), intentEvent(
		`{"id":"pi_1","amount":100,"metadata":{"donor_email":"a@b.c","donation_type":"monthly"}}`,
	))
	require.NoError(t, err)

	assert.Equal(t, domain.DonationTypeMonthly, intent.DonationType)
	assert.True(t, intent.IsRecurring)
}

func TestNormalize_SubscriptionIDFromMetadata(t *testing.T) {
	n := NewNormalizer(&fakeGateway{})

	intent, err := n.Normalize(context.Background(), intentEvent(
		`{"id":"pi_1","amount":100,"metadata":{"donor_email":"a@b.c","stripeSubscriptionId":"sub_meta"}}`,
	))
	require.NoError(t, err)

	assert.Equal(t, "sub_meta", intent.SubscriptionID)
}

func TestNormalize_UndefinedEmail_CustomerLookupFails_LeftUnresolved(t *testing.T) {
	gw := &fakeGateway{customerErr: errors.New("stripe unavailable")}
	n := NewNormalizer(gw)

	intent, err := n.Normalize(context.Background(), intentEvent(
		`{"id":"pi_1","amount":100,"customer":"cus_1","metadata":{"donor_email":"undefined"}}`,
	))
	require.NoError(t, err)

	// The artifact string is not a usable address and the lookup failed, so
	// the donor surfaces as unreachable.
	assert.Equal(t, "", intent.DonorEmail)
	assert.Equal(t, "cus_1", intent.CustomerID)
}

func TestNormalize_PaymentMethodDescriptor(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "card with brand and last4",
			raw:      `{"id":"pi_1","amount":100,"metadata":{"donor_email":"a@b.c"},"latest_charge":{"id":"ch_1","payment_method_details":{"type":"card","card":{"brand":"visa","last4":"4242"}}}}`,
			expected: "Visa •••• 4242",
		},
		{
			name:     "non-card payment method",
			raw:      `{"id":"pi_1","amount":100,"metadata":{"donor_email":"a@b.c"},"latest_charge":{"id":"ch_1","payment_method_details":{"type":"sepa_debit"}}}`,
			expected: "Sepa_debit",
		},
		{
			name:     "unexpanded charge reference",
			raw:      `{"id":"pi_1","amount":100,"metadata":{"donor_email":"a@b.c"},"latest_charge":"ch_1"}`,
			expected: "Stripe",
		},
		{
			name:     "no charge at all",
			raw:      `{"id":"pi_1","amount":100,"metadata":{"donor_email":"a@b.c"}}`,
			expected: "Stripe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer(&fakeGateway{})
			intent, err := n.Normalize(context.Background(), intentEvent(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, intent.PaymentMethodDesc)
		})
	}
}

func TestNormalize_InvoiceEvent_IntentRetrievalFails_FillsFromInvoice(t *testing.T) {
	gw := &fakeGateway{
		intentErr: errors.New("stripe unavailable"),
		customer:  &stripe.Customer{ID: "cus_9", Email: "c@example.com"},
	}
	n := NewNormalizer(gw)

	event := &stripe.Event{
		ID:   "evt_2",
		Type: "invoice.payment_succeeded",
		Data: &stripe.EventData{Raw: json.RawMessage(
			`{"id":"in_9","object":"invoice","amount_paid":3000,"currency":"usd","payment_intent":"pi_9","charge":"ch_9","customer":"cus_9"}`,
		)},
	}

	intent, err := n.Normalize(context.Background(), event)
	require.NoError(t, err)

	// Intent lookup degraded, so the invoice provides amount and the charge
	// provides the transaction key.
	assert.Equal(t, 30.00, intent.Amount)
	assert.Equal(t, "ch_9", intent.TransactionID)
	assert.Equal(t, "c@example.com", intent.DonorEmail)
}
