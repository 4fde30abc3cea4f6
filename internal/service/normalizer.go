package service

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/stripe/stripe-go/v74"

	"shelter/internal/domain"
	stripeclient "shelter/internal/stripe"
)

// DonationIntent is the canonical in-memory form of a successful payment
// event, derived from whichever shape Stripe delivered it in.
type DonationIntent struct {
	DonorName         string
	DonorEmail        string
	Amount            float64
	Currency          string
	DonationType      domain.DonationType
	IsRecurring       bool
	TransactionID     string
	SubscriptionID    string
	CustomerID        string
	PaymentMethodDesc string
}

// Normalizer converts raw Stripe events into DonationIntents. It may perform
// idempotent read call-outs (invoice, payment intent, customer); failures of
// those lookups degrade the corresponding field rather than aborting.
type Normalizer struct {
	gateway stripeclient.Gateway
}

// NewNormalizer creates a new Normalizer.
func NewNormalizer(gateway stripeclient.Gateway) *Normalizer {
	return &Normalizer{gateway: gateway}
}

// invoicePaymentRef probes an invoice-shaped payload for the invoice_payment
// wrapper, which only carries a reference to the real invoice.
type invoicePaymentRef struct {
	Object  string `json:"object"`
	Invoice string `json:"invoice"`
}

// Normalize maps a successful payment event into a DonationIntent. A missing
// donor email is a valid outcome, reported as an intent with an empty
// DonorEmail; the caller decides what that means.
func (n *Normalizer) Normalize(ctx context.Context, event *stripe.Event) (*DonationIntent, error) {
	var (
		pi  *stripe.PaymentIntent
		inv *stripe.Invoice
	)

	if event.Type == "payment_intent.succeeded" {
		pi = &stripe.PaymentIntent{}
		if err := json.Unmarshal(event.Data.Raw, pi); err != nil {
			return nil, err
		}
	} else {
		inv = n.resolveInvoice(ctx, event)
		if inv == nil {
			return nil, errMalformedInvoiceEvent
		}
		if inv.PaymentIntent != nil && inv.PaymentIntent.ID != "" {
			fetched, err := n.gateway.RetrievePaymentIntent(ctx, inv.PaymentIntent.ID)
			if err != nil {
				log.Printf("[WEBHOOK] could not retrieve payment intent %s for invoice %s: %v", inv.PaymentIntent.ID, inv.ID, err)
			} else {
				pi = fetched
			}
		}
	}

	intent := &DonationIntent{
		DonorName:    "Supporter",
		Currency:     "USD",
		DonationType: domain.DonationTypeOneTime,
	}

	intent.TransactionID = transactionID(pi, inv)
	intent.SubscriptionID = subscriptionID(pi, inv)

	switch {
	case pi != nil:
		n.fillFromPaymentIntent(ctx, intent, pi, inv)
	case inv != nil:
		n.fillFromInvoice(ctx, intent, inv)
	}

	intent.PaymentMethodDesc = paymentMethodDescriptor(pi)

	// Stringified null artifacts surface as missing, so the caller's empty
	// check covers both.
	if emailUnusable(intent.DonorEmail) {
		intent.DonorEmail = ""
	}

	return intent, nil
}

// resolveInvoice returns the full invoice object for an invoice-shaped event,
// fetching it when the payload is only an invoice_payment wrapper.
func (n *Normalizer) resolveInvoice(ctx context.Context, event *stripe.Event) *stripe.Invoice {
	var ref invoicePaymentRef
	if err := json.Unmarshal(event.Data.Raw, &ref); err != nil {
		return nil
	}

	if ref.Object == "invoice_payment" && ref.Invoice != "" {
		fetched, err := n.gateway.RetrieveInvoice(ctx, ref.Invoice)
		if err != nil {
			log.Printf("[WEBHOOK] could not retrieve full invoice %s for wrapper object: %v", ref.Invoice, err)
		} else {
			return fetched
		}
	}

	inv := &stripe.Invoice{}
	if err := json.Unmarshal(event.Data.Raw, inv); err != nil {
		return nil
	}

	return inv
}

func (n *Normalizer) fillFromPaymentIntent(ctx context.Context, intent *DonationIntent, pi *stripe.PaymentIntent, inv *stripe.Invoice) {
	meta := pi.Metadata
	if meta == nil {
		meta = map[string]string{}
	}

	if name := firstNonEmpty(meta["donor_name"], meta["donorName"], shippingName(pi)); name != "" {
		intent.DonorName = name
	}
	intent.DonorEmail = firstNonEmpty(meta["donor_email"], meta["donorEmail"], pi.ReceiptEmail)

	// A subscription reference on the invoice wins over whatever the intent
	// metadata claims.
	if inv != nil && inv.Subscription != nil && inv.Subscription.ID != "" {
		intent.DonationType = domain.DonationTypeMonthly
		intent.IsRecurring = true
	} else {
		if t := meta["donation_type"]; t != "" {
			intent.DonationType = domain.DonationType(t)
		}
		intent.IsRecurring = intent.DonationType != domain.DonationTypeOneTime
	}

	intent.Amount = float64(pi.Amount) / 100
	if pi.Currency != "" {
		intent.Currency = strings.ToUpper(string(pi.Currency))
	}
	if pi.Customer != nil {
		intent.CustomerID = pi.Customer.ID
	}

	if emailUnusable(intent.DonorEmail) && intent.CustomerID != "" {
		n.fillFromCustomer(ctx, intent)
	}
}

func (n *Normalizer) fillFromInvoice(ctx context.Context, intent *DonationIntent, inv *stripe.Invoice) {
	intent.Amount = float64(inv.AmountPaid) / 100
	if inv.Currency != "" {
		intent.Currency = strings.ToUpper(string(inv.Currency))
	}
	if inv.Customer != nil {
		intent.CustomerID = inv.Customer.ID
	}
	if inv.Subscription != nil && inv.Subscription.ID != "" {
		intent.DonationType = domain.DonationTypeMonthly
		intent.IsRecurring = true
	}

	if intent.CustomerID != "" {
		n.fillFromCustomer(ctx, intent)
	}
}

// fillFromCustomer is the last-resort donor lookup. A failed retrieval leaves
// the email unresolved; it never aborts normalization.
func (n *Normalizer) fillFromCustomer(ctx context.Context, intent *DonationIntent) {
	customer, err := n.gateway.RetrieveCustomer(ctx, intent.CustomerID)
	if err != nil {
		log.Printf("[WEBHOOK] could not retrieve customer %s for donor email: %v", intent.CustomerID, err)
		return
	}

	if customer.Email != "" {
		intent.DonorEmail = customer.Email
		if customer.Name != "" {
			intent.DonorName = customer.Name
		}
		log.Printf("[WEBHOOK] resolved donor email from customer %s", intent.CustomerID)
	}
}

func transactionID(pi *stripe.PaymentIntent, inv *stripe.Invoice) string {
	if pi != nil && pi.ID != "" {
		return pi.ID
	}
	if inv != nil {
		if inv.Charge != nil && inv.Charge.ID != "" {
			return inv.Charge.ID
		}
		return inv.ID
	}
	return ""
}

func subscriptionID(pi *stripe.PaymentIntent, inv *stripe.Invoice) string {
	if inv != nil && inv.Subscription != nil && inv.Subscription.ID != "" {
		return inv.Subscription.ID
	}
	if pi != nil && pi.Metadata != nil {
		return pi.Metadata["stripeSubscriptionId"]
	}
	return ""
}

// paymentMethodDescriptor builds a human-readable payment method string from
// the intent's latest charge, e.g. "Visa •••• 4242". Falls back to "Stripe".
func paymentMethodDescriptor(pi *stripe.PaymentIntent) string {
	if pi == nil || pi.LatestCharge == nil {
		return "Stripe"
	}

	details := pi.LatestCharge.PaymentMethodDetails
	if details == nil {
		return "Stripe"
	}
	if details.Card != nil && details.Card.Last4 != "" {
		return capitalize(string(details.Card.Brand)) + " •••• " + details.Card.Last4
	}
	if details.Type != "" {
		return capitalize(string(details.Type))
	}

	return "Stripe"
}

func shippingName(pi *stripe.PaymentIntent) string {
	if pi.Shipping == nil {
		return ""
	}
	return pi.Shipping.Name
}

// emailUnusable treats the stringified null artifacts some clients send as
// missing values.
func emailUnusable(email string) bool {
	return email == "" || email == "null" || email == "undefined"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
