package tests

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stripe/stripe-go/v74"

	"shelter/internal/domain"
	"shelter/internal/service"
)

// ──────────────────────────────────────────────
// INVOICE-SHAPED SUCCESS EVENTS
// ──────────────────────────────────────────────

func TestWebhook_InvoiceWithSubscription_RecordedAsMonthly(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	gateway := NewMockGateway()
	gateway.PaymentIntents["pi_inv"] = &stripe.PaymentIntent{
		ID:       "pi_inv",
		Amount:   1500,
		Currency: "eur",
		Metadata: map[string]string{
			"donor_name":  "Monthly Donor",
			"donor_email": "monthly@example.com",
		},
		LatestCharge: &stripe.Charge{
			ID: "ch_inv",
			PaymentMethodDetails: &stripe.ChargePaymentMethodDetails{
				Type: "card",
				Card: &stripe.ChargePaymentMethodDetailsCard{
					Brand: "visa",
					Last4: "4242",
				},
			},
		},
	}
	m := NewMockMailer()

	svc := service.NewWebhookService(donationRepo, gateway, m, testOrgName)

	event := &stripe.Event{
		ID:   "evt_inv",
		Type: "invoice.payment_succeeded",
		Data: &stripe.EventData{Raw: json.RawMessage(`{
			"id": "in_1",
			"object": "invoice",
			"amount_paid": 1500,
			"currency": "eur",
			"subscription": "sub_1",
			"payment_intent": "pi_inv",
			"customer": "cus_1"
		}`)},
	}

	if err := svc.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	donation, _ := donationRepo.GetByTransactionID(context.Background(), "pi_inv")
	if donation == nil {
		t.Fatal("expected donation keyed by payment intent ID")
	}

	if donation.DonationType != domain.DonationTypeMonthly {
		t.Errorf("expected monthly donation, got %s", donation.DonationType)
	}
	if !donation.IsRecurring {
		t.Error("expected recurring donation for subscription invoice")
	}
	if donation.StripeSubscriptionID != "sub_1" {
		t.Errorf("expected subscription sub_1, got %s", donation.StripeSubscriptionID)
	}
	if donation.Amount != 15.00 {
		t.Errorf("expected amount 15.00, got %v", donation.Amount)
	}
	if donation.Currency != "EUR" {
		t.Errorf("expected currency EUR, got %s", donation.Currency)
	}
	if m.SendCallCount != 1 {
		t.Errorf("expected 1 receipt, got %d", m.SendCallCount)
	}

	sent := m.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 recorded send, got %d", len(sent))
	}
	if !strings.Contains(sent[0].HTML, "Visa •••• 4242") {
		t.Error("expected receipt to describe the card from the latest charge")
	}
}

func TestWebhook_InvoiceWithoutPaymentIntent_FallsBackToCharge(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	gateway := NewMockGateway()
	gateway.Customers["cus_2"] = &stripe.Customer{
		ID:    "cus_2",
		Email: "invoice-donor@example.com",
		Name:  "Invoice Donor",
	}
	m := NewMockMailer()

	svc := service.NewWebhookService(donationRepo, gateway, m, testOrgName)

	event := &stripe.Event{
		ID:   "evt_inv2",
		Type: "invoice.paid",
		Data: &stripe.EventData{Raw: json.RawMessage(`{
			"id": "in_2",
			"object": "invoice",
			"amount_paid": 2500,
			"currency": "usd",
			"charge": "ch_1",
			"customer": "cus_2"
		}`)},
	}

	if err := svc.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	donation, _ := donationRepo.GetByTransactionID(context.Background(), "ch_1")
	if donation == nil {
		t.Fatal("expected donation keyed by charge ID")
	}
	if donation.Amount != 25.00 {
		t.Errorf("expected amount 25.00, got %v", donation.Amount)
	}
	if donation.DonorInfo.Email != "invoice-donor@example.com" {
		t.Errorf("expected email from customer lookup, got %q", donation.DonorInfo.Email)
	}
}

func TestWebhook_InvoiceWithoutChargeOrIntent_KeyedByInvoiceID(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	gateway := NewMockGateway()
	gateway.Customers["cus_3"] = &stripe.Customer{ID: "cus_3", Email: "d@example.com"}
	m := NewMockMailer()

	svc := service.NewWebhookService(donationRepo, gateway, m, testOrgName)

	event := &stripe.Event{
		ID:   "evt_inv3",
		Type: "invoice.paid",
		Data: &stripe.EventData{Raw: json.RawMessage(`{
			"id": "in_3",
			"object": "invoice",
			"amount_paid": 1000,
			"currency": "usd",
			"customer": "cus_3"
		}`)},
	}

	if err := svc.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if donation, _ := donationRepo.GetByTransactionID(context.Background(), "in_3"); donation == nil {
		t.Fatal("expected donation keyed by invoice ID as last resort")
	}
}

// ──────────────────────────────────────────────
// INVOICE_PAYMENT WRAPPER EVENTS
// ──────────────────────────────────────────────

func TestWebhook_InvoicePaymentWrapper_ResolvesFullInvoice(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	gateway := NewMockGateway()
	gateway.Invoices["in_wrapped"] = &stripe.Invoice{
		ID:           "in_wrapped",
		AmountPaid:   5000,
		Currency:     "usd",
		Subscription: &stripe.Subscription{ID: "sub_w"},
		Customer:     &stripe.Customer{ID: "cus_w"},
	}
	gateway.Customers["cus_w"] = &stripe.Customer{
		ID:    "cus_w",
		Email: "wrapped@example.com",
		Name:  "Wrapped Donor",
	}
	m := NewMockMailer()

	svc := service.NewWebhookService(donationRepo, gateway, m, testOrgName)

	event := &stripe.Event{
		ID:   "evt_wrap",
		Type: "invoice_payment.paid",
		Data: &stripe.EventData{Raw: json.RawMessage(`{
			"id": "inpay_1",
			"object": "invoice_payment",
			"invoice": "in_wrapped"
		}`)},
	}

	if err := svc.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if gateway.RetrieveInvoiceCallCount != 1 {
		t.Errorf("expected 1 invoice retrieval for wrapper, got %d", gateway.RetrieveInvoiceCallCount)
	}

	donation, _ := donationRepo.GetByTransactionID(context.Background(), "in_wrapped")
	if donation == nil {
		t.Fatal("expected donation from resolved invoice")
	}
	if donation.Amount != 50.00 {
		t.Errorf("expected amount 50.00, got %v", donation.Amount)
	}
	if donation.DonationType != domain.DonationTypeMonthly {
		t.Errorf("expected monthly for subscription invoice, got %s", donation.DonationType)
	}
	if donation.DonorInfo.Email != "wrapped@example.com" {
		t.Errorf("expected donor email from customer, got %q", donation.DonorInfo.Email)
	}
}

func TestWebhook_RecurringRedelivery_MatchedBySubscriptionPair(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	gateway := NewMockGateway()
	gateway.Customers["cus_4"] = &stripe.Customer{ID: "cus_4", Email: "r@example.com"}
	m := NewMockMailer()

	svc := service.NewWebhookService(donationRepo, gateway, m, testOrgName)

	event := &stripe.Event{
		ID:   "evt_rec",
		Type: "invoice.payment_succeeded",
		Data: &stripe.EventData{Raw: json.RawMessage(`{
			"id": "in_rec",
			"object": "invoice",
			"amount_paid": 1000,
			"currency": "usd",
			"subscription": "sub_rec",
			"charge": "ch_rec",
			"customer": "cus_4"
		}`)},
	}

	for i := 0; i < 3; i++ {
		if err := svc.ProcessEvent(context.Background(), event); err != nil {
			t.Fatalf("delivery %d: expected no error, got: %v", i+1, err)
		}
	}

	if got := donationRepo.Count(); got != 1 {
		t.Errorf("expected single record across redeliveries, got %d", got)
	}
	if m.SendCallCount != 1 {
		t.Errorf("expected single receipt, got %d", m.SendCallCount)
	}
}
