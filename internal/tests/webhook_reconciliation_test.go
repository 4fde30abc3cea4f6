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

const testOrgName = "Happy Tails Animal Shelter"

func paymentIntentEvent(t *testing.T, raw string) *stripe.Event {
	t.Helper()
	return &stripe.Event{
		ID:   "evt_test",
		Type: "payment_intent.succeeded",
		Data: &stripe.EventData{Raw: json.RawMessage(raw)},
	}
}

// ──────────────────────────────────────────────
// 1. REDELIVERY IDEMPOTENCY
// ──────────────────────────────────────────────

func TestWebhook_RepeatedDelivery_OneRecordOneReceipt(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	gateway := NewMockGateway()
	m := NewMockMailer()

	svc := service.NewWebhookService(donationRepo, gateway, m, testOrgName)

	event := paymentIntentEvent(t, `{
		"id": "pi_123",
		"object": "payment_intent",
		"amount": 2500,
		"currency": "usd",
		"metadata": {"donor_name": "Jane Doe", "donor_email": "jane@example.com"}
	}`)

	for i := 0; i < 5; i++ {
		if err := svc.ProcessEvent(context.Background(), event); err != nil {
			t.Fatalf("delivery %d: expected no error, got: %v", i+1, err)
		}
	}

	if got := donationRepo.Count(); got != 1 {
		t.Errorf("expected exactly 1 donation record, got %d", got)
	}
	if got := m.SendCallCount; got != 1 {
		t.Errorf("expected exactly 1 receipt send, got %d", got)
	}
}

func TestWebhook_FirstDelivery_CreatesCompletedDonation(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	gateway := NewMockGateway()
	m := NewMockMailer()

	svc := service.NewWebhookService(donationRepo, gateway, m, testOrgName)

	event := paymentIntentEvent(t, `{
		"id": "pi_456",
		"object": "payment_intent",
		"amount": 2500,
		"currency": "usd",
		"metadata": {"donor_name": "Jane Doe", "donor_email": "jane@example.com"}
	}`)

	if err := svc.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	donation, err := donationRepo.GetByTransactionID(context.Background(), "pi_456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if donation == nil {
		t.Fatal("expected donation record for transaction pi_456")
	}

	if donation.Amount != 25.00 {
		t.Errorf("expected amount 25.00, got %v", donation.Amount)
	}
	if donation.Currency != "USD" {
		t.Errorf("expected currency USD, got %s", donation.Currency)
	}
	if donation.DonorInfo.Name != "Jane Doe" {
		t.Errorf("expected donor name Jane Doe, got %s", donation.DonorInfo.Name)
	}
	if donation.PaymentStatus != domain.DonationStatusCompleted {
		t.Errorf("expected status completed, got %s", donation.PaymentStatus)
	}
	if donation.DonationType != domain.DonationTypeOneTime {
		t.Errorf("expected one-time donation, got %s", donation.DonationType)
	}
	if donation.IsRecurring {
		t.Error("expected non-recurring donation")
	}
	if !donation.ReceiptSent {
		t.Error("expected receipt_sent to be true after dispatch")
	}
	if donation.CompletedAt == nil {
		t.Error("expected completed_at to be set")
	}

	sent := m.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sent))
	}
	if sent[0].To != "jane@example.com" {
		t.Errorf("expected receipt to jane@example.com, got %s", sent[0].To)
	}
	if !strings.Contains(sent[0].HTML, "$25.00") {
		t.Errorf("expected receipt HTML to contain $25.00")
	}
}

func TestWebhook_ExistingDonationWithReceiptSent_NoSecondSend(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	donationRepo.AddDonation(&domain.Donation{
		ID:            "d-1",
		DonorInfo:     domain.DonorInfo{Name: "Jane", Email: "jane@example.com"},
		TransactionID: "pi_789",
		PaymentStatus: domain.DonationStatusCompleted,
		ReceiptSent:   true,
	})
	gateway := NewMockGateway()
	m := NewMockMailer()

	svc := service.NewWebhookService(donationRepo, gateway, m, testOrgName)

	event := paymentIntentEvent(t, `{
		"id": "pi_789",
		"object": "payment_intent",
		"amount": 1000,
		"currency": "usd",
		"metadata": {"donor_email": "jane@example.com"}
	}`)

	if err := svc.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if got := donationRepo.Count(); got != 1 {
		t.Errorf("expected no new record, got %d records", got)
	}
	if m.SendCallCount != 0 {
		t.Errorf("expected no email, got %d sends", m.SendCallCount)
	}
}

func TestWebhook_ExistingDonationWithoutReceipt_SendsReceipt(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	donationRepo.AddDonation(&domain.Donation{
		ID:            "d-1",
		DonorInfo:     domain.DonorInfo{Name: "Jane", Email: "jane@example.com"},
		Amount:        10,
		Currency:      "USD",
		TransactionID: "pi_retry",
		PaymentStatus: domain.DonationStatusCompleted,
		ReceiptSent:   false,
	})
	gateway := NewMockGateway()
	m := NewMockMailer()

	svc := service.NewWebhookService(donationRepo, gateway, m, testOrgName)

	event := paymentIntentEvent(t, `{
		"id": "pi_retry",
		"object": "payment_intent",
		"amount": 1000,
		"currency": "usd",
		"metadata": {"donor_email": "jane@example.com"}
	}`)

	if err := svc.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if m.SendCallCount != 1 {
		t.Errorf("expected 1 email for redelivered event with unsent receipt, got %d", m.SendCallCount)
	}
	if d := donationRepo.GetDonation("d-1"); !d.ReceiptSent {
		t.Error("expected receipt_sent to be true")
	}
}

// ──────────────────────────────────────────────
// 2. UNRESOLVED DONOR EMAIL
// ──────────────────────────────────────────────

func TestWebhook_UnresolvedEmail_NoRecordNoSend(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	gateway := NewMockGateway()
	m := NewMockMailer()

	svc := service.NewWebhookService(donationRepo, gateway, m, testOrgName)

	// No metadata email, no receipt_email, no customer to fall back to.
	event := paymentIntentEvent(t, `{
		"id": "pi_noemail",
		"object": "payment_intent",
		"amount": 500,
		"currency": "usd"
	}`)

	if err := svc.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected acknowledged no-op, got error: %v", err)
	}

	if got := donationRepo.Count(); got != 0 {
		t.Errorf("expected no donation record, got %d", got)
	}
	if m.SendCallCount != 0 {
		t.Errorf("expected no email, got %d sends", m.SendCallCount)
	}
}

func TestWebhook_StringifiedNullEmail_ResolvedFromCustomer(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	gateway := NewMockGateway()
	gateway.Customers["cus_1"] = &stripe.Customer{
		ID:    "cus_1",
		Email: "real@example.com",
		Name:  "Real Donor",
	}
	m := NewMockMailer()

	svc := service.NewWebhookService(donationRepo, gateway, m, testOrgName)

	event := paymentIntentEvent(t, `{
		"id": "pi_nullmail",
		"object": "payment_intent",
		"amount": 1500,
		"currency": "usd",
		"customer": "cus_1",
		"metadata": {"donor_email": "null"}
	}`)

	if err := svc.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	donation, _ := donationRepo.GetByTransactionID(context.Background(), "pi_nullmail")
	if donation == nil {
		t.Fatal("expected donation record")
	}
	if donation.DonorInfo.Email != "real@example.com" {
		t.Errorf("expected email resolved from customer, got %q", donation.DonorInfo.Email)
	}
	if donation.DonorInfo.Name != "Real Donor" {
		t.Errorf("expected name from customer, got %q", donation.DonorInfo.Name)
	}
}

// ──────────────────────────────────────────────
// 3. CONCURRENT DELIVERY RACE
// ──────────────────────────────────────────────

func TestWebhook_InsertConflict_UsesWinnerRecord(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	gateway := NewMockGateway()
	m := NewMockMailer()

	svc := service.NewWebhookService(donationRepo, gateway, m, testOrgName)

	// Simulate two near-simultaneous deliveries: the winner's record lands
	// between this delivery's dedup check and its insert.
	winner := &domain.Donation{
		ID:            "winner",
		DonorInfo:     domain.DonorInfo{Name: "Jane", Email: "jane@example.com"},
		Amount:        25,
		Currency:      "USD",
		TransactionID: "pi_race",
		PaymentStatus: domain.DonationStatusCompleted,
		ReceiptSent:   true,
	}
	donationRepo.AddDonation(winner)
	// The dedup lookup misses once, so the insert path runs and hits the
	// uniqueness conflict; the service must re-fetch the winner's record.
	donationRepo.MissFirstLookups = 1

	event := paymentIntentEvent(t, `{
		"id": "pi_race",
		"object": "payment_intent",
		"amount": 2500,
		"currency": "usd",
		"metadata": {"donor_email": "jane@example.com"}
	}`)

	if err := svc.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if got := donationRepo.Count(); got != 1 {
		t.Errorf("expected single record after race, got %d", got)
	}
	if m.SendCallCount != 0 {
		t.Errorf("winner already sent receipt, expected 0 sends, got %d", m.SendCallCount)
	}
}

func TestWebhook_InsertConflict_WinnerWithoutReceipt_Dispatches(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	gateway := NewMockGateway()
	m := NewMockMailer()

	svc := service.NewWebhookService(donationRepo, gateway, m, testOrgName)

	donationRepo.AddDonation(&domain.Donation{
		ID:            "winner",
		DonorInfo:     domain.DonorInfo{Name: "Jane", Email: "jane@example.com"},
		Amount:        25,
		Currency:      "USD",
		TransactionID: "pi_race2",
		PaymentStatus: domain.DonationStatusCompleted,
		ReceiptSent:   false,
	})
	donationRepo.MissFirstLookups = 1

	event := paymentIntentEvent(t, `{
		"id": "pi_race2",
		"object": "payment_intent",
		"amount": 2500,
		"currency": "usd",
		"metadata": {"donor_email": "jane@example.com"}
	}`)

	if err := svc.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if got := donationRepo.Count(); got != 1 {
		t.Errorf("expected single record after race, got %d", got)
	}
	if m.SendCallCount != 1 {
		t.Errorf("expected 1 send for winner without receipt, got %d", m.SendCallCount)
	}
	if d := donationRepo.GetDonation("winner"); !d.ReceiptSent {
		t.Error("expected winner's receipt_sent flipped")
	}
}

// ──────────────────────────────────────────────
// 4. SEND FAILURE AND RETRY
// ──────────────────────────────────────────────

func TestWebhook_SendFailure_RedeliveryRetries(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	gateway := NewMockGateway()
	m := NewMockMailer()
	m.FailFirst = 1

	svc := service.NewWebhookService(donationRepo, gateway, m, testOrgName)

	event := paymentIntentEvent(t, `{
		"id": "pi_flaky",
		"object": "payment_intent",
		"amount": 2000,
		"currency": "usd",
		"metadata": {"donor_email": "jane@example.com"}
	}`)

	// First delivery: record created, send fails, gate reverted, 200 returned.
	if err := svc.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected send failure to be absorbed, got: %v", err)
	}

	donation, _ := donationRepo.GetByTransactionID(context.Background(), "pi_flaky")
	if donation == nil {
		t.Fatal("expected donation record to survive the failed send")
	}
	if donation.ReceiptSent {
		t.Error("expected receipt gate reverted after failed send")
	}
	if donationRepo.ClearReceiptSentCount != 1 {
		t.Errorf("expected 1 gate revert, got %d", donationRepo.ClearReceiptSentCount)
	}

	// Redelivery: same record, send succeeds this time.
	if err := svc.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error on redelivery, got: %v", err)
	}

	if got := donationRepo.Count(); got != 1 {
		t.Errorf("expected single record, got %d", got)
	}
	if len(m.Sent()) != 1 {
		t.Errorf("expected 1 successful send after retry, got %d", len(m.Sent()))
	}
	donation, _ = donationRepo.GetByTransactionID(context.Background(), "pi_flaky")
	if !donation.ReceiptSent {
		t.Error("expected receipt_sent true after successful retry")
	}
}

// ──────────────────────────────────────────────
// 5. FAILED PAYMENTS AND UNKNOWN EVENTS
// ──────────────────────────────────────────────

func TestWebhook_PaymentFailed_MarksDonationFailed(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	donationRepo.AddDonation(&domain.Donation{
		ID:            "d-1",
		TransactionID: "pi_fail",
		PaymentStatus: domain.DonationStatusPending,
	})
	gateway := NewMockGateway()
	m := NewMockMailer()

	svc := service.NewWebhookService(donationRepo, gateway, m, testOrgName)

	event := &stripe.Event{
		ID:   "evt_fail",
		Type: "payment_intent.payment_failed",
		Data: &stripe.EventData{Raw: json.RawMessage(`{"id": "pi_fail", "object": "payment_intent"}`)},
	}

	if err := svc.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if d := donationRepo.GetDonation("d-1"); d.PaymentStatus != domain.DonationStatusFailed {
		t.Errorf("expected status failed, got %s", d.PaymentStatus)
	}
	if m.SendCallCount != 0 {
		t.Errorf("failed payments must not send receipts, got %d sends", m.SendCallCount)
	}
}

func TestWebhook_PaymentFailed_UnknownTransaction_NoOp(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	gateway := NewMockGateway()
	m := NewMockMailer()

	svc := service.NewWebhookService(donationRepo, gateway, m, testOrgName)

	event := &stripe.Event{
		ID:   "evt_fail2",
		Type: "payment_intent.payment_failed",
		Data: &stripe.EventData{Raw: json.RawMessage(`{"id": "pi_ghost", "object": "payment_intent"}`)},
	}

	if err := svc.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got := donationRepo.Count(); got != 0 {
		t.Errorf("failed payment must not create records, got %d", got)
	}
}

func TestWebhook_UnknownEventType_Acknowledged(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	gateway := NewMockGateway()
	m := NewMockMailer()

	svc := service.NewWebhookService(donationRepo, gateway, m, testOrgName)

	event := &stripe.Event{
		ID:   "evt_unknown",
		Type: "customer.subscription.updated",
		Data: &stripe.EventData{Raw: json.RawMessage(`{}`)},
	}

	if err := svc.ProcessEvent(context.Background(), event); err != nil {
		t.Fatalf("unknown event types must be acknowledged, got: %v", err)
	}
	if got := donationRepo.Count(); got != 0 {
		t.Errorf("expected no records, got %d", got)
	}
	if m.SendCallCount != 0 {
		t.Errorf("expected no sends, got %d", m.SendCallCount)
	}
}
