package tests

import (
	"context"
	"errors"
	"testing"

	"shelter/internal/domain"
	"shelter/internal/repository"
	"shelter/internal/service"
	stripeclient "shelter/internal/stripe"
)

// ──────────────────────────────────────────────
// DONATION CHECKOUT FLOWS
// ──────────────────────────────────────────────

func TestDonation_CreatePaymentIntent_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		req     service.CreateIntentRequest
		wantErr error
	}{
		{
			name:    "amount below minimum",
			req:     service.CreateIntentRequest{Amount: 0.5, DonorName: "Jane", DonorEmail: "jane@example.com"},
			wantErr: service.ErrInvalidAmount,
		},
		{
			name:    "invalid email",
			req:     service.CreateIntentRequest{Amount: 10, DonorName: "Jane", DonorEmail: "nope"},
			wantErr: service.ErrInvalidEmail,
		},
		{
			name:    "blank name",
			req:     service.CreateIntentRequest{Amount: 10, DonorName: "   ", DonorEmail: "jane@example.com"},
			wantErr: service.ErrInvalidName,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := service.NewDonationService(NewMockDonationRepository(), NewMockGateway(), "USD")

			_, err := svc.CreatePaymentIntent(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got: %v", tc.wantErr, err)
			}
		})
	}
}

func TestDonation_CreatePaymentIntent_NoRecordUntilWebhook(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	gateway := NewMockGateway()
	gateway.IntentResult = &stripeclient.IntentResult{
		PaymentIntentID: "pi_new",
		ClientSecret:    "pi_new_secret",
	}

	svc := service.NewDonationService(donationRepo, gateway, "USD")

	result, err := svc.CreatePaymentIntent(context.Background(), service.CreateIntentRequest{
		Amount:     25,
		DonorName:  "Jane",
		DonorEmail: "jane@example.com",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if result.ClientSecret != "pi_new_secret" {
		t.Errorf("expected client secret passthrough, got %q", result.ClientSecret)
	}
	// The donation record only appears once the webhook confirms payment.
	if got := donationRepo.Count(); got != 0 {
		t.Errorf("expected no donation record at intent creation, got %d", got)
	}
}

func TestDonation_CreateSubscription_RecordsPendingDonation(t *testing.T) {
	t.Parallel()

	donationRepo := NewMockDonationRepository()
	gateway := NewMockGateway()
	gateway.SubscriptionResult = &stripeclient.SubscriptionResult{
		SubscriptionID:      "sub_1",
		CustomerID:          "cus_1",
		ClientSecret:        "pi_first_secret",
		PaymentIntentStatus: "requires_action",
	}

	svc := service.NewDonationService(donationRepo, gateway, "USD")

	result, err := svc.CreateSubscription(context.Background(), service.CreateSubscriptionRequest{
		Amount:          10,
		DonorName:       "Jane",
		DonorEmail:      "jane@example.com",
		PaymentMethodID: "pm_1",
	})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	donation := donationRepo.GetDonation(result.DonationID)
	if donation == nil {
		t.Fatal("expected pending donation record")
	}
	if donation.PaymentStatus != domain.DonationStatusPending {
		t.Errorf("expected pending status, got %s", donation.PaymentStatus)
	}
	if donation.DonationType != domain.DonationTypeMonthly {
		t.Errorf("expected monthly type, got %s", donation.DonationType)
	}
	if !donation.IsRecurring {
		t.Error("expected recurring donation")
	}
	if donation.StripeSubscriptionID != "sub_1" {
		t.Errorf("expected subscription sub_1, got %s", donation.StripeSubscriptionID)
	}
	if donation.TransactionID != "" {
		t.Errorf("transaction ID belongs to the webhook, got %q", donation.TransactionID)
	}
}

func TestDonation_CreateSubscription_MissingPaymentMethod(t *testing.T) {
	t.Parallel()

	svc := service.NewDonationService(NewMockDonationRepository(), NewMockGateway(), "USD")

	_, err := svc.CreateSubscription(context.Background(), service.CreateSubscriptionRequest{
		Amount:     10,
		DonorName:  "Jane",
		DonorEmail: "jane@example.com",
	})
	if !errors.Is(err, service.ErrInvalidPaymentMethod) {
		t.Errorf("expected ErrInvalidPaymentMethod, got: %v", err)
	}
}

// ──────────────────────────────────────────────
// ANIMAL ADOPTION
// ──────────────────────────────────────────────

func TestAnimal_Adopt_SetsStatusAndDate(t *testing.T) {
	t.Parallel()

	animalRepo := NewMockAnimalRepository()
	animalRepo.AddAnimal(&domain.Animal{ID: "a-1", Name: "Rex", Status: domain.AnimalStatusAvailable})

	svc := service.NewAnimalService(animalRepo)

	animal, err := svc.Adopt(context.Background(), "a-1")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if animal.Status != domain.AnimalStatusAdopted {
		t.Errorf("expected adopted status, got %s", animal.Status)
	}
	if animal.AdoptionDate == nil {
		t.Error("expected adoption date set")
	}
}

func TestAnimal_List_FiltersByStatus(t *testing.T) {
	t.Parallel()

	animalRepo := NewMockAnimalRepository()
	animalRepo.AddAnimal(&domain.Animal{ID: "a-1", Name: "Rex", Species: "dog", Status: domain.AnimalStatusAvailable})
	animalRepo.AddAnimal(&domain.Animal{ID: "a-2", Name: "Mia", Species: "cat", Status: domain.AnimalStatusAdopted})

	svc := service.NewAnimalService(animalRepo)

	animals, err := svc.List(context.Background(), repository.AnimalFilter{Status: domain.AnimalStatusAvailable})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(animals) != 1 {
		t.Fatalf("expected 1 available animal, got %d", len(animals))
	}
	if animals[0].ID != "a-1" {
		t.Errorf("expected a-1, got %s", animals[0].ID)
	}

	all, err := svc.List(context.Background(), repository.AnimalFilter{})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected empty filter to return all animals, got %d", len(all))
	}
}

func TestAnimal_Adopt_AlreadyAdopted(t *testing.T) {
	t.Parallel()

	animalRepo := NewMockAnimalRepository()
	animalRepo.AddAnimal(&domain.Animal{ID: "a-1", Name: "Rex", Status: domain.AnimalStatusAdopted})

	svc := service.NewAnimalService(animalRepo)

	_, err := svc.Adopt(context.Background(), "a-1")
	if !errors.Is(err, service.ErrAnimalAlreadyAdopted) {
		t.Errorf("expected ErrAnimalAlreadyAdopted, got: %v", err)
	}
}
