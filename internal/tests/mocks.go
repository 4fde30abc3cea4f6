package tests

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stripe/stripe-go/v74"

	"shelter/internal/domain"
	"shelter/internal/mailer"
	internalRedis "shelter/internal/redis"
	"shelter/internal/repository"
	stripeclient "shelter/internal/stripe"
)

// ──────────────────────────────────────────────
// MOCK DONATION REPOSITORY
// ──────────────────────────────────────────────

// MockDonationRepository is a mock implementation of DonationRepository.
// It enforces transaction ID uniqueness the way the real store does, so
// concurrent-delivery races can be exercised in tests.
type MockDonationRepository struct {
	mu        sync.RWMutex
	donations map[string]*domain.Donation

	// Counters for verification
	CreateCallCount          int32
	MarkReceiptSentCallCount int32
	ClearReceiptSentCount    int32
	UpdateStatusCallCount    int32

	// Error injection
	CreateError       error
	GetError          error
	MarkReceiptError  error
	UpdateStatusError error

	// MissFirstLookups makes the first N transaction lookups report a miss.
	// Simulates the window where a concurrent delivery inserts between this
	// delivery's dedup check and its own insert.
	MissFirstLookups int32
}

// NewMockDonationRepository creates a new mock donation repository.
func NewMockDonationRepository() *MockDonationRepository {
	return &MockDonationRepository{
		donations: make(map[string]*domain.Donation),
	}
}

// AddDonation seeds a donation into the mock repository.
func (m *MockDonationRepository) AddDonation(donation *domain.Donation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.donations[donation.ID] = donation
}

// GetDonation returns a donation for test assertions.
func (m *MockDonationRepository) GetDonation(id string) *domain.Donation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.donations[id]
}

// Count returns the number of stored donations.
func (m *MockDonationRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.donations)
}

func (m *MockDonationRepository) Create(ctx context.Context, donation *domain.Donation) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// Empty transaction IDs are exempt from uniqueness, matching the
	// partial index in the real store.
	if donation.TransactionID != "" {
		for _, d := range m.donations {
			if d.TransactionID == donation.TransactionID {
				return repository.ErrConflict
			}
		}
	}
	copy := *donation
	m.donations[donation.ID] = &copy
	return nil
}

func (m *MockDonationRepository) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	donation, ok := m.donations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *donation
	return &copy, nil
}

func (m *MockDonationRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Donation, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	if atomic.AddInt32(&m.MissFirstLookups, -1) >= 0 {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.donations {
		if d.TransactionID == transactionID {
			copy := *d
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockDonationRepository) GetBySubscriptionAndTransaction(ctx context.Context, subscriptionID, transactionID string) (*domain.Donation, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.donations {
		if d.StripeSubscriptionID == subscriptionID && d.TransactionID == transactionID {
			copy := *d
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockDonationRepository) MarkReceiptSent(ctx context.Context, id string, sentAt time.Time) (bool, error) {
	atomic.AddInt32(&m.MarkReceiptSentCallCount, 1)
	if m.MarkReceiptError != nil {
		return false, m.MarkReceiptError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	donation, ok := m.donations[id]
	if !ok || donation.ReceiptSent {
		return false, nil
	}
	donation.ReceiptSent = true
	donation.ReceiptSentAt = &sentAt
	return true, nil
}

func (m *MockDonationRepository) ClearReceiptSent(ctx context.Context, id string) error {
	atomic.AddInt32(&m.ClearReceiptSentCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	if donation, ok := m.donations[id]; ok {
		donation.ReceiptSent = false
		donation.ReceiptSentAt = nil
	}
	return nil
}

func (m *MockDonationRepository) UpdateStatus(ctx context.Context, id string, status domain.DonationStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	donation, ok := m.donations[id]
	if !ok {
		return repository.ErrNotFound
	}
	donation.PaymentStatus = status
	return nil
}

func (m *MockDonationRepository) GetAll(ctx context.Context) ([]*domain.Donation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Donation, 0, len(m.donations))
	for _, d := range m.donations {
		copy := *d
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockDonationRepository) CompletedStats(ctx context.Context) (repository.DonationStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := repository.DonationStats{}
	for _, d := range m.donations {
		if d.PaymentStatus == domain.DonationStatusCompleted {
			stats.Count++
			stats.Revenue += d.Amount
		}
	}
	return stats, nil
}

// ──────────────────────────────────────────────
// MOCK STRIPE GATEWAY
// ──────────────────────────────────────────────

// MockGateway is a mock implementation of the Stripe gateway.
type MockGateway struct {
	mu sync.RWMutex

	Invoices       map[string]*stripe.Invoice
	PaymentIntents map[string]*stripe.PaymentIntent
	Customers      map[string]*stripe.Customer

	IntentResult       *stripeclient.IntentResult
	SubscriptionResult *stripeclient.SubscriptionResult

	// VerifiedEvent is what VerifyEvent returns when set.
	VerifiedEvent *stripe.Event

	// Counters for verification
	RetrieveInvoiceCallCount  int32
	RetrieveIntentCallCount   int32
	RetrieveCustomerCallCount int32

	// Error injection
	VerifyError             error
	RetrieveInvoiceError    error
	RetrieveIntentError     error
	RetrieveCustomerError   error
	CreateIntentError       error
	CreateSubscriptionError error
}

// NewMockGateway creates a new mock gateway.
func NewMockGateway() *MockGateway {
	return &MockGateway{
		Invoices:       make(map[string]*stripe.Invoice),
		PaymentIntents: make(map[string]*stripe.PaymentIntent),
		Customers:      make(map[string]*stripe.Customer),
	}
}

func (m *MockGateway) VerifyEvent(payload []byte, signature string) (*stripe.Event, error) {
	if m.VerifyError != nil {
		return nil, m.VerifyError
	}
	if m.VerifiedEvent != nil {
		return m.VerifiedEvent, nil
	}
	return &stripe.Event{ID: "evt_verified", Type: "unknown.type", Data: &stripe.EventData{Raw: []byte(`{}`)}}, nil
}

func (m *MockGateway) RetrieveInvoice(ctx context.Context, id string) (*stripe.Invoice, error) {
	atomic.AddInt32(&m.RetrieveInvoiceCallCount, 1)
	if m.RetrieveInvoiceError != nil {
		return nil, m.RetrieveInvoiceError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	inv, ok := m.Invoices[id]
	if !ok {
		return nil, errors.New("no such invoice: " + id)
	}
	return inv, nil
}

func (m *MockGateway) RetrievePaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	atomic.AddInt32(&m.RetrieveIntentCallCount, 1)
	if m.RetrieveIntentError != nil {
		return nil, m.RetrieveIntentError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	pi, ok := m.PaymentIntents[id]
	if !ok {
		return nil, errors.New("no such payment intent: " + id)
	}
	return pi, nil
}

func (m *MockGateway) RetrieveCustomer(ctx context.Context, id string) (*stripe.Customer, error) {
	atomic.AddInt32(&m.RetrieveCustomerCallCount, 1)
	if m.RetrieveCustomerError != nil {
		return nil, m.RetrieveCustomerError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	customer, ok := m.Customers[id]
	if !ok {
		return nil, errors.New("no such customer: " + id)
	}
	return customer, nil
}

func (m *MockGateway) CreatePaymentIntent(ctx context.Context, req stripeclient.IntentRequest) (*stripeclient.IntentResult, error) {
	if m.CreateIntentError != nil {
		return nil, m.CreateIntentError
	}
	if m.IntentResult != nil {
		return m.IntentResult, nil
	}
	return &stripeclient.IntentResult{PaymentIntentID: "pi_mock", ClientSecret: "pi_mock_secret"}, nil
}

func (m *MockGateway) CreateSubscription(ctx context.Context, req stripeclient.SubscriptionRequest) (*stripeclient.SubscriptionResult, error) {
	if m.CreateSubscriptionError != nil {
		return nil, m.CreateSubscriptionError
	}
	if m.SubscriptionResult != nil {
		return m.SubscriptionResult, nil
	}
	return &stripeclient.SubscriptionResult{
		SubscriptionID:      "sub_mock",
		CustomerID:          "cus_mock",
		ClientSecret:        "pi_mock_secret",
		PaymentIntentStatus: "requires_action",
	}, nil
}

// ──────────────────────────────────────────────
// MOCK MAILER
// ──────────────────────────────────────────────

// SentEmail records a single send for assertions.
type SentEmail struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// MockMailer is a mock email sender.
type MockMailer struct {
	mu   sync.Mutex
	sent []SentEmail

	SendCallCount int32

	// FailFirst makes the first N sends fail before succeeding.
	FailFirst int32
	SendError error
}

// NewMockMailer creates a new mock mailer.
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) Send(ctx context.Context, to, subject, html, text string) (*mailer.Delivery, error) {
	n := atomic.AddInt32(&m.SendCallCount, 1)
	if m.SendError != nil {
		return nil, m.SendError
	}
	if n <= atomic.LoadInt32(&m.FailFirst) {
		return nil, errors.New("mailer: simulated delivery failure")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentEmail{To: to, Subject: subject, HTML: html, Text: text})
	return &mailer.Delivery{Accepted: []string{to}}, nil
}

// Sent returns all recorded sends.
func (m *MockMailer) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.sent))
	copy(out, m.sent)
	return out
}

// ──────────────────────────────────────────────
// MOCK STATS CACHE
// ──────────────────────────────────────────────

// MockStatsCache is an in-memory stand-in for the Redis dashboard cache.
type MockStatsCache struct {
	mu        sync.Mutex
	Dashboard *internalRedis.CachedDashboard

	GetCallCount int32
	SetCallCount int32

	GetError error
	SetError error
}

// NewMockStatsCache creates a new mock stats cache.
func NewMockStatsCache() *MockStatsCache {
	return &MockStatsCache{}
}

func (m *MockStatsCache) GetDashboard(ctx context.Context) (*internalRedis.CachedDashboard, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Dashboard, nil
}

func (m *MockStatsCache) SetDashboard(ctx context.Context, dashboard *internalRedis.CachedDashboard) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dashboard = dashboard
	return nil
}

// ──────────────────────────────────────────────
// MOCK ANIMAL REPOSITORY
// ──────────────────────────────────────────────

// MockAnimalRepository is a mock implementation of AnimalRepository.
type MockAnimalRepository struct {
	mu      sync.RWMutex
	animals map[string]*domain.Animal

	CountError error
}

// NewMockAnimalRepository creates a new mock animal repository.
func NewMockAnimalRepository() *MockAnimalRepository {
	return &MockAnimalRepository{animals: make(map[string]*domain.Animal)}
}

// AddAnimal seeds an animal into the mock repository.
func (m *MockAnimalRepository) AddAnimal(animal *domain.Animal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.animals[animal.ID] = animal
}

func (m *MockAnimalRepository) Create(ctx context.Context, animal *domain.Animal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *animal
	m.animals[animal.ID] = &copy
	return nil
}

func (m *MockAnimalRepository) GetByID(ctx context.Context, id string) (*domain.Animal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	animal, ok := m.animals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *animal
	return &copy, nil
}

func (m *MockAnimalRepository) GetAll(ctx context.Context, filter repository.AnimalFilter) ([]*domain.Animal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Animal, 0, len(m.animals))
	for _, a := range m.animals {
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Species != "" && a.Species != filter.Species {
			continue
		}
		copy := *a
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockAnimalRepository) Update(ctx context.Context, animal *domain.Animal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.animals[animal.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *animal
	m.animals[animal.ID] = &copy
	return nil
}

func (m *MockAnimalRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.animals[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.animals, id)
	return nil
}

func (m *MockAnimalRepository) CountInCare(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, a := range m.animals {
		if a.Status != domain.AnimalStatusAdopted {
			count++
		}
	}
	return count, nil
}

func (m *MockAnimalRepository) CountAdoptedBetween(ctx context.Context, from, to time.Time) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, a := range m.animals {
		if a.AdoptionDate != nil && !a.AdoptionDate.Before(from) && a.AdoptionDate.Before(to) {
			count++
		}
	}
	return count, nil
}

// ──────────────────────────────────────────────
// MOCK STORY REPOSITORY
// ──────────────────────────────────────────────

// MockStoryRepository is a mock implementation of StoryRepository.
type MockStoryRepository struct {
	mu      sync.RWMutex
	stories map[string]*domain.Story

	CountError error
}

// NewMockStoryRepository creates a new mock story repository.
func NewMockStoryRepository() *MockStoryRepository {
	return &MockStoryRepository{stories: make(map[string]*domain.Story)}
}

// AddStory seeds a story into the mock repository.
func (m *MockStoryRepository) AddStory(story *domain.Story) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stories[story.ID] = story
}

func (m *MockStoryRepository) Create(ctx context.Context, story *domain.Story) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *story
	m.stories[story.ID] = &copy
	return nil
}

func (m *MockStoryRepository) GetByID(ctx context.Context, id string) (*domain.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	story, ok := m.stories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *story
	return &copy, nil
}

func (m *MockStoryRepository) GetAll(ctx context.Context, publishedOnly bool) ([]*domain.Story, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Story, 0, len(m.stories))
	for _, s := range m.stories {
		if publishedOnly && !s.IsPublished {
			continue
		}
		copy := *s
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockStoryRepository) Publish(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	story, ok := m.stories[id]
	if !ok {
		return repository.ErrNotFound
	}
	now := time.Now()
	story.IsPublished = true
	story.PublishedAt = &now
	return nil
}

func (m *MockStoryRepository) CountPublished(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, s := range m.stories {
		if s.IsPublished {
			count++
		}
	}
	return count, nil
}

// ──────────────────────────────────────────────
// MOCK VOLUNTEER REPOSITORY
// ──────────────────────────────────────────────

// MockVolunteerRepository is a mock implementation of VolunteerRepository.
type MockVolunteerRepository struct {
	mu         sync.RWMutex
	volunteers map[string]*domain.Volunteer

	CountError error
}

// NewMockVolunteerRepository creates a new mock volunteer repository.
func NewMockVolunteerRepository() *MockVolunteerRepository {
	return &MockVolunteerRepository{volunteers: make(map[string]*domain.Volunteer)}
}

// AddVolunteer seeds a volunteer into the mock repository.
func (m *MockVolunteerRepository) AddVolunteer(volunteer *domain.Volunteer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volunteers[volunteer.ID] = volunteer
}

func (m *MockVolunteerRepository) Create(ctx context.Context, volunteer *domain.Volunteer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *volunteer
	m.volunteers[volunteer.ID] = &copy
	return nil
}

func (m *MockVolunteerRepository) GetByID(ctx context.Context, id string) (*domain.Volunteer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	volunteer, ok := m.volunteers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *volunteer
	return &copy, nil
}

func (m *MockVolunteerRepository) GetAll(ctx context.Context) ([]*domain.Volunteer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Volunteer, 0, len(m.volunteers))
	for _, v := range m.volunteers {
		copy := *v
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockVolunteerRepository) UpdateStatus(ctx context.Context, id string, status domain.VolunteerStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	volunteer, ok := m.volunteers[id]
	if !ok {
		return repository.ErrNotFound
	}
	volunteer.Status = status
	return nil
}

func (m *MockVolunteerRepository) Count(ctx context.Context) (int, error) {
	if m.CountError != nil {
		return 0, m.CountError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.volunteers), nil
}

// ──────────────────────────────────────────────
// MOCK SUBSCRIBER REPOSITORY
// ──────────────────────────────────────────────

// MockSubscriberRepository is a mock implementation of SubscriberRepository.
type MockSubscriberRepository struct {
	mu          sync.RWMutex
	subscribers map[string]*domain.Subscriber
}

// NewMockSubscriberRepository creates a new mock subscriber repository.
func NewMockSubscriberRepository() *MockSubscriberRepository {
	return &MockSubscriberRepository{subscribers: make(map[string]*domain.Subscriber)}
}

func (m *MockSubscriberRepository) Create(ctx context.Context, subscriber *domain.Subscriber) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subscribers {
		if s.Email == subscriber.Email {
			return repository.ErrConflict
		}
	}
	copy := *subscriber
	m.subscribers[subscriber.ID] = &copy
	return nil
}

func (m *MockSubscriberRepository) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.subscribers {
		if s.Email == email {
			copy := *s
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockSubscriberRepository) Update(ctx context.Context, subscriber *domain.Subscriber) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subscribers[subscriber.ID]; !ok {
		return repository.ErrNotFound
	}
	copy := *subscriber
	m.subscribers[subscriber.ID] = &copy
	return nil
}

func (m *MockSubscriberRepository) GetActive(ctx context.Context) ([]*domain.Subscriber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Subscriber, 0, len(m.subscribers))
	for _, s := range m.subscribers {
		if s.IsActive {
			copy := *s
			result = append(result, &copy)
		}
	}
	return result, nil
}
