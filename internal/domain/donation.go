package domain

import "time"

// DonationStatus represents the payment status of a donation.
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusFailed    DonationStatus = "failed"
)

// DonationType represents the cadence of a donation.
type DonationType string

const (
	DonationTypeOneTime DonationType = "one-time"
	DonationTypeMonthly DonationType = "monthly"
)

// DonorInfo holds the donor's contact details.
type DonorInfo struct {
	Name  string
	Email string
}

// Donation represents a donation record. TransactionID is the business key
// used to deduplicate redelivered payment events; it is unique for completed
// donations but empty on pending subscription records.
type Donation struct {
	ID                   string
	DonorInfo            DonorInfo
	Amount               float64
	Currency             string
	DonationType         DonationType
	PaymentMethod        string
	PaymentStatus        DonationStatus
	TransactionID        string
	StripeCustomerID     string
	StripeSubscriptionID string
	IsRecurring          bool
	ReceiptSent          bool
	ReceiptSentAt        *time.Time
	CompletedAt          *time.Time
	CreatedAt            time.Time
}
