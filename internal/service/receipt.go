package service

import (
	"fmt"
	"time"

	"shelter/internal/domain"
)

// BuildReceiptEmail formats the donation receipt. Returns subject, HTML body
// and plain-text body.
func BuildReceiptEmail(donation *domain.Donation, paymentMethod, orgName string) (string, string, string) {
	if paymentMethod == "" {
		paymentMethod = "Stripe"
	}

	completedAt := time.Now().UTC()
	if donation.CompletedAt != nil {
		completedAt = donation.CompletedAt.UTC()
	}
	dateStr := completedAt.Format("January 2, 2006 3:04 PM")

	recurringStr := "No"
	if donation.IsRecurring {
		recurringStr = fmt.Sprintf("Yes (%s)", capitalize(string(donation.DonationType)))
	}

	subject := fmt.Sprintf("Thank you for your donation to %s!", orgName)

	html := fmt.Sprintf(`<p>Dear %s,</p>
<p>Thank you for your generous donation to %s. Here are your donation details:</p>
<ul>
  <li><b>Donor Name:</b> %s</li>
  <li><b>Donor Email:</b> %s</li>
  <li><b>Amount:</b> $%.2f %s</li>
  <li><b>Donation Type:</b> %s</li>
  <li><b>Payment Method:</b> %s</li>
  <li><b>Transaction ID:</b> %s</li>
  <li><b>Date:</b> %s UTC</li>
  <li><b>Recurring:</b> %s</li>
</ul>
<p>Your support helps us continue our mission to help animals live and thrive.</p>
<p>With gratitude,<br/>The %s Team</p>`,
		donation.DonorInfo.Name,
		orgName,
		donation.DonorInfo.Name,
		donation.DonorInfo.Email,
		donation.Amount,
		donation.Currency,
		capitalize(string(donation.DonationType)),
		paymentMethod,
		donation.TransactionID,
		dateStr,
		recurringStr,
		orgName,
	)

	text := fmt.Sprintf(`Dear %s,

Thank you for your generous donation to %s. Here are your donation details:

Donor Name: %s
Donor Email: %s
Amount: $%.2f %s
Donation Type: %s
Payment Method: %s
Transaction ID: %s
Date: %s UTC
Recurring: %s

Your support helps us continue our mission to help animals live and thrive.

With gratitude,
The %s Team`,
		donation.DonorInfo.Name,
		orgName,
		donation.DonorInfo.Name,
		donation.DonorInfo.Email,
		donation.Amount,
		donation.Currency,
		capitalize(string(donation.DonationType)),
		paymentMethod,
		donation.TransactionID,
		dateStr,
		recurringStr,
		orgName,
	)

	return subject, html, text
}
