package domain

import "time"

type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationConfirmed DonationStatus = "confirmed"
	DonationRejected  DonationStatus = "rejected"
)

// Donation is a pledge submitted through the public donation form. Reference
// is the public identifier quoted on the external payment link so inbound
// payments can be reconciled without exposing the primary key.
type Donation struct {
	ID          string
	Reference   string // UUID quoted to the payment provider
	DonorName   string
	DonorEmail  string
	AmountCents int64
	Currency    string
	Status      DonationStatus
	Note        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Message is a contact-form submission. Stored first; the notification email
// to the site inbox is best-effort.
type Message struct {
	ID        string
	Name      string
	Email     string
	Subject   string
	Body      string
	CreatedAt time.Time
}
