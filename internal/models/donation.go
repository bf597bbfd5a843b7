package models

import "time"

type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusRefunded  DonationStatus = "refunded"
	DonationStatusFailed    DonationStatus = "failed"
)

func ValidDonationStatus(status DonationStatus) bool {
	switch status {
	case DonationStatusPending, DonationStatusCompleted, DonationStatusRefunded, DonationStatusFailed:
		return true
	}
	return false
}

// Donation records a donation intent. Reference holds the external
// payment processor's id; the processor itself is out of process.
type Donation struct {
	ID          string
	DonorName   string
	DonorEmail  string
	AmountCents int64
	Currency    string
	Status      DonationStatus
	Reference   string
	Message     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
