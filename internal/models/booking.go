package models

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

func ValidBookingStatus(status BookingStatus) bool {
	switch status {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

type Booking struct {
	ID        string
	UserID    string
	CoachID   string
	StartsAt  time.Time
	EndsAt    time.Time
	Status    BookingStatus
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
