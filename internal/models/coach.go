package models

import "time"

// CoachProfile is the public-facing profile a coach user maintains.
// DocumentKey points at the credential document in object storage.
type CoachProfile struct {
	ID          string
	UserID      string
	Headline    string
	Bio         string
	Specialties []string
	IsApproved  bool
	DocumentKey *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
