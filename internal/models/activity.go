package models

import "time"

// ActivityLogEntry is one append-only audit record. Entries are never
// updated or deleted by the application.
type ActivityLogEntry struct {
	ID         string
	UserID     string
	Action     string
	Resource   *string
	ResourceID *string
	Details    map[string]any
	IPAddress  string
	CreatedAt  time.Time
}
