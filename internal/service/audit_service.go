package service

import (
	"context"

	"github.com/rs/zerolog"

	"coachhub/api/internal/ids"
	"coachhub/api/internal/models"
)

// AuditService appends admin actions to the activity log. Writes are
// best-effort: a failed insert is logged and never surfaced to the
// caller, so audit trouble cannot block the operation being audited.
type AuditService struct {
	store ActivityStore
	log   zerolog.Logger
}

func NewAuditService(store ActivityStore, log zerolog.Logger) *AuditService {
	return &AuditService{store: store, log: log}
}

func (s *AuditService) Record(ctx context.Context, userID string, action string, resource string, resourceID string, details map[string]any, ip string) {
	entry := models.ActivityLogEntry{
		ID:        ids.New(),
		UserID:    userID,
		Action:    action,
		IPAddress: ip,
		Details:   details,
	}
	if resource != "" {
		entry.Resource = &resource
	}
	if resourceID != "" {
		entry.ResourceID = &resourceID
	}

	if err := s.store.Create(ctx, entry); err != nil {
		s.log.Error().
			Err(err).
			Str("action", action).
			Str("user_id", userID).
			Msg("activity log write failed")
	}
}
