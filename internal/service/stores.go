package service

import (
	"context"
	"time"

	"coachhub/api/internal/models"
)

// The services consume narrow store interfaces rather than concrete
// repositories so the persistence layer stays swappable and the session
// and audit logic can be exercised without a database.

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	UpdatePasswordHash(ctx context.Context, id string, hash []byte) error
}

type SessionStore interface {
	Create(ctx context.Context, session models.AdminSession) error
	GetByTokenHash(ctx context.Context, tokenHash []byte) (models.AdminSession, error)
	GetByID(ctx context.Context, id string) (models.AdminSession, error)
	Deactivate(ctx context.Context, id string) error
	DeactivateByTokenHash(ctx context.Context, tokenHash []byte) error
	Touch(ctx context.Context, id string, ip string, userAgent string) error
	ListByUser(ctx context.Context, userID string) ([]models.AdminSession, error)
	SweepExpired(ctx context.Context) (int64, error)
	PurgeInactive(ctx context.Context, before time.Time) (int64, error)
}

type ActivityStore interface {
	Create(ctx context.Context, entry models.ActivityLogEntry) error
}
