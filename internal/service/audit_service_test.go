package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRecord(t *testing.T) {
	store := &memActivityStore{}
	svc := NewAuditService(store, zerolog.Nop())

	svc.Record(context.Background(), "user-1", "user.role_update", "user", "user-2", map[string]any{"to": "admin"}, "203.0.113.7")

	require.Len(t, store.entries, 1)
	entry := store.entries[0]
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "user-1", entry.UserID)
	assert.Equal(t, "user.role_update", entry.Action)
	require.NotNil(t, entry.Resource)
	assert.Equal(t, "user", *entry.Resource)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "user-2", *entry.ResourceID)
	assert.Equal(t, "203.0.113.7", entry.IPAddress)
}

func TestAuditRecordOmitsEmptyResource(t *testing.T) {
	store := &memActivityStore{}
	svc := NewAuditService(store, zerolog.Nop())

	svc.Record(context.Background(), "user-1", "auth.password_change", "", "", nil, "")

	require.Len(t, store.entries, 1)
	assert.Nil(t, store.entries[0].Resource)
	assert.Nil(t, store.entries[0].ResourceID)
}

func TestAuditRecordSwallowsStoreFailure(t *testing.T) {
	store := &memActivityStore{fail: errors.New("database down")}
	svc := NewAuditService(store, zerolog.Nop())

	// Must not panic and must not surface the failure; the caller's
	// mutation already succeeded.
	assert.NotPanics(t, func() {
		svc.Record(context.Background(), "user-1", "session.terminate", "session", "s-1", nil, "")
	})
	assert.Empty(t, store.entries)
}
