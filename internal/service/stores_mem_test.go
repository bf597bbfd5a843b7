package service

import (
	"context"
	"time"

	"coachhub/api/internal/models"
	"coachhub/api/internal/repository"
)

// In-memory stores backing the service tests.

type memUserStore struct {
	users map[string]models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]models.User)}
}

func (s *memUserStore) Create(_ context.Context, user models.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrUserNotFound
}

func (s *memUserStore) GetByID(_ context.Context, id string) (models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

func (s *memUserStore) UpdatePasswordHash(_ context.Context, id string, hash []byte) error {
	user, ok := s.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.PasswordHash = hash
	s.users[id] = user
	return nil
}

type memSessionStore struct {
	sessions map[string]models.AdminSession
	byToken  map[string]string
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{
		sessions: make(map[string]models.AdminSession),
		byToken:  make(map[string]string),
	}
}

func (s *memSessionStore) Create(_ context.Context, session models.AdminSession) error {
	s.sessions[session.ID] = session
	s.byToken[string(session.TokenHash)] = session.ID
	return nil
}

func (s *memSessionStore) GetByTokenHash(_ context.Context, tokenHash []byte) (models.AdminSession, error) {
	id, ok := s.byToken[string(tokenHash)]
	if !ok {
		return models.AdminSession{}, repository.ErrSessionNotFound
	}
	return s.sessions[id], nil
}

func (s *memSessionStore) GetByID(_ context.Context, id string) (models.AdminSession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return models.AdminSession{}, repository.ErrSessionNotFound
	}
	return session, nil
}

func (s *memSessionStore) Deactivate(_ context.Context, id string) error {
	session, ok := s.sessions[id]
	if !ok {
		return repository.ErrSessionNotFound
	}
	session.IsActive = false
	s.sessions[id] = session
	return nil
}

func (s *memSessionStore) DeactivateByTokenHash(_ context.Context, tokenHash []byte) error {
	id, ok := s.byToken[string(tokenHash)]
	if !ok {
		return nil
	}
	session := s.sessions[id]
	session.IsActive = false
	s.sessions[id] = session
	return nil
}

func (s *memSessionStore) Touch(_ context.Context, id string, ip string, userAgent string) error {
	session, ok := s.sessions[id]
	if !ok {
		return repository.ErrSessionNotFound
	}
	session.LastSeenAt = time.Now()
	if ip != "" {
		session.IPAddress = ip
	}
	if userAgent != "" {
		session.UserAgent = userAgent
	}
	s.sessions[id] = session
	return nil
}

func (s *memSessionStore) ListByUser(_ context.Context, userID string) ([]models.AdminSession, error) {
	var out []models.AdminSession
	for _, session := range s.sessions {
		if session.UserID == userID && session.IsActive {
			out = append(out, session)
		}
	}
	return out, nil
}

func (s *memSessionStore) SweepExpired(_ context.Context) (int64, error) {
	var swept int64
	now := time.Now()
	for id, session := range s.sessions {
		if session.IsActive && !session.ExpiresAt.After(now) {
			session.IsActive = false
			s.sessions[id] = session
			swept++
		}
	}
	return swept, nil
}

func (s *memSessionStore) PurgeInactive(_ context.Context, before time.Time) (int64, error) {
	var purged int64
	for id, session := range s.sessions {
		if !session.IsActive && session.LastSeenAt.Before(before) {
			delete(s.byToken, string(session.TokenHash))
			delete(s.sessions, id)
			purged++
		}
	}
	return purged, nil
}

// setExpiry rewrites a stored session's expiry, for expiry-path tests.
func (s *memSessionStore) setExpiry(id string, at time.Time) {
	session := s.sessions[id]
	session.ExpiresAt = at
	s.sessions[id] = session
}

type memActivityStore struct {
	entries []models.ActivityLogEntry
	fail    error
}

func (s *memActivityStore) Create(_ context.Context, entry models.ActivityLogEntry) error {
	if s.fail != nil {
		return s.fail
	}
	s.entries = append(s.entries, entry)
	return nil
}
