package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachhub/api/internal/config"
	"coachhub/api/internal/models"
	"coachhub/api/internal/security"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			ResetTokenSecret: "reset-secret",
			ResetTokenTTL:    30 * time.Minute,
			LoginMaxAttempts: 10,
			LoginWindow:      15 * time.Minute,
		},
		Sessions: config.SessionConfig{
			CookieName:    "adminSession",
			DefaultTTL:    8 * time.Hour,
			RememberMeTTL: 24 * time.Hour,
		},
	}
}

func newTestAuthService(t *testing.T) (*AuthService, *memUserStore, *memSessionStore) {
	t.Helper()
	users := newMemUserStore()
	sessions := newMemSessionStore()
	svc := NewAuthService(users, sessions, nil, testConfig(), zerolog.Nop())
	return svc, users, sessions
}

func seedUser(t *testing.T, users *memUserStore, email string, password string, role models.UserRole, active bool) models.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)

	user := models.User{
		ID:           "user-" + email,
		Email:        email,
		PasswordHash: hash,
		DisplayName:  "Test User",
		Role:         role,
		IsActive:     active,
	}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestLoginSuccess(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, "admin@example.org", "hunter2hunter2", models.UserRoleAdmin, true)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:     "Admin@Example.org",
		Password:  "hunter2hunter2",
		IPAddress: "203.0.113.7",
		UserAgent: "test-agent",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "admin@example.org", result.User.Email)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), result.ExpiresAt, time.Minute)
}

func TestLoginRememberMeExtendsExpiry(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, "admin@example.org", "hunter2hunter2", models.UserRoleAdmin, true)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:      "admin@example.org",
		Password:   "hunter2hunter2",
		RememberMe: true,
	})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), result.ExpiresAt, time.Minute)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, "admin@example.org", "hunter2hunter2", models.UserRoleAdmin, true)

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "admin@example.org",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.org",
		Password: "hunter2hunter2",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, "gone@example.org", "hunter2hunter2", models.UserRoleAdmin, false)

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "gone@example.org",
		Password: "hunter2hunter2",
	})
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestValidateSessionRoundTrip(t *testing.T) {
	svc, users, sessions := newTestAuthService(t)
	seedUser(t, users, "admin@example.org", "hunter2hunter2", models.UserRoleAdmin, true)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:      "admin@example.org",
		Password:   "hunter2hunter2",
		RememberMe: true,
	})
	require.NoError(t, err)

	user, session, err := svc.ValidateSession(context.Background(), result.Token, "", "")
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, user.ID)
	assert.Equal(t, result.Session.ID, session.ID)

	// Forcing the expiry into the past kills the token.
	sessions.setExpiry(session.ID, time.Now().Add(-time.Minute))
	_, _, err = svc.ValidateSession(context.Background(), result.Token, "", "")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestValidateSessionRejections(t *testing.T) {
	t.Run("unknown token", func(t *testing.T) {
		svc, _, _ := newTestAuthService(t)
		_, _, err := svc.ValidateSession(context.Background(), "never-issued", "", "")
		assert.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("expired session", func(t *testing.T) {
		svc, users, sessions := newTestAuthService(t)
		seedUser(t, users, "a@example.org", "hunter2hunter2", models.UserRoleAdmin, true)
		result, err := svc.Login(context.Background(), LoginInput{Email: "a@example.org", Password: "hunter2hunter2"})
		require.NoError(t, err)

		sessions.setExpiry(result.Session.ID, time.Now().Add(-time.Second))
		_, _, err = svc.ValidateSession(context.Background(), result.Token, "", "")
		assert.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("deactivated session", func(t *testing.T) {
		svc, users, sessions := newTestAuthService(t)
		seedUser(t, users, "a@example.org", "hunter2hunter2", models.UserRoleAdmin, true)
		result, err := svc.Login(context.Background(), LoginInput{Email: "a@example.org", Password: "hunter2hunter2"})
		require.NoError(t, err)

		require.NoError(t, sessions.Deactivate(context.Background(), result.Session.ID))
		_, _, err = svc.ValidateSession(context.Background(), result.Token, "", "")
		assert.ErrorIs(t, err, ErrSessionInvalid)
	})

	t.Run("deactivated owning user", func(t *testing.T) {
		svc, users, _ := newTestAuthService(t)
		user := seedUser(t, users, "a@example.org", "hunter2hunter2", models.UserRoleAdmin, true)
		result, err := svc.Login(context.Background(), LoginInput{Email: "a@example.org", Password: "hunter2hunter2"})
		require.NoError(t, err)

		user.IsActive = false
		users.users[user.ID] = user
		_, _, err = svc.ValidateSession(context.Background(), result.Token, "", "")
		assert.ErrorIs(t, err, ErrSessionInvalid)
	})
}

func TestLogoutIdempotent(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, "a@example.org", "hunter2hunter2", models.UserRoleAdmin, true)
	result, err := svc.Login(context.Background(), LoginInput{Email: "a@example.org", Password: "hunter2hunter2"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), result.Token))
	_, _, err = svc.ValidateSession(context.Background(), result.Token, "", "")
	assert.ErrorIs(t, err, ErrSessionInvalid)

	// Second logout and a logout of a token that never existed are
	// both no-ops.
	assert.NoError(t, svc.Logout(context.Background(), result.Token))
	assert.NoError(t, svc.Logout(context.Background(), "never-issued"))
}

func TestTerminateSession(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, "admin@example.org", "hunter2hunter2", models.UserRoleAdmin, true)
	seedUser(t, users, "other@example.org", "hunter2hunter2", models.UserRoleModerator, true)

	adminLogin, err := svc.Login(context.Background(), LoginInput{Email: "admin@example.org", Password: "hunter2hunter2"})
	require.NoError(t, err)
	otherLogin, err := svc.Login(context.Background(), LoginInput{Email: "other@example.org", Password: "hunter2hunter2"})
	require.NoError(t, err)

	// Terminating someone else's session works and kills it.
	require.NoError(t, svc.TerminateSession(context.Background(), otherLogin.Session.ID, adminLogin.User.ID))
	_, _, err = svc.ValidateSession(context.Background(), otherLogin.Token, "", "")
	assert.ErrorIs(t, err, ErrSessionInvalid)

	// Terminating your own session is rejected and leaves it alive.
	err = svc.TerminateSession(context.Background(), adminLogin.Session.ID, adminLogin.User.ID)
	assert.ErrorIs(t, err, ErrForbiddenSelfTermination)
	_, _, err = svc.ValidateSession(context.Background(), adminLogin.Token, "", "")
	assert.NoError(t, err)

	// Unknown session ids 404.
	err = svc.TerminateSession(context.Background(), "missing", adminLogin.User.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegister(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		Email:       "New@Example.org",
		Password:    "longenoughpw",
		DisplayName: "New User",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.org", user.Email)
	assert.Equal(t, models.UserRoleUser, user.Role)
	assert.True(t, user.IsActive)

	_, err = svc.Register(context.Background(), RegisterInput{
		Email:       "new@example.org",
		Password:    "longenoughpw",
		DisplayName: "Dup",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestChangePassword(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	user := seedUser(t, users, "a@example.org", "oldpassword1", models.UserRoleUser, true)

	err := svc.ChangePassword(context.Background(), user.ID, "wrong", "newpassword1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(context.Background(), user.ID, "oldpassword1", "newpassword1"))

	_, err = svc.Login(context.Background(), LoginInput{Email: "a@example.org", Password: "newpassword1"})
	assert.NoError(t, err)
}

func TestPasswordReset(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, "a@example.org", "oldpassword1", models.UserRoleUser, true)

	token, err := svc.RequestPasswordReset(context.Background(), "a@example.org")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Unknown emails produce no token and no error.
	none, err := svc.RequestPasswordReset(context.Background(), "nobody@example.org")
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, svc.ConfirmPasswordReset(context.Background(), token, "resetpassword1"))
	_, err = svc.Login(context.Background(), LoginInput{Email: "a@example.org", Password: "resetpassword1"})
	assert.NoError(t, err)

	err = svc.ConfirmPasswordReset(context.Background(), "garbage-token", "whatever12345")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}
