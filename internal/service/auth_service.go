package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"coachhub/api/internal/config"
	"coachhub/api/internal/ids"
	"coachhub/api/internal/models"
	"coachhub/api/internal/repository"
	"coachhub/api/internal/security"
)

var (
	ErrInvalidCredentials       = errors.New("invalid credentials")
	ErrAccountInactive          = errors.New("account inactive")
	ErrSessionInvalid           = errors.New("session invalid")
	ErrSessionNotFound          = errors.New("session not found")
	ErrForbiddenSelfTermination = errors.New("cannot terminate own session")
	ErrEmailTaken               = errors.New("email already registered")
	ErrTooManyAttempts          = errors.New("too many login attempts")
	ErrInvalidResetToken        = errors.New("invalid or used reset token")
)

type AuthService struct {
	users    UserStore
	sessions SessionStore
	cache    *redis.Client
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(
	users UserStore,
	sessions SessionStore,
	cache *redis.Client,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		cache:    cache,
		cfg:      cfg,
		log:      log,
	}
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.Password == "" {
		return models.User{}, fmt.Errorf("email and password required")
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return models.User{}, err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Email:        input.Email,
		PasswordHash: passwordHash,
		DisplayName:  input.DisplayName,
		Role:         models.UserRoleUser,
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
	IPAddress  string
	UserAgent  string
}

// LoginResult carries the raw session token exactly once; it is never
// recoverable afterwards because only the hash is stored.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      models.User
	Session   models.AdminSession
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if err := s.checkThrottle(ctx, input.Email, input.IPAddress); err != nil {
		return LoginResult{}, err
	}

	user, err := s.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.recordFailure(ctx, input.Email, input.IPAddress)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		s.recordFailure(ctx, input.Email, input.IPAddress)
		return LoginResult{}, ErrInvalidCredentials
	}

	if !user.IsActive {
		return LoginResult{}, ErrAccountInactive
	}

	s.clearThrottle(ctx, input.Email, input.IPAddress)

	ttl := s.cfg.Sessions.DefaultTTL
	if input.RememberMe {
		ttl = s.cfg.Sessions.RememberMeTTL
	}

	token, tokenHash, err := security.GenerateSessionToken()
	if err != nil {
		return LoginResult{}, err
	}

	session := models.AdminSession{
		ID:        ids.New(),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(ttl),
		IPAddress: input.IPAddress,
		UserAgent: input.UserAgent,
		IsActive:  true,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		User:      user,
		Session:   session,
	}, nil
}

// ValidateSession resolves a raw cookie token to its user. It returns
// ErrSessionInvalid when the token is unknown, the session has expired
// or been deactivated, or the owning user is inactive. Each path fails
// independently; callers treat all four the same way.
func (s *AuthService) ValidateSession(ctx context.Context, token string, ip string, userAgent string) (models.User, models.AdminSession, error) {
	session, err := s.sessions.GetByTokenHash(ctx, security.HashSessionToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return models.User{}, models.AdminSession{}, ErrSessionInvalid
		}
		return models.User{}, models.AdminSession{}, err
	}

	if !session.IsActive || !session.ExpiresAt.After(time.Now()) {
		return models.User{}, models.AdminSession{}, ErrSessionInvalid
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.User{}, models.AdminSession{}, ErrSessionInvalid
		}
		return models.User{}, models.AdminSession{}, err
	}
	if !user.IsActive {
		return models.User{}, models.AdminSession{}, ErrSessionInvalid
	}

	if err := s.sessions.Touch(ctx, session.ID, ip, userAgent); err != nil {
		s.log.Warn().Err(err).Str("session_id", session.ID).Msg("session touch failed")
	}

	return user, session, nil
}

// Logout deactivates the session behind the token. Unknown or already
// dead tokens are not errors; logging out twice is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeactivateByTokenHash(ctx, security.HashSessionToken(token))
}

// TerminateSession force-kills another user's session. Requesters may
// not terminate their own sessions through this path; they log out.
func (s *AuthService) TerminateSession(ctx context.Context, sessionID string, requesterID string) error {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return err
	}

	if session.UserID == requesterID {
		return ErrForbiddenSelfTermination
	}

	return s.sessions.Deactivate(ctx, session.ID)
}

func (s *AuthService) ListUserSessions(ctx context.Context, userID string) ([]models.AdminSession, error) {
	return s.sessions.ListByUser(ctx, userID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID string, current string, next string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := security.VerifyPassword(current, user.PasswordHash)
	if err != nil || !ok {
		return ErrInvalidCredentials
	}

	hash, err := security.HashPassword(next)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, userID, hash)
}

// RequestPasswordReset issues a signed reset token for the account. The
// response is identical whether or not the email exists, so the endpoint
// cannot be used to enumerate accounts. Delivery is the mailer's concern;
// here the token is returned to the caller (the handler hands it to the
// notification pipeline).
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}
	if !user.IsActive {
		return "", nil
	}

	return security.GenerateResetToken(s.cfg.Security.ResetTokenSecret, user.ID, s.cfg.Security.ResetTokenTTL)
}

// ConfirmPasswordReset consumes a reset token and sets the new password.
// Tokens are single-use: a redis SetNX keyed by the token guards replays.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token string, newPassword string) error {
	claims, err := security.ParseResetToken(token, s.cfg.Security.ResetTokenSecret)
	if err != nil {
		return ErrInvalidResetToken
	}

	if s.cache != nil {
		key := "pwreset:" + string(security.HashSessionToken(token))
		set, err := s.cache.SetNX(ctx, key, "1", s.cfg.Security.ResetTokenTTL).Result()
		if err != nil {
			s.log.Warn().Err(err).Msg("reset token replay check unavailable")
		} else if !set {
			return ErrInvalidResetToken
		}
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePasswordHash(ctx, claims.UserID, hash)
}

// Login throttling is best-effort: if redis is down the counters are
// skipped rather than locking everyone out.

func (s *AuthService) throttleKey(email string, ip string) string {
	return fmt.Sprintf("login:fail:%s:%s", email, ip)
}

func (s *AuthService) checkThrottle(ctx context.Context, email string, ip string) error {
	if s.cache == nil {
		return nil
	}
	count, err := s.cache.Get(ctx, s.throttleKey(email, ip)).Int()
	if err != nil && err != redis.Nil {
		s.log.Warn().Err(err).Msg("login throttle check unavailable")
		return nil
	}
	if count >= s.cfg.Security.LoginMaxAttempts {
		return ErrTooManyAttempts
	}
	return nil
}

func (s *AuthService) recordFailure(ctx context.Context, email string, ip string) {
	if s.cache == nil {
		return
	}
	key := s.throttleKey(email, ip)
	pipe := s.cache.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.cfg.Security.LoginWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Msg("login failure count not recorded")
	}
}

func (s *AuthService) clearThrottle(ctx context.Context, email string, ip string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, s.throttleKey(email, ip)).Err(); err != nil {
		s.log.Warn().Err(err).Msg("login throttle clear failed")
	}
}
