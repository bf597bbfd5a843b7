package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coachhub/api/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, session models.AdminSession) error {
	const query = `
		INSERT INTO admin_sessions (
			id, user_id, token_hash, expires_at, ip_address, user_agent, is_active, created_at, last_seen_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.UserID,
		session.TokenHash,
		session.ExpiresAt,
		session.IPAddress,
		session.UserAgent,
		session.IsActive,
	)
	return err
}

func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash []byte) (models.AdminSession, error) {
	const query = `
		SELECT id, user_id, token_hash, expires_at, ip_address, user_agent, is_active, created_at, last_seen_at
		FROM admin_sessions
		WHERE token_hash = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, tokenHash))
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (models.AdminSession, error) {
	const query = `
		SELECT id, user_id, token_hash, expires_at, ip_address, user_agent, is_active, created_at, last_seen_at
		FROM admin_sessions
		WHERE id = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// Deactivate marks a session dead. Missing sessions return
// ErrSessionNotFound so termination of a bogus id can 404.
func (r *SessionRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE admin_sessions SET is_active = FALSE WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeactivateByTokenHash is the logout path. It never reports a missing
// or already-dead session as an error.
func (r *SessionRepository) DeactivateByTokenHash(ctx context.Context, tokenHash []byte) error {
	const query = `UPDATE admin_sessions SET is_active = FALSE WHERE token_hash = $1`
	_, err := r.pool.Exec(ctx, query, tokenHash)
	return err
}

func (r *SessionRepository) Touch(ctx context.Context, id string, ip string, userAgent string) error {
	const query = `
		UPDATE admin_sessions
		SET last_seen_at = NOW(),
		    ip_address = COALESCE(NULLIF($2, ''), ip_address),
		    user_agent = COALESCE(NULLIF($3, ''), user_agent)
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, ip, userAgent)
	return err
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string) ([]models.AdminSession, error) {
	const query = `
		SELECT id, user_id, token_hash, expires_at, ip_address, user_agent, is_active, created_at, last_seen_at
		FROM admin_sessions
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY last_seen_at DESC
	`
	return r.list(ctx, query, userID)
}

func (r *SessionRepository) ListActive(ctx context.Context, limit int, offset int) ([]models.AdminSession, error) {
	const query = `
		SELECT id, user_id, token_hash, expires_at, ip_address, user_agent, is_active, created_at, last_seen_at
		FROM admin_sessions
		WHERE is_active = TRUE AND expires_at > NOW()
		ORDER BY last_seen_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.list(ctx, query, limit, offset)
}

// SweepExpired deactivates every active session whose expiry has passed
// and returns how many rows it touched.
func (r *SessionRepository) SweepExpired(ctx context.Context) (int64, error) {
	const query = `
		UPDATE admin_sessions
		SET is_active = FALSE
		WHERE is_active = TRUE AND expires_at <= NOW()
	`
	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// PurgeInactive deletes dead sessions last seen before the cutoff.
func (r *SessionRepository) PurgeInactive(ctx context.Context, before time.Time) (int64, error) {
	const query = `
		DELETE FROM admin_sessions
		WHERE is_active = FALSE AND last_seen_at < $1
	`
	cmd, err := r.pool.Exec(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *SessionRepository) list(ctx context.Context, query string, args ...any) ([]models.AdminSession, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.AdminSession
	for rows.Next() {
		var session models.AdminSession
		if err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.TokenHash,
			&session.ExpiresAt,
			&session.IPAddress,
			&session.UserAgent,
			&session.IsActive,
			&session.CreatedAt,
			&session.LastSeenAt,
		); err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

func (r *SessionRepository) scanOne(row pgx.Row) (models.AdminSession, error) {
	var session models.AdminSession
	if err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.TokenHash,
		&session.ExpiresAt,
		&session.IPAddress,
		&session.UserAgent,
		&session.IsActive,
		&session.CreatedAt,
		&session.LastSeenAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.AdminSession{}, ErrSessionNotFound
		}
		return models.AdminSession{}, err
	}
	return session, nil
}
