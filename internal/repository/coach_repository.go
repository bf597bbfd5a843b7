package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coachhub/api/internal/models"
)

var ErrCoachNotFound = errors.New("coach profile not found")

type CoachRepository struct {
	pool *pgxpool.Pool
}

func NewCoachRepository(pool *pgxpool.Pool) *CoachRepository {
	return &CoachRepository{pool: pool}
}

func (r *CoachRepository) Create(ctx context.Context, profile models.CoachProfile) error {
	const query = `
		INSERT INTO coach_profiles (
			id, user_id, headline, bio, specialties, is_approved, document_key, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.UserID,
		profile.Headline,
		profile.Bio,
		profile.Specialties,
		profile.IsApproved,
		profile.DocumentKey,
	)
	return err
}

func (r *CoachRepository) GetByID(ctx context.Context, id string) (models.CoachProfile, error) {
	const query = `
		SELECT id, user_id, headline, bio, specialties, is_approved, document_key, created_at, updated_at
		FROM coach_profiles WHERE id = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *CoachRepository) GetByUserID(ctx context.Context, userID string) (models.CoachProfile, error) {
	const query = `
		SELECT id, user_id, headline, bio, specialties, is_approved, document_key, created_at, updated_at
		FROM coach_profiles WHERE user_id = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, userID))
}

func (r *CoachRepository) ListApproved(ctx context.Context, limit int, offset int) ([]models.CoachProfile, error) {
	const query = `
		SELECT id, user_id, headline, bio, specialties, is_approved, document_key, created_at, updated_at
		FROM coach_profiles
		WHERE is_approved = TRUE
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.list(ctx, query, limit, offset)
}

func (r *CoachRepository) ListAll(ctx context.Context, limit int, offset int) ([]models.CoachProfile, error) {
	const query = `
		SELECT id, user_id, headline, bio, specialties, is_approved, document_key, created_at, updated_at
		FROM coach_profiles
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.list(ctx, query, limit, offset)
}

func (r *CoachRepository) Update(ctx context.Context, profile models.CoachProfile) error {
	const query = `
		UPDATE coach_profiles
		SET headline = $2, bio = $3, specialties = $4, updated_at = NOW()
		WHERE id = $1
	`
	return r.execOne(ctx, query, profile.ID, profile.Headline, profile.Bio, profile.Specialties)
}

func (r *CoachRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	const query = `UPDATE coach_profiles SET is_approved = $2, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, query, id, approved)
}

func (r *CoachRepository) SetDocumentKey(ctx context.Context, id string, key *string) error {
	const query = `UPDATE coach_profiles SET document_key = $2, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, query, id, key)
}

func (r *CoachRepository) execOne(ctx context.Context, query string, args ...any) error {
	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCoachNotFound
	}
	return nil
}

func (r *CoachRepository) list(ctx context.Context, query string, args ...any) ([]models.CoachProfile, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []models.CoachProfile
	for rows.Next() {
		var profile models.CoachProfile
		if err := rows.Scan(
			&profile.ID,
			&profile.UserID,
			&profile.Headline,
			&profile.Bio,
			&profile.Specialties,
			&profile.IsApproved,
			&profile.DocumentKey,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	return profiles, rows.Err()
}

func (r *CoachRepository) scanOne(row pgx.Row) (models.CoachProfile, error) {
	var profile models.CoachProfile
	if err := row.Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Headline,
		&profile.Bio,
		&profile.Specialties,
		&profile.IsApproved,
		&profile.DocumentKey,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.CoachProfile{}, ErrCoachNotFound
		}
		return models.CoachProfile{}, err
	}
	return profile, nil
}
