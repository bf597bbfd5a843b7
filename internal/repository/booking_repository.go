package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coachhub/api/internal/models"
)

var ErrBookingNotFound = errors.New("booking not found")

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) Create(ctx context.Context, booking models.Booking) error {
	const query = `
		INSERT INTO bookings (
			id, user_id, coach_id, starts_at, ends_at, status, notes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		booking.ID,
		booking.UserID,
		booking.CoachID,
		booking.StartsAt,
		booking.EndsAt,
		booking.Status,
		booking.Notes,
	)
	return err
}

func (r *BookingRepository) GetByID(ctx context.Context, id string) (models.Booking, error) {
	const query = `
		SELECT id, user_id, coach_id, starts_at, ends_at, status, notes, created_at, updated_at
		FROM bookings WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	var booking models.Booking
	if err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.CoachID,
		&booking.StartsAt,
		&booking.EndsAt,
		&booking.Status,
		&booking.Notes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Booking{}, ErrBookingNotFound
		}
		return models.Booking{}, err
	}
	return booking, nil
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	const query = `
		SELECT id, user_id, coach_id, starts_at, ends_at, status, notes, created_at, updated_at
		FROM bookings
		WHERE user_id = $1
		ORDER BY starts_at DESC
	`
	return r.list(ctx, query, userID)
}

func (r *BookingRepository) List(ctx context.Context, limit int, offset int) ([]models.Booking, error) {
	const query = `
		SELECT id, user_id, coach_id, starts_at, ends_at, status, notes, created_at, updated_at
		FROM bookings
		ORDER BY starts_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.list(ctx, query, limit, offset)
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	const query = `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]models.Booking, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var booking models.Booking
		if err := rows.Scan(
			&booking.ID,
			&booking.UserID,
			&booking.CoachID,
			&booking.StartsAt,
			&booking.EndsAt,
			&booking.Status,
			&booking.Notes,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}
