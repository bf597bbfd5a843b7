package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coachhub/api/internal/models"
)

var ErrDonationNotFound = errors.New("donation not found")

type DonationRepository struct {
	pool *pgxpool.Pool
}

func NewDonationRepository(pool *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{pool: pool}
}

func (r *DonationRepository) Create(ctx context.Context, donation models.Donation) error {
	const query = `
		INSERT INTO donations (
			id, donor_name, donor_email, amount_cents, currency, status, reference, message, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		donation.ID,
		donation.DonorName,
		donation.DonorEmail,
		donation.AmountCents,
		donation.Currency,
		donation.Status,
		donation.Reference,
		donation.Message,
	)
	return err
}

func (r *DonationRepository) GetByID(ctx context.Context, id string) (models.Donation, error) {
	const query = `
		SELECT id, donor_name, donor_email, amount_cents, currency, status, reference, message, created_at, updated_at
		FROM donations WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	var donation models.Donation
	if err := row.Scan(
		&donation.ID,
		&donation.DonorName,
		&donation.DonorEmail,
		&donation.AmountCents,
		&donation.Currency,
		&donation.Status,
		&donation.Reference,
		&donation.Message,
		&donation.CreatedAt,
		&donation.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Donation{}, ErrDonationNotFound
		}
		return models.Donation{}, err
	}
	return donation, nil
}

func (r *DonationRepository) List(ctx context.Context, limit int, offset int) ([]models.Donation, error) {
	const query = `
		SELECT id, donor_name, donor_email, amount_cents, currency, status, reference, message, created_at, updated_at
		FROM donations
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var donations []models.Donation
	for rows.Next() {
		var donation models.Donation
		if err := rows.Scan(
			&donation.ID,
			&donation.DonorName,
			&donation.DonorEmail,
			&donation.AmountCents,
			&donation.Currency,
			&donation.Status,
			&donation.Reference,
			&donation.Message,
			&donation.CreatedAt,
			&donation.UpdatedAt,
		); err != nil {
			return nil, err
		}
		donations = append(donations, donation)
	}
	return donations, rows.Err()
}

func (r *DonationRepository) UpdateStatus(ctx context.Context, id string, status models.DonationStatus) error {
	const query = `UPDATE donations SET status = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrDonationNotFound
	}
	return nil
}
