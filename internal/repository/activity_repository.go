package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"coachhub/api/internal/models"
)

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Create(ctx context.Context, entry models.ActivityLogEntry) error {
	const query = `
		INSERT INTO activity_logs (
			id, user_id, action, resource, resource_id, details, ip_address, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW()
		)
	`

	var details []byte
	if entry.Details != nil {
		var err error
		details, err = json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("marshal details: %w", err)
		}
	}

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Action,
		entry.Resource,
		entry.ResourceID,
		details,
		entry.IPAddress,
	)
	return err
}

// ActivityFilter narrows List. Zero values mean "no filter".
type ActivityFilter struct {
	UserID   string
	Action   string
	Resource string
	Limit    int
	Offset   int
}

// List returns entries newest-first.
func (r *ActivityRepository) List(ctx context.Context, filter ActivityFilter) ([]models.ActivityLogEntry, error) {
	query := `
		SELECT id, user_id, action, resource, resource_id, details, ip_address, created_at
		FROM activity_logs
		WHERE 1=1
	`
	var args []any
	if filter.UserID != "" {
		args = append(args, filter.UserID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if filter.Action != "" {
		args = append(args, filter.Action)
		query += fmt.Sprintf(" AND action = $%d", len(args))
	}
	if filter.Resource != "" {
		args = append(args, filter.Resource)
		query += fmt.Sprintf(" AND resource = $%d", len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ActivityLogEntry
	for rows.Next() {
		var entry models.ActivityLogEntry
		var details []byte
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Action,
			&entry.Resource,
			&entry.ResourceID,
			&details,
			&entry.IPAddress,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshal details: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
