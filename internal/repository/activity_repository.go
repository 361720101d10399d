package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"inventory-tracker/internal/domain"

	"github.com/google/uuid"
)

// MaxActivityEntries bounds a single activity listing
const MaxActivityEntries = 50

// ActivityRepository is an append-only log of item events
type ActivityRepository interface {
	Append(ctx context.Context, entry *domain.ActivityLogEntry) error
	// List returns at most limit entries, newest first
	List(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ActivityLogEntry, error)
}

type activityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new instance of ActivityRepository
func NewActivityRepository(db *sql.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Append(ctx context.Context, entry *domain.ActivityLogEntry) error {
	var payload interface{}
	if entry.Payload != nil {
		data, err := json.Marshal(entry.Payload)
		if err != nil {
			return fmt.Errorf("failed to encode activity payload: %w", err)
		}
		payload = string(data)
	}

	query := `
		INSERT INTO activity_logs (id, user_id, action, item_name, details, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.UserID,
		string(entry.Action),
		entry.ItemName,
		entry.Details,
		payload,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}

	return nil
}

func (r *activityRepository) List(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ActivityLogEntry, error) {
	if limit <= 0 || limit > MaxActivityEntries {
		limit = MaxActivityEntries
	}

	query := `
		SELECT id, user_id, action, item_name, details, payload, created_at
		FROM activity_logs
		WHERE user_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := []domain.ActivityLogEntry{}
	for rows.Next() {
		var (
			entry   domain.ActivityLogEntry
			action  string
			payload []byte
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&action,
			&entry.ItemName,
			&entry.Details,
			&payload,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}

		entry.Action = domain.ActivityAction(action)
		if len(payload) > 0 {
			entry.Payload = &domain.ActivityPayload{}
			if err := json.Unmarshal(payload, entry.Payload); err != nil {
				return nil, fmt.Errorf("failed to decode activity payload: %w", err)
			}
		}
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity: %w", err)
	}

	return entries, nil
}
