package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/placement-hub/campus-placement-portal/internal/domain/activity"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACTIVITY REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// ActivityRepository implements activity.Repository for PostgreSQL.
type ActivityRepository struct {
	conn *Connection
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(conn *Connection) *ActivityRepository {
	return &ActivityRepository{conn: conn}
}

// Save persists a feed entry.
func (r *ActivityRepository) Save(ctx context.Context, entry *activity.Entry) error {
	query := `
		INSERT INTO activity_log (event_type, aggregate_id, actor_id, summary, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	payloadJSON, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal activity payload: %w", err)
	}
	if entry.Payload == nil {
		payloadJSON = []byte("{}")
	}

	var aggregateID, actorID *string
	if entry.AggregateID != "" {
		aggregateID = &entry.AggregateID
	}
	if entry.ActorID != "" {
		actorID = &entry.ActorID
	}

	err = r.conn.QueryRow(ctx, query,
		entry.EventType,
		aggregateID,
		actorID,
		entry.Summary,
		payloadJSON,
		entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to save activity entry: %w", err)
	}

	return nil
}

// GetRecent returns the newest entries, most recent first.
func (r *ActivityRepository) GetRecent(ctx context.Context, limit int) ([]*activity.Entry, error) {
	query := `
		SELECT id, event_type, COALESCE(aggregate_id::text, ''), COALESCE(actor_id::text, ''),
			   summary, payload, created_at
		FROM activity_log
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity entries: %w", err)
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

// GetByType returns the newest entries of one event type.
func (r *ActivityRepository) GetByType(ctx context.Context, eventType string, limit int) ([]*activity.Entry, error) {
	query := `
		SELECT id, event_type, COALESCE(aggregate_id::text, ''), COALESCE(actor_id::text, ''),
			   summary, payload, created_at
		FROM activity_log
		WHERE event_type = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, eventType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity entries by type: %w", err)
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

// DeleteOlderThan removes entries older than the cutoff.
func (r *ActivityRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := r.conn.Exec(ctx,
		"DELETE FROM activity_log WHERE created_at < $1",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune activity log: %w", err)
	}
	return int(result.RowsAffected()), nil
}

// scanEntries scans feed entries from rows.
func (r *ActivityRepository) scanEntries(rows pgx.Rows) ([]*activity.Entry, error) {
	var entries []*activity.Entry

	for rows.Next() {
		var entry activity.Entry
		var payloadJSON []byte

		err := rows.Scan(
			&entry.ID,
			&entry.EventType,
			&entry.AggregateID,
			&entry.ActorID,
			&entry.Summary,
			&payloadJSON,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}

		if len(payloadJSON) > 0 {
			_ = json.Unmarshal(payloadJSON, &entry.Payload)
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return entries, nil
}
