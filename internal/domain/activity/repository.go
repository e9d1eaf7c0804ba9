package activity

import (
	"context"
	"time"
)

// Repository defines the interface for activity feed persistence.
// This interface is implemented by the infrastructure layer.
type Repository interface {
	// Save persists a feed entry.
	Save(ctx context.Context, entry *Entry) error

	// GetRecent returns the newest entries, most recent first.
	GetRecent(ctx context.Context, limit int) ([]*Entry, error)

	// GetByType returns the newest entries of one event type.
	GetByType(ctx context.Context, eventType string, limit int) ([]*Entry, error)

	// DeleteOlderThan removes entries older than the cutoff.
	// Returns the number of entries removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
