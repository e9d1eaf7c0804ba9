// Package activity contains the activity feed shown on the admin dashboard.
// Entries are written by event handlers and read newest first.
// This is a pure domain layer with zero external dependencies.
package activity

import (
	"errors"
	"time"
)

// Domain errors for the activity package.
var (
	ErrInvalidEventType = errors.New("activity: event type is required")
	ErrEmptySummary     = errors.New("activity: summary is required")
)

// Entry is a single row of the activity feed, e.g. "Priya applied to
// Graduate Software Engineer at Acme Systems".
type Entry struct {
	// ID - serial identifier assigned by the store.
	ID int64

	// EventType - the domain event that produced the entry.
	EventType string

	// AggregateID - the aggregate the event concerned, if any.
	AggregateID string

	// ActorID - who caused the event, if known.
	ActorID string

	// Summary - human-readable one-liner for the feed.
	Summary string

	// Payload - extra event data for drill-down views.
	Payload map[string]interface{}

	// CreatedAt - when the entry was recorded.
	CreatedAt time.Time
}

// NewEntry creates a feed entry.
func NewEntry(eventType, aggregateID, actorID, summary string, payload map[string]interface{}) (*Entry, error) {
	if eventType == "" {
		return nil, ErrInvalidEventType
	}
	if summary == "" {
		return nil, ErrEmptySummary
	}

	return &Entry{
		EventType:   eventType,
		AggregateID: aggregateID,
		ActorID:     actorID,
		Summary:     summary,
		Payload:     payload,
		CreatedAt:   time.Now().UTC(),
	}, nil
}
