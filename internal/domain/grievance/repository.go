package grievance

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// These interfaces define the contract for working with the data store.
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines storage operations for grievances.
type Repository interface {
	// Create persists a new grievance.
	Create(ctx context.Context, g *Grievance) error

	// GetByID returns a grievance by internal ID.
	// Returns ErrGrievanceNotFound if the grievance does not exist.
	GetByID(ctx context.Context, id string) (*Grievance, error)

	// Update persists triage changes (status, response).
	// Returns ErrGrievanceNotFound if the grievance does not exist.
	Update(ctx context.Context, g *Grievance) error

	// GetByStudent returns grievances submitted by one student, newest first.
	GetByStudent(ctx context.Context, studentID string) ([]*Grievance, error)

	// GetAll returns all grievances with pagination and filters.
	GetAll(ctx context.Context, opts ListOptions) ([]*Grievance, error)

	// CountOpen returns the number of unresolved grievances.
	CountOpen(ctx context.Context) (int, error)
}

// ListOptions contains pagination and filter parameters.
type ListOptions struct {
	// Offset - number of records to skip.
	Offset int

	// Limit - maximum number of records to return.
	Limit int

	// Status - restrict to one status when non-empty.
	Status Status

	// Priority - restrict to one priority when non-empty.
	Priority Priority
}

// DefaultListOptions returns the default pagination parameters.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Offset: 0,
		Limit:  50,
	}
}

// WithStatus restricts results to one status.
func (o ListOptions) WithStatus(status Status) ListOptions {
	o.Status = status
	return o
}

// WithPriority restricts results to one priority.
func (o ListOptions) WithPriority(priority Priority) ListOptions {
	o.Priority = priority
	return o
}

// WithLimit sets the limit.
func (o ListOptions) WithLimit(limit int) ListOptions {
	o.Limit = limit
	return o
}

// WithOffset sets the offset.
func (o ListOptions) WithOffset(offset int) ListOptions {
	o.Offset = offset
	return o
}
