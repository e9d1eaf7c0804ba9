package job

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// These interfaces define the contract for working with the data store.
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines CRUD operations for job postings.
type Repository interface {
	// Create creates a new job posting.
	Create(ctx context.Context, job *Job) error

	// GetByID returns a job by internal ID.
	// Returns ErrJobNotFound if the job does not exist.
	GetByID(ctx context.Context, id string) (*Job, error)

	// Update persists posting changes.
	// Returns ErrJobNotFound if the job does not exist.
	Update(ctx context.Context, job *Job) error

	// Deactivate closes a posting for applications (soft delete).
	// Returns ErrJobNotFound if the job does not exist.
	Deactivate(ctx context.Context, id string) error

	// GetAll returns all jobs with pagination.
	GetAll(ctx context.Context, opts ListOptions) ([]*Job, error)

	// GetActive returns all currently active jobs.
	GetActive(ctx context.Context) ([]*Job, error)

	// FindExpiredActive returns active jobs whose deadline is before the
	// given time. Used by the deadline sweeper.
	FindExpiredActive(ctx context.Context, now time.Time) ([]*Job, error)

	// Count returns the total number of jobs.
	Count(ctx context.Context) (int, error)
}

// ListOptions contains pagination and filter parameters.
type ListOptions struct {
	// Offset - number of records to skip.
	Offset int

	// Limit - maximum number of records to return.
	Limit int

	// OnlyActive - restrict to active postings.
	OnlyActive bool

	// Company - restrict to a single company when non-empty.
	Company string
}

// DefaultListOptions returns the default pagination parameters.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Offset: 0,
		Limit:  50,
	}
}

// WithOnlyActive restricts results to active postings.
func (o ListOptions) WithOnlyActive() ListOptions {
	o.OnlyActive = true
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
