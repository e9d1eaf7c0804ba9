package application

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// These interfaces define the contract for working with the data store.
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines storage operations for applications. The store backs
// two invariants: uniqueness of (student, job) and optimistic concurrency
// on transitions via the Version column.
type Repository interface {
	// Create persists a new application.
	// Returns ErrDuplicateApplication if the student already applied
	// to this job, even under concurrent submission.
	Create(ctx context.Context, app *Application) error

	// GetByID returns an application by internal ID.
	// Returns ErrApplicationNotFound if the application does not exist.
	GetByID(ctx context.Context, id string) (*Application, error)

	// GetByStudentAndJob returns the application for a (student, job) pair.
	// Returns ErrApplicationNotFound if the application does not exist.
	GetByStudentAndJob(ctx context.Context, studentID, jobID string) (*Application, error)

	// ExistsByStudentAndJob checks whether the student already applied.
	ExistsByStudentAndJob(ctx context.Context, studentID, jobID string) (bool, error)

	// GetByStudent returns all applications of a student, newest first.
	GetByStudent(ctx context.Context, studentID string) ([]*Application, error)

	// GetByJob returns all applications for a job, newest first.
	GetByJob(ctx context.Context, jobID string) ([]*Application, error)

	// GetAll returns all applications with pagination.
	GetAll(ctx context.Context, opts ListOptions) ([]*Application, error)

	// UpdateStatus persists a transition using compare-and-swap on the
	// version the application was read at (app.Version is the expected
	// stored value; the row is written with app.Version+1).
	// Returns ErrStaleVersion if a concurrent transition won.
	UpdateStatus(ctx context.Context, app *Application) error

	// CountByStatus returns application counts grouped by status.
	CountByStatus(ctx context.Context) (map[Status]int, error)

	// CountDistinctPlacedStudents returns the number of distinct students
	// with a selected application on an offer-counting job.
	CountDistinctPlacedStudents(ctx context.Context) (int, error)
}

// ListOptions contains pagination and filter parameters.
type ListOptions struct {
	// Offset - number of records to skip.
	Offset int

	// Limit - maximum number of records to return.
	Limit int

	// Status - restrict to one status when non-empty.
	Status Status

	// JobID - restrict to one job when non-empty.
	JobID string
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

// WithJob restricts results to one job.
func (o ListOptions) WithJob(jobID string) ListOptions {
	o.JobID = jobID
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
