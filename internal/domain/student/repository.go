package student

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// These interfaces define the contract for working with the data store.
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines CRUD operations for student profiles.
type Repository interface {
	// Create creates a new student profile.
	// Returns ErrStudentAlreadyExists if the user already has a profile
	// or the registration number is taken.
	Create(ctx context.Context, student *Student) error

	// GetByID returns a student by internal ID.
	// Returns ErrStudentNotFound if the student does not exist.
	GetByID(ctx context.Context, id string) (*Student, error)

	// GetByUserID returns the student profile owned by a user account.
	// Returns ErrStudentNotFound if the student does not exist.
	GetByUserID(ctx context.Context, userID string) (*Student, error)

	// GetByRegNo returns a student by registration number.
	// Returns ErrStudentNotFound if the student does not exist.
	GetByRegNo(ctx context.Context, regNo RegistrationNumber) (*Student, error)

	// Update persists profile changes.
	// Returns ErrStudentNotFound if the student does not exist.
	Update(ctx context.Context, student *Student) error

	// GetAll returns all student profiles with pagination.
	GetAll(ctx context.Context, opts ListOptions) ([]*Student, error)

	// GetByIDs returns students by a list of IDs.
	GetByIDs(ctx context.Context, ids []string) ([]*Student, error)

	// Count returns the total number of students.
	Count(ctx context.Context) (int, error)
}

// ListOptions contains pagination and sorting parameters.
type ListOptions struct {
	// Offset - number of records to skip.
	Offset int

	// Limit - maximum number of records to return.
	Limit int

	// SortBy - column to sort by.
	SortBy string

	// SortDesc - sort descending.
	SortDesc bool

	// Branch - restrict to a single branch when non-empty.
	Branch Branch
}

// DefaultListOptions returns the default pagination parameters.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Offset:   0,
		Limit:    50,
		SortBy:   "created_at",
		SortDesc: true,
	}
}

// WithOffset sets the offset.
func (o ListOptions) WithOffset(offset int) ListOptions {
	o.Offset = offset
	return o
}

// WithLimit sets the limit.
func (o ListOptions) WithLimit(limit int) ListOptions {
	o.Limit = limit
	return o
}

// WithBranch restricts results to one branch.
func (o ListOptions) WithBranch(branch Branch) ListOptions {
	o.Branch = branch
	return o
}
