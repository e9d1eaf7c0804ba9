// Package application contains the application lifecycle domain model:
// the status state machine, the append-only stage history, the eligibility
// evaluator, and the timeline derivation used by the student dashboard.
package application

import (
	"errors"
	"fmt"
	"time"

	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS & ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status is the canonical position of an application in the review pipeline.
type Status string

const (
	// StatusApplied - initial status on creation.
	StatusApplied Status = "applied"
	// StatusUnderReview - the company is reviewing the application.
	StatusUnderReview Status = "under_review"
	// StatusShortlisted - shortlisted for interviews.
	StatusShortlisted Status = "shortlisted"
	// StatusInterviewed - interview round completed.
	StatusInterviewed Status = "interviewed"
	// StatusSelected - terminal success.
	StatusSelected Status = "selected"
	// StatusRejected - terminal failure, reachable from any non-terminal status.
	StatusRejected Status = "rejected"
)

// CanonicalStages is the advisory pipeline ordering shown on the timeline.
// Rejected is not a pipeline stage; it overrides the display instead.
var CanonicalStages = []Status{
	StatusApplied,
	StatusUnderReview,
	StatusShortlisted,
	StatusInterviewed,
	StatusSelected,
}

// IsValid checks that the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusApplied, StatusUnderReview, StatusShortlisted,
		StatusInterviewed, StatusSelected, StatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal checks whether the status ends the pipeline.
func (s Status) IsTerminal() bool {
	return s == StatusSelected || s == StatusRejected
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// StageEntryStatus marks a history entry as completed or pending.
type StageEntryStatus string

const (
	// StageCompleted - the stage was reached and completed.
	StageCompleted StageEntryStatus = "completed"
	// StagePending - the stage is recorded but not yet completed.
	StagePending StageEntryStatus = "pending"
)

// StageEntry is a single record in the append-only stage history.
type StageEntry struct {
	// Stage - the stage this entry records.
	Stage string `json:"stage"`

	// Timestamp - when the entry was appended.
	Timestamp time.Time `json:"timestamp"`

	// Status - completed or pending.
	Status StageEntryStatus `json:"status"`
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: APPLICATION
// ══════════════════════════════════════════════════════════════════════════════

// Application ties a student to a job posting. At most one application may
// exist per (student, job) pair - the storage layer backs this invariant
// with a unique constraint.
//
// The entity is the sole writer of Status, CurrentStage, and StageHistory.
// StageHistory is append-only: transitions add entries, nothing removes them.
type Application struct {
	// ID - internal unique identifier (UUID in string form).
	ID string

	// StudentID - the applying student; immutable after creation.
	StudentID string

	// JobID - the job applied to; immutable after creation.
	JobID string

	// Status - canonical pipeline status.
	Status Status

	// CurrentStage - mirrors Status, kept as a separate display field.
	CurrentStage string

	// StageHistory - ordered, append-only audit trail of stage changes.
	StageHistory []StageEntry

	// Version - optimistic concurrency token; bumped on every transition.
	Version int

	// AppliedAt - when the application was created.
	AppliedAt time.Time

	// UpdatedAt - when the application was last modified.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// All sentinels carry a shared kind so the HTTP layer can classify them
// with the shared.Is* predicates.
var (
	// ErrInvalidStatus - status is not a known value.
	ErrInvalidStatus = shared.ErrInvalidStatus

	// ErrEmptyStage - transition requires a non-empty stage label.
	ErrEmptyStage = shared.NewDomainError("application", "Transition", shared.ErrEmptyValue, "stage is required")

	// ErrApplicationNotFound - application not found.
	ErrApplicationNotFound = shared.ErrApplicationNotFound

	// ErrDuplicateApplication - an application for (student, job) exists.
	ErrDuplicateApplication = shared.ErrDuplicateApplication

	// ErrStaleVersion - a concurrent transition won; caller should re-read.
	ErrStaleVersion = shared.ErrStaleApplication

	// ErrTransitionNotAllowed - the strict policy rejected the status change.
	ErrTransitionNotAllowed = shared.ErrTransitionNotAllowed
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY
// ══════════════════════════════════════════════════════════════════════════════

// NewApplication creates an application in the initial "applied" status with
// a single completed history entry. Eligibility and job-open checks are the
// caller's responsibility (see Evaluate and job.IsOpen); this factory only
// shapes the record.
func NewApplication(id, studentID, jobID string, now time.Time) (*Application, error) {
	if id == "" {
		return nil, errors.New("application id is required")
	}
	if studentID == "" {
		return nil, errors.New("student id is required")
	}
	if jobID == "" {
		return nil, errors.New("job id is required")
	}

	return &Application{
		ID:           id,
		StudentID:    studentID,
		JobID:        jobID,
		Status:       StatusApplied,
		CurrentStage: string(StatusApplied),
		StageHistory: []StageEntry{
			{Stage: string(StatusApplied), Timestamp: now, Status: StageCompleted},
		},
		Version:   1,
		AppliedAt: now,
		UpdatedAt: now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// TRANSITIONS
// ══════════════════════════════════════════════════════════════════════════════

// Transition moves the application to a new status/stage, appending a
// completed history entry. The policy decides whether the move is legal;
// the permissive policy accepts any valid status from any other, which
// matches how the placement cell actually corrects records.
func (a *Application) Transition(newStatus Status, newStage string, policy TransitionPolicy, now time.Time) error {
	if !newStatus.IsValid() {
		return ErrInvalidStatus
	}
	if newStage == "" {
		return ErrEmptyStage
	}
	if policy == nil {
		policy = Permissive()
	}

	if err := policy.Validate(a.Status, newStatus); err != nil {
		return err
	}

	a.StageHistory = append(a.StageHistory, StageEntry{
		Stage:     newStage,
		Timestamp: now,
		Status:    StageCompleted,
	})
	a.Status = newStatus
	a.CurrentStage = newStage
	a.UpdatedAt = now

	return nil
}

// IsPlaced reports whether the application ended in selection.
func (a *Application) IsPlaced() bool {
	return a.Status == StatusSelected
}

// String returns a string representation for logging.
func (a *Application) String() string {
	return fmt.Sprintf("Application{ID: %s, Student: %s, Job: %s, Status: %s}",
		a.ID, a.StudentID, a.JobID, a.Status)
}

// Clone creates a copy of the application, including the history slice.
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	clone := *a
	clone.StageHistory = append([]StageEntry(nil), a.StageHistory...)
	return &clone
}
