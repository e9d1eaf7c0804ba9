// Package grievance contains the grievance domain model: student-submitted
// issues with a priority, a resolution status, and an admin response.
package grievance

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Priority is the urgency assigned by the submitting student.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid checks that the priority is one of the known values.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Status tracks the grievance through triage.
type Status string

const (
	// StatusSubmitted - initial status on creation.
	StatusSubmitted Status = "submitted"
	// StatusInProgress - an admin is working on the grievance.
	StatusInProgress Status = "in_progress"
	// StatusResolved - terminal; a response has usually been recorded.
	StatusResolved Status = "resolved"
)

// IsValid checks that the status is one of the known values.
func (s Status) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusInProgress, StatusResolved:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: GRIEVANCE
// ══════════════════════════════════════════════════════════════════════════════

// Grievance is a student-submitted issue. StudentID may be empty when the
// submission is anonymous; ContactEmail is then the only way to reply.
type Grievance struct {
	// ID - internal unique identifier (UUID in string form).
	ID string

	// StudentID - the submitting student; empty for anonymous submissions.
	StudentID string

	// Type - free-form category, e.g. "placement", "technical".
	Type string

	// Subject - short summary line.
	Subject string

	// Description - full issue text.
	Description string

	// ContactEmail - where the admin reply should go.
	ContactEmail string

	// Priority - low, medium, or high.
	Priority Priority

	// Status - submitted, in_progress, or resolved.
	Status Status

	// Response - admin response text; empty until recorded.
	Response string

	// CreatedAt - when the grievance was submitted.
	CreatedAt time.Time

	// UpdatedAt - when the grievance was last modified.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// All sentinels carry a shared kind so the HTTP layer can classify them
// with the shared.Is* predicates.
var (
	// ErrInvalidSubject - subject missing or too long.
	ErrInvalidSubject = shared.NewDomainError("grievance", "Validate", shared.ErrInvalidInput, "invalid subject: must be 1-200 chars")

	// ErrInvalidDescription - description missing.
	ErrInvalidDescription = shared.NewDomainError("grievance", "Validate", shared.ErrEmptyValue, "description is required")

	// ErrInvalidPriority - priority is not low, medium, or high.
	ErrInvalidPriority = shared.ErrInvalidPriority

	// ErrInvalidGrievanceStatus - status is not a known value.
	ErrInvalidGrievanceStatus = shared.ErrInvalidGrievance

	// ErrGrievanceNotFound - grievance not found.
	ErrGrievanceNotFound = shared.ErrGrievanceNotFound
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewGrievanceParams contains the parameters for submitting a grievance.
type NewGrievanceParams struct {
	ID           string
	StudentID    string
	Type         string
	Subject      string
	Description  string
	ContactEmail string
	Priority     Priority
}

// NewGrievance creates a grievance in the submitted status. An empty
// priority defaults to medium.
func NewGrievance(params NewGrievanceParams) (*Grievance, error) {
	if params.ID == "" {
		return nil, errors.New("grievance id is required")
	}

	subject := strings.TrimSpace(params.Subject)
	if len(subject) == 0 || len(subject) > 200 {
		return nil, ErrInvalidSubject
	}

	description := strings.TrimSpace(params.Description)
	if len(description) == 0 {
		return nil, ErrInvalidDescription
	}

	priority := params.Priority
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.IsValid() {
		return nil, ErrInvalidPriority
	}

	now := time.Now().UTC()

	return &Grievance{
		ID:           params.ID,
		StudentID:    params.StudentID,
		Type:         strings.TrimSpace(params.Type),
		Subject:      subject,
		Description:  description,
		ContactEmail: strings.TrimSpace(params.ContactEmail),
		Priority:     priority,
		Status:       StatusSubmitted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// SetStatus moves the grievance to a new triage status.
func (g *Grievance) SetStatus(status Status) error {
	if !status.IsValid() {
		return ErrInvalidGrievanceStatus
	}
	g.Status = status
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// Respond records the admin response and optionally a new status in one
// step. Passing an empty status keeps the current one.
func (g *Grievance) Respond(response string, status Status) error {
	if status != "" {
		if !status.IsValid() {
			return ErrInvalidGrievanceStatus
		}
		g.Status = status
	}
	g.Response = strings.TrimSpace(response)
	g.UpdatedAt = time.Now().UTC()
	return nil
}

// IsResolved reports whether the grievance has been resolved.
func (g *Grievance) IsResolved() bool {
	return g.Status == StatusResolved
}

// String returns a string representation for logging.
func (g *Grievance) String() string {
	return fmt.Sprintf("Grievance{ID: %s, Subject: %s, Priority: %s, Status: %s}",
		g.ID, g.Subject, g.Priority, g.Status)
}
