package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/placement-hub/campus-placement-portal/internal/domain/application"
	"github.com/placement-hub/campus-placement-portal/internal/domain/job"
	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT APPLICATION COMMAND
// The apply path runs three gates in order: the job must be open, the
// profile must pass every eligibility constraint, and the (student, job)
// pair must not already exist. Only then is the application created.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitApplicationCommand contains the data to apply to a job.
type SubmitApplicationCommand struct {
	// StudentID is the internal ID of the applying student.
	StudentID string

	// JobID is the job being applied to.
	JobID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c SubmitApplicationCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("submit_application: student_id is required")
	}
	if c.JobID == "" {
		return errors.New("submit_application: job_id is required")
	}
	return nil
}

// SubmitApplicationResult contains the result of applying.
type SubmitApplicationResult struct {
	// ApplicationID is the ID of the created application.
	ApplicationID string

	// Decision is the eligibility evaluation that allowed the application.
	Decision application.Decision

	// AppliedAt is when the application was created.
	AppliedAt time.Time

	// Events contains domain events generated.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// SubmitApplicationHandler handles the SubmitApplicationCommand.
type SubmitApplicationHandler struct {
	applicationRepo application.Repository
	jobRepo         job.Repository
	studentRepo     student.Repository
	eventPublisher  shared.EventPublisher
}

// NewSubmitApplicationHandler creates a new SubmitApplicationHandler.
func NewSubmitApplicationHandler(
	applicationRepo application.Repository,
	jobRepo job.Repository,
	studentRepo student.Repository,
	eventPublisher shared.EventPublisher,
) *SubmitApplicationHandler {
	return &SubmitApplicationHandler{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		studentRepo:     studentRepo,
		eventPublisher:  eventPublisher,
	}
}

// Handle executes the submit application command.
func (h *SubmitApplicationHandler) Handle(ctx context.Context, cmd SubmitApplicationCommand) (*SubmitApplicationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("submit_application: validation failed: %w", err)
	}

	posting, err := h.jobRepo.GetByID(ctx, cmd.JobID)
	if err != nil {
		return nil, fmt.Errorf("submit_application: failed to get job: %w", err)
	}

	now := time.Now().UTC()
	if err := posting.IsOpen(now); err != nil {
		return nil, err
	}

	profile, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("submit_application: failed to get student: %w", err)
	}

	decision := application.Evaluate(posting, profile)
	if !decision.Eligible {
		return nil, fmt.Errorf("%w: %s",
			shared.ErrStudentNotEligible,
			strings.Join(decision.Reasons, "; "))
	}

	app, err := application.NewApplication(uuid.NewString(), profile.ID, posting.ID, now)
	if err != nil {
		return nil, fmt.Errorf("submit_application: %w", err)
	}

	// The unique constraint on (student_id, job_id) catches the race two
	// concurrent submits would otherwise win together.
	if err := h.applicationRepo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("submit_application: %w", err)
	}

	result := &SubmitApplicationResult{
		ApplicationID: app.ID,
		Decision:      decision,
		AppliedAt:     app.AppliedAt,
		Events:        make([]shared.Event, 0, 1),
	}

	event := shared.NewApplicationSubmittedEvent(
		app.ID,
		profile.ID,
		posting.ID,
		posting.Title,
		posting.Company,
	)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, event)

	for _, e := range result.Events {
		_ = h.eventPublisher.Publish(e)
	}

	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CHECK ELIGIBILITY COMMAND
// Read-side preview of the same evaluation the apply path runs, so a
// student can see why a job is out of reach before applying.
// ══════════════════════════════════════════════════════════════════════════════

// CheckEligibilityCommand previews eligibility without applying.
type CheckEligibilityCommand struct {
	// StudentID is the internal ID of the student.
	StudentID string

	// JobID is the job to evaluate against.
	JobID string
}

// CheckEligibilityHandler handles the CheckEligibilityCommand.
type CheckEligibilityHandler struct {
	jobRepo     job.Repository
	studentRepo student.Repository
}

// NewCheckEligibilityHandler creates a new CheckEligibilityHandler.
func NewCheckEligibilityHandler(jobRepo job.Repository, studentRepo student.Repository) *CheckEligibilityHandler {
	return &CheckEligibilityHandler{jobRepo: jobRepo, studentRepo: studentRepo}
}

// Handle evaluates eligibility and returns the full decision, including
// every failed constraint.
func (h *CheckEligibilityHandler) Handle(ctx context.Context, cmd CheckEligibilityCommand) (*application.Decision, error) {
	if cmd.StudentID == "" {
		return nil, errors.New("check_eligibility: student_id is required")
	}
	if cmd.JobID == "" {
		return nil, errors.New("check_eligibility: job_id is required")
	}

	posting, err := h.jobRepo.GetByID(ctx, cmd.JobID)
	if err != nil {
		return nil, fmt.Errorf("check_eligibility: failed to get job: %w", err)
	}

	profile, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("check_eligibility: failed to get student: %w", err)
	}

	decision := application.Evaluate(posting, profile)
	return &decision, nil
}
