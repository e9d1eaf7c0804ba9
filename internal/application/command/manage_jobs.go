package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/placement-hub/campus-placement-portal/internal/domain/job"
	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// POST JOB COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// PostJobCommand contains the data to create a job posting.
type PostJobCommand struct {
	// Title is the role title.
	Title string

	// Company is the hiring company name.
	Company string

	// Description is an optional free-form description.
	Description string

	// Location is an optional posting location.
	Location string

	// PackageRange is optional compensation text, e.g. "6-8 LPA".
	PackageRange string

	// MinUGPercentage is the minimum UG percentage; nil means no constraint.
	MinUGPercentage *float64

	// AllowBacklogs controls whether students with backlogs may apply.
	AllowBacklogs bool

	// EligibleBranches is the branch allow-list; empty means all branches.
	EligibleBranches []string

	// Skills is an optional list of desired skills.
	Skills []string

	// Deadline is the application deadline.
	Deadline time.Time

	// CountsAsOffer controls whether selection counts toward placement stats.
	CountsAsOffer bool

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c PostJobCommand) Validate() error {
	if c.Title == "" {
		return errors.New("post_job: title is required")
	}
	if c.Company == "" {
		return errors.New("post_job: company is required")
	}
	if c.Deadline.IsZero() {
		return errors.New("post_job: deadline is required")
	}
	return nil
}

// PostJobResult contains the result of posting a job.
type PostJobResult struct {
	// JobID is the ID of the created posting.
	JobID string

	// Events contains domain events generated.
	Events []shared.Event

	// CreatedAt is when the posting was created.
	CreatedAt time.Time
}

// PostJobHandler handles the PostJobCommand.
type PostJobHandler struct {
	jobRepo        job.Repository
	eventPublisher shared.EventPublisher
}

// NewPostJobHandler creates a new PostJobHandler.
func NewPostJobHandler(jobRepo job.Repository, eventPublisher shared.EventPublisher) *PostJobHandler {
	return &PostJobHandler{jobRepo: jobRepo, eventPublisher: eventPublisher}
}

// Handle executes the post job command.
func (h *PostJobHandler) Handle(ctx context.Context, cmd PostJobCommand) (*PostJobResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("post_job: validation failed: %w", err)
	}

	var minPct *student.Percentage
	if cmd.MinUGPercentage != nil {
		p := student.Percentage(*cmd.MinUGPercentage)
		minPct = &p
	}

	branches := make([]student.Branch, 0, len(cmd.EligibleBranches))
	for _, b := range cmd.EligibleBranches {
		branches = append(branches, student.Branch(b))
	}

	posting, err := job.NewJob(job.NewJobParams{
		ID:               uuid.NewString(),
		Title:            cmd.Title,
		Company:          cmd.Company,
		Description:      cmd.Description,
		Location:         cmd.Location,
		PackageRange:     cmd.PackageRange,
		MinUGPercentage:  minPct,
		AllowBacklogs:    cmd.AllowBacklogs,
		EligibleBranches: branches,
		Skills:           cmd.Skills,
		Deadline:         cmd.Deadline,
		CountsAsOffer:    cmd.CountsAsOffer,
	})
	if err != nil {
		return nil, fmt.Errorf("post_job: %w", err)
	}

	if err := h.jobRepo.Create(ctx, posting); err != nil {
		return nil, fmt.Errorf("post_job: failed to create job: %w", err)
	}

	result := &PostJobResult{
		JobID:     posting.ID,
		CreatedAt: posting.CreatedAt,
		Events:    make([]shared.Event, 0, 1),
	}

	event := shared.NewJobPostedEvent(posting.ID, posting.Title, posting.Company)
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
// UPDATE JOB COMMAND
// Pointer fields are applied only when non-nil, so admins can send
// partial edits without clobbering the rest of the posting.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateJobCommand contains partial edits to an existing posting.
type UpdateJobCommand struct {
	// JobID is the posting to edit.
	JobID string

	Title            *string
	Description      *string
	Location         *string
	PackageRange     *string
	MinUGPercentage  *float64
	ClearMinUGPct    bool
	AllowBacklogs    *bool
	EligibleBranches *[]string
	Skills           *[]string
	Deadline         *time.Time
	CountsAsOffer    *bool

	// CorrelationID for tracing.
	CorrelationID string
}

// UpdateJobHandler handles the UpdateJobCommand.
type UpdateJobHandler struct {
	jobRepo        job.Repository
	eventPublisher shared.EventPublisher
}

// NewUpdateJobHandler creates a new UpdateJobHandler.
func NewUpdateJobHandler(jobRepo job.Repository, eventPublisher shared.EventPublisher) *UpdateJobHandler {
	return &UpdateJobHandler{jobRepo: jobRepo, eventPublisher: eventPublisher}
}

// Handle executes the update job command.
func (h *UpdateJobHandler) Handle(ctx context.Context, cmd UpdateJobCommand) (*job.Job, []shared.Event, error) {
	if cmd.JobID == "" {
		return nil, nil, errors.New("update_job: job_id is required")
	}

	posting, err := h.jobRepo.GetByID(ctx, cmd.JobID)
	if err != nil {
		return nil, nil, fmt.Errorf("update_job: failed to get job: %w", err)
	}

	if cmd.Title != nil {
		if *cmd.Title == "" || len(*cmd.Title) > 200 {
			return nil, nil, job.ErrInvalidTitle
		}
		posting.Title = *cmd.Title
	}
	if cmd.Description != nil {
		posting.Description = *cmd.Description
	}
	if cmd.Location != nil {
		posting.Location = *cmd.Location
	}
	if cmd.PackageRange != nil {
		posting.PackageRange = *cmd.PackageRange
	}
	if cmd.ClearMinUGPct {
		posting.MinUGPercentage = nil
	} else if cmd.MinUGPercentage != nil {
		p := student.Percentage(*cmd.MinUGPercentage)
		if !p.IsValid() {
			return nil, nil, job.ErrInvalidMinPercentage
		}
		posting.MinUGPercentage = &p
	}
	if cmd.AllowBacklogs != nil {
		posting.AllowBacklogs = *cmd.AllowBacklogs
	}
	if cmd.EligibleBranches != nil {
		branches := make([]student.Branch, 0, len(*cmd.EligibleBranches))
		for _, b := range *cmd.EligibleBranches {
			branch := student.Branch(b)
			if !branch.IsValid() {
				return nil, nil, job.ErrInvalidEligibleBranch
			}
			branches = append(branches, branch)
		}
		posting.EligibleBranches = branches
	}
	if cmd.Skills != nil {
		posting.Skills = *cmd.Skills
	}
	if cmd.Deadline != nil {
		if cmd.Deadline.IsZero() {
			return nil, nil, job.ErrInvalidDeadline
		}
		posting.Deadline = *cmd.Deadline
	}
	if cmd.CountsAsOffer != nil {
		posting.CountsAsOffer = *cmd.CountsAsOffer
	}
	posting.UpdatedAt = time.Now().UTC()

	if err := h.jobRepo.Update(ctx, posting); err != nil {
		return nil, nil, fmt.Errorf("update_job: failed to update job: %w", err)
	}

	event := shared.NewJobUpdatedEvent(posting.ID, posting.Title, posting.Company)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	events := []shared.Event{event}

	for _, e := range events {
		_ = h.eventPublisher.Publish(e)
	}

	return posting, events, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CLOSE JOB COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// CloseJobCommand deactivates a posting.
type CloseJobCommand struct {
	// JobID is the posting to close.
	JobID string

	// Reason is "admin" for manual closes, "deadline" for the sweeper.
	Reason string

	// CorrelationID for tracing.
	CorrelationID string
}

// CloseJobHandler handles the CloseJobCommand.
type CloseJobHandler struct {
	jobRepo        job.Repository
	eventPublisher shared.EventPublisher
}

// NewCloseJobHandler creates a new CloseJobHandler.
func NewCloseJobHandler(jobRepo job.Repository, eventPublisher shared.EventPublisher) *CloseJobHandler {
	return &CloseJobHandler{jobRepo: jobRepo, eventPublisher: eventPublisher}
}

// Handle executes the close job command. Closing an already closed job is
// a no-op. Existing applications are untouched; their pipeline continues.
func (h *CloseJobHandler) Handle(ctx context.Context, cmd CloseJobCommand) error {
	if cmd.JobID == "" {
		return errors.New("close_job: job_id is required")
	}

	posting, err := h.jobRepo.GetByID(ctx, cmd.JobID)
	if err != nil {
		return fmt.Errorf("close_job: failed to get job: %w", err)
	}

	if !posting.IsActive {
		return nil
	}

	if err := h.jobRepo.Deactivate(ctx, posting.ID); err != nil {
		return fmt.Errorf("close_job: failed to deactivate job: %w", err)
	}

	reason := cmd.Reason
	if reason == "" {
		reason = "admin"
	}

	event := shared.NewJobClosedEvent(posting.ID, posting.Title, posting.Company, reason)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	_ = h.eventPublisher.Publish(event)

	return nil
}
