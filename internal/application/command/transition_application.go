package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/placement-hub/campus-placement-portal/internal/domain/application"
	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// TRANSITION APPLICATION COMMAND
// Moves an application to a new status. The entity appends the history
// entry; the repository enforces the version check, so two admins acting
// on the same row cannot silently overwrite each other.
// ══════════════════════════════════════════════════════════════════════════════

// TransitionApplicationCommand contains the data for a status change.
type TransitionApplicationCommand struct {
	// ApplicationID is the application to transition.
	ApplicationID string

	// NewStatus is the target status.
	NewStatus application.Status

	// Stage is the stage label recorded in the history. When empty it
	// defaults to the status name, or to the current stage for rejections.
	Stage string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c TransitionApplicationCommand) Validate() error {
	if c.ApplicationID == "" {
		return errors.New("transition_application: application_id is required")
	}
	if !c.NewStatus.IsValid() {
		return fmt.Errorf("transition_application: invalid status: %s", c.NewStatus)
	}
	return nil
}

// TransitionApplicationResult contains the result of a transition.
type TransitionApplicationResult struct {
	// ApplicationID is the transitioned application.
	ApplicationID string

	// OldStatus is the status before the transition.
	OldStatus application.Status

	// NewStatus is the status after the transition.
	NewStatus application.Status

	// Stage is the stage label that was recorded.
	Stage string

	// Version is the application version after the transition.
	Version int

	// Events contains domain events generated.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// TransitionApplicationHandler handles the TransitionApplicationCommand.
// The policy is fixed at construction: permissive by default, strict
// forward-only when the feature flag enables it.
type TransitionApplicationHandler struct {
	applicationRepo application.Repository
	policy          application.TransitionPolicy
	eventPublisher  shared.EventPublisher
}

// NewTransitionApplicationHandler creates a new TransitionApplicationHandler.
func NewTransitionApplicationHandler(
	applicationRepo application.Repository,
	policy application.TransitionPolicy,
	eventPublisher shared.EventPublisher,
) *TransitionApplicationHandler {
	if policy == nil {
		policy = application.Permissive()
	}
	return &TransitionApplicationHandler{
		applicationRepo: applicationRepo,
		policy:          policy,
		eventPublisher:  eventPublisher,
	}
}

// Handle executes the transition application command.
func (h *TransitionApplicationHandler) Handle(ctx context.Context, cmd TransitionApplicationCommand) (*TransitionApplicationResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("transition_application: validation failed: %w", err)
	}

	app, err := h.applicationRepo.GetByID(ctx, cmd.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("transition_application: failed to get application: %w", err)
	}

	oldStatus := app.Status
	stage := cmd.Stage
	if stage == "" {
		if cmd.NewStatus == application.StatusRejected {
			stage = app.CurrentStage
		} else {
			stage = cmd.NewStatus.String()
		}
	}

	if err := app.Transition(cmd.NewStatus, stage, h.policy, time.Now().UTC()); err != nil {
		return nil, err
	}

	// CAS write: a concurrent transition returns ErrStaleVersion and the
	// caller re-reads instead of clobbering the other admin's change.
	if err := h.applicationRepo.UpdateStatus(ctx, app); err != nil {
		return nil, fmt.Errorf("transition_application: %w", err)
	}

	result := &TransitionApplicationResult{
		ApplicationID: app.ID,
		OldStatus:     oldStatus,
		NewStatus:     app.Status,
		Stage:         stage,
		Version:       app.Version,
		Events:        make([]shared.Event, 0, 1),
	}

	event := shared.NewApplicationStatusChangedEvent(
		app.ID,
		app.StudentID,
		app.JobID,
		oldStatus.String(),
		app.Status.String(),
		stage,
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
