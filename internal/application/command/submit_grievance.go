package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/placement-hub/campus-placement-portal/internal/domain/grievance"
	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT GRIEVANCE COMMAND
// StudentID may be empty: anonymous submissions are allowed, and the
// contact email is then the only way an admin can reply.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitGrievanceCommand contains the data to file a grievance.
type SubmitGrievanceCommand struct {
	// StudentID is the submitting student; empty for anonymous.
	StudentID string

	// Type is a free-form category, e.g. "placement", "technical".
	Type string

	// Subject is the short summary line.
	Subject string

	// Description is the full issue text.
	Description string

	// ContactEmail is where the admin reply should go.
	ContactEmail string

	// Priority is low, medium, or high; empty defaults to medium.
	Priority string

	// CorrelationID for tracing.
	CorrelationID string
}

// SubmitGrievanceResult contains the result of filing a grievance.
type SubmitGrievanceResult struct {
	// GrievanceID is the ID of the created grievance.
	GrievanceID string

	// Priority is the assigned priority after defaulting.
	Priority grievance.Priority

	// Events contains domain events generated.
	Events []shared.Event
}

// SubmitGrievanceHandler handles the SubmitGrievanceCommand.
type SubmitGrievanceHandler struct {
	grievanceRepo  grievance.Repository
	eventPublisher shared.EventPublisher
}

// NewSubmitGrievanceHandler creates a new SubmitGrievanceHandler.
func NewSubmitGrievanceHandler(
	grievanceRepo grievance.Repository,
	eventPublisher shared.EventPublisher,
) *SubmitGrievanceHandler {
	return &SubmitGrievanceHandler{
		grievanceRepo:  grievanceRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the submit grievance command.
func (h *SubmitGrievanceHandler) Handle(ctx context.Context, cmd SubmitGrievanceCommand) (*SubmitGrievanceResult, error) {
	g, err := grievance.NewGrievance(grievance.NewGrievanceParams{
		ID:           uuid.NewString(),
		StudentID:    cmd.StudentID,
		Type:         cmd.Type,
		Subject:      cmd.Subject,
		Description:  cmd.Description,
		ContactEmail: cmd.ContactEmail,
		Priority:     grievance.Priority(cmd.Priority),
	})
	if err != nil {
		return nil, fmt.Errorf("submit_grievance: %w", err)
	}

	if err := h.grievanceRepo.Create(ctx, g); err != nil {
		return nil, fmt.Errorf("submit_grievance: failed to create grievance: %w", err)
	}

	result := &SubmitGrievanceResult{
		GrievanceID: g.ID,
		Priority:    g.Priority,
		Events:      make([]shared.Event, 0, 1),
	}

	event := shared.NewGrievanceSubmittedEvent(g.ID, g.StudentID, g.Subject, string(g.Priority))
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
// RESPOND GRIEVANCE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// RespondGrievanceCommand contains an admin response to a grievance.
type RespondGrievanceCommand struct {
	// GrievanceID is the grievance being answered.
	GrievanceID string

	// Response is the admin response text.
	Response string

	// Status is the new status; empty keeps the current one.
	Status string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RespondGrievanceCommand) Validate() error {
	if c.GrievanceID == "" {
		return errors.New("respond_grievance: grievance_id is required")
	}
	if c.Response == "" && c.Status == "" {
		return errors.New("respond_grievance: response or status is required")
	}
	return nil
}

// RespondGrievanceHandler handles the RespondGrievanceCommand.
type RespondGrievanceHandler struct {
	grievanceRepo  grievance.Repository
	eventPublisher shared.EventPublisher
}

// NewRespondGrievanceHandler creates a new RespondGrievanceHandler.
func NewRespondGrievanceHandler(
	grievanceRepo grievance.Repository,
	eventPublisher shared.EventPublisher,
) *RespondGrievanceHandler {
	return &RespondGrievanceHandler{
		grievanceRepo:  grievanceRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the respond grievance command.
func (h *RespondGrievanceHandler) Handle(ctx context.Context, cmd RespondGrievanceCommand) (*grievance.Grievance, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	g, err := h.grievanceRepo.GetByID(ctx, cmd.GrievanceID)
	if err != nil {
		return nil, fmt.Errorf("respond_grievance: failed to get grievance: %w", err)
	}

	if cmd.Response != "" {
		if err := g.Respond(cmd.Response, grievance.Status(cmd.Status)); err != nil {
			return nil, err
		}
	} else if err := g.SetStatus(grievance.Status(cmd.Status)); err != nil {
		return nil, err
	}

	if err := h.grievanceRepo.Update(ctx, g); err != nil {
		return nil, fmt.Errorf("respond_grievance: failed to save grievance: %w", err)
	}

	event := shared.NewGrievanceUpdatedEvent(g.ID, string(g.Status), g.Response != "")
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	_ = h.eventPublisher.Publish(event)

	return g, nil
}
