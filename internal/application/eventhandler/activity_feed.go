// Package eventhandler contains the domain event subscribers.
// Handlers run after the command that published the event has already
// committed, so they must tolerate being behind the write.
package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/placement-hub/campus-placement-portal/internal/domain/activity"
	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
)

// ═══════════════════════════════════════════════════════════════════════════
// ACTIVITY FEED HANDLER
// Turns domain events into one-line feed entries for the admin dashboard.
// A failed feed write never fails the originating command; the feed is
// advisory, the event has already happened.
// ═══════════════════════════════════════════════════════════════════════════

// ActivityFeedHandler records domain events on the admin activity feed.
type ActivityFeedHandler struct {
	activityRepo activity.Repository
	logger       *slog.Logger
}

// NewActivityFeedHandler creates a new ActivityFeedHandler.
func NewActivityFeedHandler(activityRepo activity.Repository, logger *slog.Logger) *ActivityFeedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &ActivityFeedHandler{
		activityRepo: activityRepo,
		logger:       logger.With("handler", "activity_feed"),
	}
}

// Handle records one event on the feed. Events with no feed rendering
// are ignored.
func (h *ActivityFeedHandler) Handle(event shared.Event) error {
	summary, actorID := h.render(event)
	if summary == "" {
		return nil
	}

	entry, err := activity.NewEntry(
		string(event.EventType()),
		event.AggregateID(),
		actorID,
		summary,
		event.Payload(),
	)
	if err != nil {
		return fmt.Errorf("activity_feed: %w", err)
	}

	if err := h.activityRepo.Save(context.Background(), entry); err != nil {
		h.logger.Error("failed to record activity",
			"event_type", event.EventType(),
			"aggregate_id", event.AggregateID(),
			"error", err,
		)
		return fmt.Errorf("activity_feed: %w", err)
	}

	return nil
}

// render derives the feed one-liner and the acting student, if known.
func (h *ActivityFeedHandler) render(event shared.Event) (summary, actorID string) {
	switch e := event.(type) {
	case shared.StudentRegisteredEvent:
		return fmt.Sprintf("New student registered: %s (%s)", e.CollegeRegNo, e.Branch), event.AggregateID()

	case shared.ResumeUploadedEvent:
		return "Resume uploaded", e.StudentID

	case shared.ProfileUpdatedEvent:
		return "Profile updated", e.StudentID

	case shared.JobPostedEvent:
		return fmt.Sprintf("Job posted: %s at %s", e.Title, e.Company), ""

	case shared.JobUpdatedEvent:
		return fmt.Sprintf("Job updated: %s at %s", e.Title, e.Company), ""

	case shared.JobClosedEvent:
		if e.Reason == "deadline" {
			return fmt.Sprintf("Job closed (deadline passed): %s at %s", e.Title, e.Company), ""
		}
		return fmt.Sprintf("Job closed: %s at %s", e.Title, e.Company), ""

	case shared.ApplicationSubmittedEvent:
		return fmt.Sprintf("New application for %s at %s", e.JobTitle, e.Company), e.StudentID

	case shared.ApplicationStatusChangedEvent:
		return fmt.Sprintf("Application moved from %s to %s (stage: %s)", e.OldStatus, e.NewStatus, e.NewStage), e.StudentID

	case shared.GrievanceSubmittedEvent:
		return fmt.Sprintf("Grievance filed [%s]: %s", e.Priority, e.Subject), e.StudentID

	case shared.GrievanceUpdatedEvent:
		if e.HasResponse {
			return fmt.Sprintf("Grievance responded, status %s", e.Status), ""
		}
		return fmt.Sprintf("Grievance status changed to %s", e.Status), ""

	default:
		h.logger.Debug("no feed rendering for event", "event_type", event.EventType())
		return "", ""
	}
}
