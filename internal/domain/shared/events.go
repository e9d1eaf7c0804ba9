// Package shared contains common domain types, errors, and events
// that are used across all domain packages.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types - each event represents something significant that
// happened in the domain. Handlers feed the admin activity log and caches.
const (
	// Identity events
	EventStudentRegistered EventType = "student.registered"
	EventProfileUpdated    EventType = "student.profile_updated"
	EventResumeUploaded    EventType = "student.resume_uploaded"

	// Job events
	EventJobPosted  EventType = "job.posted"
	EventJobUpdated EventType = "job.updated"
	EventJobClosed  EventType = "job.closed"

	// Application events
	EventApplicationSubmitted     EventType = "application.submitted"
	EventApplicationStatusChanged EventType = "application.status_changed"

	// Grievance events
	EventGrievanceSubmitted EventType = "grievance.submitted"
	EventGrievanceUpdated   EventType = "grievance.updated"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Identity Events
// ═══════════════════════════════════════════════════════════════════════════

// StudentRegisteredEvent is emitted when a new student registers.
type StudentRegisteredEvent struct {
	BaseEvent
	UserID       string `json:"user_id"`
	CollegeRegNo string `json:"college_reg_no"`
	Branch       string `json:"branch"`
}

// Payload implements Event interface.
func (e StudentRegisteredEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":        e.UserID,
		"college_reg_no": e.CollegeRegNo,
		"branch":         e.Branch,
	}
}

// NewStudentRegisteredEvent creates a new StudentRegisteredEvent.
func NewStudentRegisteredEvent(studentID, userID, regNo, branch string) StudentRegisteredEvent {
	return StudentRegisteredEvent{
		BaseEvent:    NewBaseEvent(EventStudentRegistered, studentID),
		UserID:       userID,
		CollegeRegNo: regNo,
		Branch:       branch,
	}
}

// ResumeUploadedEvent is emitted when a student uploads (or replaces) a resume.
type ResumeUploadedEvent struct {
	BaseEvent
	StudentID string `json:"student_id"`
	ResumeURL string `json:"resume_url"`
}

// Payload implements Event interface.
func (e ResumeUploadedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"resume_url": e.ResumeURL,
	}
}

// NewResumeUploadedEvent creates a new ResumeUploadedEvent.
func NewResumeUploadedEvent(studentID, resumeURL string) ResumeUploadedEvent {
	return ResumeUploadedEvent{
		BaseEvent: NewBaseEvent(EventResumeUploaded, studentID),
		StudentID: studentID,
		ResumeURL: resumeURL,
	}
}

// ProfileUpdatedEvent is emitted when a student edits their profile.
type ProfileUpdatedEvent struct {
	BaseEvent
	StudentID string `json:"student_id"`
}

// Payload implements Event interface.
func (e ProfileUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
	}
}

// NewProfileUpdatedEvent creates a new ProfileUpdatedEvent.
func NewProfileUpdatedEvent(studentID string) ProfileUpdatedEvent {
	return ProfileUpdatedEvent{
		BaseEvent: NewBaseEvent(EventProfileUpdated, studentID),
		StudentID: studentID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Job Events
// ═══════════════════════════════════════════════════════════════════════════

// JobPostedEvent is emitted when an admin posts a new job.
type JobPostedEvent struct {
	BaseEvent
	Title   string `json:"title"`
	Company string `json:"company"`
}

// Payload implements Event interface.
func (e JobPostedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"title":   e.Title,
		"company": e.Company,
	}
}

// NewJobPostedEvent creates a new JobPostedEvent.
func NewJobPostedEvent(jobID, title, company string) JobPostedEvent {
	return JobPostedEvent{
		BaseEvent: NewBaseEvent(EventJobPosted, jobID),
		Title:     title,
		Company:   company,
	}
}

// JobUpdatedEvent is emitted when an admin edits a posting.
type JobUpdatedEvent struct {
	BaseEvent
	Title   string `json:"title"`
	Company string `json:"company"`
}

// Payload implements Event interface.
func (e JobUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"title":   e.Title,
		"company": e.Company,
	}
}

// NewJobUpdatedEvent creates a new JobUpdatedEvent.
func NewJobUpdatedEvent(jobID, title, company string) JobUpdatedEvent {
	return JobUpdatedEvent{
		BaseEvent: NewBaseEvent(EventJobUpdated, jobID),
		Title:     title,
		Company:   company,
	}
}

// JobClosedEvent is emitted when a job is deactivated (by an admin or the
// deadline sweeper).
type JobClosedEvent struct {
	BaseEvent
	Title   string `json:"title"`
	Company string `json:"company"`
	Reason  string `json:"reason"` // "admin" or "deadline"
}

// Payload implements Event interface.
func (e JobClosedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"title":   e.Title,
		"company": e.Company,
		"reason":  e.Reason,
	}
}

// NewJobClosedEvent creates a new JobClosedEvent.
func NewJobClosedEvent(jobID, title, company, reason string) JobClosedEvent {
	return JobClosedEvent{
		BaseEvent: NewBaseEvent(EventJobClosed, jobID),
		Title:     title,
		Company:   company,
		Reason:    reason,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Application Events
// ═══════════════════════════════════════════════════════════════════════════

// ApplicationSubmittedEvent is emitted when a student applies to a job.
type ApplicationSubmittedEvent struct {
	BaseEvent
	StudentID string `json:"student_id"`
	JobID     string `json:"job_id"`
	JobTitle  string `json:"job_title"`
	Company   string `json:"company"`
}

// Payload implements Event interface.
func (e ApplicationSubmittedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"job_id":     e.JobID,
		"job_title":  e.JobTitle,
		"company":    e.Company,
	}
}

// NewApplicationSubmittedEvent creates a new ApplicationSubmittedEvent.
func NewApplicationSubmittedEvent(applicationID, studentID, jobID, jobTitle, company string) ApplicationSubmittedEvent {
	return ApplicationSubmittedEvent{
		BaseEvent: NewBaseEvent(EventApplicationSubmitted, applicationID),
		StudentID: studentID,
		JobID:     jobID,
		JobTitle:  jobTitle,
		Company:   company,
	}
}

// ApplicationStatusChangedEvent is emitted when an admin moves an
// application to a new status/stage.
type ApplicationStatusChangedEvent struct {
	BaseEvent
	StudentID string `json:"student_id"`
	JobID     string `json:"job_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	NewStage  string `json:"new_stage"`
}

// Payload implements Event interface.
func (e ApplicationStatusChangedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"job_id":     e.JobID,
		"old_status": e.OldStatus,
		"new_status": e.NewStatus,
		"new_stage":  e.NewStage,
	}
}

// NewApplicationStatusChangedEvent creates a new ApplicationStatusChangedEvent.
func NewApplicationStatusChangedEvent(applicationID, studentID, jobID, oldStatus, newStatus, newStage string) ApplicationStatusChangedEvent {
	return ApplicationStatusChangedEvent{
		BaseEvent: NewBaseEvent(EventApplicationStatusChanged, applicationID),
		StudentID: studentID,
		JobID:     jobID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		NewStage:  newStage,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Grievance Events
// ═══════════════════════════════════════════════════════════════════════════

// GrievanceSubmittedEvent is emitted when a grievance is filed.
type GrievanceSubmittedEvent struct {
	BaseEvent
	StudentID string `json:"student_id,omitempty"`
	Subject   string `json:"subject"`
	Priority  string `json:"priority"`
}

// Payload implements Event interface.
func (e GrievanceSubmittedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"student_id": e.StudentID,
		"subject":    e.Subject,
		"priority":   e.Priority,
	}
}

// NewGrievanceSubmittedEvent creates a new GrievanceSubmittedEvent.
func NewGrievanceSubmittedEvent(grievanceID, studentID, subject, priority string) GrievanceSubmittedEvent {
	return GrievanceSubmittedEvent{
		BaseEvent: NewBaseEvent(EventGrievanceSubmitted, grievanceID),
		StudentID: studentID,
		Subject:   subject,
		Priority:  priority,
	}
}

// GrievanceUpdatedEvent is emitted when an admin responds to a grievance
// or changes its status.
type GrievanceUpdatedEvent struct {
	BaseEvent
	Status      string `json:"status"`
	HasResponse bool   `json:"has_response"`
}

// Payload implements Event interface.
func (e GrievanceUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"status":       e.Status,
		"has_response": e.HasResponse,
	}
}

// NewGrievanceUpdatedEvent creates a new GrievanceUpdatedEvent.
func NewGrievanceUpdatedEvent(grievanceID, status string, hasResponse bool) GrievanceUpdatedEvent {
	return GrievanceUpdatedEvent{
		BaseEvent:   NewBaseEvent(EventGrievanceUpdated, grievanceID),
		Status:      status,
		HasResponse: hasResponse,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Bus Contracts
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher is the publish-only side of the event bus. Command
// handlers depend on this instead of the full EventBus.
type EventPublisher interface {
	// Publish publishes an event to all subscribed handlers.
	Publish(event Event) error
}

// EventBus defines the contract for publishing and subscribing to events.
type EventBus interface {
	// Publish publishes an event to all subscribed handlers.
	Publish(event Event) error

	// Subscribe registers a handler for a specific event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all event types.
	SubscribeAll(handler EventHandler) error

	// Close shuts down the event bus.
	Close() error
}
