package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE PROFILE COMMAND
// Identity fields (branch, reg no, college email) are frozen after
// registration; the entity rejects attempts to change them.
// ══════════════════════════════════════════════════════════════════════════════

// UpdateProfileCommand contains partial edits to a student profile.
type UpdateProfileCommand struct {
	// StudentID is the profile to edit.
	StudentID string

	// Update carries the mutable fields; nil fields are left untouched.
	Update student.ProfileUpdate

	// CorrelationID for tracing.
	CorrelationID string
}

// UpdateProfileHandler handles the UpdateProfileCommand.
type UpdateProfileHandler struct {
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher
}

// NewUpdateProfileHandler creates a new UpdateProfileHandler.
func NewUpdateProfileHandler(
	studentRepo student.Repository,
	eventPublisher shared.EventPublisher,
) *UpdateProfileHandler {
	return &UpdateProfileHandler{
		studentRepo:    studentRepo,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the update profile command.
func (h *UpdateProfileHandler) Handle(ctx context.Context, cmd UpdateProfileCommand) (*student.Student, error) {
	if cmd.StudentID == "" {
		return nil, errors.New("update_profile: student_id is required")
	}

	profile, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("update_profile: failed to get student: %w", err)
	}

	if err := profile.ApplyUpdate(cmd.Update); err != nil {
		return nil, err
	}

	if err := h.studentRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update_profile: failed to save profile: %w", err)
	}

	event := shared.NewProfileUpdatedEvent(profile.ID)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	_ = h.eventPublisher.Publish(event)

	return profile, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// UPLOAD RESUME COMMAND
// The object key is derived from branch and reg no, so a re-upload always
// overwrites the previous file: one resume per student.
// ══════════════════════════════════════════════════════════════════════════════

// ResumeStore uploads resume files to the object store and returns the
// public URL. Implemented by the Supabase storage client.
type ResumeStore interface {
	Upload(ctx context.Context, key string, content []byte) (string, error)
}

// UploadResumeCommand contains the resume file to store.
type UploadResumeCommand struct {
	// StudentID is the owner of the resume.
	StudentID string

	// Content is the raw PDF bytes.
	Content []byte

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c UploadResumeCommand) Validate() error {
	if c.StudentID == "" {
		return errors.New("upload_resume: student_id is required")
	}
	if len(c.Content) == 0 {
		return errors.New("upload_resume: file content is required")
	}
	return nil
}

// UploadResumeResult contains the result of the upload.
type UploadResumeResult struct {
	// ResumeURL is the public URL of the stored resume.
	ResumeURL string

	// Events contains domain events generated.
	Events []shared.Event
}

// UploadResumeHandler handles the UploadResumeCommand.
type UploadResumeHandler struct {
	studentRepo    student.Repository
	resumeStore    ResumeStore
	eventPublisher shared.EventPublisher
}

// NewUploadResumeHandler creates a new UploadResumeHandler.
func NewUploadResumeHandler(
	studentRepo student.Repository,
	resumeStore ResumeStore,
	eventPublisher shared.EventPublisher,
) *UploadResumeHandler {
	return &UploadResumeHandler{
		studentRepo:    studentRepo,
		resumeStore:    resumeStore,
		eventPublisher: eventPublisher,
	}
}

// Handle executes the upload resume command.
func (h *UploadResumeHandler) Handle(ctx context.Context, cmd UploadResumeCommand) (*UploadResumeResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	profile, err := h.studentRepo.GetByID(ctx, cmd.StudentID)
	if err != nil {
		return nil, fmt.Errorf("upload_resume: failed to get student: %w", err)
	}

	url, err := h.resumeStore.Upload(ctx, profile.ResumeKey(), cmd.Content)
	if err != nil {
		return nil, err
	}

	profile.SetResumeURL(url)
	if err := h.studentRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("upload_resume: failed to save profile: %w", err)
	}

	result := &UploadResumeResult{
		ResumeURL: url,
		Events:    make([]shared.Event, 0, 1),
	}

	event := shared.NewResumeUploadedEvent(profile.ID, url)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, event)

	for _, e := range result.Events {
		_ = h.eventPublisher.Publish(e)
	}

	return result, nil
}
