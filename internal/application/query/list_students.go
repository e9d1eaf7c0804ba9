package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/placement-hub/campus-placement-portal/internal/domain/activity"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST STUDENTS QUERY
// Admin directory of registered profiles, filterable by branch.
// ══════════════════════════════════════════════════════════════════════════════

// StudentDTO is the directory representation of a profile.
type StudentDTO struct {
	ID                string    `json:"id"`
	FirstName         string    `json:"first_name"`
	CollegeRegNo      string    `json:"college_reg_no"`
	CollegeEmail      string    `json:"college_email"`
	PersonalEmail     string    `json:"personal_email,omitempty"`
	MobileNumber      string    `json:"mobile_number,omitempty"`
	Branch            string    `json:"branch"`
	UGPercentage      float64   `json:"ug_percentage"`
	HasActiveBacklogs bool      `json:"has_active_backlogs"`
	IsPWD             bool      `json:"is_pwd"`
	ResumeURL         string    `json:"resume_url,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// studentToDTO converts a student entity to its directory DTO.
func studentToDTO(s *student.Student) StudentDTO {
	return StudentDTO{
		ID:                s.ID,
		FirstName:         s.FirstName,
		CollegeRegNo:      string(s.CollegeRegNo),
		CollegeEmail:      s.CollegeEmail,
		PersonalEmail:     s.PersonalEmail,
		MobileNumber:      s.MobileNumber,
		Branch:            string(s.Branch),
		UGPercentage:      s.UGPercentage.Float64(),
		HasActiveBacklogs: s.HasActiveBacklogs,
		IsPWD:             s.IsPWD,
		ResumeURL:         s.ResumeURL,
		CreatedAt:         s.CreatedAt,
	}
}

// ListStudentsQuery contains the directory parameters.
type ListStudentsQuery struct {
	// Branch filters to a single branch when non-empty.
	Branch string

	// Limit is the page size (default 50, max 200).
	Limit int

	// Offset is the pagination offset.
	Offset int
}

// Validate validates and defaults the query parameters.
func (q *ListStudentsQuery) Validate() error {
	if q.Limit < 0 || q.Offset < 0 {
		return errors.New("limit and offset cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = 50
	}
	if q.Limit > 200 {
		q.Limit = 200
	}
	if q.Branch != "" && !student.Branch(q.Branch).IsValid() {
		return fmt.Errorf("invalid branch: %s", q.Branch)
	}
	return nil
}

// ListStudentsResult contains the result.
type ListStudentsResult struct {
	Students    []StudentDTO `json:"students"`
	TotalCount  int          `json:"total_count"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// ListStudentsHandler handles the ListStudentsQuery.
type ListStudentsHandler struct {
	studentRepo student.Repository
}

// NewListStudentsHandler creates a new ListStudentsHandler.
func NewListStudentsHandler(studentRepo student.Repository) *ListStudentsHandler {
	return &ListStudentsHandler{studentRepo: studentRepo}
}

// Handle executes the list students query.
func (h *ListStudentsHandler) Handle(ctx context.Context, q ListStudentsQuery) (*ListStudentsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("list_students: %w", err)
	}

	opts := student.DefaultListOptions().
		WithLimit(q.Limit).
		WithOffset(q.Offset).
		WithBranch(student.Branch(q.Branch))

	students, err := h.studentRepo.GetAll(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list_students: %w", err)
	}

	total, err := h.studentRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("list_students: failed to count: %w", err)
	}

	result := &ListStudentsResult{
		Students:    make([]StudentDTO, 0, len(students)),
		TotalCount:  total,
		GeneratedAt: time.Now().UTC(),
	}
	for _, s := range students {
		result.Students = append(result.Students, studentToDTO(s))
	}

	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GET PROFILE QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetProfileQuery fetches the profile owned by a user account.
type GetProfileQuery struct {
	// UserID is the owning account.
	UserID string
}

// GetProfileHandler handles the GetProfileQuery.
type GetProfileHandler struct {
	studentRepo student.Repository
}

// NewGetProfileHandler creates a new GetProfileHandler.
func NewGetProfileHandler(studentRepo student.Repository) *GetProfileHandler {
	return &GetProfileHandler{studentRepo: studentRepo}
}

// Handle executes the get profile query.
func (h *GetProfileHandler) Handle(ctx context.Context, q GetProfileQuery) (*StudentDTO, error) {
	if q.UserID == "" {
		return nil, errors.New("get_profile: user_id is required")
	}

	s, err := h.studentRepo.GetByUserID(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_profile: %w", err)
	}

	dto := studentToDTO(s)
	return &dto, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GET ADMIN ACTIVITIES QUERY
// The activity feed event handlers write into, read back for the admin
// dashboard sidebar.
// ══════════════════════════════════════════════════════════════════════════════

// ActivityEntryDTO is one feed row.
type ActivityEntryDTO struct {
	ID          int64     `json:"id"`
	EventType   string    `json:"event_type"`
	AggregateID string    `json:"aggregate_id,omitempty"`
	ActorID     string    `json:"actor_id,omitempty"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"created_at"`
}

// GetAdminActivitiesQuery fetches the newest feed entries.
type GetAdminActivitiesQuery struct {
	// Limit is the number of entries (default 20, max 100).
	Limit int

	// EventType filters to one event type when non-empty.
	EventType string
}

// GetAdminActivitiesHandler handles the query.
type GetAdminActivitiesHandler struct {
	activityRepo activity.Repository
}

// NewGetAdminActivitiesHandler creates a new handler.
func NewGetAdminActivitiesHandler(activityRepo activity.Repository) *GetAdminActivitiesHandler {
	return &GetAdminActivitiesHandler{activityRepo: activityRepo}
}

// Handle executes the get admin activities query.
func (h *GetAdminActivitiesHandler) Handle(ctx context.Context, q GetAdminActivitiesQuery) ([]ActivityEntryDTO, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	var (
		entries []*activity.Entry
		err     error
	)
	if q.EventType != "" {
		entries, err = h.activityRepo.GetByType(ctx, q.EventType, limit)
	} else {
		entries, err = h.activityRepo.GetRecent(ctx, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("admin_activities: %w", err)
	}

	out := make([]ActivityEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, ActivityEntryDTO{
			ID:          e.ID,
			EventType:   e.EventType,
			AggregateID: e.AggregateID,
			ActorID:     e.ActorID,
			Summary:     e.Summary,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out, nil
}
