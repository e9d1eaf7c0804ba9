package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/placement-hub/campus-placement-portal/internal/domain/grievance"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRIEVANCE QUERIES
// ══════════════════════════════════════════════════════════════════════════════

// GrievanceDTO is the API representation of a grievance.
type GrievanceDTO struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"student_id,omitempty"`
	Type         string    `json:"type,omitempty"`
	Subject      string    `json:"subject"`
	Description  string    `json:"description"`
	ContactEmail string    `json:"contact_email,omitempty"`
	Priority     string    `json:"priority"`
	Status       string    `json:"status"`
	Response     string    `json:"response,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// grievanceToDTO converts a grievance entity to its DTO.
func grievanceToDTO(g *grievance.Grievance) GrievanceDTO {
	return GrievanceDTO{
		ID:           g.ID,
		StudentID:    g.StudentID,
		Type:         g.Type,
		Subject:      g.Subject,
		Description:  g.Description,
		ContactEmail: g.ContactEmail,
		Priority:     string(g.Priority),
		Status:       string(g.Status),
		Response:     g.Response,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

// ListGrievancesQuery lists grievances for the admin queue.
type ListGrievancesQuery struct {
	// Status filters to one status when non-empty.
	Status string

	// Priority filters to one priority when non-empty.
	Priority string

	// Limit is the page size (default 50).
	Limit int

	// Offset is the pagination offset.
	Offset int
}

// Validate validates and defaults the query parameters.
func (q *ListGrievancesQuery) Validate() error {
	if q.Limit < 0 || q.Offset < 0 {
		return errors.New("limit and offset cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = 50
	}
	if q.Status != "" && !grievance.Status(q.Status).IsValid() {
		return fmt.Errorf("invalid status: %s", q.Status)
	}
	if q.Priority != "" && !grievance.Priority(q.Priority).IsValid() {
		return fmt.Errorf("invalid priority: %s", q.Priority)
	}
	return nil
}

// ListGrievancesResult contains the result.
type ListGrievancesResult struct {
	Grievances  []GrievanceDTO `json:"grievances"`
	TotalOpen   int            `json:"total_open"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// ListGrievancesHandler handles the ListGrievancesQuery.
type ListGrievancesHandler struct {
	grievanceRepo grievance.Repository
}

// NewListGrievancesHandler creates a new ListGrievancesHandler.
func NewListGrievancesHandler(grievanceRepo grievance.Repository) *ListGrievancesHandler {
	return &ListGrievancesHandler{grievanceRepo: grievanceRepo}
}

// Handle executes the list grievances query.
func (h *ListGrievancesHandler) Handle(ctx context.Context, q ListGrievancesQuery) (*ListGrievancesResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("list_grievances: %w", err)
	}

	opts := grievance.DefaultListOptions().
		WithLimit(q.Limit).
		WithOffset(q.Offset).
		WithStatus(grievance.Status(q.Status)).
		WithPriority(grievance.Priority(q.Priority))

	grievances, err := h.grievanceRepo.GetAll(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list_grievances: %w", err)
	}

	open, err := h.grievanceRepo.CountOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list_grievances: failed to count open: %w", err)
	}

	result := &ListGrievancesResult{
		Grievances:  make([]GrievanceDTO, 0, len(grievances)),
		TotalOpen:   open,
		GeneratedAt: time.Now().UTC(),
	}
	for _, g := range grievances {
		result.Grievances = append(result.Grievances, grievanceToDTO(g))
	}

	return result, nil
}

// ListStudentGrievancesQuery lists one student's own grievances.
type ListStudentGrievancesQuery struct {
	// StudentID is the student whose grievances are listed.
	StudentID string
}

// ListStudentGrievancesHandler handles the query.
type ListStudentGrievancesHandler struct {
	grievanceRepo grievance.Repository
}

// NewListStudentGrievancesHandler creates a new handler.
func NewListStudentGrievancesHandler(grievanceRepo grievance.Repository) *ListStudentGrievancesHandler {
	return &ListStudentGrievancesHandler{grievanceRepo: grievanceRepo}
}

// Handle executes the query.
func (h *ListStudentGrievancesHandler) Handle(ctx context.Context, q ListStudentGrievancesQuery) ([]GrievanceDTO, error) {
	if q.StudentID == "" {
		return nil, errors.New("list_student_grievances: student_id is required")
	}

	grievances, err := h.grievanceRepo.GetByStudent(ctx, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("list_student_grievances: %w", err)
	}

	out := make([]GrievanceDTO, 0, len(grievances))
	for _, g := range grievances {
		out = append(out, grievanceToDTO(g))
	}
	return out, nil
}
