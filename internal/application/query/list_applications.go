package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/placement-hub/campus-placement-portal/internal/domain/application"
	"github.com/placement-hub/campus-placement-portal/internal/domain/job"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// APPLICATION DTOs
// ══════════════════════════════════════════════════════════════════════════════

// TimelineStageDTO is one stage on the rendered application timeline.
type TimelineStageDTO struct {
	Stage     string     `json:"stage"`
	State     string     `json:"state"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// StageEntryDTO is one raw history record.
type StageEntryDTO struct {
	Stage     string    `json:"stage"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// ApplicationDTO is the student-facing view of one application.
type ApplicationDTO struct {
	ID           string             `json:"id"`
	JobID        string             `json:"job_id"`
	JobTitle     string             `json:"job_title"`
	Company      string             `json:"company"`
	Status       string             `json:"status"`
	CurrentStage string             `json:"current_stage"`
	Timeline     []TimelineStageDTO `json:"timeline"`
	StageHistory []StageEntryDTO    `json:"stage_history"`
	AppliedAt    time.Time          `json:"applied_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// applicationToDTO renders one application, deriving the display timeline
// from the canonical stage ordering.
func applicationToDTO(a *application.Application, posting *job.Job) ApplicationDTO {
	timeline := a.Timeline()
	timelineDTO := make([]TimelineStageDTO, 0, len(timeline))
	for _, stage := range timeline {
		timelineDTO = append(timelineDTO, TimelineStageDTO{
			Stage:     stage.Stage,
			State:     string(stage.State),
			Timestamp: stage.Timestamp,
		})
	}

	history := make([]StageEntryDTO, 0, len(a.StageHistory))
	for _, entry := range a.StageHistory {
		history = append(history, StageEntryDTO{
			Stage:     entry.Stage,
			Timestamp: entry.Timestamp,
			Status:    string(entry.Status),
		})
	}

	dto := ApplicationDTO{
		ID:           a.ID,
		JobID:        a.JobID,
		Status:       a.Status.String(),
		CurrentStage: a.CurrentStage,
		Timeline:     timelineDTO,
		StageHistory: history,
		AppliedAt:    a.AppliedAt,
		UpdatedAt:    a.UpdatedAt,
	}
	if posting != nil {
		dto.JobTitle = posting.Title
		dto.Company = posting.Company
	}
	return dto
}

// ══════════════════════════════════════════════════════════════════════════════
// LIST STUDENT APPLICATIONS QUERY
// "My applications" - everything one student has applied to, with the
// per-application timeline rendered for display.
// ══════════════════════════════════════════════════════════════════════════════

// ListStudentApplicationsQuery lists one student's applications.
type ListStudentApplicationsQuery struct {
	// StudentID is the student whose applications are listed.
	StudentID string
}

// ListStudentApplicationsResult contains the result.
type ListStudentApplicationsResult struct {
	Applications []ApplicationDTO `json:"applications"`
	TotalCount   int              `json:"total_count"`
	GeneratedAt  time.Time        `json:"generated_at"`
}

// ListStudentApplicationsHandler handles the query.
type ListStudentApplicationsHandler struct {
	applicationRepo application.Repository
	jobRepo         job.Repository
}

// NewListStudentApplicationsHandler creates a new handler.
func NewListStudentApplicationsHandler(
	applicationRepo application.Repository,
	jobRepo job.Repository,
) *ListStudentApplicationsHandler {
	return &ListStudentApplicationsHandler{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
	}
}

// Handle executes the query.
func (h *ListStudentApplicationsHandler) Handle(ctx context.Context, q ListStudentApplicationsQuery) (*ListStudentApplicationsResult, error) {
	if q.StudentID == "" {
		return nil, errors.New("list_student_applications: student_id is required")
	}

	apps, err := h.applicationRepo.GetByStudent(ctx, q.StudentID)
	if err != nil {
		return nil, fmt.Errorf("list_student_applications: %w", err)
	}

	result := &ListStudentApplicationsResult{
		Applications: make([]ApplicationDTO, 0, len(apps)),
		TotalCount:   len(apps),
		GeneratedAt:  time.Now().UTC(),
	}

	for _, a := range apps {
		posting, err := h.jobRepo.GetByID(ctx, a.JobID)
		if err != nil {
			// A deleted posting must not hide the application row.
			posting = nil
		}
		result.Applications = append(result.Applications, applicationToDTO(a, posting))
	}

	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LIST JOB APPLICATIONS QUERY
// Admin review view: every applicant for one posting with the profile
// fields the placement cell screens on.
// ══════════════════════════════════════════════════════════════════════════════

// ApplicantDTO is the admin-facing view of one applicant.
type ApplicantDTO struct {
	ApplicationID string    `json:"application_id"`
	StudentID     string    `json:"student_id"`
	FirstName     string    `json:"first_name"`
	CollegeRegNo  string    `json:"college_reg_no"`
	CollegeEmail  string    `json:"college_email"`
	MobileNumber  string    `json:"mobile_number"`
	Branch        string    `json:"branch"`
	UGPercentage  float64   `json:"ug_percentage"`
	ResumeURL     string    `json:"resume_url,omitempty"`
	Status        string    `json:"status"`
	CurrentStage  string    `json:"current_stage"`
	Version       int       `json:"version"`
	AppliedAt     time.Time `json:"applied_at"`
}

// ListJobApplicationsQuery lists applicants for one posting.
type ListJobApplicationsQuery struct {
	// JobID is the posting being reviewed.
	JobID string

	// Status filters to one pipeline status when non-empty.
	Status string
}

// ListJobApplicationsResult contains the result.
type ListJobApplicationsResult struct {
	JobID       string         `json:"job_id"`
	Applicants  []ApplicantDTO `json:"applicants"`
	TotalCount  int            `json:"total_count"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// ListJobApplicationsHandler handles the query.
type ListJobApplicationsHandler struct {
	applicationRepo application.Repository
	studentRepo     student.Repository
}

// NewListJobApplicationsHandler creates a new handler.
func NewListJobApplicationsHandler(
	applicationRepo application.Repository,
	studentRepo student.Repository,
) *ListJobApplicationsHandler {
	return &ListJobApplicationsHandler{
		applicationRepo: applicationRepo,
		studentRepo:     studentRepo,
	}
}

// Handle executes the query. Profiles are fetched in one batch instead of
// one query per applicant.
func (h *ListJobApplicationsHandler) Handle(ctx context.Context, q ListJobApplicationsQuery) (*ListJobApplicationsResult, error) {
	if q.JobID == "" {
		return nil, errors.New("list_job_applications: job_id is required")
	}

	apps, err := h.applicationRepo.GetByJob(ctx, q.JobID)
	if err != nil {
		return nil, fmt.Errorf("list_job_applications: %w", err)
	}

	if q.Status != "" {
		status := application.Status(q.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("list_job_applications: invalid status: %s", q.Status)
		}
		filtered := apps[:0]
		for _, a := range apps {
			if a.Status == status {
				filtered = append(filtered, a)
			}
		}
		apps = filtered
	}

	studentIDs := make([]string, 0, len(apps))
	for _, a := range apps {
		studentIDs = append(studentIDs, a.StudentID)
	}

	profiles, err := h.studentRepo.GetByIDs(ctx, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("list_job_applications: failed to get students: %w", err)
	}
	byID := make(map[string]*student.Student, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	result := &ListJobApplicationsResult{
		JobID:       q.JobID,
		Applicants:  make([]ApplicantDTO, 0, len(apps)),
		TotalCount:  len(apps),
		GeneratedAt: time.Now().UTC(),
	}

	for _, a := range apps {
		dto := ApplicantDTO{
			ApplicationID: a.ID,
			StudentID:     a.StudentID,
			Status:        a.Status.String(),
			CurrentStage:  a.CurrentStage,
			Version:       a.Version,
			AppliedAt:     a.AppliedAt,
		}
		if p, ok := byID[a.StudentID]; ok {
			dto.FirstName = p.FirstName
			dto.CollegeRegNo = string(p.CollegeRegNo)
			dto.CollegeEmail = p.CollegeEmail
			dto.MobileNumber = p.MobileNumber
			dto.Branch = string(p.Branch)
			dto.UGPercentage = p.UGPercentage.Float64()
			dto.ResumeURL = p.ResumeURL
		}
		result.Applicants = append(result.Applicants, dto)
	}

	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GET APPLICATION QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetApplicationQuery fetches one application with its timeline.
type GetApplicationQuery struct {
	// ApplicationID is the application to fetch.
	ApplicationID string
}

// GetApplicationHandler handles the query.
type GetApplicationHandler struct {
	applicationRepo application.Repository
	jobRepo         job.Repository
}

// NewGetApplicationHandler creates a new handler.
func NewGetApplicationHandler(
	applicationRepo application.Repository,
	jobRepo job.Repository,
) *GetApplicationHandler {
	return &GetApplicationHandler{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
	}
}

// Handle executes the query.
func (h *GetApplicationHandler) Handle(ctx context.Context, q GetApplicationQuery) (*ApplicationDTO, error) {
	if q.ApplicationID == "" {
		return nil, errors.New("get_application: application_id is required")
	}

	a, err := h.applicationRepo.GetByID(ctx, q.ApplicationID)
	if err != nil {
		return nil, fmt.Errorf("get_application: %w", err)
	}

	posting, err := h.jobRepo.GetByID(ctx, a.JobID)
	if err != nil {
		posting = nil
	}

	dto := applicationToDTO(a, posting)
	return &dto, nil
}
