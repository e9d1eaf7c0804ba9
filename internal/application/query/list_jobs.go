// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
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
// CACHE CONTRACTS
// Implemented by the Redis stats cache. Queries treat the cache as
// best-effort: a miss or a cache error falls through to PostgreSQL.
// ══════════════════════════════════════════════════════════════════════════════

// JobsCache caches rendered job listing views.
type JobsCache interface {
	GetJobsList(ctx context.Context, view string, dest interface{}) error
	SetJobsList(ctx context.Context, view string, jobs interface{}) error
}

// StatsCache caches the placement statistics overview.
type StatsCache interface {
	GetStats(ctx context.Context, dest interface{}) error
	SetStats(ctx context.Context, stats interface{}) error
}

// ══════════════════════════════════════════════════════════════════════════════
// LIST JOBS QUERY
// The student-facing listing. When StudentID is set, every job carries an
// eligibility preview so out-of-reach postings are visible but explained.
// ══════════════════════════════════════════════════════════════════════════════

// ListJobsQuery contains the parameters for listing jobs.
type ListJobsQuery struct {
	// OnlyActive restricts the listing to open postings.
	OnlyActive bool

	// Company filters to a single company when non-empty.
	Company string

	// Limit is the page size (default 50, max 100).
	Limit int

	// Offset is the pagination offset.
	Offset int

	// StudentID enables the per-job eligibility preview when non-empty.
	StudentID string
}

// Validate validates and defaults the query parameters.
func (q *ListJobsQuery) Validate() error {
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = 50
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		return errors.New("offset cannot be negative")
	}
	return nil
}

// JobDTO is the listing representation of a posting.
type JobDTO struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Company          string    `json:"company"`
	Description      string    `json:"description,omitempty"`
	Location         string    `json:"location,omitempty"`
	PackageRange     string    `json:"package_range,omitempty"`
	MinUGPercentage  *float64  `json:"min_ug_percentage,omitempty"`
	AllowBacklogs    bool      `json:"allow_backlogs"`
	EligibleBranches []string  `json:"eligible_branches"`
	Skills           []string  `json:"skills,omitempty"`
	Deadline         time.Time `json:"deadline"`
	IsActive         bool      `json:"is_active"`
	CountsAsOffer    bool      `json:"counts_as_offer"`
	CreatedAt        time.Time `json:"created_at"`

	// Eligible and Reasons are set only when the query carried a StudentID.
	Eligible *bool    `json:"eligible,omitempty"`
	Reasons  []string `json:"reasons,omitempty"`
}

// ListJobsResult contains the result of the listing.
type ListJobsResult struct {
	Jobs        []JobDTO  `json:"jobs"`
	TotalCount  int       `json:"total_count"`
	HasMore     bool      `json:"has_more"`
	GeneratedAt time.Time `json:"generated_at"`
}

// ListJobsHandler handles the ListJobsQuery.
type ListJobsHandler struct {
	jobRepo     job.Repository
	studentRepo student.Repository
	cache       JobsCache
}

// NewListJobsHandler creates a new ListJobsHandler.
func NewListJobsHandler(jobRepo job.Repository, studentRepo student.Repository, cache JobsCache) *ListJobsHandler {
	return &ListJobsHandler{
		jobRepo:     jobRepo,
		studentRepo: studentRepo,
		cache:       cache,
	}
}

// Handle executes the list jobs query. Only the anonymous view is cached;
// eligibility previews depend on the student and are computed per request.
func (h *ListJobsHandler) Handle(ctx context.Context, q ListJobsQuery) (*ListJobsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("list_jobs: %w", err)
	}

	cacheable := q.StudentID == "" && h.cache != nil
	view := h.viewKey(q)

	if cacheable {
		var cached ListJobsResult
		if err := h.cache.GetJobsList(ctx, view, &cached); err == nil {
			return &cached, nil
		}
	}

	opts := job.DefaultListOptions().WithLimit(q.Limit + 1).WithOffset(q.Offset)
	if q.OnlyActive {
		opts = opts.WithOnlyActive()
	}
	opts.Company = q.Company

	jobs, err := h.jobRepo.GetAll(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("list_jobs: failed to list jobs: %w", err)
	}

	hasMore := len(jobs) > q.Limit
	if hasMore {
		jobs = jobs[:q.Limit]
	}

	var profile *student.Student
	if q.StudentID != "" {
		profile, err = h.studentRepo.GetByID(ctx, q.StudentID)
		if err != nil {
			return nil, fmt.Errorf("list_jobs: failed to get student: %w", err)
		}
	}

	total, err := h.jobRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("list_jobs: failed to count jobs: %w", err)
	}

	result := &ListJobsResult{
		Jobs:        make([]JobDTO, 0, len(jobs)),
		TotalCount:  total,
		HasMore:     hasMore,
		GeneratedAt: time.Now().UTC(),
	}

	for _, j := range jobs {
		dto := jobToDTO(j)
		if profile != nil {
			decision := application.Evaluate(j, profile)
			dto.Eligible = &decision.Eligible
			dto.Reasons = decision.Reasons
		}
		result.Jobs = append(result.Jobs, dto)
	}

	if cacheable {
		_ = h.cache.SetJobsList(ctx, view, result)
	}

	return result, nil
}

// viewKey derives the cache key segment for one listing shape.
func (h *ListJobsHandler) viewKey(q ListJobsQuery) string {
	state := "all"
	if q.OnlyActive {
		state = "active"
	}
	return fmt.Sprintf("%s:%s:%d:%d", state, q.Company, q.Limit, q.Offset)
}

// jobToDTO converts a job entity to its listing DTO.
func jobToDTO(j *job.Job) JobDTO {
	branches := make([]string, 0, len(j.EligibleBranches))
	for _, b := range j.EligibleBranches {
		branches = append(branches, string(b))
	}

	var minPct *float64
	if j.MinUGPercentage != nil {
		v := j.MinUGPercentage.Float64()
		minPct = &v
	}

	return JobDTO{
		ID:               j.ID,
		Title:            j.Title,
		Company:          j.Company,
		Description:      j.Description,
		Location:         j.Location,
		PackageRange:     j.PackageRange,
		MinUGPercentage:  minPct,
		AllowBacklogs:    j.AllowBacklogs,
		EligibleBranches: branches,
		Skills:           j.Skills,
		Deadline:         j.Deadline,
		IsActive:         j.IsActive,
		CountsAsOffer:    j.CountsAsOffer,
		CreatedAt:        j.CreatedAt,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// GET JOB QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetJobQuery fetches a single posting, optionally with eligibility.
type GetJobQuery struct {
	// JobID is the posting to fetch.
	JobID string

	// StudentID enables the eligibility preview when non-empty.
	StudentID string
}

// GetJobHandler handles the GetJobQuery.
type GetJobHandler struct {
	jobRepo     job.Repository
	studentRepo student.Repository
}

// NewGetJobHandler creates a new GetJobHandler.
func NewGetJobHandler(jobRepo job.Repository, studentRepo student.Repository) *GetJobHandler {
	return &GetJobHandler{jobRepo: jobRepo, studentRepo: studentRepo}
}

// Handle executes the get job query.
func (h *GetJobHandler) Handle(ctx context.Context, q GetJobQuery) (*JobDTO, error) {
	if q.JobID == "" {
		return nil, errors.New("get_job: job_id is required")
	}

	j, err := h.jobRepo.GetByID(ctx, q.JobID)
	if err != nil {
		return nil, fmt.Errorf("get_job: %w", err)
	}

	dto := jobToDTO(j)

	if q.StudentID != "" {
		profile, err := h.studentRepo.GetByID(ctx, q.StudentID)
		if err != nil {
			return nil, fmt.Errorf("get_job: failed to get student: %w", err)
		}
		decision := application.Evaluate(j, profile)
		dto.Eligible = &decision.Eligible
		dto.Reasons = decision.Reasons
	}

	return &dto, nil
}
