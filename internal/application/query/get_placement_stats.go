package query

import (
	"context"
	"fmt"
	"time"

	"github.com/placement-hub/campus-placement-portal/internal/domain/application"
	"github.com/placement-hub/campus-placement-portal/internal/domain/grievance"
	"github.com/placement-hub/campus-placement-portal/internal/domain/job"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PLACEMENT STATS QUERY
// The admin dashboard overview. Numbers come from aggregate queries, not
// row scans, and the whole result is cached; a scheduler job refreshes it
// so most dashboard loads never touch PostgreSQL.
// ══════════════════════════════════════════════════════════════════════════════

// PlacementStatsDTO is the dashboard overview.
type PlacementStatsDTO struct {
	// TotalStudents is the number of registered profiles.
	TotalStudents int `json:"total_students"`

	// TotalJobs is the number of postings ever created.
	TotalJobs int `json:"total_jobs"`

	// TotalApplications is the number of applications across all jobs.
	TotalApplications int `json:"total_applications"`

	// ApplicationsByStatus breaks applications down by pipeline status.
	ApplicationsByStatus map[string]int `json:"applications_by_status"`

	// PlacedStudents counts distinct students selected for an
	// offer-counting job. A student with two offers counts once.
	PlacedStudents int `json:"placed_students"`

	// PlacementRate is PlacedStudents over TotalStudents, 0-100.
	PlacementRate float64 `json:"placement_rate"`

	// OpenGrievances counts grievances not yet resolved.
	OpenGrievances int `json:"open_grievances"`

	// GeneratedAt is when the numbers were computed.
	GeneratedAt time.Time `json:"generated_at"`
}

// GetPlacementStatsQuery contains the parameters for the overview.
type GetPlacementStatsQuery struct {
	// SkipCache forces a recompute, used by the refresh job.
	SkipCache bool
}

// GetPlacementStatsHandler handles the GetPlacementStatsQuery.
type GetPlacementStatsHandler struct {
	applicationRepo application.Repository
	studentRepo     student.Repository
	jobRepo         job.Repository
	grievanceRepo   grievance.Repository
	cache           StatsCache
}

// NewGetPlacementStatsHandler creates a new GetPlacementStatsHandler.
func NewGetPlacementStatsHandler(
	applicationRepo application.Repository,
	studentRepo student.Repository,
	jobRepo job.Repository,
	grievanceRepo grievance.Repository,
	cache StatsCache,
) *GetPlacementStatsHandler {
	return &GetPlacementStatsHandler{
		applicationRepo: applicationRepo,
		studentRepo:     studentRepo,
		jobRepo:         jobRepo,
		grievanceRepo:   grievanceRepo,
		cache:           cache,
	}
}

// Handle executes the get placement stats query.
func (h *GetPlacementStatsHandler) Handle(ctx context.Context, q GetPlacementStatsQuery) (*PlacementStatsDTO, error) {
	if !q.SkipCache && h.cache != nil {
		var cached PlacementStatsDTO
		if err := h.cache.GetStats(ctx, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := h.compute(ctx)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		_ = h.cache.SetStats(ctx, stats)
	}

	return stats, nil
}

// compute runs the aggregate queries and assembles the overview.
func (h *GetPlacementStatsHandler) compute(ctx context.Context) (*PlacementStatsDTO, error) {
	totalStudents, err := h.studentRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("placement_stats: failed to count students: %w", err)
	}

	totalJobs, err := h.jobRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("placement_stats: failed to count jobs: %w", err)
	}

	byStatus, err := h.applicationRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("placement_stats: failed to count applications: %w", err)
	}

	placed, err := h.applicationRepo.CountDistinctPlacedStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("placement_stats: failed to count placed students: %w", err)
	}

	openGrievances, err := h.grievanceRepo.CountOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("placement_stats: failed to count grievances: %w", err)
	}

	totalApplications := 0
	statusCounts := make(map[string]int, len(byStatus))
	for status, count := range byStatus {
		totalApplications += count
		statusCounts[status.String()] = count
	}

	rate := 0.0
	if totalStudents > 0 {
		rate = float64(placed) / float64(totalStudents) * 100
	}

	return &PlacementStatsDTO{
		TotalStudents:        totalStudents,
		TotalJobs:            totalJobs,
		TotalApplications:    totalApplications,
		ApplicationsByStatus: statusCounts,
		PlacedStudents:       placed,
		PlacementRate:        rate,
		OpenGrievances:       openGrievances,
		GeneratedAt:          time.Now().UTC(),
	}, nil
}
