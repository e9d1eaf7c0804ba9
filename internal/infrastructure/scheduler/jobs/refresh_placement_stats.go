package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/placement-hub/campus-placement-portal/internal/application/query"
)

// ══════════════════════════════════════════════════════════════════════════════
// REFRESH PLACEMENT STATS
// Keeps the dashboard cache warm so the first admin of the day does not
// pay for the recompute. SkipCache forces the recompute; the handler
// writes the fresh numbers back to Redis itself.
// ══════════════════════════════════════════════════════════════════════════════

// RefreshPlacementStatsJob recomputes the dashboard numbers on a schedule.
type RefreshPlacementStatsJob struct {
	stats  *query.GetPlacementStatsHandler
	logger *slog.Logger
}

// NewRefreshPlacementStatsJob creates a new RefreshPlacementStatsJob.
func NewRefreshPlacementStatsJob(stats *query.GetPlacementStatsHandler, logger *slog.Logger) *RefreshPlacementStatsJob {
	if logger == nil {
		logger = slog.Default()
	}

	return &RefreshPlacementStatsJob{
		stats:  stats,
		logger: logger.With("job", "refresh_placement_stats"),
	}
}

// Name returns the unique name of the job.
func (j *RefreshPlacementStatsJob) Name() string {
	return "refresh_placement_stats"
}

// Description returns a human-readable description.
func (j *RefreshPlacementStatsJob) Description() string {
	return "Recomputes placement statistics and rewarms the dashboard cache"
}

// Run recomputes the stats once.
func (j *RefreshPlacementStatsJob) Run(ctx context.Context) error {
	stats, err := j.stats.Handle(ctx, query.GetPlacementStatsQuery{SkipCache: true})
	if err != nil {
		return fmt.Errorf("refresh_placement_stats: %w", err)
	}

	j.logger.Info("placement stats refreshed",
		"total_students", stats.TotalStudents,
		"placed_students", stats.PlacedStudents,
		"placement_rate", stats.PlacementRate,
	)

	return nil
}
