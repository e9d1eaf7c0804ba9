package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/placement-hub/campus-placement-portal/internal/domain/activity"
)

// ══════════════════════════════════════════════════════════════════════════════
// PRUNE ACTIVITY FEED
// The feed only ever shows recent entries; rows past the retention window
// are dead weight in the table and in backups.
// ══════════════════════════════════════════════════════════════════════════════

// PruneActivityFeedJob deletes feed entries older than the retention window.
type PruneActivityFeedJob struct {
	activityRepo activity.Repository
	retention    time.Duration
	logger       *slog.Logger
}

// NewPruneActivityFeedJob creates a new PruneActivityFeedJob.
// A non-positive retention defaults to 90 days.
func NewPruneActivityFeedJob(
	activityRepo activity.Repository,
	retention time.Duration,
	logger *slog.Logger,
) *PruneActivityFeedJob {
	if retention <= 0 {
		retention = 90 * 24 * time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PruneActivityFeedJob{
		activityRepo: activityRepo,
		retention:    retention,
		logger:       logger.With("job", "prune_activity_feed"),
	}
}

// Name returns the unique name of the job.
func (j *PruneActivityFeedJob) Name() string {
	return "prune_activity_feed"
}

// Description returns a human-readable description.
func (j *PruneActivityFeedJob) Description() string {
	return "Deletes activity feed entries older than the retention window"
}

// Run prunes once.
func (j *PruneActivityFeedJob) Run(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-j.retention)

	removed, err := j.activityRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("prune_activity_feed: %w", err)
	}

	if removed > 0 {
		j.logger.Info("pruned activity feed",
			"removed", removed,
			"cutoff", cutoff.Format(time.RFC3339),
		)
	}

	return nil
}
