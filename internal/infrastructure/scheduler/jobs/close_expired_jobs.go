// Package jobs contains the portal's scheduled background jobs.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/placement-hub/campus-placement-portal/internal/application/command"
	"github.com/placement-hub/campus-placement-portal/internal/domain/job"
	"github.com/placement-hub/campus-placement-portal/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLOSE EXPIRED JOBS
// Postings stay open until the sweeper notices the deadline has passed.
// The close goes through the regular command so the usual events fire and
// caches are invalidated the same way a manual close would be.
// ══════════════════════════════════════════════════════════════════════════════

// CloseExpiredJobsJob closes active postings whose deadline has passed.
type CloseExpiredJobsJob struct {
	jobRepo  job.Repository
	closeJob *command.CloseJobHandler
	logger   *slog.Logger
}

// NewCloseExpiredJobsJob creates a new CloseExpiredJobsJob.
func NewCloseExpiredJobsJob(
	jobRepo job.Repository,
	closeJob *command.CloseJobHandler,
	logger *slog.Logger,
) *CloseExpiredJobsJob {
	if logger == nil {
		logger = slog.Default()
	}

	return &CloseExpiredJobsJob{
		jobRepo:  jobRepo,
		closeJob: closeJob,
		logger:   logger.With("job", "close_expired_jobs"),
	}
}

// Name returns the unique name of the job.
func (j *CloseExpiredJobsJob) Name() string {
	return "close_expired_jobs"
}

// Description returns a human-readable description.
func (j *CloseExpiredJobsJob) Description() string {
	return "Closes active postings whose application deadline has passed"
}

// Run sweeps the active postings once. Failures on individual postings
// are logged and skipped; the next sweep retries them.
func (j *CloseExpiredJobsJob) Run(ctx context.Context) error {
	now := time.Now().UTC()

	expired, err := j.jobRepo.FindExpiredActive(ctx, now)
	if err != nil {
		return fmt.Errorf("close_expired_jobs: find expired: %w", err)
	}

	if len(expired) == 0 {
		return nil
	}

	closed := 0
	for _, posting := range expired {
		err := j.closeJob.Handle(ctx, command.CloseJobCommand{
			JobID:  posting.ID,
			Reason: "deadline",
		})
		if err != nil {
			j.logger.Error("failed to close expired posting",
				"job_id", posting.ID,
				"company", posting.Company,
				"deadline", timeutil.FormatDateTimeStr(posting.Deadline),
				"error", err,
			)
			continue
		}
		closed++
	}

	j.logger.Info("deadline sweep finished",
		"expired", len(expired),
		"closed", closed,
	)

	return nil
}
