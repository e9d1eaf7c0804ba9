package eventhandler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-hub/campus-placement-portal/internal/domain/activity"
	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
)

type fakeActivityRepo struct {
	entries []*activity.Entry
}

func (r *fakeActivityRepo) Save(ctx context.Context, entry *activity.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeActivityRepo) GetRecent(ctx context.Context, limit int) ([]*activity.Entry, error) {
	if limit > len(r.entries) {
		limit = len(r.entries)
	}
	out := make([]*activity.Entry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

func (r *fakeActivityRepo) GetByType(ctx context.Context, eventType string, limit int) ([]*activity.Entry, error) {
	out := make([]*activity.Entry, 0)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].EventType == eventType {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *fakeActivityRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	kept := r.entries[:0]
	removed := 0
	for _, e := range r.entries {
		if e.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return removed, nil
}

func TestActivityFeed_RecordsApplicationSubmitted(t *testing.T) {
	repo := &fakeActivityRepo{}
	handler := NewActivityFeedHandler(repo, nil)

	event := shared.NewApplicationSubmittedEvent(
		"app-1", "stu-1", "job-1", "Graduate Software Engineer", "Acme Systems",
	)
	require.NoError(t, handler.Handle(event))

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, "application.submitted", entry.EventType)
	assert.Equal(t, "app-1", entry.AggregateID)
	assert.Equal(t, "stu-1", entry.ActorID)
	assert.Equal(t, "New application for Graduate Software Engineer at Acme Systems", entry.Summary)
	assert.Equal(t, "job-1", entry.Payload["job_id"])
}

func TestActivityFeed_RecordsStatusChange(t *testing.T) {
	repo := &fakeActivityRepo{}
	handler := NewActivityFeedHandler(repo, nil)

	event := shared.NewApplicationStatusChangedEvent(
		"app-1", "stu-1", "job-1", "applied", "shortlisted", "shortlisted",
	)
	require.NoError(t, handler.Handle(event))

	require.Len(t, repo.entries, 1)
	assert.Equal(t, "Application moved from applied to shortlisted (stage: shortlisted)", repo.entries[0].Summary)
}

func TestActivityFeed_RecordsDeadlineClose(t *testing.T) {
	repo := &fakeActivityRepo{}
	handler := NewActivityFeedHandler(repo, nil)

	event := shared.NewJobClosedEvent("job-1", "Graduate Software Engineer", "Acme Systems", "deadline")
	require.NoError(t, handler.Handle(event))

	require.Len(t, repo.entries, 1)
	assert.Equal(t, "Job closed (deadline passed): Graduate Software Engineer at Acme Systems", repo.entries[0].Summary)
	assert.Empty(t, repo.entries[0].ActorID)
}

func TestActivityFeed_RecordsRegistrationAndGrievance(t *testing.T) {
	repo := &fakeActivityRepo{}
	handler := NewActivityFeedHandler(repo, nil)

	require.NoError(t, handler.Handle(shared.NewStudentRegisteredEvent("stu-1", "usr-1", "1RV21CS042", "CSE")))
	require.NoError(t, handler.Handle(shared.NewGrievanceSubmittedEvent("grv-1", "", "Shortlist missing", "high")))

	require.Len(t, repo.entries, 2)
	assert.Equal(t, "New student registered: 1RV21CS042 (CSE)", repo.entries[0].Summary)
	assert.Equal(t, "Grievance filed [high]: Shortlist missing", repo.entries[1].Summary)
	assert.Empty(t, repo.entries[1].ActorID)
}

type fakeDashboardCache struct {
	statsInvalidations int
	jobsInvalidations  int
}

func (c *fakeDashboardCache) InvalidateStats(ctx context.Context) error {
	c.statsInvalidations++
	return nil
}

func (c *fakeDashboardCache) InvalidateJobsLists(ctx context.Context) error {
	c.jobsInvalidations++
	return nil
}

func TestCacheInvalidation_JobWritesDropBothViews(t *testing.T) {
	cache := &fakeDashboardCache{}
	handler := NewCacheInvalidationHandler(cache, nil)

	require.NoError(t, handler.Handle(shared.NewJobPostedEvent("job-1", "SDE", "Acme Systems")))

	assert.Equal(t, 1, cache.jobsInvalidations)
	assert.Equal(t, 1, cache.statsInvalidations)
}

func TestCacheInvalidation_TransitionsDropStatsOnly(t *testing.T) {
	cache := &fakeDashboardCache{}
	handler := NewCacheInvalidationHandler(cache, nil)

	event := shared.NewApplicationStatusChangedEvent(
		"app-1", "stu-1", "job-1", "interviewed", "selected", "selected",
	)
	require.NoError(t, handler.Handle(event))

	assert.Equal(t, 0, cache.jobsInvalidations)
	assert.Equal(t, 1, cache.statsInvalidations)
}

func TestCacheInvalidation_IgnoresProfileEdits(t *testing.T) {
	cache := &fakeDashboardCache{}
	handler := NewCacheInvalidationHandler(cache, nil)

	require.NoError(t, handler.Handle(shared.NewProfileUpdatedEvent("stu-1")))

	assert.Zero(t, cache.jobsInvalidations)
	assert.Zero(t, cache.statsInvalidations)
}
