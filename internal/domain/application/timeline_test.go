package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timelineByStage(timeline []TimelineStage) map[string]TimelineStage {
	m := make(map[string]TimelineStage, len(timeline))
	for _, row := range timeline {
		m[row.Stage] = row
	}
	return m
}

func TestTimeline_FreshApplication(t *testing.T) {
	app := newTestApplication(t)

	timeline := app.Timeline()
	require.Len(t, timeline, 5)

	rows := timelineByStage(timeline)
	assert.Equal(t, StateCompleted, rows["applied"].State)
	assert.NotNil(t, rows["applied"].Timestamp)
	assert.Equal(t, StatePending, rows["under_review"].State)
	assert.Equal(t, StatePending, rows["shortlisted"].State)
	assert.Equal(t, StatePending, rows["interviewed"].State)
	assert.Equal(t, StatePending, rows["selected"].State)
}

func TestTimeline_MidPipeline(t *testing.T) {
	app := newTestApplication(t)
	now := time.Now().UTC()
	require.NoError(t, app.Transition(StatusUnderReview, "under_review", Permissive(), now))
	require.NoError(t, app.Transition(StatusShortlisted, "shortlisted", Permissive(), now))

	rows := timelineByStage(app.Timeline())

	assert.Equal(t, StateCompleted, rows["applied"].State)
	assert.Equal(t, StateCompleted, rows["under_review"].State)
	// Shortlisted has a completed history entry, so it reads completed even
	// though it is also the current stage.
	assert.Equal(t, StateCompleted, rows["shortlisted"].State)
	assert.Equal(t, StatePending, rows["interviewed"].State)
	assert.Equal(t, StatePending, rows["selected"].State)
}

func TestTimeline_SkippedStageStaysPending(t *testing.T) {
	app := newTestApplication(t)
	require.NoError(t, app.Transition(StatusShortlisted, "shortlisted", Permissive(), time.Now().UTC()))

	rows := timelineByStage(app.Timeline())

	assert.Equal(t, StateCompleted, rows["applied"].State)
	assert.Equal(t, StatePending, rows["under_review"].State)
	assert.Equal(t, StateCompleted, rows["shortlisted"].State)
}

func TestTimeline_RejectedOverridesUnreachedStages(t *testing.T) {
	app := newTestApplication(t)
	now := time.Now().UTC()
	require.NoError(t, app.Transition(StatusUnderReview, "under_review", Permissive(), now))
	require.NoError(t, app.Transition(StatusRejected, "rejected", Permissive(), now))

	rows := timelineByStage(app.Timeline())

	// Reached stages keep their completed state; only unreached ones show
	// the rejection.
	assert.Equal(t, StateCompleted, rows["applied"].State)
	assert.Equal(t, StateCompleted, rows["under_review"].State)
	assert.Equal(t, StateRejected, rows["shortlisted"].State)
	assert.Equal(t, StateRejected, rows["interviewed"].State)
	assert.Equal(t, StateRejected, rows["selected"].State)
}

func TestTimeline_PendingHistoryEntryReadsCurrent(t *testing.T) {
	app := newTestApplication(t)
	app.StageHistory = append(app.StageHistory, StageEntry{
		Stage:     "under_review",
		Timestamp: time.Now().UTC(),
		Status:    StagePending,
	})

	rows := timelineByStage(app.Timeline())

	assert.Equal(t, StateCurrent, rows["under_review"].State)
}

func TestTimeline_CurrentStageWithoutHistoryEntry(t *testing.T) {
	app := newTestApplication(t)
	app.Status = StatusUnderReview
	app.CurrentStage = "under_review"

	rows := timelineByStage(app.Timeline())

	assert.Equal(t, StateCurrent, rows["under_review"].State)
	assert.Nil(t, rows["under_review"].Timestamp)
}

func TestTimeline_SelectedCompletesPipeline(t *testing.T) {
	app := newTestApplication(t)
	now := time.Now().UTC()
	for _, step := range []Status{StatusUnderReview, StatusShortlisted, StatusInterviewed, StatusSelected} {
		require.NoError(t, app.Transition(step, step.String(), Permissive(), now))
	}

	rows := timelineByStage(app.Timeline())
	for _, stage := range CanonicalStages {
		assert.Equal(t, StateCompleted, rows[stage.String()].State, "stage %s", stage)
	}
}
