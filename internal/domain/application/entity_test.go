package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApplication(t *testing.T) *Application {
	t.Helper()
	app, err := NewApplication(
		"aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa",
		"11111111-1111-1111-1111-111111111111",
		"33333333-3333-3333-3333-333333333333",
		time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return app
}

func TestNewApplication_SeedsInitialHistory(t *testing.T) {
	app := newTestApplication(t)

	assert.Equal(t, StatusApplied, app.Status)
	assert.Equal(t, "applied", app.CurrentStage)
	assert.Equal(t, 1, app.Version)

	require.Len(t, app.StageHistory, 1)
	assert.Equal(t, "applied", app.StageHistory[0].Stage)
	assert.Equal(t, StageCompleted, app.StageHistory[0].Status)
	assert.Equal(t, app.AppliedAt, app.StageHistory[0].Timestamp)
}

func TestNewApplication_RequiresIdentifiers(t *testing.T) {
	now := time.Now()

	_, err := NewApplication("", "s1", "j1", now)
	assert.Error(t, err)

	_, err = NewApplication("a1", "", "j1", now)
	assert.Error(t, err)

	_, err = NewApplication("a1", "s1", "", now)
	assert.Error(t, err)
}

func TestTransition_AppendsHistoryAndUpdatesStatus(t *testing.T) {
	app := newTestApplication(t)
	when := time.Date(2026, 1, 12, 14, 30, 0, 0, time.UTC)

	err := app.Transition(StatusShortlisted, "shortlisted", Permissive(), when)
	require.NoError(t, err)

	assert.Equal(t, StatusShortlisted, app.Status)
	assert.Equal(t, "shortlisted", app.CurrentStage)
	assert.Equal(t, when, app.UpdatedAt)

	require.Len(t, app.StageHistory, 2)
	last := app.StageHistory[1]
	assert.Equal(t, "shortlisted", last.Stage)
	assert.Equal(t, StageCompleted, last.Status)
	assert.Equal(t, when, last.Timestamp)
}

func TestTransition_HistoryIsAppendOnly(t *testing.T) {
	app := newTestApplication(t)
	now := time.Now().UTC()

	require.NoError(t, app.Transition(StatusUnderReview, "under_review", Permissive(), now))
	require.NoError(t, app.Transition(StatusShortlisted, "shortlisted", Permissive(), now))
	require.NoError(t, app.Transition(StatusRejected, "rejected", Permissive(), now))

	require.Len(t, app.StageHistory, 4)
	assert.Equal(t, "applied", app.StageHistory[0].Stage)
	assert.Equal(t, "under_review", app.StageHistory[1].Stage)
	assert.Equal(t, "shortlisted", app.StageHistory[2].Stage)
	assert.Equal(t, "rejected", app.StageHistory[3].Stage)
}

func TestTransition_RejectsUnknownStatus(t *testing.T) {
	app := newTestApplication(t)

	err := app.Transition(Status("on_hold"), "on_hold", Permissive(), time.Now())

	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, StatusApplied, app.Status)
	assert.Len(t, app.StageHistory, 1)
}

func TestTransition_RejectsEmptyStage(t *testing.T) {
	app := newTestApplication(t)

	err := app.Transition(StatusUnderReview, "", Permissive(), time.Now())

	assert.ErrorIs(t, err, ErrEmptyStage)
}

func TestTransition_NilPolicyDefaultsToPermissive(t *testing.T) {
	app := newTestApplication(t)

	err := app.Transition(StatusSelected, "selected", nil, time.Now())

	assert.NoError(t, err)
	assert.True(t, app.IsPlaced())
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusSelected.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.False(t, StatusApplied.IsTerminal())
	assert.False(t, StatusUnderReview.IsTerminal())
	assert.False(t, StatusShortlisted.IsTerminal())
	assert.False(t, StatusInterviewed.IsTerminal())
}

func TestClone_HistoryIsIndependent(t *testing.T) {
	app := newTestApplication(t)
	clone := app.Clone()

	require.NoError(t, app.Transition(StatusUnderReview, "under_review", Permissive(), time.Now()))

	assert.Len(t, app.StageHistory, 2)
	assert.Len(t, clone.StageHistory, 1)
	assert.Equal(t, StatusApplied, clone.Status)
}
