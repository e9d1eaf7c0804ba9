package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-hub/campus-placement-portal/internal/domain/application"
	"github.com/placement-hub/campus-placement-portal/internal/domain/grievance"
)

func testGrievance(t *testing.T, id string) *grievance.Grievance {
	t.Helper()
	g, err := grievance.NewGrievance(grievance.NewGrievanceParams{
		ID:          id,
		Subject:     "Shortlist missing from portal",
		Description: "The shortlist for the Acme drive is not visible.",
	})
	require.NoError(t, err)
	return g
}

func TestGetPlacementStats_ComputesOverview(t *testing.T) {
	selected := testApplication(t, "app-1", "stu-1", "job-1")
	require.NoError(t, selected.Transition(
		application.StatusSelected, "selected", application.Permissive(), time.Now().UTC(),
	))
	applied := testApplication(t, "app-2", "stu-2", "job-1")

	handler := NewGetPlacementStatsHandler(
		newFakeApplicationRepo(selected, applied),
		newFakeStudentRepo(testProfile(t, "stu-1"), testProfile(t, "stu-2")),
		newFakeJobRepo(testJob(t, "job-1", 70)),
		newFakeGrievanceRepo(testGrievance(t, "grv-1")),
		nil,
	)

	stats, err := handler.Handle(context.Background(), GetPlacementStatsQuery{})
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalStudents)
	assert.Equal(t, 1, stats.TotalJobs)
	assert.Equal(t, 2, stats.TotalApplications)
	assert.Equal(t, 1, stats.ApplicationsByStatus["selected"])
	assert.Equal(t, 1, stats.ApplicationsByStatus["applied"])
	assert.Equal(t, 1, stats.PlacedStudents)
	assert.InDelta(t, 50.0, stats.PlacementRate, 0.001)
	assert.Equal(t, 1, stats.OpenGrievances)
	assert.False(t, stats.GeneratedAt.IsZero())
}

func TestGetPlacementStats_StudentWithTwoOffersCountsOnce(t *testing.T) {
	first := testApplication(t, "app-1", "stu-1", "job-1")
	second := testApplication(t, "app-2", "stu-1", "job-2")
	for _, a := range []*application.Application{first, second} {
		require.NoError(t, a.Transition(
			application.StatusSelected, "selected", application.Permissive(), time.Now().UTC(),
		))
	}

	handler := NewGetPlacementStatsHandler(
		newFakeApplicationRepo(first, second),
		newFakeStudentRepo(testProfile(t, "stu-1")),
		newFakeJobRepo(testJob(t, "job-1", 70), testJob(t, "job-2", 70)),
		newFakeGrievanceRepo(),
		nil,
	)

	stats, err := handler.Handle(context.Background(), GetPlacementStatsQuery{})
	require.NoError(t, err)

	assert.Equal(t, 1, stats.PlacedStudents)
	assert.InDelta(t, 100.0, stats.PlacementRate, 0.001)
}

func TestGetPlacementStats_ZeroStudentsMeansZeroRate(t *testing.T) {
	handler := NewGetPlacementStatsHandler(
		newFakeApplicationRepo(),
		newFakeStudentRepo(),
		newFakeJobRepo(),
		newFakeGrievanceRepo(),
		nil,
	)

	stats, err := handler.Handle(context.Background(), GetPlacementStatsQuery{})
	require.NoError(t, err)

	assert.Zero(t, stats.PlacedStudents)
	assert.Zero(t, stats.PlacementRate)
}

func TestGetPlacementStats_ServesFromCache(t *testing.T) {
	cache := &fakeStatsCache{}
	appRepo := newFakeApplicationRepo(testApplication(t, "app-1", "stu-1", "job-1"))

	handler := NewGetPlacementStatsHandler(
		appRepo,
		newFakeStudentRepo(testProfile(t, "stu-1")),
		newFakeJobRepo(testJob(t, "job-1", 70)),
		newFakeGrievanceRepo(),
		cache,
	)

	first, err := handler.Handle(context.Background(), GetPlacementStatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// New applications are invisible until the cache refreshes.
	require.NoError(t, appRepo.Create(context.Background(), testApplication(t, "app-2", "stu-1", "job-2")))

	cached, err := handler.Handle(context.Background(), GetPlacementStatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, first.TotalApplications, cached.TotalApplications)

	fresh, err := handler.Handle(context.Background(), GetPlacementStatsQuery{SkipCache: true})
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.TotalApplications)
	assert.Equal(t, 2, cache.sets)
}
