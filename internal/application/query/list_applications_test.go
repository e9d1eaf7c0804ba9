package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-hub/campus-placement-portal/internal/domain/application"
)

func TestListStudentApplications_RendersTimeline(t *testing.T) {
	posting := testJob(t, "job-1", 70)
	app := testApplication(t, "app-1", "stu-1", posting.ID)
	require.NoError(t, app.Transition(
		application.StatusUnderReview, "under_review", application.Permissive(), time.Now().UTC(),
	))

	handler := NewListStudentApplicationsHandler(
		newFakeApplicationRepo(app),
		newFakeJobRepo(posting),
	)

	result, err := handler.Handle(context.Background(), ListStudentApplicationsQuery{StudentID: "stu-1"})
	require.NoError(t, err)

	require.Len(t, result.Applications, 1)
	dto := result.Applications[0]
	assert.Equal(t, "Graduate Software Engineer", dto.JobTitle)
	assert.Equal(t, "Acme Systems", dto.Company)
	assert.Equal(t, "under_review", dto.Status)
	assert.Len(t, dto.StageHistory, 2)

	require.Len(t, dto.Timeline, len(application.CanonicalStages))
	assert.Equal(t, "applied", dto.Timeline[0].Stage)
	assert.Equal(t, "completed", dto.Timeline[0].State)
	assert.Equal(t, "under_review", dto.Timeline[1].Stage)
	assert.Equal(t, "current", dto.Timeline[1].State)
	assert.Equal(t, "pending", dto.Timeline[2].State)
}

func TestListStudentApplications_SurvivesDeletedPosting(t *testing.T) {
	app := testApplication(t, "app-1", "stu-1", "job-gone")

	handler := NewListStudentApplicationsHandler(
		newFakeApplicationRepo(app),
		newFakeJobRepo(),
	)

	result, err := handler.Handle(context.Background(), ListStudentApplicationsQuery{StudentID: "stu-1"})
	require.NoError(t, err)

	require.Len(t, result.Applications, 1)
	assert.Empty(t, result.Applications[0].JobTitle)
	assert.Equal(t, "job-gone", result.Applications[0].JobID)
}

func TestListJobApplications_JoinsProfilesInBatch(t *testing.T) {
	first := testProfile(t, "stu-1")
	second := testProfile(t, "stu-2")
	posting := testJob(t, "job-1", 70)

	handler := NewListJobApplicationsHandler(
		newFakeApplicationRepo(
			testApplication(t, "app-1", first.ID, posting.ID),
			testApplication(t, "app-2", second.ID, posting.ID),
		),
		newFakeStudentRepo(first, second),
	)

	result, err := handler.Handle(context.Background(), ListJobApplicationsQuery{JobID: posting.ID})
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalCount)
	require.Len(t, result.Applicants, 2)
	for _, applicant := range result.Applicants {
		assert.Equal(t, "1RV21CS042", applicant.CollegeRegNo)
		assert.Equal(t, "applied", applicant.Status)
		assert.Equal(t, 1, applicant.Version)
	}
}

func TestListJobApplications_FiltersByStatus(t *testing.T) {
	profile := testProfile(t, "stu-1")
	posting := testJob(t, "job-1", 70)

	shortlisted := testApplication(t, "app-1", profile.ID, posting.ID)
	require.NoError(t, shortlisted.Transition(
		application.StatusShortlisted, "shortlisted", application.Permissive(), time.Now().UTC(),
	))

	handler := NewListJobApplicationsHandler(
		newFakeApplicationRepo(shortlisted, testApplication(t, "app-2", "stu-2", posting.ID)),
		newFakeStudentRepo(profile),
	)

	result, err := handler.Handle(context.Background(), ListJobApplicationsQuery{
		JobID:  posting.ID,
		Status: "shortlisted",
	})
	require.NoError(t, err)

	require.Len(t, result.Applicants, 1)
	assert.Equal(t, "app-1", result.Applicants[0].ApplicationID)

	_, err = handler.Handle(context.Background(), ListJobApplicationsQuery{
		JobID:  posting.ID,
		Status: "waitlisted",
	})
	assert.Error(t, err)
}

func TestGetApplication_ReturnsSingleDTO(t *testing.T) {
	posting := testJob(t, "job-1", 70)
	app := testApplication(t, "app-1", "stu-1", posting.ID)

	handler := NewGetApplicationHandler(
		newFakeApplicationRepo(app),
		newFakeJobRepo(posting),
	)

	dto, err := handler.Handle(context.Background(), GetApplicationQuery{ApplicationID: app.ID})
	require.NoError(t, err)

	assert.Equal(t, "app-1", dto.ID)
	assert.Equal(t, "applied", dto.CurrentStage)
	require.NotEmpty(t, dto.StageHistory)
	assert.Equal(t, "applied", dto.StageHistory[0].Stage)
}
