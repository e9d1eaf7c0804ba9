package query

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-hub/campus-placement-portal/internal/domain/application"
	"github.com/placement-hub/campus-placement-portal/internal/domain/job"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

func parseCSV(t *testing.T, content []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestExportApplications_ForJob(t *testing.T) {
	profile := testProfile(t, "stu-1")
	profile.SetResumeURL("https://storage.example.com/resumes/CSE/1RV21CS042.pdf")
	posting := testJob(t, "job-1", 70)

	app := testApplication(t, "app-1", profile.ID, posting.ID)

	handler := NewExportApplicationsHandler(
		newFakeApplicationRepo(app),
		newFakeStudentRepo(profile),
		newFakeJobRepo(posting),
	)

	result, err := handler.Handle(context.Background(), ExportApplicationsQuery{JobID: posting.ID})
	require.NoError(t, err)

	assert.Equal(t, "applications_Acme_Systems.csv", result.Filename)
	assert.Equal(t, 1, result.RowCount)

	records := parseCSV(t, result.Content)
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"regNo", "name", "email", "mobile", "branch",
		"percentage", "status", "stage", "appliedDate", "resumeUrl",
	}, records[0])
	assert.Equal(t, []string{
		"1RV21CS042",
		"Arjun",
		"arjun@college.edu",
		"9876543210",
		"CSE",
		"78.50",
		"applied",
		"applied",
		time.Now().UTC().Format("2006-01-02"),
		"https://storage.example.com/resumes/CSE/1RV21CS042.pdf",
	}, records[1])
}

func TestExportApplications_AllWithStatusFilter(t *testing.T) {
	profile := testProfile(t, "stu-1")
	posting := testJob(t, "job-1", 70)

	applied := testApplication(t, "app-1", profile.ID, posting.ID)
	reviewed := testApplication(t, "app-2", profile.ID, "job-2")
	require.NoError(t, reviewed.Transition(
		application.StatusUnderReview, "under_review", application.Permissive(), time.Now().UTC(),
	))

	handler := NewExportApplicationsHandler(
		newFakeApplicationRepo(applied, reviewed),
		newFakeStudentRepo(profile),
		newFakeJobRepo(posting),
	)

	result, err := handler.Handle(context.Background(), ExportApplicationsQuery{Status: "under_review"})
	require.NoError(t, err)

	assert.Equal(t, "applications_all.csv", result.Filename)
	assert.Equal(t, 1, result.RowCount)

	records := parseCSV(t, result.Content)
	require.Len(t, records, 2)
	assert.Equal(t, "under_review", records[1][6])
}

func TestExportApplications_SkipsOrphanedApplications(t *testing.T) {
	profile := testProfile(t, "stu-1")
	posting := testJob(t, "job-1", 70)

	kept := testApplication(t, "app-1", profile.ID, posting.ID)
	orphan := testApplication(t, "app-2", "stu-gone", posting.ID)

	handler := NewExportApplicationsHandler(
		newFakeApplicationRepo(kept, orphan),
		newFakeStudentRepo(profile),
		newFakeJobRepo(posting),
	)

	result, err := handler.Handle(context.Background(), ExportApplicationsQuery{JobID: posting.ID})
	require.NoError(t, err)

	assert.Equal(t, 1, result.RowCount)
	records := parseCSV(t, result.Content)
	require.Len(t, records, 2)
	assert.Equal(t, "1RV21CS042", records[1][0])
}

func TestExportApplications_UnknownJob(t *testing.T) {
	handler := NewExportApplicationsHandler(
		newFakeApplicationRepo(),
		newFakeStudentRepo(),
		newFakeJobRepo(),
	)

	_, err := handler.Handle(context.Background(), ExportApplicationsQuery{JobID: "missing"})
	assert.ErrorIs(t, err, job.ErrJobNotFound)
}

func TestExportApplications_RejectsInvalidStatus(t *testing.T) {
	handler := NewExportApplicationsHandler(
		newFakeApplicationRepo(),
		newFakeStudentRepo(),
		newFakeJobRepo(),
	)

	_, err := handler.Handle(context.Background(), ExportApplicationsQuery{Status: "hired"})
	assert.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Acme_Systems", sanitizeFilename("Acme Systems"))
	assert.Equal(t, "TCSDigital", sanitizeFilename("TCS/Digital?"))
	assert.Equal(t, "job", sanitizeFilename("***"))
}

var _ student.Repository = (*fakeStudentRepo)(nil)
var _ job.Repository = (*fakeJobRepo)(nil)
var _ application.Repository = (*fakeApplicationRepo)(nil)
