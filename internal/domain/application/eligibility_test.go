package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-hub/campus-placement-portal/internal/domain/job"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

func pct(v float64) *student.Percentage {
	p := student.Percentage(v)
	return &p
}

func testStudent(t *testing.T, branch student.Branch, ugPct float64, backlogs bool) *student.Student {
	t.Helper()
	s, err := student.NewStudent(student.NewStudentParams{
		ID:                "11111111-1111-1111-1111-111111111111",
		UserID:            "22222222-2222-2222-2222-222222222222",
		FirstName:         "Priya",
		CollegeRegNo:      "1RV21CS042",
		CollegeEmail:      "priya@college.edu",
		Branch:            branch,
		UGPercentage:      student.Percentage(ugPct),
		HasActiveBacklogs: backlogs,
	})
	require.NoError(t, err)
	return s
}

func testJob(t *testing.T, min *student.Percentage, allowBacklogs bool, branches []student.Branch) *job.Job {
	t.Helper()
	j, err := job.NewJob(job.NewJobParams{
		ID:               "33333333-3333-3333-3333-333333333333",
		Title:            "Graduate Software Engineer",
		Company:          "Acme Systems",
		MinUGPercentage:  min,
		AllowBacklogs:    allowBacklogs,
		EligibleBranches: branches,
		Deadline:         time.Now().Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)
	return j
}

func TestEvaluate_AllConstraintsPass(t *testing.T) {
	j := testJob(t, pct(70), false, []student.Branch{student.BranchCSE, student.BranchISE})
	s := testStudent(t, student.BranchCSE, 82.5, false)

	decision := Evaluate(j, s)

	assert.True(t, decision.Eligible)
	assert.Empty(t, decision.Reasons)
}

func TestEvaluate_PercentageBelowThreshold(t *testing.T) {
	j := testJob(t, pct(75), true, nil)
	s := testStudent(t, student.BranchECE, 68.4, false)

	decision := Evaluate(j, s)

	assert.False(t, decision.Eligible)
	require.Len(t, decision.Reasons, 1)
	assert.Contains(t, decision.Reasons[0], "minimum percentage not met")
	assert.Contains(t, decision.Reasons[0], "75.00")
	assert.Contains(t, decision.Reasons[0], "68.40")
}

func TestEvaluate_PercentageExactlyAtThreshold(t *testing.T) {
	j := testJob(t, pct(70), true, nil)
	s := testStudent(t, student.BranchCSE, 70, false)

	decision := Evaluate(j, s)

	assert.True(t, decision.Eligible)
}

func TestEvaluate_BacklogsBlocked(t *testing.T) {
	j := testJob(t, nil, false, nil)
	s := testStudent(t, student.BranchMechanical, 80, true)

	decision := Evaluate(j, s)

	assert.False(t, decision.Eligible)
	require.Len(t, decision.Reasons, 1)
	assert.Contains(t, decision.Reasons[0], "active backlogs not allowed")
}

func TestEvaluate_BacklogsAllowed(t *testing.T) {
	j := testJob(t, nil, true, nil)
	s := testStudent(t, student.BranchMechanical, 80, true)

	decision := Evaluate(j, s)

	assert.True(t, decision.Eligible)
}

func TestEvaluate_BranchNotInAllowList(t *testing.T) {
	j := testJob(t, nil, true, []student.Branch{student.BranchCSE, student.BranchISE})
	s := testStudent(t, student.BranchCivil, 90, false)

	decision := Evaluate(j, s)

	assert.False(t, decision.Eligible)
	require.Len(t, decision.Reasons, 1)
	assert.Contains(t, decision.Reasons[0], "branch Civil not eligible")
}

func TestEvaluate_EmptyBranchListMeansAllBranches(t *testing.T) {
	j := testJob(t, nil, true, nil)

	for _, branch := range student.AllBranches {
		s := testStudent(t, branch, 60, false)
		decision := Evaluate(j, s)
		assert.True(t, decision.Eligible, "branch %s should be eligible", branch)
	}
}

func TestEvaluate_NilThresholdMeansNoPercentageConstraint(t *testing.T) {
	j := testJob(t, nil, true, nil)
	s := testStudent(t, student.BranchCSE, 1.5, false)

	decision := Evaluate(j, s)

	assert.True(t, decision.Eligible)
}

func TestEvaluate_CollectsEveryFailedConstraint(t *testing.T) {
	j := testJob(t, pct(80), false, []student.Branch{student.BranchCSE})
	s := testStudent(t, student.BranchEEE, 55, true)

	decision := Evaluate(j, s)

	assert.False(t, decision.Eligible)
	assert.Len(t, decision.Reasons, 3)
}

func TestEvaluate_IgnoresDeadlineAndActiveFlags(t *testing.T) {
	// Evaluate is a pure profile check; deadline and active state belong
	// to job.IsOpen at write time.
	j := testJob(t, pct(60), true, nil)
	j.Deadline = time.Now().Add(-24 * time.Hour)
	j.IsActive = false

	s := testStudent(t, student.BranchCSE, 75, false)

	decision := Evaluate(j, s)

	assert.True(t, decision.Eligible)
}
