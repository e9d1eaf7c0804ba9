package job

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

func validJobParams() NewJobParams {
	return NewJobParams{
		ID:       "33333333-3333-3333-3333-333333333333",
		Title:    "Backend Engineer",
		Company:  "Initech",
		Deadline: time.Now().Add(14 * 24 * time.Hour),
	}
}

func TestNewJob_StartsActive(t *testing.T) {
	j, err := NewJob(validJobParams())

	require.NoError(t, err)
	assert.True(t, j.IsActive)
	assert.Nil(t, j.MinUGPercentage)
	assert.Empty(t, j.EligibleBranches)
}

func TestNewJob_RequiresTitleCompanyDeadline(t *testing.T) {
	params := validJobParams()
	params.Title = "  "
	_, err := NewJob(params)
	assert.ErrorIs(t, err, ErrInvalidTitle)

	params = validJobParams()
	params.Company = ""
	_, err = NewJob(params)
	assert.ErrorIs(t, err, ErrInvalidCompany)

	params = validJobParams()
	params.Deadline = time.Time{}
	_, err = NewJob(params)
	assert.ErrorIs(t, err, ErrInvalidDeadline)
}

func TestNewJob_ValidatesConstraints(t *testing.T) {
	params := validJobParams()
	bad := student.Percentage(150)
	params.MinUGPercentage = &bad
	_, err := NewJob(params)
	assert.ErrorIs(t, err, ErrInvalidMinPercentage)

	params = validJobParams()
	params.EligibleBranches = []student.Branch{student.BranchCSE, "Chemical"}
	_, err = NewJob(params)
	assert.ErrorIs(t, err, ErrInvalidEligibleBranch)
}

func TestIsOpen_ActiveBeforeDeadline(t *testing.T) {
	j, err := NewJob(validJobParams())
	require.NoError(t, err)

	assert.NoError(t, j.IsOpen(time.Now()))
}

func TestIsOpen_InactiveJob(t *testing.T) {
	j, err := NewJob(validJobParams())
	require.NoError(t, err)
	j.Deactivate()

	assert.ErrorIs(t, j.IsOpen(time.Now()), ErrJobInactive)
}

func TestIsOpen_PastDeadline(t *testing.T) {
	j, err := NewJob(validJobParams())
	require.NoError(t, err)

	afterDeadline := j.Deadline.Add(time.Minute)
	assert.ErrorIs(t, j.IsOpen(afterDeadline), ErrJobExpired)
}

func TestIsOpen_InactiveReportedBeforeExpired(t *testing.T) {
	j, err := NewJob(validJobParams())
	require.NoError(t, err)
	j.Deactivate()

	afterDeadline := j.Deadline.Add(time.Minute)
	assert.ErrorIs(t, j.IsOpen(afterDeadline), ErrJobInactive)
}

func TestAcceptsBranch_EmptyListMeansAll(t *testing.T) {
	j, err := NewJob(validJobParams())
	require.NoError(t, err)

	for _, b := range student.AllBranches {
		assert.True(t, j.AcceptsBranch(b), "branch %s", b)
	}
}

func TestAcceptsBranch_AllowList(t *testing.T) {
	params := validJobParams()
	params.EligibleBranches = []student.Branch{student.BranchCSE, student.BranchAIML}
	j, err := NewJob(params)
	require.NoError(t, err)

	assert.True(t, j.AcceptsBranch(student.BranchCSE))
	assert.True(t, j.AcceptsBranch(student.BranchAIML))
	assert.False(t, j.AcceptsBranch(student.BranchCivil))
}
