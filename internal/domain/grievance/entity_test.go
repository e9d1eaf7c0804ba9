package grievance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validGrievanceParams() NewGrievanceParams {
	return NewGrievanceParams{
		ID:           "44444444-4444-4444-4444-444444444444",
		StudentID:    "11111111-1111-1111-1111-111111111111",
		Type:         "placement",
		Subject:      "Interview slot clash",
		Description:  "Two interviews scheduled at the same time on Friday.",
		ContactEmail: "student@college.edu",
		Priority:     PriorityHigh,
	}
}

func TestNewGrievance_StartsSubmitted(t *testing.T) {
	g, err := NewGrievance(validGrievanceParams())

	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, g.Status)
	assert.Equal(t, PriorityHigh, g.Priority)
	assert.Empty(t, g.Response)
}

func TestNewGrievance_DefaultsPriorityToMedium(t *testing.T) {
	params := validGrievanceParams()
	params.Priority = ""

	g, err := NewGrievance(params)

	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, g.Priority)
}

func TestNewGrievance_RejectsUnknownPriority(t *testing.T) {
	params := validGrievanceParams()
	params.Priority = "urgent"

	_, err := NewGrievance(params)

	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestNewGrievance_RequiresSubjectAndDescription(t *testing.T) {
	params := validGrievanceParams()
	params.Subject = " "
	_, err := NewGrievance(params)
	assert.ErrorIs(t, err, ErrInvalidSubject)

	params = validGrievanceParams()
	params.Description = ""
	_, err = NewGrievance(params)
	assert.ErrorIs(t, err, ErrInvalidDescription)
}

func TestNewGrievance_AllowsAnonymousSubmission(t *testing.T) {
	params := validGrievanceParams()
	params.StudentID = ""

	g, err := NewGrievance(params)

	require.NoError(t, err)
	assert.Empty(t, g.StudentID)
	assert.Equal(t, "student@college.edu", g.ContactEmail)
}

func TestRespond_RecordsResponseAndStatus(t *testing.T) {
	g, err := NewGrievance(validGrievanceParams())
	require.NoError(t, err)

	err = g.Respond("Rescheduled the second interview to Monday.", StatusResolved)

	require.NoError(t, err)
	assert.Equal(t, "Rescheduled the second interview to Monday.", g.Response)
	assert.True(t, g.IsResolved())
}

func TestRespond_EmptyStatusKeepsCurrent(t *testing.T) {
	g, err := NewGrievance(validGrievanceParams())
	require.NoError(t, err)
	require.NoError(t, g.SetStatus(StatusInProgress))

	err = g.Respond("Looking into it.", "")

	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, g.Status)
}

func TestSetStatus_RejectsUnknownStatus(t *testing.T) {
	g, err := NewGrievance(validGrievanceParams())
	require.NoError(t, err)

	assert.ErrorIs(t, g.SetStatus("closed"), ErrInvalidGrievanceStatus)
}
