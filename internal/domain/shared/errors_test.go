package shared_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/placement-hub/campus-placement-portal/internal/domain/application"
	"github.com/placement-hub/campus-placement-portal/internal/domain/grievance"
	"github.com/placement-hub/campus-placement-portal/internal/domain/identity"
	"github.com/placement-hub/campus-placement-portal/internal/domain/job"
	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

// The HTTP layer classifies errors exclusively through the shared kinds, so
// every sentinel a command or repository can surface must match a predicate.

func TestPredicates_ClassifyNotFoundSentinels(t *testing.T) {
	assert.True(t, shared.IsNotFound(job.ErrJobNotFound))
	assert.True(t, shared.IsNotFound(application.ErrApplicationNotFound))
	assert.True(t, shared.IsNotFound(student.ErrStudentNotFound))
	assert.True(t, shared.IsNotFound(grievance.ErrGrievanceNotFound))
	assert.True(t, shared.IsNotFound(identity.ErrUserNotFound))
}

func TestPredicates_ClassifyAlreadyExistsSentinels(t *testing.T) {
	assert.True(t, shared.IsAlreadyExists(application.ErrDuplicateApplication))
	assert.True(t, shared.IsAlreadyExists(student.ErrStudentAlreadyExists))
	assert.True(t, shared.IsAlreadyExists(identity.ErrEmailTaken))
}

func TestPredicates_ClassifyStateAndConcurrencySentinels(t *testing.T) {
	assert.True(t, errors.Is(job.ErrJobInactive, shared.ErrInactive))
	assert.True(t, errors.Is(job.ErrJobExpired, shared.ErrExpired))
	assert.True(t, errors.Is(application.ErrStaleVersion, shared.ErrConcurrentModification))
	assert.True(t, errors.Is(application.ErrTransitionNotAllowed, shared.ErrStateTransition))
}

func TestPredicates_ClassifyValidationSentinels(t *testing.T) {
	assert.True(t, shared.IsValidation(application.ErrInvalidStatus))
	assert.True(t, shared.IsValidation(job.ErrInvalidTitle))
	assert.True(t, shared.IsValidation(job.ErrInvalidMinPercentage))
	assert.True(t, shared.IsValidation(student.ErrInvalidPercentage))
	assert.True(t, shared.IsValidation(student.ErrInvalidRegNo))
	assert.True(t, shared.IsValidation(grievance.ErrInvalidPriority))
	assert.True(t, shared.IsValidation(identity.ErrInvalidRole))
}

func TestPredicates_SurviveWrapping(t *testing.T) {
	err := fmt.Errorf("submit_application: failed to get job: %w", job.ErrJobNotFound)
	assert.True(t, shared.IsNotFound(err))
	assert.True(t, errors.Is(err, job.ErrJobNotFound))

	err = fmt.Errorf("transition: %w", application.ErrStaleVersion)
	assert.True(t, errors.Is(err, shared.ErrConcurrentModification))
}

func TestIsPreconditionFailure_CoversApplyGates(t *testing.T) {
	assert.True(t, shared.IsPreconditionFailure(shared.ErrStudentNotEligible))
	assert.True(t, shared.IsPreconditionFailure(job.ErrJobInactive))
	assert.True(t, shared.IsPreconditionFailure(job.ErrJobExpired))
	assert.True(t, shared.IsPreconditionFailure(application.ErrDuplicateApplication))

	assert.False(t, shared.IsPreconditionFailure(job.ErrJobNotFound))
}

func TestPredicates_DoNotCrossMatch(t *testing.T) {
	assert.False(t, shared.IsNotFound(job.ErrJobInactive))
	assert.False(t, shared.IsAlreadyExists(job.ErrJobExpired))
	assert.False(t, shared.IsValidation(application.ErrDuplicateApplication))
	assert.False(t, errors.Is(application.ErrStaleVersion, shared.ErrStateTransition))
}
