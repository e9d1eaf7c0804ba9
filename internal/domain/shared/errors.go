// Package shared contains common domain types, errors, and events
// that are used across all domain packages. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidEntity = errors.New("invalid entity")

	// Validation errors
	ErrValidation      = errors.New("validation error")
	ErrInvalidID       = errors.New("invalid ID")
	ErrInvalidInput    = errors.New("invalid input")
	ErrEmptyValue      = errors.New("value cannot be empty")
	ErrValueOutOfRange = errors.New("value out of range")
	ErrInvalidFormat   = errors.New("invalid format")

	// Business-rule errors
	ErrNotEligible = errors.New("not eligible")

	// State errors
	ErrInvalidState    = errors.New("invalid state")
	ErrStateTransition = errors.New("invalid state transition")
	ErrExpired         = errors.New("expired")
	ErrInactive        = errors.New("inactive")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Concurrency errors
	ErrConcurrentModification = errors.New("concurrent modification detected")

	// External service errors
	ErrExternalService    = errors.New("external service error")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrTimeout            = errors.New("operation timeout")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "application", "job", "student"
	Op      string // Operation that failed, e.g., "Create", "Transition"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Identity domain errors
var (
	ErrUserNotFound       = NewDomainError("identity", "Find", ErrNotFound, "user not found")
	ErrEmailTaken         = NewDomainError("identity", "Register", ErrAlreadyExists, "email already registered")
	ErrInvalidCredentials = NewDomainError("identity", "Login", ErrUnauthorized, "invalid credentials")
	ErrSessionNotFound    = NewDomainError("identity", "Session", ErrUnauthorized, "session not found or expired")
	ErrInvalidRole        = NewDomainError("identity", "Validate", ErrInvalidInput, "invalid role")
)

// Student domain errors
var (
	ErrStudentNotFound      = NewDomainError("student", "Find", ErrNotFound, "student profile not found")
	ErrStudentAlreadyExists = NewDomainError("student", "Create", ErrAlreadyExists, "student already registered")
	ErrInvalidBranch        = NewDomainError("student", "Validate", ErrInvalidInput, "invalid branch")
	ErrInvalidPercentage    = NewDomainError("student", "Validate", ErrValueOutOfRange, "percentage must be between 0 and 100")
	ErrDuplicateRegNo       = NewDomainError("student", "Create", ErrAlreadyExists, "registration number already in use")
)

// Job domain errors
var (
	ErrJobNotFound = NewDomainError("job", "Find", ErrNotFound, "job not found")
	ErrJobInactive = NewDomainError("job", "CheckOpen", ErrInactive, "job is no longer active")
	ErrJobExpired  = NewDomainError("job", "CheckOpen", ErrExpired, "application deadline has passed")
)

// Application domain errors
var (
	ErrApplicationNotFound  = NewDomainError("application", "Find", ErrNotFound, "application not found")
	ErrDuplicateApplication = NewDomainError("application", "Create", ErrAlreadyExists, "already applied to this job")
	ErrStudentNotEligible   = NewDomainError("application", "Create", ErrNotEligible, "student does not meet eligibility criteria")
	ErrInvalidStatus        = NewDomainError("application", "Transition", ErrInvalidInput, "invalid application status")
	ErrTransitionNotAllowed = NewDomainError("application", "Transition", ErrStateTransition, "status transition not allowed")
	ErrStaleApplication     = NewDomainError("application", "Transition", ErrConcurrentModification, "application was modified concurrently")
)

// Grievance domain errors
var (
	ErrGrievanceNotFound = NewDomainError("grievance", "Find", ErrNotFound, "grievance not found")
	ErrInvalidPriority   = NewDomainError("grievance", "Validate", ErrInvalidInput, "invalid priority")
	ErrInvalidGrievance  = NewDomainError("grievance", "Validate", ErrInvalidInput, "invalid grievance status")
)

// Resume store errors
var (
	ErrResumeUploadFailed = NewDomainError("resume", "Store", ErrExternalService, "resume upload failed")
	ErrResumeNotPDF       = NewDomainError("resume", "Validate", ErrInvalidFormat, "only PDF files are allowed")
	ErrResumeTooLarge     = NewDomainError("resume", "Validate", ErrValueOutOfRange, "file size must be less than 5MB")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidID) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrValueOutOfRange) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsPreconditionFailure checks if the error is a permanent precondition
// failure on the apply path: the caller gets a specific message and no retry.
func IsPreconditionFailure(err error) bool {
	return errors.Is(err, ErrNotEligible) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrInactive) ||
		errors.Is(err, ErrExpired)
}

// IsExternalService checks if the error is from an external service.
func IsExternalService(err error) bool {
	return errors.Is(err, ErrExternalService) ||
		errors.Is(err, ErrServiceUnavailable) ||
		errors.Is(err, ErrTimeout)
}
