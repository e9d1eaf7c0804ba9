// Package shared contains common domain types, errors, and events
// that are used across all domain packages.
package shared

import (
	"regexp"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// ID Value Objects
// ═══════════════════════════════════════════════════════════════════════════

// ID represents a unique entity identifier (UUID format).
type ID string

// UUID validation regex (simple version).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValid checks if the ID is a valid UUID.
func (i ID) IsValid() bool {
	return uuidRegex.MatchString(string(i))
}

// String returns the string representation.
func (i ID) String() string {
	return string(i)
}

// NewID creates a new ID with validation.
func NewID(raw string) (ID, error) {
	id := ID(strings.TrimSpace(raw))
	if !id.IsValid() {
		return "", ErrInvalidID
	}
	return id, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Email
// ═══════════════════════════════════════════════════════════════════════════

// Email represents an email address.
type Email string

// Deliberately loose: full RFC 5322 validation is the boundary layer's job.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsValid checks if the email has a plausible shape.
func (e Email) IsValid() bool {
	return emailRegex.MatchString(string(e))
}

// String returns the string representation.
func (e Email) String() string {
	return string(e)
}

// Normalize returns a normalized (lowercase, trimmed) version of the email.
func (e Email) Normalize() Email {
	return Email(strings.ToLower(strings.TrimSpace(string(e))))
}

// NewEmail creates a new Email with validation.
func NewEmail(raw string) (Email, error) {
	e := Email(raw).Normalize()
	if !e.IsValid() {
		return "", ErrInvalidFormat
	}
	return e, nil
}
