// Package identity contains the user account model for the placement portal.
// A User is the authentication principal; role decides whether the account
// belongs to a student or a placement-cell admin.
package identity

import (
	"errors"
	"strings"
	"time"

	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Role defines the access level of a user.
type Role string

const (
	// RoleStudent - a registered student.
	RoleStudent Role = "student"
	// RoleAdmin - a placement-cell administrator.
	RoleAdmin Role = "admin"
)

// IsValid checks that the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleAdmin:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: USER
// ══════════════════════════════════════════════════════════════════════════════

// User is the authentication principal. Student profile data lives in the
// student domain and references the user by ID.
type User struct {
	// ID - internal unique identifier (UUID in string form).
	ID string

	// Email - login email, unique across the system.
	Email shared.Email

	// PasswordHash - bcrypt hash of the password. Never the plaintext.
	PasswordHash string

	// Role - student or admin.
	Role Role

	// CreatedAt - when the account was created.
	CreatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// All sentinels carry a shared kind so the HTTP layer can classify them
// with the shared.Is* predicates.
var (
	// ErrInvalidRole - role is not student or admin.
	ErrInvalidRole = shared.ErrInvalidRole

	// ErrInvalidEmail - email has an implausible shape.
	ErrInvalidEmail = shared.NewDomainError("identity", "Validate", shared.ErrInvalidFormat, "invalid email address")

	// ErrEmptyPasswordHash - a user must never be created without a hash.
	ErrEmptyPasswordHash = shared.NewDomainError("identity", "Validate", shared.ErrEmptyValue, "password hash is required")

	// ErrUserNotFound - user not found.
	ErrUserNotFound = shared.ErrUserNotFound

	// ErrEmailTaken - email is already registered.
	ErrEmailTaken = shared.ErrEmailTaken
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewUserParams contains the parameters for creating a new user.
type NewUserParams struct {
	ID           string
	Email        string
	PasswordHash string
	Role         Role
}

// NewUser creates a new user with validation of all fields.
// The caller is responsible for hashing the password beforehand.
func NewUser(params NewUserParams) (*User, error) {
	if params.ID == "" {
		return nil, errors.New("user id is required")
	}

	email, err := shared.NewEmail(params.Email)
	if err != nil {
		return nil, ErrInvalidEmail
	}

	if params.PasswordHash == "" {
		return nil, ErrEmptyPasswordHash
	}

	if !params.Role.IsValid() {
		return nil, ErrInvalidRole
	}

	return &User{
		ID:           params.ID,
		Email:        email,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// IsAdmin returns true if the user is a placement-cell admin.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsStudent returns true if the user is a student.
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// Sanitized returns a copy of the user with the password hash removed,
// safe for serialization in API responses.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION
// ══════════════════════════════════════════════════════════════════════════════

// Session is the server-side record a session token points at. The token
// itself is an opaque random string handed to the client as a cookie; the
// authoritative identity always lives on the server.
type Session struct {
	// Token - opaque session identifier.
	Token string

	// UserID - the authenticated user.
	UserID string

	// Role - cached role for cheap authorization checks.
	Role Role

	// CreatedAt - when the session was established.
	CreatedAt time.Time

	// ExpiresAt - when the session becomes invalid.
	ExpiresAt time.Time
}

// IsExpired checks whether the session has passed its expiry.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
