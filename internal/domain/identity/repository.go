package identity

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// These interfaces define the contract for working with the data store.
// Implementations live in infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository defines CRUD operations for user accounts.
type Repository interface {
	// Create creates a new user.
	// Returns ErrEmailTaken if the email is already registered.
	Create(ctx context.Context, user *User) error

	// GetByID returns a user by internal ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail returns a user by email.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks whether a user with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION STORE
// Sessions live server-side (Redis) so a client can never forge a role claim.
// ══════════════════════════════════════════════════════════════════════════════

// SessionStore defines operations for server-side session management.
type SessionStore interface {
	// Save stores a session with the given TTL.
	Save(ctx context.Context, session *Session, ttl time.Duration) error

	// Get retrieves a session by token.
	// Returns shared.ErrSessionNotFound (via errors.Is ErrUnauthorized)
	// if the token is unknown or expired.
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes a session (logout).
	Delete(ctx context.Context, token string) error

	// DeleteByUser removes every session belonging to a user.
	DeleteByUser(ctx context.Context, userID string) error
}
