package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/placement-hub/campus-placement-portal/internal/domain/identity"
	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN COMMAND
// Verifies credentials and establishes a server-side session. The token
// handed back is opaque; the role and user id never leave the server.
// ══════════════════════════════════════════════════════════════════════════════

// LoginCommand contains the credentials to authenticate.
type LoginCommand struct {
	// Email is the login email.
	Email string

	// Password is the plaintext password.
	Password string
}

// Validate validates the command.
func (c LoginCommand) Validate() error {
	if c.Email == "" {
		return errors.New("login: email is required")
	}
	if c.Password == "" {
		return errors.New("login: password is required")
	}
	return nil
}

// LoginResult contains the established session.
type LoginResult struct {
	// Token is the opaque session token to set as a cookie.
	Token string

	// UserID is the authenticated user.
	UserID string

	// Role is the user's role.
	Role identity.Role

	// ExpiresAt is when the session becomes invalid.
	ExpiresAt time.Time
}

// LoginHandler handles the LoginCommand.
type LoginHandler struct {
	userRepo     identity.Repository
	sessionStore identity.SessionStore
	sessionTTL   time.Duration
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(
	userRepo identity.Repository,
	sessionStore identity.SessionStore,
	sessionTTL time.Duration,
) *LoginHandler {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &LoginHandler{
		userRepo:     userRepo,
		sessionStore: sessionStore,
		sessionTTL:   sessionTTL,
	}
}

// Handle executes the login command. Unknown email and wrong password
// collapse into the same error so the response never leaks which it was.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	user, err := h.userRepo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(cmd.Password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	session := &identity.Session{
		Token:     newSessionToken(),
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(h.sessionTTL),
	}

	if err := h.sessionStore.Save(ctx, session, h.sessionTTL); err != nil {
		return nil, fmt.Errorf("login: failed to save session: %w", err)
	}

	return &LoginResult{
		Token:     session.Token,
		UserID:    user.ID,
		Role:      user.Role,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// newSessionToken generates an opaque session token. Two UUIDs give 256
// bits of randomness, enough that tokens are unguessable.
func newSessionToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

// ══════════════════════════════════════════════════════════════════════════════
// LOGOUT COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

// LogoutCommand revokes a single session.
type LogoutCommand struct {
	// Token is the session token to revoke.
	Token string
}

// LogoutHandler handles the LogoutCommand.
type LogoutHandler struct {
	sessionStore identity.SessionStore
}

// NewLogoutHandler creates a new LogoutHandler.
func NewLogoutHandler(sessionStore identity.SessionStore) *LogoutHandler {
	return &LogoutHandler{sessionStore: sessionStore}
}

// Handle executes the logout command. Revoking an unknown token is not an
// error; logout must always succeed from the client's point of view.
func (h *LogoutHandler) Handle(ctx context.Context, cmd LogoutCommand) error {
	if cmd.Token == "" {
		return nil
	}
	if err := h.sessionStore.Delete(ctx, cmd.Token); err != nil {
		return fmt.Errorf("logout: failed to delete session: %w", err)
	}
	return nil
}

// LogoutEverywhereCommand revokes every session of a user.
type LogoutEverywhereCommand struct {
	// UserID is the user whose sessions are revoked.
	UserID string
}

// LogoutEverywhereHandler handles the LogoutEverywhereCommand.
type LogoutEverywhereHandler struct {
	sessionStore identity.SessionStore
}

// NewLogoutEverywhereHandler creates a new LogoutEverywhereHandler.
func NewLogoutEverywhereHandler(sessionStore identity.SessionStore) *LogoutEverywhereHandler {
	return &LogoutEverywhereHandler{sessionStore: sessionStore}
}

// Handle executes the logout-everywhere command.
func (h *LogoutEverywhereHandler) Handle(ctx context.Context, cmd LogoutEverywhereCommand) error {
	if cmd.UserID == "" {
		return errors.New("logout_everywhere: user_id is required")
	}
	if err := h.sessionStore.DeleteByUser(ctx, cmd.UserID); err != nil {
		return fmt.Errorf("logout_everywhere: failed to delete sessions: %w", err)
	}
	return nil
}
