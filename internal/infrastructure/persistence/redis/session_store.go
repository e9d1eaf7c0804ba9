package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/placement-hub/campus-placement-portal/internal/domain/identity"
	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION STORE ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrSessionTokenEmpty is returned when a session token is empty.
	ErrSessionTokenEmpty = errors.New("session_store: token cannot be empty")
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION STORE
// ══════════════════════════════════════════════════════════════════════════════

// SessionStore implements identity.SessionStore on Redis. Sessions are
// keyed by opaque server-generated tokens; role and user id live server
// side, so nothing in the cookie can be forged. Expiry is enforced by
// the key TTL and double-checked against ExpiresAt on read.
//
// A per-user set indexes tokens so logout-everywhere can find them.
type SessionStore struct {
	cache *Cache
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(cache *Cache) *SessionStore {
	return &SessionStore{cache: cache}
}

// Save stores a session under its token with the given TTL.
func (s *SessionStore) Save(ctx context.Context, session *identity.Session, ttl time.Duration) error {
	if session.Token == "" {
		return ErrSessionTokenEmpty
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}

	key := SessionKey(session.Token)
	client := s.cache.Client()

	pipe := client.Pipeline()
	pipe.Set(ctx, key, data, ttl)
	pipe.SAdd(ctx, UserSessionsKey(session.UserID), session.Token)
	pipe.Expire(ctx, UserSessionsKey(session.UserID), ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Get returns the session for a token.
// Returns shared.ErrSessionNotFound for missing or expired sessions.
func (s *SessionStore) Get(ctx context.Context, token string) (*identity.Session, error) {
	if token == "" {
		return nil, ErrSessionTokenEmpty
	}

	data, err := s.cache.Client().Get(ctx, SessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session identity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}

	if session.IsExpired(time.Now().UTC()) {
		_ = s.Delete(ctx, token)
		return nil, shared.ErrSessionNotFound
	}

	return &session, nil
}

// Delete removes a single session.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	if token == "" {
		return ErrSessionTokenEmpty
	}

	// Fetch first so the user index can be cleaned up too.
	data, err := s.cache.Client().Get(ctx, SessionKey(token)).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("failed to load session for delete: %w", err)
	}

	pipe := s.cache.Client().Pipeline()
	pipe.Del(ctx, SessionKey(token))

	if err == nil {
		var session identity.Session
		if jsonErr := json.Unmarshal(data, &session); jsonErr == nil && session.UserID != "" {
			pipe.SRem(ctx, UserSessionsKey(session.UserID), token)
		}
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// DeleteByUser removes every session of one user (logout everywhere).
func (s *SessionStore) DeleteByUser(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrSessionTokenEmpty
	}

	client := s.cache.Client()
	indexKey := UserSessionsKey(userID)

	tokens, err := client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return fmt.Errorf("failed to list user sessions: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, token := range tokens {
		keys = append(keys, SessionKey(token))
	}
	keys = append(keys, indexKey)

	if err := client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete user sessions: %w", err)
	}

	return nil
}
