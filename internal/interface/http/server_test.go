package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-hub/campus-placement-portal/internal/domain/application"
	"github.com/placement-hub/campus-placement-portal/internal/domain/identity"
	"github.com/placement-hub/campus-placement-portal/internal/domain/job"
	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
	"github.com/placement-hub/campus-placement-portal/internal/interface/http/handlers"
)

// fakeSessionStore keeps sessions in a map keyed by token.
type fakeSessionStore struct {
	sessions map[string]*identity.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*identity.Session)}
}

func (s *fakeSessionStore) Save(ctx context.Context, session *identity.Session, ttl time.Duration) error {
	s.sessions[session.Token] = session
	return nil
}

func (s *fakeSessionStore) Get(ctx context.Context, token string) (*identity.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return nil, shared.ErrSessionNotFound
	}
	return session, nil
}

func (s *fakeSessionStore) Delete(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func (s *fakeSessionStore) DeleteByUser(ctx context.Context, userID string) error {
	for token, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, token)
		}
	}
	return nil
}

func newTestServer(t *testing.T, sessions identity.SessionStore) *Server {
	t.Helper()

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0 // rate limiting gets its own tests

	return NewServer(cfg, Dependencies{
		Sessions:      sessions,
		HealthChecker: handlers.NewNoopHealthChecker(),
	})
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) JSONResponse {
	t.Helper()

	var body JSONResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestServer_HealthEndpoints(t *testing.T) {
	server := newTestServer(t, newFakeSessionStore())

	for _, path := range []string{"/health", "/healthz", "/ready", "/live"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)

		server.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.True(t, decodeBody(t, rec).Success, path)
	}
}

func TestServer_RootReturnsServiceInfo(t *testing.T) {
	server := newTestServer(t, newFakeSessionStore())

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	data := body.Data.(map[string]interface{})
	assert.Equal(t, "campus-placement-portal", data["service"])
}

func TestServer_RequestIDPropagates(t *testing.T) {
	server := newTestServer(t, newFakeSessionStore())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-test-42")

	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, "req-test-42", rec.Header().Get("X-Request-ID"))
}

func TestServer_RequestIDGeneratedWhenMissing(t *testing.T) {
	server := newTestServer(t, newFakeSessionStore())

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestServer_ProtectedRouteWithoutSession(t *testing.T) {
	server := newTestServer(t, newFakeSessionStore())

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/grievances", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "unauthorized", decodeBody(t, rec).Error.Code)
}

func TestServer_StudentBlockedFromAdminRoute(t *testing.T) {
	store := newFakeSessionStore()
	store.sessions["tok-student"] = &identity.Session{
		Token:     "tok-student",
		UserID:    "usr-1",
		Role:      identity.RoleStudent,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	server := newTestServer(t, store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/grievances", nil)
	req.Header.Set("Authorization", "Bearer tok-student")

	server.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", decodeBody(t, rec).Error.Code)
}

func TestServer_SessionCookieAccepted(t *testing.T) {
	store := newFakeSessionStore()
	store.sessions["tok-cookie"] = &identity.Session{
		Token:     "tok-cookie",
		UserID:    "usr-1",
		Role:      identity.RoleStudent,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	server := newTestServer(t, store)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: server.config.SessionCookieName, Value: "tok-cookie"})

	session := server.authenticate(req)
	require.NotNil(t, session)
	assert.Equal(t, "usr-1", session.UserID)
}

func TestServer_BearerTokenPreferredOverCookie(t *testing.T) {
	server := newTestServer(t, newFakeSessionStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer from-header")
	req.AddCookie(&http.Cookie{Name: server.config.SessionCookieName, Value: "from-cookie"})

	assert.Equal(t, "from-header", server.extractToken(req))
}

func TestServer_MalformedJSONRejected(t *testing.T) {
	server := newTestServer(t, newFakeSessionStore())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{not json"))

	server.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_request", decodeBody(t, rec).Error.Code)
}

func TestServer_ValidationErrorsNameTheField(t *testing.T) {
	server := newTestServer(t, newFakeSessionStore())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"not-an-email","password":"x"}`))

	server.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec).Error.Message, "email")
}

func TestServer_CORSPreflight(t *testing.T) {
	server := newTestServer(t, newFakeSessionStore())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/jobs", nil)
	req.Header.Set("Origin", "https://placement.example.edu")

	server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://placement.example.edu", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiter_BlocksAfterLimit(t *testing.T) {
	rl := newRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"))
	}
	assert.False(t, rl.Allow("10.0.0.1"))

	// A different client is unaffected.
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:54321"
	assert.Equal(t, "192.0.2.10", getClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	assert.Equal(t, "198.51.100.7", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 198.51.100.7")
	assert.Equal(t, "203.0.113.9", getClientIP(req))
}

// The cases feed the exact sentinels the command layer surfaces, not the
// shared kinds behind them, so a classification gap shows up here as an
// unexpected 500.
func TestWriteDomainError_StatusMapping(t *testing.T) {
	server := newTestServer(t, newFakeSessionStore())

	cases := []struct {
		err      error
		want     int
		wantCode string
	}{
		{job.ErrJobNotFound, http.StatusNotFound, "not_found"},
		{application.ErrApplicationNotFound, http.StatusNotFound, "not_found"},
		{student.ErrStudentNotFound, http.StatusNotFound, "not_found"},
		{shared.ErrInvalidCredentials, http.StatusUnauthorized, "unauthorized"},
		{shared.ErrStudentNotEligible, http.StatusBadRequest, "not_eligible"},
		{job.ErrJobInactive, http.StatusBadRequest, "job_inactive"},
		{job.ErrJobExpired, http.StatusBadRequest, "job_expired"},
		{application.ErrDuplicateApplication, http.StatusBadRequest, "already_exists"},
		{application.ErrTransitionNotAllowed, http.StatusConflict, "conflict"},
		{fmt.Errorf("transition: %w", application.ErrStaleVersion), http.StatusConflict, "conflict"},
		{shared.ErrResumeNotPDF, http.StatusBadRequest, "validation_failed"},
		{shared.ErrResumeUploadFailed, http.StatusServiceUnavailable, "service_unavailable"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		server.writeDomainError(rec, req, tc.err)

		assert.Equal(t, tc.want, rec.Code, tc.err.Error())
		assert.Equal(t, tc.wantCode, decodeBody(t, rec).Error.Code, tc.err.Error())
	}
}
