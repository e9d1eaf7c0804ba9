package http

import (
	"net/http"
	"time"

	"github.com/placement-hub/campus-placement-portal/internal/application/command"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRegister creates a student account plus placement profile.
// POST /api/v1/auth/register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := s.deps.RegisterStudent.Handle(r.Context(), command.RegisterStudentCommand{
		Email:             req.Email,
		Password:          req.Password,
		FirstName:         req.FirstName,
		Gender:            req.Gender,
		CollegeRegNo:      req.CollegeRegNo,
		DateOfBirth:       req.DateOfBirth,
		PersonalEmail:     req.PersonalEmail,
		MobileNumber:      req.MobileNumber,
		IsPWD:             req.IsPWD,
		Branch:            req.Branch,
		UGPercentage:      req.UGPercentage,
		HasActiveBacklogs: req.HasActiveBacklogs,
		CorrelationID:     getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"user_id":    result.UserID,
		"student_id": result.StudentID,
		"created_at": result.CreatedAt,
	})
}

// handleLogin authenticates and establishes a session. The token goes
// out both in the body (API clients) and as a cookie (browsers).
// POST /api/v1/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := s.deps.Login.Handle(r.Context(), command.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.setSessionCookie(w, result.Token, result.ExpiresAt)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":      result.Token,
		"user_id":    result.UserID,
		"role":       result.Role,
		"expires_at": result.ExpiresAt,
	})
}

// handleLogout revokes the current session. Always succeeds from the
// client's point of view, even with no session attached.
// POST /api/v1/auth/logout
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := s.extractToken(r)

	if err := s.deps.Logout.Handle(r.Context(), command.LogoutCommand{Token: token}); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{"logged_out": true})
}

// handleLogoutEverywhere revokes every session of the authenticated user.
// POST /api/v1/auth/logout-all
func (s *Server) handleLogoutEverywhere(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	err := s.deps.LogoutEverywhere.Handle(r.Context(), command.LogoutEverywhereCommand{
		UserID: session.UserID,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{"logged_out": true})
}

// setSessionCookie attaches the session token as an HttpOnly cookie.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   s.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie expires the session cookie immediately.
func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.config.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
