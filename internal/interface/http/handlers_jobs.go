package http

import (
	"context"
	"net/http"

	"github.com/placement-hub/campus-placement-portal/internal/application/command"
	"github.com/placement-hub/campus-placement-portal/internal/application/query"
	"github.com/placement-hub/campus-placement-portal/internal/domain/identity"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOB BROWSING AND APPLYING
// ══════════════════════════════════════════════════════════════════════════════

// resolveStudentID maps the session's user account to its placement
// profile ID. Commands operate on profile IDs, sessions carry user IDs.
func (s *Server) resolveStudentID(ctx context.Context, userID string) (string, error) {
	profile, err := s.deps.GetProfile.Handle(ctx, query.GetProfileQuery{UserID: userID})
	if err != nil {
		return "", err
	}
	return profile.ID, nil
}

// studentIDForPreview resolves the viewer's profile ID when the request
// carries a student session; anonymous and admin viewers get "".
func (s *Server) studentIDForPreview(r *http.Request) string {
	session := s.authenticate(r)
	if session == nil || session.Role != identity.RoleStudent {
		return ""
	}

	studentID, err := s.resolveStudentID(r.Context(), session.UserID)
	if err != nil {
		// Preview is best-effort; browsing still works without it.
		return ""
	}
	return studentID
}

// handleListJobs lists postings. Logged-in students additionally get a
// per-posting eligibility preview.
// GET /api/v1/jobs?active=true&company=...&limit=20&offset=0
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	q := query.ListJobsQuery{
		OnlyActive: getQueryParamBool(r, "active"),
		Company:    getQueryParam(r, "company", ""),
		Limit:      getQueryParamInt(r, "limit", 0),
		Offset:     getQueryParamInt(r, "offset", 0),
		StudentID:  s.studentIDForPreview(r),
	}

	result, err := s.deps.ListJobs.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, result.Jobs, &ResponseMeta{
		TotalCount: result.TotalCount,
		HasMore:    result.HasMore,
	})
}

// handleGetJob returns one posting, with the eligibility preview for
// logged-in students.
// GET /api/v1/jobs/{id}
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetJob.Handle(r.Context(), query.GetJobQuery{
		JobID:     r.PathValue("id"),
		StudentID: s.studentIDForPreview(r),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleCheckEligibility previews the full eligibility decision for the
// authenticated student without creating an application.
// GET /api/v1/jobs/{id}/eligibility
func (s *Server) handleCheckEligibility(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	studentID, err := s.resolveStudentID(r.Context(), session.UserID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	decision, err := s.deps.CheckEligibility.Handle(r.Context(), command.CheckEligibilityCommand{
		StudentID: studentID,
		JobID:     r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, decision)
}

// handleApply submits an application for the authenticated student.
// POST /api/v1/jobs/{id}/apply
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	studentID, err := s.resolveStudentID(r.Context(), session.UserID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	result, err := s.deps.SubmitApplication.Handle(r.Context(), command.SubmitApplicationCommand{
		StudentID:     studentID,
		JobID:         r.PathValue("id"),
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"application_id": result.ApplicationID,
		"applied_at":     result.AppliedAt,
	})
}
