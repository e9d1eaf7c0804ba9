package http

import (
	"io"
	"net/http"

	"github.com/placement-hub/campus-placement-portal/internal/application/command"
	"github.com/placement-hub/campus-placement-portal/internal/application/query"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT SELF-SERVICE
// Everything under /api/v1/me operates on the profile owned by the session.
// ══════════════════════════════════════════════════════════════════════════════

// handleGetMyProfile returns the authenticated student's profile.
// GET /api/v1/me
func (s *Server) handleGetMyProfile(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	profile, err := s.deps.GetProfile.Handle(r.Context(), query.GetProfileQuery{
		UserID: session.UserID,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// handleUpdateMyProfile edits the mutable profile fields. Registration
// identity (reg no, branch, college email) cannot be changed here.
// PATCH /api/v1/me
func (s *Server) handleUpdateMyProfile(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	studentID, err := s.resolveStudentID(r.Context(), session.UserID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	update := student.ProfileUpdate{
		FirstName:         req.FirstName,
		Gender:            req.Gender,
		DateOfBirth:       req.DateOfBirth,
		PersonalEmail:     req.PersonalEmail,
		MobileNumber:      req.MobileNumber,
		IsPWD:             req.IsPWD,
		HasActiveBacklogs: req.HasBacklogs,
	}
	if req.UGPercentage != nil {
		pct := student.Percentage(*req.UGPercentage)
		update.UGPercentage = &pct
	}

	updated, err := s.deps.UpdateProfile.Handle(r.Context(), command.UpdateProfileCommand{
		StudentID:     studentID,
		Update:        update,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":         updated.ID,
		"updated_at": updated.UpdatedAt,
	})
}

// handleUploadResume stores the raw PDF body as the student's resume.
// The body is the file itself, no multipart envelope.
// POST /api/v1/me/resume
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	studentID, err := s.resolveStudentID(r.Context(), session.UserID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	content, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes))
	if err != nil {
		writeJSONError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Resume exceeds the upload size limit")
		return
	}

	result, err := s.deps.UploadResume.Handle(r.Context(), command.UploadResumeCommand{
		StudentID:     studentID,
		Content:       content,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"resume_url": result.ResumeURL,
	})
}

// handleMyApplications lists the student's applications with the full
// stage timeline per application.
// GET /api/v1/me/applications
func (s *Server) handleMyApplications(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	studentID, err := s.resolveStudentID(r.Context(), session.UserID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	result, err := s.deps.ListStudentApplications.Handle(r.Context(), query.ListStudentApplicationsQuery{
		StudentID: studentID,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, result.Applications, &ResponseMeta{
		TotalCount: result.TotalCount,
	})
}

// handleMyGrievances lists grievances filed by the student.
// GET /api/v1/me/grievances
func (s *Server) handleMyGrievances(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	studentID, err := s.resolveStudentID(r.Context(), session.UserID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	grievances, err := s.deps.ListStudentGrievances.Handle(r.Context(), query.ListStudentGrievancesQuery{
		StudentID: studentID,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, grievances, &ResponseMeta{
		TotalCount: len(grievances),
	})
}

// handleSubmitGrievance files a grievance. Works without a session so
// issues with the portal itself can be reported; a student session
// attaches the filer automatically.
// POST /api/v1/grievances
func (s *Server) handleSubmitGrievance(w http.ResponseWriter, r *http.Request) {
	var req submitGrievanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	studentID := s.studentIDForPreview(r)

	result, err := s.deps.SubmitGrievance.Handle(r.Context(), command.SubmitGrievanceCommand{
		StudentID:     studentID,
		Type:          req.Type,
		Subject:       req.Subject,
		Description:   req.Description,
		ContactEmail:  req.ContactEmail,
		Priority:      req.Priority,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"grievance_id": result.GrievanceID,
		"priority":     result.Priority,
	})
}
