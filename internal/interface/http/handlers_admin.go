package http

import (
	"fmt"
	"net/http"

	"github.com/placement-hub/campus-placement-portal/internal/application/command"
	"github.com/placement-hub/campus-placement-portal/internal/application/query"
	"github.com/placement-hub/campus-placement-portal/internal/domain/application"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN: JOB MANAGEMENT
// ══════════════════════════════════════════════════════════════════════════════

// handlePostJob creates a job posting.
// POST /api/v1/admin/jobs
func (s *Server) handlePostJob(w http.ResponseWriter, r *http.Request) {
	var req postJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := s.deps.PostJob.Handle(r.Context(), command.PostJobCommand{
		Title:            req.Title,
		Company:          req.Company,
		Description:      req.Description,
		Location:         req.Location,
		PackageRange:     req.PackageRange,
		MinUGPercentage:  req.MinUGPercentage,
		AllowBacklogs:    req.AllowBacklogs,
		EligibleBranches: req.EligibleBranches,
		Skills:           req.Skills,
		Deadline:         req.Deadline,
		CountsAsOffer:    req.CountsAsOffer,
		CorrelationID:    getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"job_id":     result.JobID,
		"created_at": result.CreatedAt,
	})
}

// handleUpdateJob edits a posting; only the provided fields change.
// PATCH /api/v1/admin/jobs/{id}
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	var req updateJobRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	updated, _, err := s.deps.UpdateJob.Handle(r.Context(), command.UpdateJobCommand{
		JobID:            r.PathValue("id"),
		Title:            req.Title,
		Description:      req.Description,
		Location:         req.Location,
		PackageRange:     req.PackageRange,
		MinUGPercentage:  req.MinUGPercentage,
		ClearMinUGPct:    req.ClearMinUGPct,
		AllowBacklogs:    req.AllowBacklogs,
		EligibleBranches: req.EligibleBranches,
		Skills:           req.Skills,
		Deadline:         req.Deadline,
		CountsAsOffer:    req.CountsAsOffer,
		CorrelationID:    getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job_id":     updated.ID,
		"updated_at": updated.UpdatedAt,
	})
}

// handleCloseJob closes a posting to further applications.
// POST /api/v1/admin/jobs/{id}/close
func (s *Server) handleCloseJob(w http.ResponseWriter, r *http.Request) {
	err := s.deps.CloseJob.Handle(r.Context(), command.CloseJobCommand{
		JobID:         r.PathValue("id"),
		Reason:        "admin",
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"closed": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN: APPLICATION REVIEW
// ══════════════════════════════════════════════════════════════════════════════

// handleListApplicants lists the applicants of one posting with joined
// profile data, filterable by pipeline status.
// GET /api/v1/admin/jobs/{id}/applications?status=shortlisted
func (s *Server) handleListApplicants(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListJobApplications.Handle(r.Context(), query.ListJobApplicationsQuery{
		JobID:  r.PathValue("id"),
		Status: getQueryParam(r, "status", ""),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, result, &ResponseMeta{
		TotalCount: result.TotalCount,
	})
}

// handleExportApplicants streams the applicant sheet of one posting as
// a CSV download.
// GET /api/v1/admin/jobs/{id}/applications/export?status=...
func (s *Server) handleExportApplicants(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, query.ExportApplicationsQuery{
		JobID:  r.PathValue("id"),
		Status: getQueryParam(r, "status", ""),
	})
}

// handleExportAllApplications streams every application as a CSV download.
// GET /api/v1/admin/applications/export?status=...
func (s *Server) handleExportAllApplications(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, query.ExportApplicationsQuery{
		Status: getQueryParam(r, "status", ""),
	})
}

// serveExport runs the export query and writes the CSV as an attachment.
func (s *Server) serveExport(w http.ResponseWriter, r *http.Request, q query.ExportApplicationsQuery) {
	result, err := s.deps.ExportApplications.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Content)
}

// handleGetApplication returns one application with its full timeline.
// GET /api/v1/admin/applications/{id}
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.GetApplication.Handle(r.Context(), query.GetApplicationQuery{
		ApplicationID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleTransition moves an application to a new pipeline status.
// POST /api/v1/admin/applications/{id}/transition
func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := s.deps.TransitionApplication.Handle(r.Context(), command.TransitionApplicationCommand{
		ApplicationID: r.PathValue("id"),
		NewStatus:     application.Status(req.NewStatus),
		Stage:         req.Stage,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"application_id": result.ApplicationID,
		"old_status":     result.OldStatus,
		"new_status":     result.NewStatus,
		"stage":          result.Stage,
		"version":        result.Version,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN: DIRECTORY, GRIEVANCES, DASHBOARD
// ══════════════════════════════════════════════════════════════════════════════

// handleListStudents lists the registered profiles, filterable by branch.
// GET /api/v1/admin/students?branch=CSE&limit=50&offset=0
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListStudents.Handle(r.Context(), query.ListStudentsQuery{
		Branch: getQueryParam(r, "branch", ""),
		Limit:  getQueryParamInt(r, "limit", 0),
		Offset: getQueryParamInt(r, "offset", 0),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, result.Students, &ResponseMeta{
		TotalCount: result.TotalCount,
	})
}

// handleListGrievances lists grievances for triage.
// GET /api/v1/admin/grievances?status=submitted&priority=high
func (s *Server) handleListGrievances(w http.ResponseWriter, r *http.Request) {
	result, err := s.deps.ListGrievances.Handle(r.Context(), query.ListGrievancesQuery{
		Status:   getQueryParam(r, "status", ""),
		Priority: getQueryParam(r, "priority", ""),
		Limit:    getQueryParamInt(r, "limit", 0),
		Offset:   getQueryParamInt(r, "offset", 0),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, result, &ResponseMeta{
		TotalCount: result.TotalOpen,
	})
}

// handleRespondGrievance records the admin reply and/or status change.
// POST /api/v1/admin/grievances/{id}/respond
func (s *Server) handleRespondGrievance(w http.ResponseWriter, r *http.Request) {
	var req respondGrievanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	updated, err := s.deps.RespondGrievance.Handle(r.Context(), command.RespondGrievanceCommand{
		GrievanceID:   r.PathValue("id"),
		Response:      req.Response,
		Status:        req.Status,
		CorrelationID: getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"grievance_id": updated.ID,
		"status":       updated.Status,
	})
}

// handleGetStats returns the placement dashboard numbers.
// GET /api/v1/admin/stats?fresh=true
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.GetPlacementStats.Handle(r.Context(), query.GetPlacementStatsQuery{
		SkipCache: getQueryParamBool(r, "fresh"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// handleGetActivities returns the recent admin activity feed.
// GET /api/v1/admin/activities?limit=20&type=application.submitted
func (s *Server) handleGetActivities(w http.ResponseWriter, r *http.Request) {
	entries, err := s.deps.GetAdminActivities.Handle(r.Context(), query.GetAdminActivitiesQuery{
		Limit:     getQueryParamInt(r, "limit", 0),
		EventType: getQueryParam(r, "type", ""),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, entries, &ResponseMeta{
		TotalCount: len(entries),
	})
}
