package query

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/placement-hub/campus-placement-portal/internal/domain/application"
	"github.com/placement-hub/campus-placement-portal/internal/domain/job"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT APPLICATIONS QUERY
// CSV export for the placement cell. One row per application with the
// applicant fields companies ask for, ordered as they appear on the
// review sheet.
// ══════════════════════════════════════════════════════════════════════════════

// exportHeader is the fixed column order of the export.
var exportHeader = []string{
	"regNo", "name", "email", "mobile", "branch",
	"percentage", "status", "stage", "appliedDate", "resumeUrl",
}

// ExportApplicationsQuery contains the export parameters.
type ExportApplicationsQuery struct {
	// JobID restricts the export to one posting when non-empty;
	// empty exports every application.
	JobID string

	// Status restricts the export to one pipeline status when non-empty.
	Status string
}

// Validate validates the query parameters.
func (q *ExportApplicationsQuery) Validate() error {
	if q.Status != "" && !application.Status(q.Status).IsValid() {
		return fmt.Errorf("invalid status: %s", q.Status)
	}
	return nil
}

// ExportApplicationsResult contains the rendered CSV.
type ExportApplicationsResult struct {
	// Filename is the suggested download filename.
	Filename string

	// Content is the CSV bytes, header row included.
	Content []byte

	// RowCount is the number of data rows (header excluded).
	RowCount int
}

// ExportApplicationsHandler handles the ExportApplicationsQuery.
type ExportApplicationsHandler struct {
	applicationRepo application.Repository
	studentRepo     student.Repository
	jobRepo         job.Repository
}

// NewExportApplicationsHandler creates a new ExportApplicationsHandler.
func NewExportApplicationsHandler(
	applicationRepo application.Repository,
	studentRepo student.Repository,
	jobRepo job.Repository,
) *ExportApplicationsHandler {
	return &ExportApplicationsHandler{
		applicationRepo: applicationRepo,
		studentRepo:     studentRepo,
		jobRepo:         jobRepo,
	}
}

// Handle executes the export applications query.
func (h *ExportApplicationsHandler) Handle(ctx context.Context, q ExportApplicationsQuery) (*ExportApplicationsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("export_applications: %w", err)
	}

	apps, filename, err := h.loadApplications(ctx, q)
	if err != nil {
		return nil, err
	}

	studentIDs := make([]string, 0, len(apps))
	for _, a := range apps {
		studentIDs = append(studentIDs, a.StudentID)
	}
	profiles, err := h.studentRepo.GetByIDs(ctx, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("export_applications: failed to get students: %w", err)
	}
	byID := make(map[string]*student.Student, len(profiles))
	for _, p := range profiles {
		byID[p.ID] = p
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("export_applications: write header: %w", err)
	}

	rows := 0
	for _, a := range apps {
		p, ok := byID[a.StudentID]
		if !ok {
			// Orphaned application; skip rather than export a blank row.
			continue
		}
		record := []string{
			string(p.CollegeRegNo),
			p.FirstName,
			p.CollegeEmail,
			p.MobileNumber,
			string(p.Branch),
			strconv.FormatFloat(p.UGPercentage.Float64(), 'f', 2, 64),
			a.Status.String(),
			a.CurrentStage,
			a.AppliedAt.Format("2006-01-02"),
			p.ResumeURL,
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("export_applications: write row: %w", err)
		}
		rows++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export_applications: flush: %w", err)
	}

	return &ExportApplicationsResult{
		Filename: filename,
		Content:  buf.Bytes(),
		RowCount: rows,
	}, nil
}

// loadApplications fetches the application set and derives the filename.
func (h *ExportApplicationsHandler) loadApplications(ctx context.Context, q ExportApplicationsQuery) ([]*application.Application, string, error) {
	if q.JobID != "" {
		posting, err := h.jobRepo.GetByID(ctx, q.JobID)
		if err != nil {
			if errors.Is(err, job.ErrJobNotFound) {
				return nil, "", fmt.Errorf("export_applications: %w", err)
			}
			return nil, "", fmt.Errorf("export_applications: failed to get job: %w", err)
		}

		apps, err := h.applicationRepo.GetByJob(ctx, q.JobID)
		if err != nil {
			return nil, "", fmt.Errorf("export_applications: %w", err)
		}
		apps = filterByStatus(apps, q.Status)
		return apps, fmt.Sprintf("applications_%s.csv", sanitizeFilename(posting.Company)), nil
	}

	opts := application.DefaultListOptions().WithLimit(0)
	if q.Status != "" {
		opts = opts.WithStatus(application.Status(q.Status))
	}
	apps, err := h.applicationRepo.GetAll(ctx, opts)
	if err != nil {
		return nil, "", fmt.Errorf("export_applications: %w", err)
	}
	return apps, "applications_all.csv", nil
}

// filterByStatus keeps only applications with the given status.
func filterByStatus(apps []*application.Application, status string) []*application.Application {
	if status == "" {
		return apps
	}
	want := application.Status(status)
	out := apps[:0]
	for _, a := range apps {
		if a.Status == want {
			out = append(out, a)
		}
	}
	return out
}

// sanitizeFilename replaces characters that break Content-Disposition.
func sanitizeFilename(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		case r == ' ', r == '-', r == '_':
			out = append(out, '_')
		}
	}
	if len(out) == 0 {
		return "job"
	}
	return string(out)
}
