package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/placement-hub/campus-placement-portal/internal/domain/application"
)

// ══════════════════════════════════════════════════════════════════════════════
// APPLICATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const applicationColumns = `
	id, student_id, job_id, status, current_stage, stage_history,
	version, applied_at, updated_at
`

// ApplicationRepository implements application.Repository for PostgreSQL.
// Duplicate prevention rests on the UNIQUE(student_id, job_id) constraint,
// and transitions use compare-and-swap on the version column.
type ApplicationRepository struct {
	conn *Connection
}

// NewApplicationRepository creates a new ApplicationRepository.
func NewApplicationRepository(conn *Connection) *ApplicationRepository {
	return &ApplicationRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// Writes
// ─────────────────────────────────────────────────────────────────────────────

// Create persists a new application. The unique constraint turns concurrent
// duplicate submissions into ErrDuplicateApplication.
func (r *ApplicationRepository) Create(ctx context.Context, app *application.Application) error {
	query := `
		INSERT INTO applications (
			id, student_id, job_id, status, current_stage, stage_history,
			version, applied_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	historyJSON, err := json.Marshal(app.StageHistory)
	if err != nil {
		return fmt.Errorf("failed to marshal stage history: %w", err)
	}

	_, err = r.conn.Exec(ctx, query,
		app.ID,
		app.StudentID,
		app.JobID,
		string(app.Status),
		app.CurrentStage,
		historyJSON,
		app.Version,
		app.AppliedAt,
		app.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return application.ErrDuplicateApplication
		}
		return fmt.Errorf("failed to create application: %w", err)
	}

	return nil
}

// UpdateStatus persists a transition using compare-and-swap on the version
// the application was read at. A zero-row update against an existing row
// means a concurrent transition won.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, app *application.Application) error {
	query := `
		UPDATE applications SET
			status = $1,
			current_stage = $2,
			stage_history = $3,
			version = version + 1,
			updated_at = $4
		WHERE id = $5 AND version = $6
	`

	historyJSON, err := json.Marshal(app.StageHistory)
	if err != nil {
		return fmt.Errorf("failed to marshal stage history: %w", err)
	}

	result, err := r.conn.Exec(ctx, query,
		string(app.Status),
		app.CurrentStage,
		historyJSON,
		app.UpdatedAt,
		app.ID,
		app.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}

	if result.RowsAffected() == 0 {
		exists, err := r.exists(ctx, app.ID)
		if err != nil {
			return err
		}
		if !exists {
			return application.ErrApplicationNotFound
		}
		return application.ErrStaleVersion
	}

	app.Version++
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Reads
// ─────────────────────────────────────────────────────────────────────────────

// GetByID returns an application by internal ID.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*application.Application, error) {
	query := "SELECT " + applicationColumns + " FROM applications WHERE id = $1"

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanApplication(row)
}

// GetByStudentAndJob returns the application for a (student, job) pair.
func (r *ApplicationRepository) GetByStudentAndJob(ctx context.Context, studentID, jobID string) (*application.Application, error) {
	query := "SELECT " + applicationColumns + " FROM applications WHERE student_id = $1 AND job_id = $2"

	row := r.conn.QueryRow(ctx, query, studentID, jobID)
	return r.scanApplication(row)
}

// ExistsByStudentAndJob checks whether the student already applied.
func (r *ApplicationRepository) ExistsByStudentAndJob(ctx context.Context, studentID, jobID string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM applications WHERE student_id = $1 AND job_id = $2)",
		studentID, jobID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check application existence: %w", err)
	}
	return exists, nil
}

// GetByStudent returns all applications of a student, newest first.
func (r *ApplicationRepository) GetByStudent(ctx context.Context, studentID string) ([]*application.Application, error) {
	query := "SELECT " + applicationColumns + " FROM applications WHERE student_id = $1 ORDER BY applied_at DESC"

	rows, err := r.conn.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications by student: %w", err)
	}
	defer rows.Close()

	return r.scanApplications(rows)
}

// GetByJob returns all applications for a job, newest first.
func (r *ApplicationRepository) GetByJob(ctx context.Context, jobID string) ([]*application.Application, error) {
	query := "SELECT " + applicationColumns + " FROM applications WHERE job_id = $1 ORDER BY applied_at DESC"

	rows, err := r.conn.Query(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications by job: %w", err)
	}
	defer rows.Close()

	return r.scanApplications(rows)
}

// GetAll returns all applications with pagination and filters.
func (r *ApplicationRepository) GetAll(ctx context.Context, opts application.ListOptions) ([]*application.Application, error) {
	query := "SELECT " + applicationColumns + " FROM applications"

	// LIMIT NULL means no limit; a zero or negative limit exports everything.
	var limit interface{}
	if opts.Limit > 0 {
		limit = opts.Limit
	}
	args := []interface{}{limit, opts.Offset}
	conditions := []string{}
	if opts.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, string(opts.Status))
	}
	if opts.JobID != "" {
		conditions = append(conditions, fmt.Sprintf("job_id = $%d", len(args)+1))
		args = append(args, opts.JobID)
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	query += " ORDER BY applied_at DESC LIMIT $1 OFFSET $2"

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	return r.scanApplications(rows)
}

// ─────────────────────────────────────────────────────────────────────────────
// Aggregations
// ─────────────────────────────────────────────────────────────────────────────

// CountByStatus returns application counts grouped by status.
func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[application.Status]int, error) {
	query := "SELECT status, COUNT(*) FROM applications GROUP BY status"

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[application.Status]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[application.Status(status)] = count
	}

	return counts, rows.Err()
}

// CountDistinctPlacedStudents returns the number of distinct students with
// a selected application on an offer-counting job.
func (r *ApplicationRepository) CountDistinctPlacedStudents(ctx context.Context) (int, error) {
	query := `
		SELECT COUNT(DISTINCT a.student_id)
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE a.status = 'selected' AND j.counts_as_offer = TRUE
	`

	var count int
	if err := r.conn.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count placed students: %w", err)
	}
	return count, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER METHODS
// ══════════════════════════════════════════════════════════════════════════════

// exists checks if an application row exists.
func (r *ApplicationRepository) exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.conn.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM applications WHERE id = $1)",
		id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check application existence: %w", err)
	}
	return exists, nil
}

// scanApplication scans a single application from a row.
func (r *ApplicationRepository) scanApplication(row pgx.Row) (*application.Application, error) {
	var app application.Application
	var status string
	var historyJSON []byte

	err := row.Scan(
		&app.ID,
		&app.StudentID,
		&app.JobID,
		&status,
		&app.CurrentStage,
		&historyJSON,
		&app.Version,
		&app.AppliedAt,
		&app.UpdatedAt,
	)

	if IsNoRows(err) {
		return nil, application.ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan application: %w", err)
	}

	app.Status = application.Status(status)
	if len(historyJSON) > 0 {
		if err := json.Unmarshal(historyJSON, &app.StageHistory); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stage history: %w", err)
		}
	}

	return &app, nil
}

// scanApplications scans multiple applications from rows.
func (r *ApplicationRepository) scanApplications(rows pgx.Rows) ([]*application.Application, error) {
	var apps []*application.Application

	for rows.Next() {
		app, err := r.scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return apps, nil
}
