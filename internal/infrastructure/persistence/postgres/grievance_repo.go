package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/placement-hub/campus-placement-portal/internal/domain/grievance"
)

// ══════════════════════════════════════════════════════════════════════════════
// GRIEVANCE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const grievanceColumns = `
	id, COALESCE(student_id::text, ''), type, subject, description,
	contact_email, priority, status, response, created_at, updated_at
`

// GrievanceRepository implements grievance.Repository for PostgreSQL.
type GrievanceRepository struct {
	conn *Connection
}

// NewGrievanceRepository creates a new GrievanceRepository.
func NewGrievanceRepository(conn *Connection) *GrievanceRepository {
	return &GrievanceRepository{conn: conn}
}

// Create persists a new grievance.
func (r *GrievanceRepository) Create(ctx context.Context, g *grievance.Grievance) error {
	query := `
		INSERT INTO grievances (
			id, student_id, type, subject, description, contact_email,
			priority, status, response, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var studentID *string
	if g.StudentID != "" {
		studentID = &g.StudentID
	}

	_, err := r.conn.Exec(ctx, query,
		g.ID,
		studentID,
		g.Type,
		g.Subject,
		g.Description,
		g.ContactEmail,
		string(g.Priority),
		string(g.Status),
		g.Response,
		g.CreatedAt,
		g.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create grievance: %w", err)
	}

	return nil
}

// GetByID returns a grievance by internal ID.
func (r *GrievanceRepository) GetByID(ctx context.Context, id string) (*grievance.Grievance, error) {
	query := "SELECT " + grievanceColumns + " FROM grievances WHERE id = $1"

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanGrievance(row)
}

// Update persists triage changes (status, response).
func (r *GrievanceRepository) Update(ctx context.Context, g *grievance.Grievance) error {
	query := `
		UPDATE grievances SET
			priority = $1,
			status = $2,
			response = $3,
			updated_at = $4
		WHERE id = $5
	`

	result, err := r.conn.Exec(ctx, query,
		string(g.Priority),
		string(g.Status),
		g.Response,
		time.Now().UTC(),
		g.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update grievance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return grievance.ErrGrievanceNotFound
	}

	return nil
}

// GetByStudent returns grievances submitted by one student, newest first.
func (r *GrievanceRepository) GetByStudent(ctx context.Context, studentID string) ([]*grievance.Grievance, error) {
	query := "SELECT " + grievanceColumns + " FROM grievances WHERE student_id = $1 ORDER BY created_at DESC"

	rows, err := r.conn.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query grievances by student: %w", err)
	}
	defer rows.Close()

	return r.scanGrievances(rows)
}

// GetAll returns all grievances with pagination and filters.
func (r *GrievanceRepository) GetAll(ctx context.Context, opts grievance.ListOptions) ([]*grievance.Grievance, error) {
	query := "SELECT " + grievanceColumns + " FROM grievances"

	args := []interface{}{opts.Limit, opts.Offset}
	conditions := []string{}
	if opts.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, string(opts.Status))
	}
	if opts.Priority != "" {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", len(args)+1))
		args = append(args, string(opts.Priority))
	}

	for i, cond := range conditions {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}

	query += " ORDER BY created_at DESC LIMIT $1 OFFSET $2"

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query grievances: %w", err)
	}
	defer rows.Close()

	return r.scanGrievances(rows)
}

// CountOpen returns the number of unresolved grievances.
func (r *GrievanceRepository) CountOpen(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		"SELECT COUNT(*) FROM grievances WHERE status != 'resolved'",
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open grievances: %w", err)
	}
	return count, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER METHODS
// ══════════════════════════════════════════════════════════════════════════════

// scanGrievance scans a single grievance from a row.
func (r *GrievanceRepository) scanGrievance(row pgx.Row) (*grievance.Grievance, error) {
	var g grievance.Grievance
	var priority, status string

	err := row.Scan(
		&g.ID,
		&g.StudentID,
		&g.Type,
		&g.Subject,
		&g.Description,
		&g.ContactEmail,
		&priority,
		&status,
		&g.Response,
		&g.CreatedAt,
		&g.UpdatedAt,
	)

	if IsNoRows(err) {
		return nil, grievance.ErrGrievanceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan grievance: %w", err)
	}

	g.Priority = grievance.Priority(priority)
	g.Status = grievance.Status(status)

	return &g, nil
}

// scanGrievances scans multiple grievances from rows.
func (r *GrievanceRepository) scanGrievances(rows pgx.Rows) ([]*grievance.Grievance, error) {
	var grievances []*grievance.Grievance

	for rows.Next() {
		g, err := r.scanGrievance(rows)
		if err != nil {
			return nil, err
		}
		grievances = append(grievances, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return grievances, nil
}
