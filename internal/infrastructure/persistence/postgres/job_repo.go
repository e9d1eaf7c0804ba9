package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/placement-hub/campus-placement-portal/internal/domain/job"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// JOB REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const jobColumns = `
	id, title, company, description, location, package_range,
	min_ug_percentage, allow_backlogs, eligible_branches, skills,
	deadline, is_active, counts_as_offer, created_at, updated_at
`

// JobRepository implements job.Repository for PostgreSQL.
type JobRepository struct {
	conn *Connection
}

// NewJobRepository creates a new JobRepository.
func NewJobRepository(conn *Connection) *JobRepository {
	return &JobRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new job posting.
func (r *JobRepository) Create(ctx context.Context, j *job.Job) error {
	query := `
		INSERT INTO jobs (
			id, title, company, description, location, package_range,
			min_ug_percentage, allow_backlogs, eligible_branches, skills,
			deadline, is_active, counts_as_offer, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	branchesJSON, skillsJSON, err := marshalJobConstraints(j)
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(ctx, query,
		j.ID,
		j.Title,
		j.Company,
		j.Description,
		j.Location,
		j.PackageRange,
		percentagePtr(j.MinUGPercentage),
		j.AllowBacklogs,
		branchesJSON,
		skillsJSON,
		j.Deadline,
		j.IsActive,
		j.CountsAsOffer,
		j.CreatedAt,
		j.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	return nil
}

// GetByID returns a job by internal ID.
func (r *JobRepository) GetByID(ctx context.Context, id string) (*job.Job, error) {
	query := "SELECT " + jobColumns + " FROM jobs WHERE id = $1"

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanJob(row)
}

// Update persists posting changes.
func (r *JobRepository) Update(ctx context.Context, j *job.Job) error {
	query := `
		UPDATE jobs SET
			title = $1,
			company = $2,
			description = $3,
			location = $4,
			package_range = $5,
			min_ug_percentage = $6,
			allow_backlogs = $7,
			eligible_branches = $8,
			skills = $9,
			deadline = $10,
			is_active = $11,
			counts_as_offer = $12,
			updated_at = $13
		WHERE id = $14
	`

	branchesJSON, skillsJSON, err := marshalJobConstraints(j)
	if err != nil {
		return err
	}

	result, err := r.conn.Exec(ctx, query,
		j.Title,
		j.Company,
		j.Description,
		j.Location,
		j.PackageRange,
		percentagePtr(j.MinUGPercentage),
		j.AllowBacklogs,
		branchesJSON,
		skillsJSON,
		j.Deadline,
		j.IsActive,
		j.CountsAsOffer,
		time.Now().UTC(),
		j.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}

	if result.RowsAffected() == 0 {
		return job.ErrJobNotFound
	}

	return nil
}

// Deactivate closes a posting for applications (soft delete).
func (r *JobRepository) Deactivate(ctx context.Context, id string) error {
	query := `
		UPDATE jobs
		SET is_active = FALSE, updated_at = $1
		WHERE id = $2
	`

	result, err := r.conn.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate job: %w", err)
	}

	if result.RowsAffected() == 0 {
		return job.ErrJobNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Listing
// ─────────────────────────────────────────────────────────────────────────────

// GetAll returns all jobs with pagination.
func (r *JobRepository) GetAll(ctx context.Context, opts job.ListOptions) ([]*job.Job, error) {
	query := "SELECT " + jobColumns + " FROM jobs"

	args := []interface{}{opts.Limit, opts.Offset}
	conditions := []string{}
	if opts.OnlyActive {
		conditions = append(conditions, "is_active = TRUE")
	}
	if opts.Company != "" {
		conditions = append(conditions, fmt.Sprintf("company = $%d", len(args)+1))
		args = append(args, opts.Company)
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
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer rows.Close()

	return r.scanJobs(rows)
}

// GetActive returns all currently active jobs, newest first.
func (r *JobRepository) GetActive(ctx context.Context) ([]*job.Job, error) {
	query := "SELECT " + jobColumns + " FROM jobs WHERE is_active = TRUE ORDER BY created_at DESC"

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active jobs: %w", err)
	}
	defer rows.Close()

	return r.scanJobs(rows)
}

// FindExpiredActive returns active jobs whose deadline has passed.
func (r *JobRepository) FindExpiredActive(ctx context.Context, now time.Time) ([]*job.Job, error) {
	query := "SELECT " + jobColumns + " FROM jobs WHERE is_active = TRUE AND deadline < $1 ORDER BY deadline ASC"

	rows, err := r.conn.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query expired jobs: %w", err)
	}
	defer rows.Close()

	return r.scanJobs(rows)
}

// Count returns the total number of jobs.
func (r *JobRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, "SELECT COUNT(*) FROM jobs").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count jobs: %w", err)
	}
	return count, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER METHODS
// ══════════════════════════════════════════════════════════════════════════════

// scanJob scans a single job from a row.
func (r *JobRepository) scanJob(row pgx.Row) (*job.Job, error) {
	var j job.Job
	var minPct *float64
	var branchesJSON, skillsJSON []byte

	err := row.Scan(
		&j.ID,
		&j.Title,
		&j.Company,
		&j.Description,
		&j.Location,
		&j.PackageRange,
		&minPct,
		&j.AllowBacklogs,
		&branchesJSON,
		&skillsJSON,
		&j.Deadline,
		&j.IsActive,
		&j.CountsAsOffer,
		&j.CreatedAt,
		&j.UpdatedAt,
	)

	if IsNoRows(err) {
		return nil, job.ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan job: %w", err)
	}

	if minPct != nil {
		p := student.Percentage(*minPct)
		j.MinUGPercentage = &p
	}

	if len(branchesJSON) > 0 {
		if err := json.Unmarshal(branchesJSON, &j.EligibleBranches); err != nil {
			return nil, fmt.Errorf("failed to unmarshal eligible branches: %w", err)
		}
	}
	if len(skillsJSON) > 0 {
		if err := json.Unmarshal(skillsJSON, &j.Skills); err != nil {
			return nil, fmt.Errorf("failed to unmarshal skills: %w", err)
		}
	}

	return &j, nil
}

// scanJobs scans multiple jobs from rows.
func (r *JobRepository) scanJobs(rows pgx.Rows) ([]*job.Job, error) {
	var jobs []*job.Job

	for rows.Next() {
		j, err := r.scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return jobs, nil
}

// marshalJobConstraints serializes the JSONB constraint columns. Empty
// slices are stored as [] so the empty-means-all semantics survive a
// round trip.
func marshalJobConstraints(j *job.Job) ([]byte, []byte, error) {
	branches := j.EligibleBranches
	if branches == nil {
		branches = []student.Branch{}
	}
	branchesJSON, err := json.Marshal(branches)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal eligible branches: %w", err)
	}

	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal skills: %w", err)
	}

	return branchesJSON, skillsJSON, nil
}

// percentagePtr converts the optional domain percentage to a nullable column.
func percentagePtr(p *student.Percentage) *float64 {
	if p == nil {
		return nil
	}
	v := p.Float64()
	return &v
}
