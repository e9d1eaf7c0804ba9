package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

const studentColumns = `
	id, user_id, first_name, gender, college_reg_no, date_of_birth,
	college_email, personal_email, mobile_number, is_pwd, branch,
	ug_percentage, has_active_backlogs, resume_url, created_at, updated_at
`

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

// ─────────────────────────────────────────────────────────────────────────────
// CRUD Operations
// ─────────────────────────────────────────────────────────────────────────────

// Create creates a new student profile.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO student_details (
			id, user_id, first_name, gender, college_reg_no, date_of_birth,
			college_email, personal_email, mobile_number, is_pwd, branch,
			ug_percentage, has_active_backlogs, resume_url, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.UserID,
		s.FirstName,
		s.Gender,
		string(s.CollegeRegNo),
		s.DateOfBirth,
		s.CollegeEmail,
		s.PersonalEmail,
		s.MobileNumber,
		s.IsPWD,
		string(s.Branch),
		s.UGPercentage.Float64(),
		s.HasActiveBacklogs,
		s.ResumeURL,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return student.ErrStudentAlreadyExists
		}
		return fmt.Errorf("failed to create student: %w", err)
	}

	return nil
}

// GetByID returns a student by internal ID.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	query := "SELECT " + studentColumns + " FROM student_details WHERE id = $1"

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanStudent(row)
}

// GetByUserID returns the student profile owned by a user account.
func (r *StudentRepository) GetByUserID(ctx context.Context, userID string) (*student.Student, error) {
	query := "SELECT " + studentColumns + " FROM student_details WHERE user_id = $1"

	row := r.conn.QueryRow(ctx, query, userID)
	return r.scanStudent(row)
}

// GetByRegNo returns a student by registration number.
func (r *StudentRepository) GetByRegNo(ctx context.Context, regNo student.RegistrationNumber) (*student.Student, error) {
	query := "SELECT " + studentColumns + " FROM student_details WHERE college_reg_no = $1"

	row := r.conn.QueryRow(ctx, query, string(regNo))
	return r.scanStudent(row)
}

// Update persists profile changes.
func (r *StudentRepository) Update(ctx context.Context, s *student.Student) error {
	query := `
		UPDATE student_details SET
			first_name = $1,
			gender = $2,
			date_of_birth = $3,
			personal_email = $4,
			mobile_number = $5,
			is_pwd = $6,
			ug_percentage = $7,
			has_active_backlogs = $8,
			resume_url = $9,
			updated_at = $10
		WHERE id = $11
	`

	result, err := r.conn.Exec(ctx, query,
		s.FirstName,
		s.Gender,
		s.DateOfBirth,
		s.PersonalEmail,
		s.MobileNumber,
		s.IsPWD,
		s.UGPercentage.Float64(),
		s.HasActiveBacklogs,
		s.ResumeURL,
		time.Now().UTC(),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}

	if result.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Bulk Operations
// ─────────────────────────────────────────────────────────────────────────────

// GetAll returns all student profiles with pagination.
func (r *StudentRepository) GetAll(ctx context.Context, opts student.ListOptions) ([]*student.Student, error) {
	query := "SELECT " + studentColumns + " FROM student_details"

	args := []interface{}{opts.Limit, opts.Offset}
	if opts.Branch != "" {
		query += " WHERE branch = $3"
		args = append(args, string(opts.Branch))
	}

	query += r.buildOrderBy(opts)
	query += " LIMIT $1 OFFSET $2"

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	return r.scanStudents(rows)
}

// GetByIDs returns students by a list of IDs.
func (r *StudentRepository) GetByIDs(ctx context.Context, ids []string) ([]*student.Student, error) {
	if len(ids) == 0 {
		return []*student.Student{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	query := fmt.Sprintf(
		"SELECT %s FROM student_details WHERE id IN (%s)",
		studentColumns, strings.Join(placeholders, ", "),
	)

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query students by ids: %w", err)
	}
	defer rows.Close()

	return r.scanStudents(rows)
}

// Count returns the total number of students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, "SELECT COUNT(*) FROM student_details").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER METHODS
// ══════════════════════════════════════════════════════════════════════════════

// scanStudent scans a single student from a row.
func (r *StudentRepository) scanStudent(row pgx.Row) (*student.Student, error) {
	var s student.Student
	var regNo, branch string
	var ugPercentage float64

	err := row.Scan(
		&s.ID,
		&s.UserID,
		&s.FirstName,
		&s.Gender,
		&regNo,
		&s.DateOfBirth,
		&s.CollegeEmail,
		&s.PersonalEmail,
		&s.MobileNumber,
		&s.IsPWD,
		&branch,
		&ugPercentage,
		&s.HasActiveBacklogs,
		&s.ResumeURL,
		&s.CreatedAt,
		&s.UpdatedAt,
	)

	if IsNoRows(err) {
		return nil, student.ErrStudentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	s.CollegeRegNo = student.RegistrationNumber(regNo)
	s.Branch = student.Branch(branch)
	s.UGPercentage = student.Percentage(ugPercentage)

	return &s, nil
}

// scanStudents scans multiple students from rows.
func (r *StudentRepository) scanStudents(rows pgx.Rows) ([]*student.Student, error) {
	var students []*student.Student

	for rows.Next() {
		s, err := r.scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return students, nil
}

// buildOrderBy builds the ORDER BY clause from a whitelist of sort fields.
func (r *StudentRepository) buildOrderBy(opts student.ListOptions) string {
	orderField := "created_at"
	validFields := map[string]string{
		"created_at":     "created_at",
		"first_name":     "first_name",
		"name":           "first_name",
		"college_reg_no": "college_reg_no",
		"reg_no":         "college_reg_no",
		"branch":         "branch",
		"ug_percentage":  "ug_percentage",
	}

	if field, ok := validFields[opts.SortBy]; ok {
		orderField = field
	}

	direction := "DESC"
	if !opts.SortDesc {
		direction = "ASC"
	}

	return fmt.Sprintf(" ORDER BY %s %s", orderField, direction)
}
