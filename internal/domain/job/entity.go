// Package job contains the job posting domain model, including the
// eligibility constraints an admin attaches to a posting.
package job

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: JOB
// ══════════════════════════════════════════════════════════════════════════════

// Job is a single placement posting. Eligibility fields are optional: a nil
// MinUGPercentage means no percentage constraint, and an empty
// EligibleBranches list means every branch may apply.
type Job struct {
	// ID - internal unique identifier (UUID in string form).
	ID string

	// Title - role title, e.g. "Graduate Software Engineer".
	Title string

	// Company - hiring company name.
	Company string

	// Description - optional free-form description.
	Description string

	// Location - optional posting location.
	Location string

	// PackageRange - optional compensation text, e.g. "6-8 LPA".
	PackageRange string

	// MinUGPercentage - minimum UG percentage; nil means no constraint.
	MinUGPercentage *student.Percentage

	// AllowBacklogs - whether students with active backlogs may apply.
	AllowBacklogs bool

	// EligibleBranches - allow-list of branches; empty means all branches.
	EligibleBranches []student.Branch

	// Skills - optional list of desired skills.
	Skills []string

	// Deadline - application deadline.
	Deadline time.Time

	// IsActive - whether the posting accepts applications.
	IsActive bool

	// CountsAsOffer - whether selection counts toward placement statistics.
	CountsAsOffer bool

	// CreatedAt - when the posting was created.
	CreatedAt time.Time

	// UpdatedAt - when the posting was last modified.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// All sentinels carry a shared kind so the HTTP layer can classify them
// with the shared.Is* predicates.
var (
	// ErrInvalidTitle - title missing or too long.
	ErrInvalidTitle = shared.NewDomainError("job", "Validate", shared.ErrInvalidInput, "invalid title: must be 1-200 chars")

	// ErrInvalidCompany - company missing or too long.
	ErrInvalidCompany = shared.NewDomainError("job", "Validate", shared.ErrInvalidInput, "invalid company: must be 1-200 chars")

	// ErrInvalidDeadline - deadline missing.
	ErrInvalidDeadline = shared.NewDomainError("job", "Validate", shared.ErrEmptyValue, "deadline is required")

	// ErrInvalidMinPercentage - minimum percentage outside 0-100.
	ErrInvalidMinPercentage = shared.NewDomainError("job", "Validate", shared.ErrValueOutOfRange, "invalid minimum percentage: must be between 0 and 100")

	// ErrInvalidEligibleBranch - allow-list contains an unknown branch code.
	ErrInvalidEligibleBranch = shared.NewDomainError("job", "Validate", shared.ErrInvalidInput, "invalid branch in eligible branches")

	// ErrJobNotFound - job not found.
	ErrJobNotFound = shared.ErrJobNotFound

	// ErrJobInactive - job is closed for applications.
	ErrJobInactive = shared.ErrJobInactive

	// ErrJobExpired - application deadline has passed.
	ErrJobExpired = shared.ErrJobExpired
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewJobParams contains the parameters for creating a job posting.
type NewJobParams struct {
	ID               string
	Title            string
	Company          string
	Description      string
	Location         string
	PackageRange     string
	MinUGPercentage  *student.Percentage
	AllowBacklogs    bool
	EligibleBranches []student.Branch
	Skills           []string
	Deadline         time.Time
	CountsAsOffer    bool
}

// NewJob creates a new job posting with validation of all fields.
// The posting starts active.
func NewJob(params NewJobParams) (*Job, error) {
	if params.ID == "" {
		return nil, errors.New("job id is required")
	}

	title := strings.TrimSpace(params.Title)
	if len(title) == 0 || len(title) > 200 {
		return nil, ErrInvalidTitle
	}

	company := strings.TrimSpace(params.Company)
	if len(company) == 0 || len(company) > 200 {
		return nil, ErrInvalidCompany
	}

	if params.Deadline.IsZero() {
		return nil, ErrInvalidDeadline
	}

	if params.MinUGPercentage != nil && !params.MinUGPercentage.IsValid() {
		return nil, ErrInvalidMinPercentage
	}

	for _, b := range params.EligibleBranches {
		if !b.IsValid() {
			return nil, ErrInvalidEligibleBranch
		}
	}

	now := time.Now().UTC()

	return &Job{
		ID:               params.ID,
		Title:            title,
		Company:          company,
		Description:      strings.TrimSpace(params.Description),
		Location:         strings.TrimSpace(params.Location),
		PackageRange:     strings.TrimSpace(params.PackageRange),
		MinUGPercentage:  params.MinUGPercentage,
		AllowBacklogs:    params.AllowBacklogs,
		EligibleBranches: params.EligibleBranches,
		Skills:           params.Skills,
		Deadline:         params.Deadline,
		IsActive:         true,
		CountsAsOffer:    params.CountsAsOffer,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// IsExpired checks whether the deadline has passed at the given time.
func (j *Job) IsExpired(now time.Time) bool {
	return now.After(j.Deadline)
}

// IsOpen checks whether the job currently accepts applications:
// active and not past deadline. These are write-time checks, separate from
// profile eligibility.
func (j *Job) IsOpen(now time.Time) error {
	if !j.IsActive {
		return ErrJobInactive
	}
	if j.IsExpired(now) {
		return ErrJobExpired
	}
	return nil
}

// Deactivate closes the posting for applications.
func (j *Job) Deactivate() {
	j.IsActive = false
	j.UpdatedAt = time.Now().UTC()
}

// AcceptsBranch checks the branch allow-list. An empty or nil list means
// every branch is eligible, never "no branches".
func (j *Job) AcceptsBranch(branch student.Branch) bool {
	if len(j.EligibleBranches) == 0 {
		return true
	}
	for _, b := range j.EligibleBranches {
		if b == branch {
			return true
		}
	}
	return false
}

// String returns a string representation for logging.
func (j *Job) String() string {
	return fmt.Sprintf("Job{ID: %s, Title: %s, Company: %s, Active: %t}",
		j.ID, j.Title, j.Company, j.IsActive)
}

// Clone creates a copy of the job, including constraint slices.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	clone := *j
	if j.MinUGPercentage != nil {
		p := *j.MinUGPercentage
		clone.MinUGPercentage = &p
	}
	clone.EligibleBranches = append([]student.Branch(nil), j.EligibleBranches...)
	clone.Skills = append([]string(nil), j.Skills...)
	return &clone
}
