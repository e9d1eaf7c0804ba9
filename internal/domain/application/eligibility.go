package application

import (
	"fmt"

	"github.com/placement-hub/campus-placement-portal/internal/domain/job"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ELIGIBILITY EVALUATOR
// ══════════════════════════════════════════════════════════════════════════════

// Decision is the outcome of matching a student profile against a job's
// constraints. Reasons lists every failed constraint, not just the first,
// so the student sees the full picture at once.
type Decision struct {
	// Eligible - true when every constraint passed.
	Eligible bool `json:"eligible"`

	// Reasons - human-readable failure reasons; empty when eligible.
	Reasons []string `json:"reasons,omitempty"`
}

// Evaluate matches a student profile against a job's eligibility constraints.
// It is a pure read: no clock, no store, no mutation. Deadline and active
// checks are deliberately excluded; those belong to job.IsOpen at write time.
//
// Constraint semantics:
//   - nil MinUGPercentage means no percentage constraint
//   - AllowBacklogs=false blocks students with active backlogs
//   - an empty EligibleBranches list means every branch is eligible
func Evaluate(j *job.Job, s *student.Student) Decision {
	var reasons []string

	if j.MinUGPercentage != nil && s.UGPercentage < *j.MinUGPercentage {
		reasons = append(reasons, fmt.Sprintf(
			"minimum percentage not met: requires %.2f%%, profile has %.2f%%",
			j.MinUGPercentage.Float64(), s.UGPercentage.Float64(),
		))
	}

	if !j.AllowBacklogs && s.HasActiveBacklogs {
		reasons = append(reasons, "active backlogs not allowed for this position")
	}

	if !j.AcceptsBranch(s.Branch) {
		reasons = append(reasons, fmt.Sprintf(
			"branch %s not eligible for this position", s.Branch,
		))
	}

	return Decision{
		Eligible: len(reasons) == 0,
		Reasons:  reasons,
	}
}
