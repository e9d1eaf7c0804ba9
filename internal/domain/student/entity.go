// Package student contains the student profile domain model.
// This is core business data - there are no external dependencies here.
package student

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Branch represents the engineering branch a student belongs to.
type Branch string

const (
	BranchCSE        Branch = "CSE"
	BranchISE        Branch = "ISE"
	BranchMC         Branch = "MC"
	BranchAIML       Branch = "AIML"
	BranchAerospace  Branch = "Aerospace"
	BranchAutomotive Branch = "Automotive"
	BranchEEE        Branch = "EEE"
	BranchECE        Branch = "ECE"
	BranchCivil      Branch = "Civil"
	BranchMechanical Branch = "Mechanical"
	BranchRobotics   Branch = "Robotics"
)

// AllBranches lists every valid branch, in display order.
var AllBranches = []Branch{
	BranchCSE, BranchISE, BranchMC, BranchAIML, BranchAerospace,
	BranchAutomotive, BranchEEE, BranchECE, BranchCivil,
	BranchMechanical, BranchRobotics,
}

// IsValid checks that the branch is one of the known codes.
func (b Branch) IsValid() bool {
	for _, known := range AllBranches {
		if b == known {
			return true
		}
	}
	return false
}

// String returns the string representation of the branch.
func (b Branch) String() string {
	return string(b)
}

// Percentage represents a UG percentage on the 0-100 scale.
type Percentage float64

// IsValid checks that the percentage is within 0-100.
func (p Percentage) IsValid() bool {
	return p >= 0 && p <= 100
}

// Float64 returns the underlying float64 value.
func (p Percentage) Float64() float64 {
	return float64(p)
}

// RegistrationNumber is the unique college registration number.
type RegistrationNumber string

// IsValid checks the registration number is a plausible code.
func (r RegistrationNumber) IsValid() bool {
	s := string(r)
	return len(s) >= 4 && len(s) <= 30 && !strings.ContainsAny(s, " \t\n\r/")
}

// String returns the string representation.
func (r RegistrationNumber) String() string {
	return string(r)
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student is the placement profile of a registered student. It references
// the identity.User that owns it via UserID.
type Student struct {
	// ID - internal unique identifier (UUID in string form).
	ID string

	// UserID - the owning user account.
	UserID string

	// FirstName - given name used in exports and admin views.
	FirstName string

	// Gender - free-form as captured at registration.
	Gender string

	// CollegeRegNo - unique registration number; also keys the resume object.
	CollegeRegNo RegistrationNumber

	// DateOfBirth - stored as entered (DD-MM-YYYY or ISO date string).
	DateOfBirth string

	// CollegeEmail - institutional email, doubles as the login email.
	CollegeEmail string

	// PersonalEmail - personal contact email.
	PersonalEmail string

	// MobileNumber - contact phone number.
	MobileNumber string

	// IsPWD - person-with-disability flag.
	IsPWD bool

	// Branch - engineering branch.
	Branch Branch

	// UGPercentage - undergraduate aggregate percentage (0-100).
	UGPercentage Percentage

	// HasActiveBacklogs - true if the student currently has backlogs.
	HasActiveBacklogs bool

	// ResumeURL - public URL of the uploaded resume, empty until uploaded.
	ResumeURL string

	// CreatedAt - when the profile was created.
	CreatedAt time.Time

	// UpdatedAt - when the profile was last modified.
	UpdatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

// All sentinels carry a shared kind so the HTTP layer can classify them
// with the shared.Is* predicates.
var (
	// ErrInvalidBranch - branch is not a known code.
	ErrInvalidBranch = shared.ErrInvalidBranch

	// ErrInvalidPercentage - UG percentage outside 0-100.
	ErrInvalidPercentage = shared.ErrInvalidPercentage

	// ErrInvalidRegNo - registration number has an implausible shape.
	ErrInvalidRegNo = shared.NewDomainError("student", "Validate", shared.ErrInvalidFormat, "invalid registration number")

	// ErrInvalidFirstName - first name missing or too long.
	ErrInvalidFirstName = shared.NewDomainError("student", "Validate", shared.ErrInvalidInput, "invalid first name: must be 1-100 chars")

	// ErrStudentNotFound - student profile not found.
	ErrStudentNotFound = shared.ErrStudentNotFound

	// ErrStudentAlreadyExists - profile for this user or reg no exists.
	ErrStudentAlreadyExists = shared.ErrStudentAlreadyExists
)

// ══════════════════════════════════════════════════════════════════════════════
// FACTORY & VALIDATION
// ══════════════════════════════════════════════════════════════════════════════

// NewStudentParams contains the parameters for creating a student profile.
type NewStudentParams struct {
	ID                string
	UserID            string
	FirstName         string
	Gender            string
	CollegeRegNo      RegistrationNumber
	DateOfBirth       string
	CollegeEmail      string
	PersonalEmail     string
	MobileNumber      string
	IsPWD             bool
	Branch            Branch
	UGPercentage      Percentage
	HasActiveBacklogs bool
	ResumeURL         string
}

// NewStudent creates a new student profile with validation of all fields.
func NewStudent(params NewStudentParams) (*Student, error) {
	if params.ID == "" {
		return nil, errors.New("student id is required")
	}
	if params.UserID == "" {
		return nil, errors.New("user id is required")
	}

	firstName := strings.TrimSpace(params.FirstName)
	if len(firstName) == 0 || len(firstName) > 100 {
		return nil, ErrInvalidFirstName
	}

	if !params.CollegeRegNo.IsValid() {
		return nil, ErrInvalidRegNo
	}

	if !params.Branch.IsValid() {
		return nil, ErrInvalidBranch
	}

	if !params.UGPercentage.IsValid() {
		return nil, ErrInvalidPercentage
	}

	now := time.Now().UTC()

	return &Student{
		ID:                params.ID,
		UserID:            params.UserID,
		FirstName:         firstName,
		Gender:            strings.TrimSpace(params.Gender),
		CollegeRegNo:      params.CollegeRegNo,
		DateOfBirth:       params.DateOfBirth,
		CollegeEmail:      params.CollegeEmail,
		PersonalEmail:     params.PersonalEmail,
		MobileNumber:      params.MobileNumber,
		IsPWD:             params.IsPWD,
		Branch:            params.Branch,
		UGPercentage:      params.UGPercentage,
		HasActiveBacklogs: params.HasActiveBacklogs,
		ResumeURL:         params.ResumeURL,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// ProfileUpdate carries the mutable profile fields. Pointer fields are
// applied only when non-nil, so callers can send partial updates.
type ProfileUpdate struct {
	FirstName         *string
	Gender            *string
	DateOfBirth       *string
	PersonalEmail     *string
	MobileNumber      *string
	IsPWD             *bool
	UGPercentage      *Percentage
	HasActiveBacklogs *bool
}

// ApplyUpdate mutates the profile with the provided fields.
// Identity fields (UserID, CollegeRegNo, Branch, CollegeEmail) are frozen
// after registration and cannot be changed here.
func (s *Student) ApplyUpdate(u ProfileUpdate) error {
	if u.FirstName != nil {
		name := strings.TrimSpace(*u.FirstName)
		if len(name) == 0 || len(name) > 100 {
			return ErrInvalidFirstName
		}
		s.FirstName = name
	}
	if u.Gender != nil {
		s.Gender = strings.TrimSpace(*u.Gender)
	}
	if u.DateOfBirth != nil {
		s.DateOfBirth = *u.DateOfBirth
	}
	if u.PersonalEmail != nil {
		s.PersonalEmail = *u.PersonalEmail
	}
	if u.MobileNumber != nil {
		s.MobileNumber = *u.MobileNumber
	}
	if u.IsPWD != nil {
		s.IsPWD = *u.IsPWD
	}
	if u.UGPercentage != nil {
		if !u.UGPercentage.IsValid() {
			return ErrInvalidPercentage
		}
		s.UGPercentage = *u.UGPercentage
	}
	if u.HasActiveBacklogs != nil {
		s.HasActiveBacklogs = *u.HasActiveBacklogs
	}

	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SetResumeURL records the public URL of the uploaded resume.
func (s *Student) SetResumeURL(url string) {
	s.ResumeURL = url
	s.UpdatedAt = time.Now().UTC()
}

// ResumeKey derives the object-store key for this student's resume.
// One resume per student: re-uploads overwrite the same key.
func (s *Student) ResumeKey() string {
	return fmt.Sprintf("%s/%s.pdf", s.Branch, s.CollegeRegNo)
}

// String returns a string representation for logging.
func (s *Student) String() string {
	return fmt.Sprintf(
		"Student{ID: %s, RegNo: %s, Branch: %s, UG%%: %.2f}",
		s.ID, s.CollegeRegNo, s.Branch, s.UGPercentage,
	)
}

// Clone creates a shallow copy of the student.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}
