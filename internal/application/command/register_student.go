// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/placement-hub/campus-placement-portal/internal/domain/identity"
	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER STUDENT COMMAND
// Creates the user account and the placement profile in one operation.
// Registration is the only place the two are created together; afterwards
// the account and the profile evolve independently.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentCommand contains the data to register a student.
type RegisterStudentCommand struct {
	// Email is the institutional email, used for login.
	Email string

	// Password is the plaintext password; hashed before storage.
	Password string

	// FirstName is the student's given name.
	FirstName string

	// Gender as captured at registration.
	Gender string

	// CollegeRegNo is the unique college registration number.
	CollegeRegNo string

	// DateOfBirth as entered on the form.
	DateOfBirth string

	// PersonalEmail is an optional secondary contact email.
	PersonalEmail string

	// MobileNumber is the contact phone number.
	MobileNumber string

	// IsPWD is the person-with-disability flag.
	IsPWD bool

	// Branch is the engineering branch code.
	Branch string

	// UGPercentage is the undergraduate aggregate percentage.
	UGPercentage float64

	// HasActiveBacklogs is true if the student currently has backlogs.
	HasActiveBacklogs bool

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RegisterStudentCommand) Validate() error {
	if c.Email == "" {
		return errors.New("register_student: email is required")
	}
	if len(c.Password) < 8 {
		return errors.New("register_student: password must be at least 8 characters")
	}
	if c.FirstName == "" {
		return errors.New("register_student: first_name is required")
	}
	if c.CollegeRegNo == "" {
		return errors.New("register_student: college_reg_no is required")
	}
	if !student.Branch(c.Branch).IsValid() {
		return fmt.Errorf("register_student: invalid branch: %s", c.Branch)
	}
	return nil
}

// RegisterStudentResult contains the result of registration.
type RegisterStudentResult struct {
	// UserID is the ID of the created user account.
	UserID string

	// StudentID is the ID of the created placement profile.
	StudentID string

	// Events contains domain events generated.
	Events []shared.Event

	// CreatedAt is when the registration completed.
	CreatedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentHandler handles the RegisterStudentCommand.
type RegisterStudentHandler struct {
	userRepo       identity.Repository
	studentRepo    student.Repository
	eventPublisher shared.EventPublisher

	bcryptCost int
}

// NewRegisterStudentHandler creates a new RegisterStudentHandler.
func NewRegisterStudentHandler(
	userRepo identity.Repository,
	studentRepo student.Repository,
	eventPublisher shared.EventPublisher,
) *RegisterStudentHandler {
	return &RegisterStudentHandler{
		userRepo:       userRepo,
		studentRepo:    studentRepo,
		eventPublisher: eventPublisher,
		bcryptCost:     bcrypt.DefaultCost,
	}
}

// Handle executes the register student command.
func (h *RegisterStudentHandler) Handle(ctx context.Context, cmd RegisterStudentCommand) (*RegisterStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("register_student: validation failed: %w", err)
	}

	// Cheap pre-check; the unique index on users.email is the real guard.
	exists, err := h.userRepo.ExistsByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, fmt.Errorf("register_student: failed to check email: %w", err)
	}
	if exists {
		return nil, shared.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), h.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register_student: failed to hash password: %w", err)
	}

	user, err := identity.NewUser(identity.NewUserParams{
		ID:           uuid.NewString(),
		Email:        cmd.Email,
		PasswordHash: string(hash),
		Role:         identity.RoleStudent,
	})
	if err != nil {
		return nil, fmt.Errorf("register_student: %w", err)
	}

	profile, err := student.NewStudent(student.NewStudentParams{
		ID:                uuid.NewString(),
		UserID:            user.ID,
		FirstName:         cmd.FirstName,
		Gender:            cmd.Gender,
		CollegeRegNo:      student.RegistrationNumber(cmd.CollegeRegNo),
		DateOfBirth:       cmd.DateOfBirth,
		CollegeEmail:      cmd.Email,
		PersonalEmail:     cmd.PersonalEmail,
		MobileNumber:      cmd.MobileNumber,
		IsPWD:             cmd.IsPWD,
		Branch:            student.Branch(cmd.Branch),
		UGPercentage:      student.Percentage(cmd.UGPercentage),
		HasActiveBacklogs: cmd.HasActiveBacklogs,
	})
	if err != nil {
		return nil, fmt.Errorf("register_student: %w", err)
	}

	if err := h.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("register_student: failed to create user: %w", err)
	}

	if err := h.studentRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("register_student: failed to create profile: %w", err)
	}

	result := &RegisterStudentResult{
		UserID:    user.ID,
		StudentID: profile.ID,
		CreatedAt: profile.CreatedAt,
		Events:    make([]shared.Event, 0, 1),
	}

	event := shared.NewStudentRegisteredEvent(
		profile.ID,
		user.ID,
		string(profile.CollegeRegNo),
		string(profile.Branch),
	)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, event)

	for _, e := range result.Events {
		_ = h.eventPublisher.Publish(e)
	}

	return result, nil
}
