package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-hub/campus-placement-portal/internal/domain/identity"
	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
)

func validRegisterCommand() RegisterStudentCommand {
	return RegisterStudentCommand{
		Email:        "priya@college.edu",
		Password:     "correct-horse",
		FirstName:    "Priya",
		CollegeRegNo: "1RV21EC077",
		Branch:       "ECE",
		UGPercentage: 81.2,
		MobileNumber: "9876543210",
	}
}

func TestRegisterStudent_CreatesAccountAndProfile(t *testing.T) {
	userRepo := newFakeUserRepo()
	studentRepo := newFakeStudentRepo()
	publisher := &fakePublisher{}
	handler := NewRegisterStudentHandler(userRepo, studentRepo, publisher)

	result, err := handler.Handle(context.Background(), validRegisterCommand())

	require.NoError(t, err)
	assert.NotEmpty(t, result.UserID)
	assert.NotEmpty(t, result.StudentID)

	user, err := userRepo.GetByEmail(context.Background(), "priya@college.edu")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleStudent, user.Role)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)

	profile, err := studentRepo.GetByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "priya@college.edu", profile.CollegeEmail)
	assert.Equal(t, "ECE/1RV21EC077.pdf", profile.ResumeKey())

	require.Len(t, publisher.published, 1)
	assert.Equal(t, shared.EventStudentRegistered, publisher.published[0].EventType())
}

func TestRegisterStudent_RejectsDuplicateEmail(t *testing.T) {
	handler := NewRegisterStudentHandler(newFakeUserRepo(), newFakeStudentRepo(), &fakePublisher{})

	_, err := handler.Handle(context.Background(), validRegisterCommand())
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), validRegisterCommand())
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestRegisterStudent_RejectsShortPassword(t *testing.T) {
	handler := NewRegisterStudentHandler(newFakeUserRepo(), newFakeStudentRepo(), &fakePublisher{})

	cmd := validRegisterCommand()
	cmd.Password = "short"

	_, err := handler.Handle(context.Background(), cmd)
	assert.Error(t, err)
}

func TestRegisterStudent_RejectsUnknownBranch(t *testing.T) {
	handler := NewRegisterStudentHandler(newFakeUserRepo(), newFakeStudentRepo(), &fakePublisher{})

	cmd := validRegisterCommand()
	cmd.Branch = "Quantum"

	_, err := handler.Handle(context.Background(), cmd)
	assert.Error(t, err)
}

func TestLogin_EstablishesSession(t *testing.T) {
	userRepo := newFakeUserRepo()
	sessions := newFakeSessionStore()
	registerHandler := NewRegisterStudentHandler(userRepo, newFakeStudentRepo(), &fakePublisher{})

	_, err := registerHandler.Handle(context.Background(), validRegisterCommand())
	require.NoError(t, err)

	loginHandler := NewLoginHandler(userRepo, sessions, 0)

	result, err := loginHandler.Handle(context.Background(), LoginCommand{
		Email:    "priya@college.edu",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, identity.RoleStudent, result.Role)

	session, err := sessions.Get(context.Background(), result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.UserID, session.UserID)
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	userRepo := newFakeUserRepo()
	registerHandler := NewRegisterStudentHandler(userRepo, newFakeStudentRepo(), &fakePublisher{})

	_, err := registerHandler.Handle(context.Background(), validRegisterCommand())
	require.NoError(t, err)

	loginHandler := NewLoginHandler(userRepo, newFakeSessionStore(), 0)

	_, wrongPass := loginHandler.Handle(context.Background(), LoginCommand{
		Email:    "priya@college.edu",
		Password: "not-the-password",
	})
	_, unknownEmail := loginHandler.Handle(context.Background(), LoginCommand{
		Email:    "nobody@college.edu",
		Password: "whatever",
	})

	assert.ErrorIs(t, wrongPass, shared.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, shared.ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), unknownEmail.Error())
}

func TestLogout_RemovesSession(t *testing.T) {
	sessions := newFakeSessionStore()
	sessions.sessions["tok-1"] = &identity.Session{Token: "tok-1", UserID: "usr-1"}

	handler := NewLogoutHandler(sessions)

	err := handler.Handle(context.Background(), LogoutCommand{Token: "tok-1"})

	require.NoError(t, err)
	_, err = sessions.Get(context.Background(), "tok-1")
	assert.ErrorIs(t, err, shared.ErrSessionNotFound)
}
