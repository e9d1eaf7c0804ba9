package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placement-hub/campus-placement-portal/internal/application/command"
	"github.com/placement-hub/campus-placement-portal/internal/application/query"
	"github.com/placement-hub/campus-placement-portal/internal/domain/application"
	"github.com/placement-hub/campus-placement-portal/internal/domain/grievance"
	"github.com/placement-hub/campus-placement-portal/internal/domain/identity"
	"github.com/placement-hub/campus-placement-portal/internal/domain/job"
	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
	"github.com/placement-hub/campus-placement-portal/internal/interface/http/handlers"
)

// In-memory fakes for end-to-end handler tests. Only the behavior the
// routes under test exercise is implemented.

type capturingPublisher struct {
	published []shared.Event
}

func (p *capturingPublisher) Publish(event shared.Event) error {
	p.published = append(p.published, event)
	return nil
}

type stubStudentRepo struct {
	students []*student.Student
}

func (r *stubStudentRepo) Create(ctx context.Context, s *student.Student) error {
	r.students = append(r.students, s)
	return nil
}

func (r *stubStudentRepo) GetByID(ctx context.Context, id string) (*student.Student, error) {
	for _, s := range r.students {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, student.ErrStudentNotFound
}

func (r *stubStudentRepo) GetByUserID(ctx context.Context, userID string) (*student.Student, error) {
	for _, s := range r.students {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, student.ErrStudentNotFound
}

func (r *stubStudentRepo) GetByRegNo(ctx context.Context, regNo student.RegistrationNumber) (*student.Student, error) {
	return nil, student.ErrStudentNotFound
}

func (r *stubStudentRepo) Update(ctx context.Context, s *student.Student) error {
	return nil
}

func (r *stubStudentRepo) GetAll(ctx context.Context, opts student.ListOptions) ([]*student.Student, error) {
	return r.students, nil
}

func (r *stubStudentRepo) GetByIDs(ctx context.Context, ids []string) ([]*student.Student, error) {
	return nil, nil
}

func (r *stubStudentRepo) Count(ctx context.Context) (int, error) {
	return len(r.students), nil
}

type stubJobRepo struct {
	jobs []*job.Job
}

func (r *stubJobRepo) Create(ctx context.Context, j *job.Job) error {
	r.jobs = append(r.jobs, j)
	return nil
}

func (r *stubJobRepo) GetByID(ctx context.Context, id string) (*job.Job, error) {
	for _, j := range r.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, job.ErrJobNotFound
}

func (r *stubJobRepo) Update(ctx context.Context, j *job.Job) error {
	return nil
}

func (r *stubJobRepo) Deactivate(ctx context.Context, id string) error {
	j, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	j.IsActive = false
	return nil
}

func (r *stubJobRepo) GetAll(ctx context.Context, opts job.ListOptions) ([]*job.Job, error) {
	return r.jobs, nil
}

func (r *stubJobRepo) GetActive(ctx context.Context) ([]*job.Job, error) {
	return r.jobs, nil
}

func (r *stubJobRepo) FindExpiredActive(ctx context.Context, now time.Time) ([]*job.Job, error) {
	return nil, nil
}

func (r *stubJobRepo) Count(ctx context.Context) (int, error) {
	return len(r.jobs), nil
}

type stubApplicationRepo struct {
	byPair map[string]*application.Application
}

func newStubApplicationRepo() *stubApplicationRepo {
	return &stubApplicationRepo{byPair: make(map[string]*application.Application)}
}

func pairKey(studentID, jobID string) string {
	return studentID + "/" + jobID
}

func (r *stubApplicationRepo) Create(ctx context.Context, app *application.Application) error {
	key := pairKey(app.StudentID, app.JobID)
	if _, ok := r.byPair[key]; ok {
		return application.ErrDuplicateApplication
	}
	r.byPair[key] = app
	return nil
}

func (r *stubApplicationRepo) GetByID(ctx context.Context, id string) (*application.Application, error) {
	for _, app := range r.byPair {
		if app.ID == id {
			return app, nil
		}
	}
	return nil, application.ErrApplicationNotFound
}

func (r *stubApplicationRepo) GetByStudentAndJob(ctx context.Context, studentID, jobID string) (*application.Application, error) {
	app, ok := r.byPair[pairKey(studentID, jobID)]
	if !ok {
		return nil, application.ErrApplicationNotFound
	}
	return app, nil
}

func (r *stubApplicationRepo) ExistsByStudentAndJob(ctx context.Context, studentID, jobID string) (bool, error) {
	_, ok := r.byPair[pairKey(studentID, jobID)]
	return ok, nil
}

func (r *stubApplicationRepo) GetByStudent(ctx context.Context, studentID string) ([]*application.Application, error) {
	return nil, nil
}

func (r *stubApplicationRepo) GetByJob(ctx context.Context, jobID string) ([]*application.Application, error) {
	return nil, nil
}

func (r *stubApplicationRepo) GetAll(ctx context.Context, opts application.ListOptions) ([]*application.Application, error) {
	return nil, nil
}

func (r *stubApplicationRepo) UpdateStatus(ctx context.Context, app *application.Application) error {
	return nil
}

func (r *stubApplicationRepo) CountByStatus(ctx context.Context) (map[application.Status]int, error) {
	return map[application.Status]int{}, nil
}

func (r *stubApplicationRepo) CountDistinctPlacedStudents(ctx context.Context) (int, error) {
	return 0, nil
}

type stubGrievanceRepo struct {
	grievances []*grievance.Grievance
}

func (r *stubGrievanceRepo) Create(ctx context.Context, g *grievance.Grievance) error {
	r.grievances = append(r.grievances, g)
	return nil
}

func (r *stubGrievanceRepo) GetByID(ctx context.Context, id string) (*grievance.Grievance, error) {
	for _, g := range r.grievances {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, grievance.ErrGrievanceNotFound
}

func (r *stubGrievanceRepo) Update(ctx context.Context, g *grievance.Grievance) error {
	return nil
}

func (r *stubGrievanceRepo) GetByStudent(ctx context.Context, studentID string) ([]*grievance.Grievance, error) {
	return nil, nil
}

func (r *stubGrievanceRepo) GetAll(ctx context.Context, opts grievance.ListOptions) ([]*grievance.Grievance, error) {
	return r.grievances, nil
}

func (r *stubGrievanceRepo) CountOpen(ctx context.Context) (int, error) {
	open := 0
	for _, g := range r.grievances {
		if g.Status != grievance.StatusResolved {
			open++
		}
	}
	return open, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────────────────────

func portalStudent(t *testing.T) *student.Student {
	t.Helper()
	s, err := student.NewStudent(student.NewStudentParams{
		ID:           "stu-1",
		UserID:       "usr-1",
		FirstName:    "Meera",
		CollegeRegNo: "1RV21EC007",
		CollegeEmail: "meera@college.edu",
		Branch:       student.BranchECE,
		UGPercentage: 81.0,
	})
	require.NoError(t, err)
	return s
}

func portalJob(t *testing.T) *job.Job {
	t.Helper()
	j, err := job.NewJob(job.NewJobParams{
		ID:            "job-1",
		Title:         "Graduate Engineer Trainee",
		Company:       "Vertex Labs",
		Deadline:      time.Now().UTC().Add(48 * time.Hour),
		CountsAsOffer: true,
	})
	require.NoError(t, err)
	return j
}

func studentSessionStore() *fakeSessionStore {
	store := newFakeSessionStore()
	store.sessions["tok-student"] = &identity.Session{
		Token:     "tok-student",
		UserID:    "usr-1",
		Role:      identity.RoleStudent,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	store.sessions["tok-admin"] = &identity.Session{
		Token:     "tok-admin",
		UserID:    "usr-admin",
		Role:      identity.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return store
}

func newPortalServer(t *testing.T, deps Dependencies) *Server {
	t.Helper()

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0
	if deps.HealthChecker == nil {
		deps.HealthChecker = handlers.NewNoopHealthChecker()
	}
	return NewServer(cfg, deps)
}

// ─────────────────────────────────────────────────────────────────────────────
// Apply path
// ─────────────────────────────────────────────────────────────────────────────

func TestHandleApply_SucceedsWithOK(t *testing.T) {
	studentRepo := &stubStudentRepo{students: []*student.Student{portalStudent(t)}}
	jobRepo := &stubJobRepo{jobs: []*job.Job{portalJob(t)}}
	appRepo := newStubApplicationRepo()

	server := newPortalServer(t, Dependencies{
		Sessions:          studentSessionStore(),
		GetProfile:        query.NewGetProfileHandler(studentRepo),
		SubmitApplication: command.NewSubmitApplicationHandler(appRepo, jobRepo, studentRepo, &capturingPublisher{}),
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/job-1/apply", nil)
	req.Header.Set("Authorization", "Bearer tok-student")

	server.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.True(t, body.Success)
	data := body.Data.(map[string]interface{})
	assert.NotEmpty(t, data["application_id"])
}

func TestHandleApply_DuplicateIsBadRequest(t *testing.T) {
	studentRepo := &stubStudentRepo{students: []*student.Student{portalStudent(t)}}
	jobRepo := &stubJobRepo{jobs: []*job.Job{portalJob(t)}}
	appRepo := newStubApplicationRepo()

	existing, err := application.NewApplication("app-1", "stu-1", "job-1", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, appRepo.Create(context.Background(), existing))

	server := newPortalServer(t, Dependencies{
		Sessions:          studentSessionStore(),
		GetProfile:        query.NewGetProfileHandler(studentRepo),
		SubmitApplication: command.NewSubmitApplicationHandler(appRepo, jobRepo, studentRepo, &capturingPublisher{}),
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/job-1/apply", nil)
	req.Header.Set("Authorization", "Bearer tok-student")

	server.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "already_exists", decodeBody(t, rec).Error.Code)
}

func TestHandleApply_InactiveJobIsBadRequest(t *testing.T) {
	studentRepo := &stubStudentRepo{students: []*student.Student{portalStudent(t)}}
	posting := portalJob(t)
	posting.Deactivate()
	jobRepo := &stubJobRepo{jobs: []*job.Job{posting}}

	server := newPortalServer(t, Dependencies{
		Sessions:          studentSessionStore(),
		GetProfile:        query.NewGetProfileHandler(studentRepo),
		SubmitApplication: command.NewSubmitApplicationHandler(newStubApplicationRepo(), jobRepo, studentRepo, &capturingPublisher{}),
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs/job-1/apply", nil)
	req.Header.Set("Authorization", "Bearer tok-student")

	server.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "job_inactive", decodeBody(t, rec).Error.Code)
}

// ─────────────────────────────────────────────────────────────────────────────
// Admin grievance queue
// ─────────────────────────────────────────────────────────────────────────────

func TestHandleListGrievances_MetaCarriesOpenCount(t *testing.T) {
	now := time.Now().UTC()
	grievanceRepo := &stubGrievanceRepo{grievances: []*grievance.Grievance{
		{ID: "gr-1", Subject: "Missing offer letter", Description: "No letter after selection", Priority: grievance.PriorityHigh, Status: grievance.StatusSubmitted, CreatedAt: now, UpdatedAt: now},
		{ID: "gr-2", Subject: "Wrong branch on profile", Description: "Listed as CSE, am ECE", Priority: grievance.PriorityMedium, Status: grievance.StatusInProgress, CreatedAt: now, UpdatedAt: now},
		{ID: "gr-3", Subject: "Resolved already", Description: "Was a duplicate", Priority: grievance.PriorityLow, Status: grievance.StatusResolved, CreatedAt: now, UpdatedAt: now},
	}}

	server := newPortalServer(t, Dependencies{
		Sessions:       studentSessionStore(),
		ListGrievances: query.NewListGrievancesHandler(grievanceRepo),
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/grievances", nil)
	req.Header.Set("Authorization", "Bearer tok-admin")

	server.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.True(t, body.Success)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 2, body.Meta.TotalCount)
}
