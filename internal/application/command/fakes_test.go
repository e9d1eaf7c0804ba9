package command

import (
	"context"
	"time"

	"github.com/placement-hub/campus-placement-portal/internal/domain/application"
	"github.com/placement-hub/campus-placement-portal/internal/domain/grievance"
	"github.com/placement-hub/campus-placement-portal/internal/domain/identity"
	"github.com/placement-hub/campus-placement-portal/internal/domain/job"
	"github.com/placement-hub/campus-placement-portal/internal/domain/shared"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

// In-memory fakes for handler tests. Only the behavior the handlers
// exercise is implemented; unused methods return zero values.

type fakePublisher struct {
	published []shared.Event
}

func (p *fakePublisher) Publish(event shared.Event) error {
	p.published = append(p.published, event)
	return nil
}

type fakeUserRepo struct {
	byEmail map[string]*identity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byEmail: make(map[string]*identity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *identity.User) error {
	if _, ok := r.byEmail[string(user.Email)]; ok {
		return shared.ErrEmailTaken
	}
	r.byEmail[string(user.Email)] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*identity.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, shared.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := r.byEmail[email]
	return ok, nil
}

type fakeSessionStore struct {
	sessions map[string]*identity.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*identity.Session)}
}

func (s *fakeSessionStore) Save(ctx context.Context, session *identity.Session, ttl time.Duration) error {
	s.sessions[session.Token] = session
	return nil
}

func (s *fakeSessionStore) Get(ctx context.Context, token string) (*identity.Session, error) {
	session, ok := s.sessions[token]
	if !ok {
		return nil, shared.ErrSessionNotFound
	}
	return session, nil
}

func (s *fakeSessionStore) Delete(ctx context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

func (s *fakeSessionStore) DeleteByUser(ctx context.Context, userID string) error {
	for token, session := range s.sessions {
		if session.UserID == userID {
			delete(s.sessions, token)
		}
	}
	return nil
}

type fakeStudentRepo struct {
	byID map[string]*student.Student
}

func newFakeStudentRepo(students ...*student.Student) *fakeStudentRepo {
	r := &fakeStudentRepo{byID: make(map[string]*student.Student)}
	for _, s := range students {
		r.byID[s.ID] = s
	}
	return r
}

func (r *fakeStudentRepo) Create(ctx context.Context, s *student.Student) error {
	if _, ok := r.byID[s.ID]; ok {
		return student.ErrStudentAlreadyExists
	}
	r.byID[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) GetByID(ctx context.Context, id string) (*student.Student, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, student.ErrStudentNotFound
	}
	return s, nil
}

func (r *fakeStudentRepo) GetByUserID(ctx context.Context, userID string) (*student.Student, error) {
	for _, s := range r.byID {
		if s.UserID == userID {
			return s, nil
		}
	}
	return nil, student.ErrStudentNotFound
}

func (r *fakeStudentRepo) GetByRegNo(ctx context.Context, regNo student.RegistrationNumber) (*student.Student, error) {
	for _, s := range r.byID {
		if s.CollegeRegNo == regNo {
			return s, nil
		}
	}
	return nil, student.ErrStudentNotFound
}

func (r *fakeStudentRepo) Update(ctx context.Context, s *student.Student) error {
	if _, ok := r.byID[s.ID]; !ok {
		return student.ErrStudentNotFound
	}
	r.byID[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) GetAll(ctx context.Context, opts student.ListOptions) ([]*student.Student, error) {
	out := make([]*student.Student, 0, len(r.byID))
	for _, s := range r.byID {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeStudentRepo) GetByIDs(ctx context.Context, ids []string) ([]*student.Student, error) {
	out := make([]*student.Student, 0, len(ids))
	for _, id := range ids {
		if s, ok := r.byID[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStudentRepo) Count(ctx context.Context) (int, error) {
	return len(r.byID), nil
}

type fakeJobRepo struct {
	byID map[string]*job.Job
}

func newFakeJobRepo(jobs ...*job.Job) *fakeJobRepo {
	r := &fakeJobRepo{byID: make(map[string]*job.Job)}
	for _, j := range jobs {
		r.byID[j.ID] = j
	}
	return r
}

func (r *fakeJobRepo) Create(ctx context.Context, j *job.Job) error {
	r.byID[j.ID] = j
	return nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id string) (*job.Job, error) {
	j, ok := r.byID[id]
	if !ok {
		return nil, job.ErrJobNotFound
	}
	return j, nil
}

func (r *fakeJobRepo) Update(ctx context.Context, j *job.Job) error {
	if _, ok := r.byID[j.ID]; !ok {
		return job.ErrJobNotFound
	}
	r.byID[j.ID] = j
	return nil
}

func (r *fakeJobRepo) Deactivate(ctx context.Context, id string) error {
	j, ok := r.byID[id]
	if !ok {
		return job.ErrJobNotFound
	}
	j.Deactivate()
	return nil
}

func (r *fakeJobRepo) GetAll(ctx context.Context, opts job.ListOptions) ([]*job.Job, error) {
	out := make([]*job.Job, 0, len(r.byID))
	for _, j := range r.byID {
		out = append(out, j)
	}
	return out, nil
}

func (r *fakeJobRepo) GetActive(ctx context.Context) ([]*job.Job, error) {
	out := make([]*job.Job, 0)
	for _, j := range r.byID {
		if j.IsActive {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) FindExpiredActive(ctx context.Context, now time.Time) ([]*job.Job, error) {
	out := make([]*job.Job, 0)
	for _, j := range r.byID {
		if j.IsActive && j.IsExpired(now) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) Count(ctx context.Context) (int, error) {
	return len(r.byID), nil
}

type fakeApplicationRepo struct {
	byID map[string]*application.Application
}

func newFakeApplicationRepo(apps ...*application.Application) *fakeApplicationRepo {
	r := &fakeApplicationRepo{byID: make(map[string]*application.Application)}
	for _, a := range apps {
		r.byID[a.ID] = a
	}
	return r
}

func (r *fakeApplicationRepo) Create(ctx context.Context, a *application.Application) error {
	for _, existing := range r.byID {
		if existing.StudentID == a.StudentID && existing.JobID == a.JobID {
			return application.ErrDuplicateApplication
		}
	}
	r.byID[a.ID] = a.Clone()
	return nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id string) (*application.Application, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, application.ErrApplicationNotFound
	}
	return a.Clone(), nil
}

func (r *fakeApplicationRepo) GetByStudentAndJob(ctx context.Context, studentID, jobID string) (*application.Application, error) {
	for _, a := range r.byID {
		if a.StudentID == studentID && a.JobID == jobID {
			return a.Clone(), nil
		}
	}
	return nil, application.ErrApplicationNotFound
}

func (r *fakeApplicationRepo) ExistsByStudentAndJob(ctx context.Context, studentID, jobID string) (bool, error) {
	_, err := r.GetByStudentAndJob(ctx, studentID, jobID)
	return err == nil, nil
}

func (r *fakeApplicationRepo) GetByStudent(ctx context.Context, studentID string) ([]*application.Application, error) {
	out := make([]*application.Application, 0)
	for _, a := range r.byID {
		if a.StudentID == studentID {
			out = append(out, a.Clone())
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) GetByJob(ctx context.Context, jobID string) ([]*application.Application, error) {
	out := make([]*application.Application, 0)
	for _, a := range r.byID {
		if a.JobID == jobID {
			out = append(out, a.Clone())
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) GetAll(ctx context.Context, opts application.ListOptions) ([]*application.Application, error) {
	out := make([]*application.Application, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a.Clone())
	}
	return out, nil
}

// UpdateStatus mirrors the CAS behavior of the real repository: the write
// succeeds only when the stored version is one behind the entity's.
func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, a *application.Application) error {
	stored, ok := r.byID[a.ID]
	if !ok {
		return application.ErrApplicationNotFound
	}
	if stored.Version != a.Version {
		return application.ErrStaleVersion
	}
	a.Version++
	r.byID[a.ID] = a.Clone()
	return nil
}

func (r *fakeApplicationRepo) CountByStatus(ctx context.Context) (map[application.Status]int, error) {
	counts := make(map[application.Status]int)
	for _, a := range r.byID {
		counts[a.Status]++
	}
	return counts, nil
}

func (r *fakeApplicationRepo) CountDistinctPlacedStudents(ctx context.Context) (int, error) {
	seen := make(map[string]bool)
	for _, a := range r.byID {
		if a.Status == application.StatusSelected {
			seen[a.StudentID] = true
		}
	}
	return len(seen), nil
}

type fakeGrievanceRepo struct {
	byID map[string]*grievance.Grievance
}

func newFakeGrievanceRepo(grievances ...*grievance.Grievance) *fakeGrievanceRepo {
	r := &fakeGrievanceRepo{byID: make(map[string]*grievance.Grievance)}
	for _, g := range grievances {
		r.byID[g.ID] = g
	}
	return r
}

func (r *fakeGrievanceRepo) Create(ctx context.Context, g *grievance.Grievance) error {
	r.byID[g.ID] = g
	return nil
}

func (r *fakeGrievanceRepo) GetByID(ctx context.Context, id string) (*grievance.Grievance, error) {
	g, ok := r.byID[id]
	if !ok {
		return nil, grievance.ErrGrievanceNotFound
	}
	return g, nil
}

func (r *fakeGrievanceRepo) Update(ctx context.Context, g *grievance.Grievance) error {
	if _, ok := r.byID[g.ID]; !ok {
		return grievance.ErrGrievanceNotFound
	}
	r.byID[g.ID] = g
	return nil
}

func (r *fakeGrievanceRepo) GetByStudent(ctx context.Context, studentID string) ([]*grievance.Grievance, error) {
	out := make([]*grievance.Grievance, 0)
	for _, g := range r.byID {
		if g.StudentID == studentID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeGrievanceRepo) GetAll(ctx context.Context, opts grievance.ListOptions) ([]*grievance.Grievance, error) {
	out := make([]*grievance.Grievance, 0, len(r.byID))
	for _, g := range r.byID {
		out = append(out, g)
	}
	return out, nil
}

func (r *fakeGrievanceRepo) CountOpen(ctx context.Context) (int, error) {
	open := 0
	for _, g := range r.byID {
		if !g.IsResolved() {
			open++
		}
	}
	return open, nil
}

type fakeResumeStore struct {
	uploads map[string][]byte
	err     error
}

func newFakeResumeStore() *fakeResumeStore {
	return &fakeResumeStore{uploads: make(map[string][]byte)}
}

func (s *fakeResumeStore) Upload(ctx context.Context, key string, content []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.uploads[key] = content
	return "https://storage.example.com/resumes/" + key, nil
}
