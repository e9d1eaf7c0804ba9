package query

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/placement-hub/campus-placement-portal/internal/domain/application"
	"github.com/placement-hub/campus-placement-portal/internal/domain/grievance"
	"github.com/placement-hub/campus-placement-portal/internal/domain/job"
	"github.com/placement-hub/campus-placement-portal/internal/domain/student"
)

// In-memory fakes and fixtures for query handler tests.

func testProfile(t *testing.T, id string) *student.Student {
	t.Helper()
	s, err := student.NewStudent(student.NewStudentParams{
		ID:           id,
		UserID:       "usr-" + id,
		FirstName:    "Arjun",
		CollegeRegNo: "1RV21CS042",
		CollegeEmail: "arjun@college.edu",
		MobileNumber: "9876543210",
		Branch:       student.BranchCSE,
		UGPercentage: 78.5,
	})
	require.NoError(t, err)
	return s
}

func testApplication(t *testing.T, id, studentID, jobID string) *application.Application {
	t.Helper()
	a, err := application.NewApplication(id, studentID, jobID, time.Now().UTC())
	require.NoError(t, err)
	return a
}

func testJob(t *testing.T, id string, minPct float64) *job.Job {
	t.Helper()
	pct := student.Percentage(minPct)
	j, err := job.NewJob(job.NewJobParams{
		ID:              id,
		Title:           "Graduate Software Engineer",
		Company:         "Acme Systems",
		MinUGPercentage: &pct,
		Deadline:        time.Now().UTC().Add(72 * time.Hour),
		CountsAsOffer:   true,
	})
	require.NoError(t, err)
	return j
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
	r.byID[s.ID] = s
	return nil
}

func (r *fakeStudentRepo) GetAll(ctx context.Context, opts student.ListOptions) ([]*student.Student, error) {
	out := make([]*student.Student, 0, len(r.byID))
	for _, s := range r.byID {
		if opts.Branch != "" && s.Branch != opts.Branch {
			continue
		}
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

// fakeJobRepo keeps jobs in insertion order so pagination is deterministic.
type fakeJobRepo struct {
	jobs []*job.Job
}

func newFakeJobRepo(jobs ...*job.Job) *fakeJobRepo {
	return &fakeJobRepo{jobs: jobs}
}

func (r *fakeJobRepo) Create(ctx context.Context, j *job.Job) error {
	r.jobs = append(r.jobs, j)
	return nil
}

func (r *fakeJobRepo) GetByID(ctx context.Context, id string) (*job.Job, error) {
	for _, j := range r.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, job.ErrJobNotFound
}

func (r *fakeJobRepo) Update(ctx context.Context, j *job.Job) error {
	for i, existing := range r.jobs {
		if existing.ID == j.ID {
			r.jobs[i] = j
			return nil
		}
	}
	return job.ErrJobNotFound
}

func (r *fakeJobRepo) Deactivate(ctx context.Context, id string) error {
	for _, j := range r.jobs {
		if j.ID == id {
			j.IsActive = false
			return nil
		}
	}
	return job.ErrJobNotFound
}

func (r *fakeJobRepo) GetAll(ctx context.Context, opts job.ListOptions) ([]*job.Job, error) {
	matched := make([]*job.Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		if opts.OnlyActive && !j.IsActive {
			continue
		}
		if opts.Company != "" && j.Company != opts.Company {
			continue
		}
		matched = append(matched, j)
	}

	if opts.Offset >= len(matched) {
		return nil, nil
	}
	matched = matched[opts.Offset:]
	if opts.Limit > 0 && len(matched) > opts.Limit {
		matched = matched[:opts.Limit]
	}
	return matched, nil
}

func (r *fakeJobRepo) GetActive(ctx context.Context) ([]*job.Job, error) {
	return r.GetAll(ctx, job.ListOptions{OnlyActive: true})
}

func (r *fakeJobRepo) FindExpiredActive(ctx context.Context, now time.Time) ([]*job.Job, error) {
	out := make([]*job.Job, 0)
	for _, j := range r.jobs {
		if j.IsActive && j.IsExpired(now) {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) Count(ctx context.Context) (int, error) {
	return len(r.jobs), nil
}

type fakeApplicationRepo struct {
	apps []*application.Application
}

func newFakeApplicationRepo(apps ...*application.Application) *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: apps}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, a *application.Application) error {
	r.apps = append(r.apps, a)
	return nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id string) (*application.Application, error) {
	for _, a := range r.apps {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, application.ErrApplicationNotFound
}

func (r *fakeApplicationRepo) GetByStudentAndJob(ctx context.Context, studentID, jobID string) (*application.Application, error) {
	for _, a := range r.apps {
		if a.StudentID == studentID && a.JobID == jobID {
			return a, nil
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
	for _, a := range r.apps {
		if a.StudentID == studentID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) GetByJob(ctx context.Context, jobID string) ([]*application.Application, error) {
	out := make([]*application.Application, 0)
	for _, a := range r.apps {
		if a.JobID == jobID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) GetAll(ctx context.Context, opts application.ListOptions) ([]*application.Application, error) {
	out := make([]*application.Application, 0, len(r.apps))
	for _, a := range r.apps {
		if opts.Status != "" && a.Status != opts.Status {
			continue
		}
		if opts.JobID != "" && a.JobID != opts.JobID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, a *application.Application) error {
	return nil
}

func (r *fakeApplicationRepo) CountByStatus(ctx context.Context) (map[application.Status]int, error) {
	counts := make(map[application.Status]int)
	for _, a := range r.apps {
		counts[a.Status]++
	}
	return counts, nil
}

func (r *fakeApplicationRepo) CountDistinctPlacedStudents(ctx context.Context) (int, error) {
	seen := make(map[string]bool)
	for _, a := range r.apps {
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
		if opts.Status != "" && g.Status != opts.Status {
			continue
		}
		if opts.Priority != "" && g.Priority != opts.Priority {
			continue
		}
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

// fakeJobsCache records listing views keyed by view string.
type fakeJobsCache struct {
	views map[string]*ListJobsResult
	hits  int
	sets  int
}

func newFakeJobsCache() *fakeJobsCache {
	return &fakeJobsCache{views: make(map[string]*ListJobsResult)}
}

func (c *fakeJobsCache) GetJobsList(ctx context.Context, view string, dest interface{}) error {
	cached, ok := c.views[view]
	if !ok {
		return errors.New("cache miss")
	}
	out, ok := dest.(*ListJobsResult)
	if !ok {
		return fmt.Errorf("unexpected dest type %T", dest)
	}
	c.hits++
	*out = *cached
	return nil
}

func (c *fakeJobsCache) SetJobsList(ctx context.Context, view string, jobs interface{}) error {
	result, ok := jobs.(*ListJobsResult)
	if !ok {
		return fmt.Errorf("unexpected value type %T", jobs)
	}
	clone := *result
	c.views[view] = &clone
	c.sets++
	return nil
}

// fakeStatsCache holds at most one cached overview.
type fakeStatsCache struct {
	stats *PlacementStatsDTO
	hits  int
	sets  int
}

func (c *fakeStatsCache) GetStats(ctx context.Context, dest interface{}) error {
	if c.stats == nil {
		return errors.New("cache miss")
	}
	out, ok := dest.(*PlacementStatsDTO)
	if !ok {
		return fmt.Errorf("unexpected dest type %T", dest)
	}
	c.hits++
	*out = *c.stats
	return nil
}

func (c *fakeStatsCache) SetStats(ctx context.Context, stats interface{}) error {
	dto, ok := stats.(*PlacementStatsDTO)
	if !ok {
		return fmt.Errorf("unexpected value type %T", stats)
	}
	clone := *dto
	c.stats = &clone
	c.sets++
	return nil
}
