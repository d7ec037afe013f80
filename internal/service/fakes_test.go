package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/cloudtask-api/internal/cache"
	"github.com/phrazzld/cloudtask-api/internal/domain"
	"github.com/phrazzld/cloudtask-api/internal/jobs"
	"github.com/phrazzld/cloudtask-api/internal/store"
)

// fakeProjectStore is an in-memory store.ProjectStore for service tests.
// Errors can be forced per method via the err fields.
type fakeProjectStore struct {
	mu       sync.Mutex
	projects map[uuid.UUID]domain.Project

	getErr    error
	listErr   error
	createErr error
	updateErr error
	deleteErr error
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[uuid.UUID]domain.Project)}
}

func (f *fakeProjectStore) put(p *domain.Project) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projects[p.ID] = *p
}

func (f *fakeProjectStore) Create(ctx context.Context, project *domain.Project) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.put(project)
	return nil
}

func (f *fakeProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return nil, store.ErrProjectNotFound
	}
	copied := p
	return &copied, nil
}

func (f *fakeProjectStore) List(ctx context.Context, filter store.ProjectFilter) ([]*domain.Project, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	result := []*domain.Project{}
	for _, p := range f.projects {
		if filter.OwnerID != nil && p.OwnerID != *filter.OwnerID {
			continue
		}
		copied := p
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return paginate(result, filter.Skip, filter.Limit), nil
}

func (f *fakeProjectStore) Update(ctx context.Context, project *domain.Project) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[project.ID]; !ok {
		return store.ErrProjectNotFound
	}
	f.projects[project.ID] = *project
	return nil
}

func (f *fakeProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[id]; !ok {
		return store.ErrProjectNotFound
	}
	delete(f.projects, id)
	return nil
}

// fakeTaskStore is an in-memory store.TaskStore for service tests. The
// owner filter is resolved through the companion project store, matching
// the join the real store performs.
type fakeTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]domain.Task

	// projects resolves task ownership for List's owner filter
	projects *fakeProjectStore

	getErr    error
	listErr   error
	createErr error
	updateErr error
	deleteErr error

	getCalls int
}

func newFakeTaskStore(projects *fakeProjectStore) *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uuid.UUID]domain.Task), projects: projects}
}

func (f *fakeTaskStore) put(t *domain.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[t.ID] = *t
}

func (f *fakeTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.projects != nil {
		if _, err := f.projects.GetByID(ctx, task.ProjectID); err != nil {
			return store.ErrInvalidEntity
		}
	}
	f.put(task)
	return nil
}

func (f *fakeTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	f.mu.Lock()
	f.getCalls++
	f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := t
	return &copied, nil
}

func (f *fakeTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	result := []*domain.Task{}
	for _, t := range f.tasks {
		if filter.ProjectID != nil && t.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.OwnerID != nil {
			project, err := f.projects.GetByID(ctx, t.ProjectID)
			if err != nil || project.OwnerID != *filter.OwnerID {
				continue
			}
		}
		copied := t
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return paginate(result, filter.Skip, filter.Limit), nil
}

func (f *fakeTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	f.tasks[task.ID] = *task
	return nil
}

func (f *fakeTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func paginate[T any](items []*T, skip, limit int) []*T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []*T{}
	}
	items = items[skip:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// failingCache simulates an unreachable cache backend: every operation
// returns errCacheDown.
type failingCache struct{}

var errCacheDown = errors.New("cache backend unreachable")

func (failingCache) Get(ctx context.Context, key string) (*cache.TaskProjection, error) {
	return nil, errCacheDown
}

func (failingCache) Set(ctx context.Context, key string, projection *cache.TaskProjection, ttl time.Duration) error {
	return errCacheDown
}

func (failingCache) Delete(ctx context.Context, key string) error {
	return errCacheDown
}

// capturingRunner records submitted jobs.
type capturingRunner struct {
	mu        sync.Mutex
	submitted []jobs.Job
	err       error
}

func (r *capturingRunner) Submit(ctx context.Context, job jobs.Job) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submitted = append(r.submitted, job)
	return nil
}

func (r *capturingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.submitted)
}

// stubJob is a minimal jobs.Job carrying the data the factory saw.
type stubJob struct {
	id      uuid.UUID
	taskID  uuid.UUID
	ownerID uuid.UUID
}

func (j *stubJob) ID() uuid.UUID                     { return j.id }
func (j *stubJob) Type() string                      { return "stub" }
func (j *stubJob) Payload() []byte                   { return nil }
func (j *stubJob) Status() jobs.JobStatus            { return jobs.JobStatusPending }
func (j *stubJob) Execute(ctx context.Context) error { return nil }

// stubJobFactory builds stubJobs, optionally failing.
type stubJobFactory struct {
	err error
}

func (f *stubJobFactory) CreateJob(created *domain.Task, ownerID uuid.UUID) (jobs.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &stubJob{id: uuid.New(), taskID: created.ID, ownerID: ownerID}, nil
}

// Test actor helpers

func adminActor() *domain.User {
	return &domain.User{
		ID:             uuid.New(),
		Email:          "admin@example.com",
		HashedPassword: "x",
		Role:           domain.RoleAdmin,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
}

func userActor() *domain.User {
	return &domain.User{
		ID:             uuid.New(),
		Email:          "user@example.com",
		HashedPassword: "x",
		Role:           domain.RoleUser,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}
}

func mustProject(owner *domain.User, title string) *domain.Project {
	project, err := domain.NewProject(owner.ID, title, "")
	if err != nil {
		panic(err)
	}
	return project
}

func mustTask(project *domain.Project, title string) *domain.Task {
	task, err := domain.NewTask(project.ID, title, "")
	if err != nil {
		panic(err)
	}
	return task
}
