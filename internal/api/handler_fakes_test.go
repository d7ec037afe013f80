package api

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/phrazzld/cloudtask-api/internal/api/shared"
	"github.com/phrazzld/cloudtask-api/internal/domain"
	"github.com/phrazzld/cloudtask-api/internal/service"
	"github.com/phrazzld/cloudtask-api/internal/store"
)

// fakeUserStore is an in-memory store.UserStore for handler tests.
type fakeUserStore struct {
	byID    map[uuid.UUID]*domain.User
	byEmail map[string]*domain.User
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	f := &fakeUserStore{
		byID:    make(map[uuid.UUID]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
	for _, u := range users {
		f.add(u)
	}
	return f
}

func (f *fakeUserStore) add(u *domain.User) {
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return store.ErrEmailExists
	}
	f.add(user)
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

// fakeProjectService returns canned results per method.
type fakeProjectService struct {
	listResult   []*domain.Project
	getResult    *domain.Project
	createResult *domain.Project
	updateResult *domain.Project
	err          error
}

var _ service.ProjectService = (*fakeProjectService)(nil)

func (f *fakeProjectService) List(ctx context.Context, actor *domain.User, skip, limit int) ([]*domain.Project, error) {
	return f.listResult, f.err
}

func (f *fakeProjectService) Create(ctx context.Context, actor *domain.User, title, description string) (*domain.Project, error) {
	return f.createResult, f.err
}

func (f *fakeProjectService) Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Project, error) {
	return f.getResult, f.err
}

func (f *fakeProjectService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, patch *domain.ProjectPatch) (*domain.Project, error) {
	return f.updateResult, f.err
}

func (f *fakeProjectService) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	return f.err
}

// fakeTaskService returns canned results per method and records the
// arguments the handler passed through.
type fakeTaskService struct {
	listResult   []*domain.Task
	getResult    *domain.Task
	createResult *domain.Task
	updateResult *domain.Task
	err          error

	lastProjectID *uuid.UUID
	lastPatch     *domain.TaskPatch
	lastSkip      int
	lastLimit     int
}

var _ service.TaskService = (*fakeTaskService)(nil)

func (f *fakeTaskService) List(ctx context.Context, actor *domain.User, projectID *uuid.UUID, skip, limit int) ([]*domain.Task, error) {
	f.lastProjectID = projectID
	f.lastSkip = skip
	f.lastLimit = limit
	return f.listResult, f.err
}

func (f *fakeTaskService) Create(ctx context.Context, actor *domain.User, projectID uuid.UUID, title, description string) (*domain.Task, error) {
	return f.createResult, f.err
}

func (f *fakeTaskService) Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Task, error) {
	return f.getResult, f.err
}

func (f *fakeTaskService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, patch *domain.TaskPatch) (*domain.Task, error) {
	f.lastPatch = patch
	return f.updateResult, f.err
}

func (f *fakeTaskService) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	return f.err
}

// userActorForAPI builds an active regular user for handler tests.
func userActorForAPI() *domain.User {
	return &domain.User{
		ID:             uuid.New(),
		Email:          "user@example.com",
		HashedPassword: "x",
		Role:           domain.RoleUser,
		IsActive:       true,
	}
}

func mustProjectForAPI(owner *domain.User) *domain.Project {
	project, err := domain.NewProject(owner.ID, "Test project", "")
	if err != nil {
		panic(err)
	}
	return project
}

func mustTaskForAPI(project *domain.Project) *domain.Task {
	task, err := domain.NewTask(project.ID, "Test task", "")
	if err != nil {
		panic(err)
	}
	return task
}

// withActor attaches the user's ID to the request context, as the auth
// middleware would after validating a token.
func withActor(r *http.Request, user *domain.User) *http.Request {
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, user.ID)
	return r.WithContext(ctx)
}
