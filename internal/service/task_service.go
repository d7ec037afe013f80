package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cloudtask-api/internal/authz"
	"github.com/phrazzld/cloudtask-api/internal/cache"
	"github.com/phrazzld/cloudtask-api/internal/domain"
	"github.com/phrazzld/cloudtask-api/internal/jobs"
	"github.com/phrazzld/cloudtask-api/internal/platform/logger"
	"github.com/phrazzld/cloudtask-api/internal/store"
)

// JobRunner defines the interface for submitting background jobs.
type JobRunner interface {
	// Submit adds a job to the processing queue.
	Submit(ctx context.Context, job jobs.Job) error
}

// NotificationJobFactory creates notification jobs for newly created tasks.
type NotificationJobFactory interface {
	// CreateJob builds a notification job for the given task and its
	// resolved owner.
	CreateJob(created *domain.Task, ownerID uuid.UUID) (jobs.Job, error)
}

// TaskService provides authorization-aware access to tasks, backed by the
// store and fronted by the read-through projection cache for single-task
// lookups.
type TaskService interface {
	// List returns the tasks visible to the actor, paginated. Without a
	// project filter, admins see every task and other users only tasks
	// under projects they own, silently filtered. With a project filter,
	// the project must exist (ErrProjectNotFound) and the actor must be
	// allowed to access it (ErrForbidden). Listing always bypasses the
	// cache.
	List(ctx context.Context, actor *domain.User, projectID *uuid.UUID, skip, limit int) ([]*domain.Task, error)

	// Create persists a new task under the given project.
	// Returns ErrProjectNotFound if the project is absent, ErrForbidden if
	// the actor may not create tasks under it. The cache is not populated
	// here; it fills lazily on first read.
	Create(ctx context.Context, actor *domain.User, projectID uuid.UUID, title, description string) (*domain.Task, error)

	// Get returns the task with the given ID, serving from the cache when
	// warm. Authorization is re-applied on every call - cached or not -
	// against the freshest obtainable owner ID.
	Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Task, error)

	// Update applies the patch's present fields to the task, persists it,
	// and invalidates the cache entry. Absent fields are left untouched.
	Update(ctx context.Context, actor *domain.User, id uuid.UUID, patch *domain.TaskPatch) (*domain.Task, error)

	// Delete removes the task from the store and then invalidates the
	// cache entry. Deleting an absent ID returns ErrTaskNotFound on every
	// call.
	Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error
}

// taskService is the store- and cache-backed TaskService implementation.
type taskService struct {
	tasks      store.TaskStore
	projects   store.ProjectStore
	cache      cache.TaskCache
	cacheTTL   time.Duration
	runner     JobRunner
	jobFactory NotificationJobFactory
	logger     *slog.Logger
}

var _ TaskService = (*taskService)(nil)

// TaskServiceConfig carries the dependencies for NewTaskService.
// Runner and JobFactory are optional: when either is nil, task creation
// skips background notification dispatch.
type TaskServiceConfig struct {
	Tasks      store.TaskStore
	Projects   store.ProjectStore
	Cache      cache.TaskCache
	CacheTTL   time.Duration
	Runner     JobRunner
	JobFactory NotificationJobFactory
	Logger     *slog.Logger
}

// NewTaskService creates a TaskService from the given dependencies.
// The cache is an injected capability so tests can substitute an in-memory
// fake for a live backend.
func NewTaskService(cfg TaskServiceConfig) TaskService {
	if cfg.Tasks == nil {
		panic("tasks store cannot be nil")
	}
	if cfg.Projects == nil {
		panic("projects store cannot be nil")
	}
	if cfg.Cache == nil {
		panic("cache cannot be nil")
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &taskService{
		tasks:      cfg.Tasks,
		projects:   cfg.Projects,
		cache:      cfg.Cache,
		cacheTTL:   ttl,
		runner:     cfg.Runner,
		jobFactory: cfg.JobFactory,
		logger:     log.With(slog.String("component", "task_service")),
	}
}

// List implements TaskService.List
func (s *taskService) List(ctx context.Context, actor *domain.User, projectID *uuid.UUID, skip, limit int) ([]*domain.Task, error) {
	filter := store.TaskFilter{Skip: skip, Limit: limit}

	if projectID != nil {
		// A project-scoped listing names its target, so it gets the full
		// not-found/forbidden treatment instead of silent filtering.
		project, err := s.projects.GetByID(ctx, *projectID)
		if err != nil {
			return nil, newAccessError("task", "list", err)
		}
		if err := authz.Authorize(actor, project.OwnerID); err != nil {
			return nil, err
		}
		filter.ProjectID = projectID
	} else if !actor.IsAdmin() {
		// Non-admins are silently filtered to tasks they transitively own.
		ownerID := actor.ID
		filter.OwnerID = &ownerID
	}

	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, newAccessError("task", "list", err)
	}
	return tasks, nil
}

// Create implements TaskService.Create
func (s *taskService) Create(ctx context.Context, actor *domain.User, projectID uuid.UUID, title, description string) (*domain.Task, error) {
	// The parent project must exist and the actor must be allowed to add
	// tasks under it.
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, newAccessError("task", "create", err)
	}

	if err := authz.Authorize(actor, project.OwnerID); err != nil {
		return nil, err
	}

	created, err := domain.NewTask(projectID, title, description)
	if err != nil {
		return nil, newAccessError("task", "create", err)
	}

	if err := s.tasks.Create(ctx, created); err != nil {
		// The project can vanish between the check above and the insert;
		// the foreign key violation reports it as missing.
		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, ErrProjectNotFound
		}
		return nil, newAccessError("task", "create", err)
	}

	// Fire-and-forget: a queue failure never rolls back the committed
	// store insert.
	s.dispatchNotification(ctx, created, project.OwnerID)

	return created, nil
}

// Get implements TaskService.Get
func (s *taskService) Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	key := cache.TaskKey(id)

	projection, err := s.cache.Get(ctx, key)
	if err != nil {
		// Degrade to a store-only read; the cache being down never fails
		// the operation.
		log.Warn("cache read failed, falling through to store",
			slog.String("key", key),
			slog.String("error", err.Error()))
		projection = nil
	}

	if projection != nil {
		// Cache hit: re-apply the policy against the projection's embedded
		// owner. A warm cache never bypasses authorization.
		if err := authz.Authorize(actor, projection.OwnerID); err != nil {
			return nil, err
		}
		return projection.Task(), nil
	}

	// Cold start: the store is the only authority on existence.
	found, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, newAccessError("task", "get", err)
	}

	project, err := s.projects.GetByID(ctx, found.ProjectID)
	if err != nil {
		return nil, newAccessError("task", "get", err)
	}

	if err := authz.Authorize(actor, project.OwnerID); err != nil {
		return nil, err
	}

	// Populate the cache with the denormalized projection so later reads
	// can re-check authorization without touching the store.
	newProjection := cache.NewTaskProjection(found, project.OwnerID)
	if err := s.cache.Set(ctx, key, newProjection, s.cacheTTL); err != nil {
		log.Warn("cache write failed, continuing without caching",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	return found, nil
}

// Update implements TaskService.Update
func (s *taskService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, patch *domain.TaskPatch) (*domain.Task, error) {
	found, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, newAccessError("task", "update", err)
	}

	project, err := s.projects.GetByID(ctx, found.ProjectID)
	if err != nil {
		return nil, newAccessError("task", "update", err)
	}

	if err := authz.Authorize(actor, project.OwnerID); err != nil {
		return nil, err
	}

	if err := patch.Validate(); err != nil {
		return nil, newAccessError("task", "update", err)
	}
	patch.Apply(found)

	if err := s.tasks.Update(ctx, found); err != nil {
		return nil, newAccessError("task", "update", err)
	}

	// Invalidate only after the store write committed, so a deleted entry
	// is never repopulated from pre-update state by this operation.
	s.invalidate(ctx, id)

	return found, nil
}

// Delete implements TaskService.Delete
func (s *taskService) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	found, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return newAccessError("task", "delete", err)
	}

	project, err := s.projects.GetByID(ctx, found.ProjectID)
	if err != nil {
		return newAccessError("task", "delete", err)
	}

	if err := authz.Authorize(actor, project.OwnerID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, id); err != nil {
		return newAccessError("task", "delete", err)
	}

	// Store delete committed first; only then drop the cache entry so a
	// deleted task is never servable from a cache that outlives the row.
	s.invalidate(ctx, id)

	return nil
}

// invalidate drops the cache entry for a task, logging (but otherwise
// ignoring) backend failures. The entry then lives at most one TTL.
func (s *taskService) invalidate(ctx context.Context, id uuid.UUID) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	key := cache.TaskKey(id)

	if err := s.cache.Delete(ctx, key); err != nil {
		log.Error("cache invalidation failed, entry expires by TTL",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

// dispatchNotification submits a task-created notification job. Failures
// are logged and swallowed: queue trouble must not fail a mutation that
// already committed.
func (s *taskService) dispatchNotification(ctx context.Context, created *domain.Task, ownerID uuid.UUID) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.runner == nil || s.jobFactory == nil {
		return
	}

	job, err := s.jobFactory.CreateJob(created, ownerID)
	if err != nil {
		log.Error("failed to build notification job",
			slog.String("task_id", created.ID.String()),
			slog.String("error", err.Error()))
		return
	}

	if err := s.runner.Submit(ctx, job); err != nil {
		log.Error("failed to enqueue notification job",
			slog.String("task_id", created.ID.String()),
			slog.String("error", err.Error()))
	}
}
