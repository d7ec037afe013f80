package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/cloudtask-api/internal/authz"
	"github.com/phrazzld/cloudtask-api/internal/domain"
	"github.com/phrazzld/cloudtask-api/internal/platform/logger"
	"github.com/phrazzld/cloudtask-api/internal/store"
)

// ProjectService provides authorization-aware access to projects.
type ProjectService interface {
	// List returns the projects visible to the actor, paginated.
	// Admins see every project; other users only their own. Listing never
	// denies - an actor owning nothing gets an empty result.
	List(ctx context.Context, actor *domain.User, skip, limit int) ([]*domain.Project, error)

	// Create persists a new project owned by the actor.
	Create(ctx context.Context, actor *domain.User, title, description string) (*domain.Project, error)

	// Get returns the project with the given ID.
	// Returns ErrProjectNotFound if absent, ErrForbidden if the actor may
	// not access it.
	Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Project, error)

	// Update applies the patch's present fields to the project and persists
	// it. Absent fields are left untouched.
	Update(ctx context.Context, actor *domain.User, id uuid.UUID, patch *domain.ProjectPatch) (*domain.Project, error)

	// Delete removes the project. Deleting an absent ID returns
	// ErrProjectNotFound on every call.
	Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error
}

// projectService is the store-backed ProjectService implementation.
type projectService struct {
	projects store.ProjectStore
	logger   *slog.Logger
}

var _ ProjectService = (*projectService)(nil)

// NewProjectService creates a ProjectService on top of the given store.
// If logger is nil, a default logger will be used.
func NewProjectService(projects store.ProjectStore, logger *slog.Logger) ProjectService {
	if projects == nil {
		panic("projects store cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &projectService{
		projects: projects,
		logger:   logger.With(slog.String("component", "project_service")),
	}
}

// List implements ProjectService.List
func (s *projectService) List(ctx context.Context, actor *domain.User, skip, limit int) ([]*domain.Project, error) {
	filter := store.ProjectFilter{Skip: skip, Limit: limit}
	if !actor.IsAdmin() {
		// Non-admins are silently filtered to what they own, never denied.
		ownerID := actor.ID
		filter.OwnerID = &ownerID
	}

	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, newAccessError("project", "list", err)
	}
	return projects, nil
}

// Create implements ProjectService.Create
func (s *projectService) Create(ctx context.Context, actor *domain.User, title, description string) (*domain.Project, error) {
	project, err := domain.NewProject(actor.ID, title, description)
	if err != nil {
		return nil, newAccessError("project", "create", err)
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, newAccessError("project", "create", err)
	}

	return project, nil
}

// Get implements ProjectService.Get
func (s *projectService) Get(ctx context.Context, actor *domain.User, id uuid.UUID) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, newAccessError("project", "get", err)
	}

	if err := authz.Authorize(actor, project.OwnerID); err != nil {
		return nil, err
	}

	return project, nil
}

// Update implements ProjectService.Update
func (s *projectService) Update(ctx context.Context, actor *domain.User, id uuid.UUID, patch *domain.ProjectPatch) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, newAccessError("project", "update", err)
	}

	if err := authz.Authorize(actor, project.OwnerID); err != nil {
		return nil, err
	}

	patch.Apply(project)

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, newAccessError("project", "update", err)
	}

	log.Info("project updated",
		slog.String("project_id", project.ID.String()),
		slog.String("actor_id", actor.ID.String()))
	return project, nil
}

// Delete implements ProjectService.Delete
func (s *projectService) Delete(ctx context.Context, actor *domain.User, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return newAccessError("project", "delete", err)
	}

	if err := authz.Authorize(actor, project.OwnerID); err != nil {
		return err
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return newAccessError("project", "delete", err)
	}

	log.Info("project deleted",
		slog.String("project_id", id.String()),
		slog.String("actor_id", actor.ID.String()))
	return nil
}
