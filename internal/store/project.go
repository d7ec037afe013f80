package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/cloudtask-api/internal/domain"
)

// ProjectFilter narrows a project listing. A nil OwnerID means no
// ownership filter (all projects).
type ProjectFilter struct {
	OwnerID *uuid.UUID
	Skip    int
	Limit   int
}

// ProjectStore defines the interface for project data persistence.
type ProjectStore interface {
	// Create saves a new project to the store.
	// Returns ErrInvalidEntity (wrapping the foreign key violation) if the
	// owner does not exist.
	Create(ctx context.Context, project *domain.Project) error

	// GetByID retrieves a project by its unique ID.
	// Returns ErrProjectNotFound if the project does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)

	// List returns projects matching the filter, ordered by creation time.
	List(ctx context.Context, filter ProjectFilter) ([]*domain.Project, error)

	// Update persists changes to an existing project's mutable fields
	// (title, description). Owner and creation time are immutable.
	// Returns ErrProjectNotFound if the project does not exist.
	Update(ctx context.Context, project *domain.Project) error

	// Delete removes a project from the store by its ID.
	// Returns ErrProjectNotFound if the project does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
