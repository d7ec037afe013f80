package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/cloudtask-api/internal/domain"
)

// TaskFilter narrows a task listing. A nil ProjectID means tasks across
// all projects; a nil OwnerID means no ownership filter. When OwnerID is
// set, tasks are matched through their project's owner.
type TaskFilter struct {
	ProjectID *uuid.UUID
	OwnerID   *uuid.UUID
	Skip      int
	Limit     int
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity (wrapping the foreign key violation) if the
	// referenced project does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns tasks matching the filter, ordered by creation time.
	// Ownership is resolved through the owning project.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// Update persists changes to an existing task's mutable fields
	// (title, description, status). Project and creation time are immutable.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
