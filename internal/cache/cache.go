// Package cache defines the read-through cache used for single-task
// lookups. Entries are denormalized projections of a task plus the owning
// project's owner ID, so authorization can be re-checked on every hit
// without touching the store.
//
// The cache is never authoritative for existence: a store lookup is the
// only valid way to confirm a task exists when starting a new entry.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cloudtask-api/internal/domain"
)

// DefaultTTL bounds the staleness window of a cached projection.
const DefaultTTL = 300 * time.Second

// TaskKey composes the deterministic cache key for a task ID.
func TaskKey(id uuid.UUID) string {
	return fmt.Sprintf("task:%s", id)
}

// TaskProjection is the denormalized cached representation of a task.
// OwnerID is copied from the task's project at the time of caching and is
// what the authorization policy is re-applied against on cache hits.
type TaskProjection struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      domain.TaskStatus `json:"status"`
	ProjectID   uuid.UUID         `json:"project_id"`
	CreatedAt   time.Time         `json:"created_at"`
	OwnerID     uuid.UUID         `json:"owner_id"`
}

// NewTaskProjection builds a projection from a task and its resolved owner.
func NewTaskProjection(task *domain.Task, ownerID uuid.UUID) *TaskProjection {
	return &TaskProjection{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		ProjectID:   task.ProjectID,
		CreatedAt:   task.CreatedAt,
		OwnerID:     ownerID,
	}
}

// Task reconstructs the domain task from the projection.
func (p *TaskProjection) Task() *domain.Task {
	return &domain.Task{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		ProjectID:   p.ProjectID,
		CreatedAt:   p.CreatedAt,
	}
}

// TaskCache is the key-value capability injected into the task service.
//
// Get returns (nil, nil) for absent or expired keys; callers treat that
// identically to a cold start. Implementations return an error only when
// the backend itself fails; the service degrades to store-only reads in
// that case and never fails an operation because the cache is down.
type TaskCache interface {
	// Get retrieves the projection stored under key, or nil if absent.
	Get(ctx context.Context, key string) (*TaskProjection, error)

	// Set stores the projection under key with the given TTL.
	// A non-positive ttl falls back to DefaultTTL.
	Set(ctx context.Context, key string, projection *TaskProjection, ttl time.Duration) error

	// Delete removes the entry under key. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error
}
