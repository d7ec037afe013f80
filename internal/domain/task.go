package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the progress state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID        = errors.New("task ID cannot be empty")
	ErrEmptyTaskProjectID = errors.New("task project ID cannot be empty")
	ErrEmptyTaskTitle     = errors.New("task title cannot be empty")
)

// Task represents a unit of work inside a project. A task never stores
// its own owner; ownership is always resolved through its Project.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	ProjectID   uuid.UUID  `json:"project_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewTask creates a new Task under the given project with the given title
// and description. It generates a new UUID for the task ID, sets the status
// to TODO and sets the creation timestamp.
// Returns an error if validation fails.
func NewTask(projectID uuid.UUID, title, description string) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      TaskStatusTodo,
		ProjectID:   projectID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.ProjectID == uuid.Nil {
		return ErrEmptyTaskProjectID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if !IsValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	return nil
}

// IsValidTaskStatus checks if the given status is a valid TaskStatus.
func IsValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	default:
		return false
	}
}

// ProjectPatch describes a partial update to a project. Nil fields are
// left untouched on the target record.
type ProjectPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Apply copies the patch's present fields onto the project.
func (p *ProjectPatch) Apply(project *Project) {
	if p.Title != nil {
		project.Title = *p.Title
	}
	if p.Description != nil {
		project.Description = *p.Description
	}
}

// TaskPatch describes a partial update to a task. Nil fields are left
// untouched on the target record.
type TaskPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
}

// Apply copies the patch's present fields onto the task.
func (p *TaskPatch) Apply(task *Task) {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
}

// Validate checks that any status present in the patch is a valid
// TaskStatus.
func (p *TaskPatch) Validate() error {
	if p.Status != nil && !IsValidTaskStatus(*p.Status) {
		return ErrInvalidTaskStatus
	}
	return nil
}
