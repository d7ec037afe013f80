package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/cloudtask-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	FullName string `json:"full_name" validate:"max=255"`
	Password string `json:"password"  validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CreateProjectRequest defines the payload for creating a project.
type CreateProjectRequest struct {
	Title       string `json:"title"       validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateProjectRequest defines the payload for a partial project update.
// Absent fields are left untouched.
type UpdateProjectRequest struct {
	Title       *string `json:"title,omitempty"       validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// ProjectResponse is the JSON representation of a project.
type ProjectResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewProjectResponse converts a domain project to its API representation.
func NewProjectResponse(project *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
	}
}

// NewProjectListResponse converts a slice of domain projects.
func NewProjectListResponse(projects []*domain.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, NewProjectResponse(p))
	}
	return out
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title       string    `json:"title"       validate:"required,min=1,max=255"`
	Description string    `json:"description" validate:"max=2000"`
	ProjectID   uuid.UUID `json:"project_id"  validate:"required"`
}

// UpdateTaskRequest defines the payload for a partial task update.
// Absent fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"       validate:"omitempty,min=1,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Status      *string `json:"status,omitempty"      validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
}

// TaskResponse is the JSON representation of a task.
type TaskResponse struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      domain.TaskStatus `json:"status"`
	ProjectID   uuid.UUID         `json:"project_id"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewTaskResponse converts a domain task to its API representation.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		ProjectID:   task.ProjectID,
		CreatedAt:   task.CreatedAt,
	}
}

// NewTaskListResponse converts a slice of domain tasks.
func NewTaskListResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t))
	}
	return out
}
