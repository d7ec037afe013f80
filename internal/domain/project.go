package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Project
var (
	ErrEmptyProjectID      = errors.New("project ID cannot be empty")
	ErrEmptyProjectOwnerID = errors.New("project owner ID cannot be empty")
	ErrEmptyProjectTitle   = errors.New("project title cannot be empty")
)

// Project represents a container for tasks owned by a single user.
// The owner is set at creation and never changes; every task under the
// project inherits its owner from here.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewProject creates a new Project with the given owner, title and
// description. It generates a new UUID for the project ID and sets the
// creation timestamp.
// Returns an error if validation fails.
func NewProject(ownerID uuid.UUID, title, description string) (*Project, error) {
	project := &Project{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}

	return project, nil
}

// Validate checks if the Project has valid data.
// Returns an error if any field fails validation.
func (p *Project) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProjectID
	}

	if p.OwnerID == uuid.Nil {
		return ErrEmptyProjectOwnerID
	}

	if p.Title == "" {
		return ErrEmptyProjectTitle
	}

	return nil
}
