package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/cloudtask-api/internal/domain"
	"github.com/phrazzld/cloudtask-api/internal/platform/logger"
	"github.com/phrazzld/cloudtask-api/internal/store"
)

// PostgresProjectStore implements the store.ProjectStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProjectStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProjectStore creates a new PostgreSQL implementation of the
// ProjectStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProjectStore(db store.DBTX, logger *slog.Logger) *PostgresProjectStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProjectStore{
		db:     db,
		logger: logger.With(slog.String("component", "project_store")),
	}
}

// Ensure PostgresProjectStore implements store.ProjectStore interface
var _ store.ProjectStore = (*PostgresProjectStore)(nil)

// Create implements store.ProjectStore.Create
// Returns store.ErrInvalidEntity if the owner does not exist (foreign key
// violation).
func (s *PostgresProjectStore) Create(ctx context.Context, project *domain.Project) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := project.Validate(); err != nil {
		log.Warn("project validation failed during create",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return err
	}

	query := `
		INSERT INTO projects (id, title, description, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		project.ID,
		project.Title,
		project.Description,
		project.OwnerID,
		project.CreatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during project creation",
				slog.String("project_id", project.ID.String()),
				slog.String("owner_id", project.OwnerID.String()))
			return fmt.Errorf("%w: owner with ID %s not found",
				store.ErrInvalidEntity, project.OwnerID)
		}

		log.Error("failed to create project",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return err
	}

	log.Info("project created successfully",
		slog.String("project_id", project.ID.String()),
		slog.String("owner_id", project.OwnerID.String()))
	return nil
}

// GetByID implements store.ProjectStore.GetByID
// Returns store.ErrProjectNotFound if the project does not exist.
func (s *PostgresProjectStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, description, owner_id, created_at
		FROM projects
		WHERE id = $1
	`

	var project domain.Project
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&project.ID,
		&project.Title,
		&project.Description,
		&project.OwnerID,
		&project.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("project not found", slog.String("project_id", id.String()))
			return nil, store.ErrProjectNotFound
		}
		log.Error("failed to get project by ID",
			slog.String("error", err.Error()),
			slog.String("project_id", id.String()))
		return nil, err
	}

	return &project, nil
}

// List implements store.ProjectStore.List
// Results are ordered by creation time, oldest first.
func (s *PostgresProjectStore) List(ctx context.Context, filter store.ProjectFilter) ([]*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, description, owner_id, created_at
		FROM projects
	`
	args := []any{}

	if filter.OwnerID != nil {
		query += ` WHERE owner_id = $1`
		args = append(args, *filter.OwnerID)
	}

	query += fmt.Sprintf(" ORDER BY created_at, id OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Skip, normalizeLimit(filter.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list projects", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	projects := []*domain.Project{}
	for rows.Next() {
		var project domain.Project
		if err := rows.Scan(
			&project.ID,
			&project.Title,
			&project.Description,
			&project.OwnerID,
			&project.CreatedAt,
		); err != nil {
			log.Error("failed to scan project row", slog.String("error", err.Error()))
			return nil, err
		}
		projects = append(projects, &project)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return projects, nil
}

// Update implements store.ProjectStore.Update
// Only the mutable fields (title, description) are written; the owner and
// creation time never change after creation.
// Returns store.ErrProjectNotFound if the project does not exist.
func (s *PostgresProjectStore) Update(ctx context.Context, project *domain.Project) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := project.Validate(); err != nil {
		log.Warn("project validation failed during update",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return err
	}

	query := `
		UPDATE projects
		SET title = $2, description = $3
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, project.ID, project.Title, project.Description)
	if err != nil {
		log.Error("failed to update project",
			slog.String("error", err.Error()),
			slog.String("project_id", project.ID.String()))
		return err
	}

	if err := CheckRowsAffected(result, "project"); err != nil {
		return store.ErrProjectNotFound
	}

	log.Info("project updated successfully",
		slog.String("project_id", project.ID.String()))
	return nil
}

// Delete implements store.ProjectStore.Delete
// Tasks under the project are removed by the ON DELETE CASCADE constraint.
// Returns store.ErrProjectNotFound if the project does not exist.
func (s *PostgresProjectStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete project",
			slog.String("error", err.Error()),
			slog.String("project_id", id.String()))
		return err
	}

	if err := CheckRowsAffected(result, "project"); err != nil {
		return store.ErrProjectNotFound
	}

	log.Info("project deleted successfully", slog.String("project_id", id.String()))
	return nil
}

// normalizeLimit caps pagination limits to a sane window. A non-positive
// limit falls back to the default page size.
func normalizeLimit(limit int) int {
	const defaultLimit = 100
	if limit <= 0 || limit > defaultLimit {
		return defaultLimit
	}
	return limit
}
