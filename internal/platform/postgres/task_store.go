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

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
// Returns store.ErrInvalidEntity if the referenced project does not exist
// (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, title, description, status, project_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.ProjectID,
		task.CreatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("task_id", task.ID.String()),
				slog.String("project_id", task.ProjectID.String()))
			return fmt.Errorf("%w: project with ID %s not found",
				store.ErrInvalidEntity, task.ProjectID)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("project_id", task.ProjectID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, description, status, project_id, created_at
		FROM tasks
		WHERE id = $1
	`

	var task domain.Task
	var status string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&status,
		&task.ProjectID,
		&task.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	return &task, nil
}

// List implements store.TaskStore.List
// The owner filter joins through projects: a task is owned by its project's
// owner. Results are ordered by creation time, oldest first.
func (s *PostgresTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT t.id, t.title, t.description, t.status, t.project_id, t.created_at
		FROM tasks t
	`
	args := []any{}
	where := ""

	if filter.OwnerID != nil {
		query += ` JOIN projects p ON p.id = t.project_id`
		args = append(args, *filter.OwnerID)
		where = fmt.Sprintf(" WHERE p.owner_id = $%d", len(args))
	}

	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		if where == "" {
			where = fmt.Sprintf(" WHERE t.project_id = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND t.project_id = $%d", len(args))
		}
	}

	query += where
	query += fmt.Sprintf(" ORDER BY t.created_at, t.id OFFSET $%d LIMIT $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Skip, normalizeLimit(filter.Limit))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	tasks := []*domain.Task{}
	for rows.Next() {
		var task domain.Task
		var status string
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&status,
			&task.ProjectID,
			&task.CreatedAt,
		); err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		task.Status = domain.TaskStatus(status)
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update implements store.TaskStore.Update
// Only the mutable fields (title, description, status) are written; the
// project reference and creation time never change after creation.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $2, description = $3, status = $4
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query, task.ID, task.Title, task.Description, task.Status)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// Delete implements store.TaskStore.Delete
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		return store.ErrTaskNotFound
	}

	log.Info("task deleted successfully", slog.String("task_id", id.String()))
	return nil
}
