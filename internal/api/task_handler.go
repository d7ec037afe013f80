package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phrazzld/cloudtask-api/internal/api/shared"
	"github.com/phrazzld/cloudtask-api/internal/domain"
	"github.com/phrazzld/cloudtask-api/internal/service"
	"github.com/phrazzld/cloudtask-api/internal/store"
)

// TaskHandler handles task-related API requests.
type TaskHandler struct {
	taskService service.TaskService
	userStore   store.UserStore
	validator   *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(
	taskService service.TaskService,
	userStore store.UserStore,
) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		userStore:   userStore,
		validator:   validator.New(),
	}
}

// List handles GET /tasks. An optional project_id query parameter scopes
// the listing to one project.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := loadActor(w, r, h.userStore)
	if !ok {
		return
	}

	skip, limit := getPagination(r)

	var projectID *uuid.UUID
	if raw := r.URL.Query().Get("project_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid project_id")
			return
		}
		projectID = &id
	}

	tasks, err := h.taskService.List(r.Context(), actor, projectID, skip, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(tasks))
}

// Create handles POST /tasks. The target project is named in the body.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := loadActor(w, r, h.userStore)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.Create(r.Context(), actor, req.ProjectID, req.Title, req.Description)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(task))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := loadActor(w, r, h.userStore)
	if !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	task, err := h.taskService.Get(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Update handles PUT /tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := loadActor(w, r, h.userStore)
	if !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	patch := &domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		patch.Status = &status
	}

	task, err := h.taskService.Update(r.Context(), actor, id, patch)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := loadActor(w, r, h.userStore)
	if !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if err := h.taskService.Delete(r.Context(), actor, id); err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}
