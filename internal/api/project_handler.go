package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/cloudtask-api/internal/api/shared"
	"github.com/phrazzld/cloudtask-api/internal/domain"
	"github.com/phrazzld/cloudtask-api/internal/service"
	"github.com/phrazzld/cloudtask-api/internal/store"
)

// ProjectHandler handles project-related API requests.
type ProjectHandler struct {
	projectService service.ProjectService
	userStore      store.UserStore
	validator      *validator.Validate
}

// NewProjectHandler creates a new ProjectHandler with the given dependencies.
func NewProjectHandler(
	projectService service.ProjectService,
	userStore store.UserStore,
) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		userStore:      userStore,
		validator:      validator.New(),
	}
}

// List handles GET /projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := loadActor(w, r, h.userStore)
	if !ok {
		return
	}

	skip, limit := getPagination(r)

	projects, err := h.projectService.List(r.Context(), actor, skip, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewProjectListResponse(projects))
}

// Create handles POST /projects.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := loadActor(w, r, h.userStore)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	project, err := h.projectService.Create(r.Context(), actor, req.Title, req.Description)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewProjectResponse(project))
}

// Get handles GET /projects/{id}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := loadActor(w, r, h.userStore)
	if !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	project, err := h.projectService.Get(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewProjectResponse(project))
}

// Update handles PUT /projects/{id}.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := loadActor(w, r, h.userStore)
	if !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	var req UpdateProjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	patch := &domain.ProjectPatch{
		Title:       req.Title,
		Description: req.Description,
	}

	project, err := h.projectService.Update(r.Context(), actor, id, patch)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewProjectResponse(project))
}

// Delete handles DELETE /projects/{id}.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := loadActor(w, r, h.userStore)
	if !ok {
		return
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if err := h.projectService.Delete(r.Context(), actor, id); err != nil {
		respondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}
