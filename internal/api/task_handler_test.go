package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/cloudtask-api/internal/domain"
	"github.com/phrazzld/cloudtask-api/internal/service"
)

func newTaskRouter(handler *TaskHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/tasks", handler.List)
	r.Post("/tasks", handler.Create)
	r.Get("/tasks/{id}", handler.Get)
	r.Put("/tasks/{id}", handler.Update)
	r.Delete("/tasks/{id}", handler.Delete)
	return r
}

func TestTaskHandlerList(t *testing.T) {
	actor := userActorForAPI()
	users := newFakeUserStore(actor)

	project := mustProjectForAPI(actor)
	task := mustTaskForAPI(project)

	svc := &fakeTaskService{listResult: []*domain.Task{task}}
	router := newTaskRouter(NewTaskHandler(svc, users))

	t.Run("returns tasks as JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tasks?skip=2&limit=5", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withActor(req, actor))

		assert.Equal(t, http.StatusOK, rec.Code)

		var got []TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, task.ID, got[0].ID)
		assert.Equal(t, 2, svc.lastSkip)
		assert.Equal(t, 5, svc.lastLimit)
		assert.Nil(t, svc.lastProjectID)
	})

	t.Run("project_id query parameter is passed through", func(t *testing.T) {
		url := fmt.Sprintf("/tasks?project_id=%s", project.ID)
		req := httptest.NewRequest(http.MethodGet, url, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withActor(req, actor))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.lastProjectID)
		assert.Equal(t, project.ID, *svc.lastProjectID)
	})

	t.Run("malformed project_id is a bad request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tasks?project_id=notauuid", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withActor(req, actor))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing identity is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestTaskHandlerCreate(t *testing.T) {
	actor := userActorForAPI()
	users := newFakeUserStore(actor)

	project := mustProjectForAPI(actor)
	task := mustTaskForAPI(project)

	t.Run("valid payload creates task", func(t *testing.T) {
		svc := &fakeTaskService{createResult: task}
		router := newTaskRouter(NewTaskHandler(svc, users))

		body, _ := json.Marshal(CreateTaskRequest{
			Title:     task.Title,
			ProjectID: project.ID,
		})
		req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withActor(req, actor))

		assert.Equal(t, http.StatusCreated, rec.Code)

		var got TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, task.ID, got.ID)
	})

	t.Run("missing title fails validation", func(t *testing.T) {
		svc := &fakeTaskService{createResult: task}
		router := newTaskRouter(NewTaskHandler(svc, users))

		body, _ := json.Marshal(CreateTaskRequest{ProjectID: project.ID})
		req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withActor(req, actor))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("forbidden project maps to 403", func(t *testing.T) {
		svc := &fakeTaskService{err: service.ErrForbidden}
		router := newTaskRouter(NewTaskHandler(svc, users))

		body, _ := json.Marshal(CreateTaskRequest{Title: "x", ProjectID: project.ID})
		req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withActor(req, actor))

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("absent project maps to 404", func(t *testing.T) {
		svc := &fakeTaskService{err: service.ErrProjectNotFound}
		router := newTaskRouter(NewTaskHandler(svc, users))

		body, _ := json.Marshal(CreateTaskRequest{Title: "x", ProjectID: project.ID})
		req := httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withActor(req, actor))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTaskHandlerGet(t *testing.T) {
	actor := userActorForAPI()
	users := newFakeUserStore(actor)

	project := mustProjectForAPI(actor)
	task := mustTaskForAPI(project)

	t.Run("found task is returned", func(t *testing.T) {
		svc := &fakeTaskService{getResult: task}
		router := newTaskRouter(NewTaskHandler(svc, users))

		req := httptest.NewRequest(http.MethodGet, "/tasks/"+task.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withActor(req, actor))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed id is a bad request", func(t *testing.T) {
		svc := &fakeTaskService{getResult: task}
		router := newTaskRouter(NewTaskHandler(svc, users))

		req := httptest.NewRequest(http.MethodGet, "/tasks/notauuid", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withActor(req, actor))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found maps to 404", func(t *testing.T) {
		svc := &fakeTaskService{err: service.ErrTaskNotFound}
		router := newTaskRouter(NewTaskHandler(svc, users))

		req := httptest.NewRequest(http.MethodGet, "/tasks/"+task.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withActor(req, actor))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("forbidden maps to 403 and leaks no detail", func(t *testing.T) {
		svc := &fakeTaskService{err: service.ErrForbidden}
		router := newTaskRouter(NewTaskHandler(svc, users))

		req := httptest.NewRequest(http.MethodGet, "/tasks/"+task.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withActor(req, actor))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "Not enough permissions")
	})
}

func TestTaskHandlerUpdate(t *testing.T) {
	actor := userActorForAPI()
	users := newFakeUserStore(actor)

	project := mustProjectForAPI(actor)
	task := mustTaskForAPI(project)

	t.Run("status string converts into the patch", func(t *testing.T) {
		svc := &fakeTaskService{updateResult: task}
		router := newTaskRouter(NewTaskHandler(svc, users))

		status := "DONE"
		body, _ := json.Marshal(UpdateTaskRequest{Status: &status})
		req := httptest.NewRequest(http.MethodPut, "/tasks/"+task.ID.String(), bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withActor(req, actor))

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, svc.lastPatch)
		require.NotNil(t, svc.lastPatch.Status)
		assert.Equal(t, domain.TaskStatusDone, *svc.lastPatch.Status)
		assert.Nil(t, svc.lastPatch.Title)
	})

	t.Run("unknown status fails validation", func(t *testing.T) {
		svc := &fakeTaskService{updateResult: task}
		router := newTaskRouter(NewTaskHandler(svc, users))

		status := "SHIPPED"
		body, _ := json.Marshal(UpdateTaskRequest{Status: &status})
		req := httptest.NewRequest(http.MethodPut, "/tasks/"+task.ID.String(), bytes.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withActor(req, actor))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskHandlerDelete(t *testing.T) {
	actor := userActorForAPI()
	users := newFakeUserStore(actor)

	project := mustProjectForAPI(actor)
	task := mustTaskForAPI(project)

	t.Run("delete succeeds", func(t *testing.T) {
		svc := &fakeTaskService{}
		router := newTaskRouter(NewTaskHandler(svc, users))

		req := httptest.NewRequest(http.MethodDelete, "/tasks/"+task.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withActor(req, actor))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("repeat delete maps to 404", func(t *testing.T) {
		svc := &fakeTaskService{err: service.ErrTaskNotFound}
		router := newTaskRouter(NewTaskHandler(svc, users))

		req := httptest.NewRequest(http.MethodDelete, "/tasks/"+task.ID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, withActor(req, actor))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
