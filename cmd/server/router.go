package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phrazzld/cloudtask-api/internal/api"
	apiMiddleware "github.com/phrazzld/cloudtask-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.MetricsMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordHasher,
		app.passwordVerifier,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	projectHandler := api.NewProjectHandler(app.projectService, app.userStore)
	taskHandler := api.NewTaskHandler(app.taskService, app.userStore)

	r.Route("/api/v1", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/projects", projectHandler.List)
			r.Post("/projects", projectHandler.Create)
			r.Get("/projects/{id}", projectHandler.Get)
			r.Put("/projects/{id}", projectHandler.Update)
			r.Delete("/projects/{id}", projectHandler.Delete)

			r.Get("/tasks", taskHandler.List)
			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Put("/tasks/{id}", taskHandler.Update)
			r.Delete("/tasks/{id}", taskHandler.Delete)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
