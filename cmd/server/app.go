package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/cloudtask-api/internal/config"
	"github.com/phrazzld/cloudtask-api/internal/jobs"
	"github.com/phrazzld/cloudtask-api/internal/platform/amqpqueue"
	"github.com/phrazzld/cloudtask-api/internal/platform/postgres"
	"github.com/phrazzld/cloudtask-api/internal/platform/rediscache"
	"github.com/phrazzld/cloudtask-api/internal/service"
	"github.com/phrazzld/cloudtask-api/internal/service/auth"
	"github.com/phrazzld/cloudtask-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore    store.UserStore
	projectStore store.ProjectStore
	taskStore    store.TaskStore

	taskCache *rediscache.RedisTaskCache

	jwtService       auth.JWTService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier

	projectService service.ProjectService
	taskService    service.TaskService

	jobRunner *jobs.Runner
	publisher *amqpqueue.Publisher
}

// newApplication creates an application instance with all dependencies
// initialized. It accepts the core dependencies that must be established
// before application wiring: configuration, logger, and the database
// connection.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	verifier := auth.NewBcryptVerifier()
	app.passwordHasher = verifier
	app.passwordVerifier = verifier

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.projectStore = postgres.NewPostgresProjectStore(db, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	app.taskCache = rediscache.NewRedisTaskCache(cfg.Cache, logger)
	if err := app.taskCache.Ping(ctx); err != nil {
		// The service layer degrades to store-only reads when the cache
		// is down, so an unreachable cache is not fatal at startup.
		logger.Warn("Task cache unreachable, reads fall back to the store",
			"error", err)
	} else {
		logger.Info("Task cache connection established",
			"ttl_seconds", cfg.Cache.TTLSeconds)
	}

	var jobFactory service.NotificationJobFactory
	if cfg.Queue.AMQPURL != "" {
		app.publisher, err = amqpqueue.NewPublisher(cfg.Queue, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize message publisher: %w", err)
		}
		jobFactory = jobs.NewTaskNotificationJobFactory(app.publisher, logger)

		app.jobRunner = jobs.NewRunner(jobs.RunnerConfig{
			WorkerCount: cfg.Queue.WorkerCount,
			QueueSize:   cfg.Queue.BufferSize,
		}, logger)
		app.jobRunner.Start()
		logger.Info("Background job runner started",
			"worker_count", cfg.Queue.WorkerCount,
			"queue_size", cfg.Queue.BufferSize)
	} else {
		logger.Info("No AMQP URL configured, task notifications disabled")
	}

	app.projectService = service.NewProjectService(app.projectStore, logger)

	taskServiceCfg := service.TaskServiceConfig{
		Tasks:      app.taskStore,
		Projects:   app.projectStore,
		Cache:      app.taskCache,
		CacheTTL:   time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		JobFactory: jobFactory,
		Logger:     logger,
	}
	if app.jobRunner != nil {
		taskServiceCfg.Runner = app.jobRunner
	}
	app.taskService = service.NewTaskService(taskServiceCfg)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources. The job
// runner drains first so in-flight notifications still reach the broker
// before the publisher closes.
func (app *application) cleanup() {
	if app.jobRunner != nil {
		app.jobRunner.Stop()
	}

	if app.publisher != nil {
		app.publisher.Close()
	}

	if app.taskCache != nil {
		if err := app.taskCache.Close(); err != nil {
			app.logger.Error("Error closing task cache", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
