// Package main implements the entry point for the CloudTask API server,
// which manages users' projects and tasks behind an authorization-aware
// service layer with a Redis read-through cache.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/phrazzld/cloudtask-api/internal/config"
	"github.com/phrazzld/cloudtask-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String(
		"migrate",
		"",
		"run a migration command (up, down, status, version) and exit",
	)
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// run loads configuration, sets up logging, and either executes the
// requested migration command or starts the application server.
func run(migrateCmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	if migrateCmd != "" {
		if err := handleMigrations(cfg, migrateCmd); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		os.Exit(0)
	}

	ctx := context.Background()

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		// The application owns cleanup once constructed; before that,
		// the connection is still ours to close.
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Error("Error closing database connection", "error", closeErr)
		}
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
