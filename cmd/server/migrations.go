package main

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/phrazzld/cloudtask-api/internal/config"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

const migrationsDir = "migrations"

// slogGooseLogger adapts goose's logger interface to slog so migration
// output lands in the same structured stream as the rest of the server.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// handleMigrations executes the requested migration command against the
// configured database using the embedded migration files.
func handleMigrations(cfg *config.Config, command string) error {
	if cfg.Database.URL == "" {
		return fmt.Errorf("database URL is empty: check your configuration")
	}

	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(embeddedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
		}
	}()

	start := time.Now()
	slog.Info("Starting migration operation", "command", command)

	switch command {
	case "up":
		err = goose.Up(db, migrationsDir)
	case "down":
		err = goose.Down(db, migrationsDir)
	case "status":
		err = goose.Status(db, migrationsDir)
	case "version":
		err = goose.Version(db, migrationsDir)
	default:
		return fmt.Errorf("unknown migration command: %q (want up, down, status, or version)", command)
	}
	if err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	slog.Info("Migration operation completed",
		"command", command,
		"duration", time.Since(start).String())
	return nil
}
