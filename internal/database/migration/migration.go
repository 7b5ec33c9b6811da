// Package migration creates the schema of the persisted state store.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"lawdesk/internal/database"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = map[database.Dialect][]migrationStep{
	database.Postgres: {
		{
			Name: "create_table_app_state",
			SQL: `CREATE TABLE IF NOT EXISTS app_state (
  key        TEXT        PRIMARY KEY,
  value      TEXT        NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
		},
	},
	database.SQLite: {
		{
			Name: "create_table_app_state",
			SQL: `CREATE TABLE IF NOT EXISTS app_state (
  key        TEXT     PRIMARY KEY,
  value      TEXT     NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`,
		},
	},
}

var sentinel = map[database.Dialect]string{
	database.Postgres: `SELECT to_regclass('public.app_state') IS NOT NULL`,
	database.SQLite:   `SELECT COUNT(*) > 0 FROM sqlite_master WHERE type = 'table' AND name = 'app_state'`,
}

// EnsureMigrated checks for the app_state table and creates the schema if it is missing.
func EnsureMigrated(ctx context.Context, db *sql.DB, dialect database.Dialect, log *slog.Logger) error {
	query, ok := sentinel[dialect]
	if !ok {
		return fmt.Errorf("no migrations for dialect %q", dialect)
	}
	log = log.With("component", "database", "dialect", string(dialect))
	start := time.Now()

	log.Info("db_migration_check", "status", "starting")

	var exists bool
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			"status", "success",
			"detail", "schema already exists, skipping migration",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.Info("db_migration_start", "status", "in_progress")

	for _, step := range steps[dialect] {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.Info("db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
