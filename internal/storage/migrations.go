package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version the application expects.
// A database that cannot be migrated to this version is unusable.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS runs (
					id TEXT PRIMARY KEY,
					source TEXT NOT NULL,
					started_at DATETIME NOT NULL,
					completed_at DATETIME,
					total_products INTEGER NOT NULL DEFAULT 0,
					processed INTEGER NOT NULL DEFAULT 0,
					errors INTEGER NOT NULL DEFAULT 0,
					flagged INTEGER NOT NULL DEFAULT 0
				)`,
				`CREATE INDEX idx_runs_started ON runs(started_at)`,

				`CREATE TABLE IF NOT EXISTS results (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					run_id TEXT NOT NULL,
					position INTEGER NOT NULL,
					brand TEXT,
					title TEXT NOT NULL,
					category TEXT NOT NULL,
					confidence REAL NOT NULL DEFAULT 0,
					reasoning TEXT NOT NULL,
					scores TEXT,
					alternatives TEXT,
					flagged BOOLEAN NOT NULL DEFAULT 0,
					error TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					UNIQUE(run_id, position),
					FOREIGN KEY (run_id) REFERENCES runs(id)
				)`,
				`CREATE INDEX idx_results_run ON results(run_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add manual review tracking",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`ALTER TABLE results ADD COLUMN manual_category TEXT NOT NULL DEFAULT ''`,
				`ALTER TABLE results ADD COLUMN reviewed_at DATETIME`,
				`CREATE INDEX idx_results_flagged ON results(run_id, flagged)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Index results by category for distribution queries",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_results_category ON results(run_id, category)`)
			return err
		},
	},
}

// Migrate brings the database schema up to the expected version. Each
// pending migration runs in its own transaction.
func (s *Store) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
