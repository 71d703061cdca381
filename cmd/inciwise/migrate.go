package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/seralys/inciwise/internal/config"
	"github.com/seralys/inciwise/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the run database schema to the latest version.

Other commands migrate automatically when they open the database; this
command exists to prepare the database ahead of time, for example on a
fresh machine.`,
		RunE: runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".local", "share", "inciwise", "inciwise.db")
	}
	dbPath = config.ExpandPath(dbPath)

	slog.Info("🗄️  Running database migrations...", "database", dbPath)

	store, err := storage.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(cmd.Context()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("✅ Database schema is up to date", "version", storage.ExpectedSchemaVersion)

	return nil
}
