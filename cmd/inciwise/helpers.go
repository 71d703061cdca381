// Package main contains the inciwise CLI commands.
package main

import (
	"context"
	"fmt"

	"github.com/seralys/inciwise/internal/config"
	"github.com/seralys/inciwise/internal/rules"
	"github.com/seralys/inciwise/internal/storage"
	"github.com/spf13/viper"
)

// openStore opens the run database with proper path expansion and brings
// the schema up to date.
func openStore(ctx context.Context) (*storage.Store, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/inciwise/inciwise.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewStore(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// loadRulesConfig loads the categorization rules from the configured YAML
// file, falling back to the built-in rule set when none is configured.
func loadRulesConfig() (*rules.Config, error) {
	path := viper.GetString("rules.path")
	if path == "" {
		return rules.Default(), nil
	}

	cfg, err := rules.Load(config.ExpandPath(path))
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveRun fetches the requested run, or the most recent one when runID
// is empty.
func resolveRun(ctx context.Context, store *storage.Store, runID string) (*storage.Run, error) {
	if runID != "" {
		return store.GetRun(ctx, runID)
	}

	run, err := store.LatestRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("no stored runs found; run 'inciwise classify --store' first: %w", err)
	}
	return run, nil
}
