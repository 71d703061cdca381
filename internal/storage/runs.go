package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/seralys/inciwise/internal/model"
)

// Run is one batch categorization pass over a dataset.
type Run struct {
	StartedAt     time.Time
	CompletedAt   *time.Time
	ID            string
	Source        string
	TotalProducts int
	Processed     int
	Errors        int
	Flagged       int
}

// Completed reports whether the run has finished.
func (r *Run) Completed() bool {
	return r.CompletedAt != nil
}

// CreateRun inserts a new run. An empty ID is replaced with a fresh ULID
// and a zero start time with the current time; both are written back to run.
func (s *Store) CreateRun(ctx context.Context, run *Run) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	if run.ID == "" {
		run.ID = ulid.Make().String()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, source, started_at, total_products)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.Source, run.StartedAt, run.TotalProducts)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// CompleteRun marks a run as finished and records its batch totals.
func (s *Store) CompleteRun(ctx context.Context, id string, insights model.Insights) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET completed_at = ?, total_products = ?, processed = ?, errors = ?, flagged = ?
		WHERE id = ?
	`, time.Now(), insights.TotalProducts, insights.Processed, insights.Errors, insights.Flagged, id)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check completed run: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}

	return nil
}

// GetRun retrieves a run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	run, err := s.scanRun(ctx, s.db, `
		SELECT id, source, started_at, completed_at,
		       total_products, processed, errors, flagged
		FROM runs
		WHERE id = ?
	`, id)
	if errors.Is(err, ErrRunNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return run, err
}

// LatestRun retrieves the most recently started run.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	return s.scanRun(ctx, s.db, `
		SELECT id, source, started_at, completed_at,
		       total_products, processed, errors, flagged
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`)
}

func (s *Store) scanRun(ctx context.Context, q queryable, query string, args ...any) (*Run, error) {
	var run Run
	var completed sql.NullTime

	err := q.QueryRowContext(ctx, query, args...).Scan(
		&run.ID,
		&run.Source,
		&run.StartedAt,
		&completed,
		&run.TotalProducts,
		&run.Processed,
		&run.Errors,
		&run.Flagged,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	if completed.Valid {
		run.CompletedAt = &completed.Time
	}

	return &run, nil
}
