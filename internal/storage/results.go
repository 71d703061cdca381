package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/seralys/inciwise/internal/model"
)

// Result is one stored categorization outcome. ManualCategory stays empty
// until a reviewer confirms or overrides the prediction.
type Result struct {
	ReviewedAt     *time.Time
	Scores         map[string]float64
	RunID          string
	Brand          string
	Title          string
	Category       string
	Reasoning      string
	ManualCategory string
	Error          string
	Alternatives   model.CategoryScores
	ID             int64
	Position       int
	Confidence     float64
	Flagged        bool
}

// FinalCategory returns the manual override when present, the prediction
// otherwise.
func (r *Result) FinalCategory() string {
	if r.ManualCategory != "" {
		return r.ManualCategory
	}
	return r.Category
}

// NewResult converts an engine result for storage under a run. Position is
// the product's index in the input dataset.
func NewResult(runID string, position int, res model.Result) Result {
	return Result{
		RunID:        runID,
		Position:     position,
		Brand:        res.Product.Brand,
		Title:        res.Product.Title,
		Category:     res.Category,
		Confidence:   res.Confidence,
		Reasoning:    string(res.Reasoning),
		Scores:       res.Scores,
		Alternatives: res.Alternatives,
		Flagged:      res.Flagged,
		Error:        res.Err,
	}
}

const resultColumns = `id, run_id, position, brand, title, category, confidence,
	reasoning, scores, alternatives, flagged, manual_category, reviewed_at, error`

// SaveResults stores a batch of results under a run in input order,
// replacing any rows previously stored for that run.
func (s *Store) SaveResults(ctx context.Context, runID string, results []model.Result) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(runID, "runID"); err != nil {
		return err
	}
	if len(results) == 0 {
		return fmt.Errorf("%w: results", ErrEmptySlice)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM results WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("failed to clear previous results: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO results (
			run_id, position, brand, title, category, confidence,
			reasoning, scores, alternatives, flagged, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range results {
		row := NewResult(runID, i, results[i])

		scores, err := marshalJSONColumn(row.Scores, len(row.Scores))
		if err != nil {
			return fmt.Errorf("failed to encode scores for result %d: %w", i, err)
		}
		alternatives, err := marshalJSONColumn(row.Alternatives, len(row.Alternatives))
		if err != nil {
			return fmt.Errorf("failed to encode alternatives for result %d: %w", i, err)
		}

		if _, err := stmt.ExecContext(ctx,
			row.RunID, row.Position, row.Brand, row.Title, row.Category,
			row.Confidence, row.Reasoning, scores, alternatives, row.Flagged, row.Error,
		); err != nil {
			return fmt.Errorf("failed to save result %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// ResultsByRun retrieves all results of a run in input order.
func (s *Store) ResultsByRun(ctx context.Context, runID string) ([]Result, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(runID, "runID"); err != nil {
		return nil, err
	}

	return s.queryResults(ctx, s.db, `
		SELECT `+resultColumns+`
		FROM results
		WHERE run_id = ?
		ORDER BY position
	`, runID)
}

// FlaggedResults retrieves the results of a run that the disagreement pass
// flagged for review, in input order.
func (s *Store) FlaggedResults(ctx context.Context, runID string) ([]Result, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(runID, "runID"); err != nil {
		return nil, err
	}

	return s.queryResults(ctx, s.db, `
		SELECT `+resultColumns+`
		FROM results
		WHERE run_id = ? AND flagged = 1
		ORDER BY position
	`, runID)
}

// SetManualCategory records a reviewer's category for a stored result and
// stamps the review time. Recording the predicted category confirms it.
func (s *Store) SetManualCategory(ctx context.Context, id int64, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if id <= 0 {
		return fmt.Errorf("invalid result id: %d", id)
	}
	if err := validateString(category, "category"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE results
		SET manual_category = ?, reviewed_at = ?
		WHERE id = ?
	`, category, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set manual category: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check manual category update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %d", ErrResultNotFound, id)
	}

	return nil
}

// CategoryDistribution tallies a run's results by their effective category,
// honoring manual overrides.
func (s *Store) CategoryDistribution(ctx context.Context, runID string) (map[string]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(runID, "runID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT CASE WHEN manual_category != '' THEN manual_category ELSE category END AS effective,
		       COUNT(*)
		FROM results
		WHERE run_id = ?
		GROUP BY effective
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query category distribution: %w", err)
	}
	defer func() { _ = rows.Close() }()

	distribution := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category distribution: %w", err)
		}
		distribution[category] = count
	}

	return distribution, rows.Err()
}

func (s *Store) queryResults(ctx context.Context, q queryable, query string, args ...any) ([]Result, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []Result
	for rows.Next() {
		var r Result
		var brand, scores, alternatives, manual, errMsg sql.NullString
		var reviewed sql.NullTime

		if err := rows.Scan(
			&r.ID,
			&r.RunID,
			&r.Position,
			&brand,
			&r.Title,
			&r.Category,
			&r.Confidence,
			&r.Reasoning,
			&scores,
			&alternatives,
			&r.Flagged,
			&manual,
			&reviewed,
			&errMsg,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}

		r.Brand = brand.String
		r.ManualCategory = manual.String
		r.Error = errMsg.String
		if reviewed.Valid {
			r.ReviewedAt = &reviewed.Time
		}

		if scores.Valid && scores.String != "" {
			if err := json.Unmarshal([]byte(scores.String), &r.Scores); err != nil {
				return nil, fmt.Errorf("failed to parse result scores: %w", err)
			}
		}
		if alternatives.Valid && alternatives.String != "" {
			if err := json.Unmarshal([]byte(alternatives.String), &r.Alternatives); err != nil {
				return nil, fmt.Errorf("failed to parse result alternatives: %w", err)
			}
		}

		results = append(results, r)
	}

	return results, rows.Err()
}

// marshalJSONColumn encodes a value for a nullable TEXT column; empty
// collections store as the empty string.
func marshalJSONColumn(v any, n int) (string, error) {
	if n == 0 {
		return "", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
