package main

import (
	"testing"
	"time"

	"github.com/seralys/inciwise/internal/model"
	"github.com/seralys/inciwise/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfidenceFloors(t *testing.T) map[string]float64 {
	t.Helper()

	set, err := model.NewRuleSet(
		model.CategoryRule{Name: "Face Serum", Weight: 1.2, MinConfidence: 0.4},
		model.CategoryRule{Name: "Face Moisturizer", Weight: 1.0, MinConfidence: 0.3},
	)
	require.NoError(t, err)

	return minConfidenceByCategory(set)
}

func TestMinConfidenceByCategory(t *testing.T) {
	floors := testConfidenceFloors(t)

	assert.Equal(t, map[string]float64{
		"Face Serum":       0.4,
		"Face Moisturizer": 0.3,
	}, floors)
}

func TestNeedsReview(t *testing.T) {
	floors := testConfidenceFloors(t)

	tests := []struct {
		name string
		row  storage.Result
		want bool
	}{
		{
			name: "flagged disagreement",
			row:  storage.Result{Category: "Face Moisturizer", Confidence: 0.8, Flagged: true},
			want: true,
		},
		{
			name: "uncategorized",
			row:  storage.Result{Category: model.CategoryUncategorized},
			want: true,
		},
		{
			name: "below confidence floor",
			row:  storage.Result{Category: "Face Serum", Confidence: 0.35},
			want: true,
		},
		{
			name: "exactly at floor",
			row:  storage.Result{Category: "Face Serum", Confidence: 0.4},
			want: false,
		},
		{
			name: "confident prediction",
			row:  storage.Result{Category: "Face Moisturizer", Confidence: 0.9},
			want: false,
		},
		{
			name: "category without a configured floor",
			row:  storage.Result{Category: "Lip Balm", Confidence: 0.05},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, needsReview(tt.row, floors))
		})
	}
}

func TestReviewQueue(t *testing.T) {
	floors := testConfidenceFloors(t)
	reviewed := time.Now()

	rows := []storage.Result{
		{ID: 1, Category: "Face Serum", Confidence: 0.9},
		{ID: 2, Category: "Face Serum", Confidence: 0.35},
		{ID: 3, Category: "Face Moisturizer", Confidence: 0.5, Flagged: true},
		{ID: 4, Category: model.CategoryUncategorized},
		{ID: 5, Category: model.CategoryError, Error: "classifier request failed"},
		{ID: 6, Category: "Face Moisturizer", Confidence: 0.2, ManualCategory: "Face Mask", ReviewedAt: &reviewed},
	}

	queue := reviewQueue(rows, floors, false)
	assert.Equal(t, []int64{2, 3, 4}, queueIDs(queue), "default queue holds unreviewed problem rows")

	all := reviewQueue(rows, floors, true)
	assert.Equal(t, []int64{1, 2, 3, 4, 6}, queueIDs(all), "all mode still excludes error rows")
}

func TestReviewQueueEmpty(t *testing.T) {
	floors := testConfidenceFloors(t)

	rows := []storage.Result{
		{ID: 1, Category: "Face Serum", Confidence: 0.95},
		{ID: 2, Category: "Face Moisturizer", Confidence: 0.6},
	}

	assert.Empty(t, reviewQueue(rows, floors, false))
}

func queueIDs(queue []storage.Result) []int64 {
	ids := make([]int64, len(queue))
	for i, row := range queue {
		ids[i] = row.ID
	}
	return ids
}
