package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/seralys/inciwise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categorizedResult(brand, title, category string, flagged bool) model.Result {
	return model.Result{
		Product:    model.Product{Brand: brand, Title: title},
		Category:   category,
		Confidence: 0.8,
		Reasoning:  model.ReasonRuleBased,
		Flagged:    flagged,
	}
}

func TestSaveResultsRoundTrip(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	run := &Run{Source: "products.json"}
	require.NoError(t, store.CreateRun(ctx, run))

	results := []model.Result{
		{
			Product:    model.Product{Brand: "First Aid Beauty", Title: "Ultra Repair Cream"},
			Category:   "Face Moisturizer",
			Confidence: 0.9,
			Reasoning:  model.ReasonNameMatch,
		},
		{
			Product:    model.Product{Brand: "Supergoop!", Title: "Unseen Sunscreen SPF 40"},
			Category:   "Sunscreen",
			Confidence: 0.62,
			Reasoning:  model.ReasonNLP,
			Scores:     map[string]float64{"Sunscreen": 6, "Face Moisturizer": 2},
			Alternatives: model.CategoryScores{
				{Category: "Face Moisturizer", Score: 0.21, Position: 1},
			},
			Flagged: true,
		},
		{
			Product:   model.Product{Title: "Mystery Potion"},
			Category:  model.CategoryError,
			Reasoning: model.ReasonError,
			Err:       "classifier request failed: status 500",
		},
	}
	require.NoError(t, store.SaveResults(ctx, run.ID, results))

	stored, err := store.ResultsByRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, stored, 3)

	for i, r := range stored {
		assert.Equal(t, run.ID, r.RunID)
		assert.Equal(t, i, r.Position)
		assert.NotZero(t, r.ID)
		assert.Empty(t, r.ManualCategory)
		assert.Nil(t, r.ReviewedAt)
	}

	first := stored[0]
	assert.Equal(t, "First Aid Beauty", first.Brand)
	assert.Equal(t, "Ultra Repair Cream", first.Title)
	assert.Equal(t, "Face Moisturizer", first.Category)
	assert.InDelta(t, 0.9, first.Confidence, 1e-9)
	assert.Equal(t, string(model.ReasonNameMatch), first.Reasoning)
	assert.Nil(t, first.Scores)
	assert.Empty(t, first.Alternatives)

	second := stored[1]
	assert.True(t, second.Flagged)
	assert.Equal(t, map[string]float64{"Sunscreen": 6, "Face Moisturizer": 2}, second.Scores)
	require.Len(t, second.Alternatives, 1)
	assert.Equal(t, "Face Moisturizer", second.Alternatives[0].Category)
	assert.InDelta(t, 0.21, second.Alternatives[0].Score, 1e-9)

	third := stored[2]
	assert.Equal(t, model.CategoryError, third.Category)
	assert.Equal(t, "classifier request failed: status 500", third.Error)
	assert.False(t, third.Flagged)
}

func TestSaveResultsReplacesRun(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	run := &Run{Source: "products.json"}
	require.NoError(t, store.CreateRun(ctx, run))

	require.NoError(t, store.SaveResults(ctx, run.ID, createTestResults(3)))
	require.NoError(t, store.SaveResults(ctx, run.ID, createTestResults(2)))

	stored, err := store.ResultsByRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestSaveResultsValidation(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	err := store.SaveResults(ctx, "run-1", nil)
	assert.ErrorIs(t, err, ErrEmptySlice)

	err = store.SaveResults(ctx, "", createTestResults(1))
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestFlaggedResults(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	run := &Run{Source: "products.json"}
	require.NoError(t, store.CreateRun(ctx, run))

	results := []model.Result{
		categorizedResult("CeraVe", "Moisturizing Cream", "Face Moisturizer", false),
		categorizedResult("The Ordinary", "Niacinamide 10% + Zinc 1%", "Face Serum", true),
		categorizedResult("La Roche-Posay", "Anthelios Melt-in Milk", "Sunscreen", true),
	}
	require.NoError(t, store.SaveResults(ctx, run.ID, results))

	flagged, err := store.FlaggedResults(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, flagged, 2)
	assert.Equal(t, "Niacinamide 10% + Zinc 1%", flagged[0].Title)
	assert.Equal(t, "Anthelios Melt-in Milk", flagged[1].Title)
}

func TestSetManualCategory(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	run := &Run{Source: "products.json"}
	require.NoError(t, store.CreateRun(ctx, run))
	require.NoError(t, store.SaveResults(ctx, run.ID, createTestResults(1)))

	stored, err := store.ResultsByRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	require.NoError(t, store.SetManualCategory(ctx, stored[0].ID, "Face Mask"))

	reviewed, err := store.ResultsByRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, reviewed, 1)
	assert.Equal(t, "Face Mask", reviewed[0].ManualCategory)
	assert.Equal(t, "Face Mask", reviewed[0].FinalCategory())
	require.NotNil(t, reviewed[0].ReviewedAt)
	assert.False(t, reviewed[0].ReviewedAt.IsZero())
}

func TestSetManualCategoryNotFound(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	err := store.SetManualCategory(ctx, 9999, "Face Mask")
	assert.ErrorIs(t, err, ErrResultNotFound)

	err = store.SetManualCategory(ctx, 0, "Face Mask")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrResultNotFound))
}

func TestCategoryDistribution(t *testing.T) {
	store, cleanup := createTestStore(t)
	defer cleanup()
	ctx := context.Background()

	run := &Run{Source: "products.json"}
	require.NoError(t, store.CreateRun(ctx, run))

	results := []model.Result{
		categorizedResult("CeraVe", "Moisturizing Cream", "Face Moisturizer", false),
		categorizedResult("Kiehl's", "Ultra Facial Cream", "Face Moisturizer", false),
		categorizedResult("Supergoop!", "Unseen Sunscreen SPF 40", "Sunscreen", false),
		categorizedResult("The Ordinary", "AHA 30% + BHA 2% Peeling Solution", "Face Serum", true),
	}
	require.NoError(t, store.SaveResults(ctx, run.ID, results))

	distribution, err := store.CategoryDistribution(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"Face Moisturizer": 2,
		"Sunscreen":        1,
		"Face Serum":       1,
	}, distribution)

	// A manual override moves the product to its reviewed category.
	stored, err := store.ResultsByRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, stored, 4)
	require.NoError(t, store.SetManualCategory(ctx, stored[3].ID, "Exfoliator"))

	distribution, err = store.CategoryDistribution(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"Face Moisturizer": 2,
		"Sunscreen":        1,
		"Exfoliator":       1,
	}, distribution)
}

func TestFinalCategory(t *testing.T) {
	r := Result{Category: "Face Serum"}
	assert.Equal(t, "Face Serum", r.FinalCategory())

	r.ManualCategory = "Face Mask"
	assert.Equal(t, "Face Mask", r.FinalCategory())
}
