package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/seralys/inciwise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResultRecord(t *testing.T) {
	result := model.Result{
		Product:    model.Product{Brand: "Acme", Title: "Glow Serum"},
		Category:   "Face Serum",
		Confidence: 0.3333333,
		Reasoning:  model.ReasonRuleBased,
		Scores: map[string]float64{
			"Face Serum":       3.3333333,
			"Face Moisturizer": 1.25,
		},
		Alternatives: model.CategoryScores{
			{Category: "Face Moisturizer", Score: 1.25, Position: 0},
		},
		Analysis: model.IngredientAnalysis{
			Total: 7,
			Functions: []string{
				"antioxidant", "soothing", "moisturizer/humectant",
				"emollient", "preservative", "perfuming",
			},
			BeneficialCount: 2,
			ConcernCount:    1,
		},
		Flagged: true,
	}

	rec := NewResultRecord(result)

	assert.Equal(t, "Acme", rec.ProductBrand)
	assert.Equal(t, "Glow Serum", rec.ProductTitle)
	assert.Equal(t, "Face Serum", rec.PredictedCategory)
	assert.Nil(t, rec.ManualCategory)
	assert.InDelta(t, 0.333, rec.Confidence, 1e-9)
	assert.Equal(t, "RULE_BASED", rec.Reasoning)
	assert.InDelta(t, 3.333, rec.CategoryScores["Face Serum"], 1e-9)
	assert.InDelta(t, 1.25, rec.CategoryScores["Face Moisturizer"], 1e-9)
	assert.Equal(t, 7, rec.TotalIngredients)
	// Capped at five, first-seen order.
	assert.Equal(t, []string{
		"antioxidant", "soothing", "moisturizer/humectant", "emollient", "preservative",
	}, rec.KeyFunctions)
	assert.Equal(t, 2, rec.BeneficialIngredients)
	assert.Equal(t, 1, rec.ConcernIngredients)
	require.Len(t, rec.AlternativeCategories, 1)
	assert.Equal(t, AlternativePair{Category: "Face Moisturizer", Score: 1.25}, rec.AlternativeCategories[0])
	assert.True(t, rec.FlaggedForReview)
	assert.Empty(t, rec.Error)
}

func TestNewResultRecordError(t *testing.T) {
	result := model.Result{
		Product:   model.Product{Brand: "Acme", Title: "Mystery Potion"},
		Category:  model.CategoryError,
		Reasoning: model.ReasonError,
		Err:       "classifier exploded",
	}

	rec := NewResultRecord(result)

	assert.Equal(t, model.CategoryError, rec.PredictedCategory)
	assert.Zero(t, rec.Confidence)
	assert.Equal(t, "classifier exploded", rec.Error)
	assert.Nil(t, rec.CategoryScores)
	assert.Empty(t, rec.AlternativeCategories)
}

func TestAlternativePairJSON(t *testing.T) {
	data, err := json.Marshal(AlternativePair{Category: "Face Mask", Score: 2.9})
	require.NoError(t, err)
	assert.JSONEq(t, `["Face Mask", 2.9]`, string(data))

	var pair AlternativePair
	require.NoError(t, json.Unmarshal([]byte(`["Conditioner", 1.5]`), &pair))
	assert.Equal(t, AlternativePair{Category: "Conditioner", Score: 1.5}, pair)

	assert.Error(t, json.Unmarshal([]byte(`["only one"]`), &pair))
	assert.Error(t, json.Unmarshal([]byte(`[2.9, "Face Mask"]`), &pair))
	assert.Error(t, json.Unmarshal([]byte(`{"category": "Face Mask"}`), &pair))
}

func TestNewEnvelope(t *testing.T) {
	results := []model.Result{
		{
			Product:    model.Product{Brand: "Acme", Title: "Glow Serum"},
			Category:   "Face Serum",
			Confidence: 0.4,
			Reasoning:  model.ReasonRuleBased,
		},
	}
	insights := model.Insights{
		TotalProducts:     1,
		Processed:         1,
		AverageConfidence: 0.5555555,
		CategoryDistribution: map[string]int{
			"Face Serum": 1,
		},
		ConfidenceByCategory: map[string]model.ConfidenceStats{
			"Face Serum": {Avg: 0.4123456, Min: 0.4, Max: 0.4246913},
		},
	}

	env := NewEnvelope(results, insights, true)

	require.Len(t, env.Results, 1)
	assert.Equal(t, "Face Serum", env.Results[0].PredictedCategory)

	require.NotNil(t, env.Insights)
	assert.Equal(t, 1, env.Insights.TotalProducts)
	assert.InDelta(t, 0.556, env.Insights.AverageConfidence, 1e-9)
	stats := env.Insights.ConfidenceByCategory["Face Serum"]
	assert.InDelta(t, 0.412, stats.Avg, 1e-9)
	assert.InDelta(t, 0.4, stats.Min, 1e-9)
	assert.InDelta(t, 0.425, stats.Max, 1e-9)

	require.NotNil(t, env.Metadata)
	assert.Equal(t, 1, env.Metadata.TotalProcessed)
	assert.True(t, env.Metadata.NLPAvailable)
	assert.True(t, env.Metadata.FuzzyMatchingAvailable)
}

func TestWriteAndLoadResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	results := []model.Result{
		{
			Product:    model.Product{Brand: "Acme", Title: "Glow Serum"},
			Category:   "Face Serum",
			Confidence: 0.42,
			Reasoning:  model.ReasonNLP,
			Scores:     map[string]float64{"Face Serum": 0.42, "Sunscreen": 0.2},
			Alternatives: model.CategoryScores{
				{Category: "Sunscreen", Score: 0.2, Position: 4},
			},
			Flagged: true,
		},
	}
	env := NewEnvelope(results, model.Insights{TotalProducts: 1, Processed: 1}, false)

	require.NoError(t, WriteResults(path, env))

	loaded, err := LoadResults(path)
	require.NoError(t, err)
	assert.Equal(t, env.Results, loaded.Results)
	require.NotNil(t, loaded.Insights)
	assert.Equal(t, *env.Insights, *loaded.Insights)
	require.NotNil(t, loaded.Metadata)
	assert.False(t, loaded.Metadata.NLPAvailable)
}

func TestLoadResultsBareList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.json")
	content := `[{"product_title": "Glow Serum", "predicted_category": "Face Serum", "confidence": 0.5}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	env, err := LoadResults(path)
	require.NoError(t, err)
	require.Len(t, env.Results, 1)
	assert.Equal(t, "Face Serum", env.Results[0].PredictedCategory)
	assert.Nil(t, env.Insights)
	assert.Nil(t, env.Metadata)
}

func TestLoadResultsMissingFile(t *testing.T) {
	_, err := LoadResults(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
