package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/seralys/inciwise/internal/analyzer"
	"github.com/seralys/inciwise/internal/common"
	"github.com/seralys/inciwise/internal/model"
	"github.com/seralys/inciwise/internal/namematch"
	"github.com/seralys/inciwise/internal/rules"
	"github.com/seralys/inciwise/internal/zeroshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestEngine builds an engine over the built-in rules, patterns, and
// synonyms, with an optional classifier.
func newTestEngine(t *testing.T, classifier Classifier) *Engine {
	t.Helper()

	cfg := rules.Default()
	set, err := cfg.RuleSet()
	require.NoError(t, err)
	matcher, err := cfg.Matcher()
	require.NoError(t, err)

	return New(rules.NewScorer(set), matcher, analyzer.New(cfg.SynonymGroups()), classifier)
}

// moisturizerProduct is a product whose ingredients score strongly for
// Face Moisturizer in the built-in rule set.
func moisturizerProduct(title string) model.Product {
	return model.Product{
		Brand: "TestBrand",
		Title: title,
		Ingredients: []model.Ingredient{
			{Name: "Hyaluronic Acid", Functions: []string{"moisturizer/humectant"}, Rating: model.RatingSuperstar},
		},
	}
}

func TestCategorizeByNameMatch(t *testing.T) {
	e := newTestEngine(t, nil)

	result, err := e.Categorize(context.Background(), moisturizerProduct("Ultra Repair Face Cream"))
	require.NoError(t, err)

	assert.Equal(t, "Face Moisturizer", result.Category)
	assert.InDelta(t, 0.95, result.Confidence, 1e-9)
	assert.Equal(t, model.ReasonNameMatch, result.Reasoning)
	assert.Equal(t, map[string]float64{"Face Moisturizer": 0.95}, result.Scores)
	assert.Empty(t, result.Alternatives)
	assert.False(t, result.Flagged)
	assert.Equal(t, 1, result.Analysis.Total)
}

func TestNameMatchTakesPriority(t *testing.T) {
	// The classifier would pick Sunscreen, but a title match short-circuits
	// the pipeline before it is ever consulted.
	mock := NewMockClassifier()
	mock.SetResponse("Ultra Repair Face Cream", zeroshot.Classification{
		Labels: []string{"Sunscreen"},
		Scores: []float64{0.99},
	})
	e := newTestEngine(t, mock)

	result, err := e.Categorize(context.Background(), moisturizerProduct("Ultra Repair Face Cream"))
	require.NoError(t, err)

	assert.Equal(t, "Face Moisturizer", result.Category)
	assert.Equal(t, model.ReasonNameMatch, result.Reasoning)
	assert.Equal(t, 0, mock.CallCount())
}

func TestCategorizeByNLP(t *testing.T) {
	mock := NewMockClassifier()
	mock.SetResponse("Daily Defense Fluid", zeroshot.Classification{
		Labels: []string{"Sunscreen", "Face Serum"},
		Scores: []float64{0.6, 0.2},
	})
	e := newTestEngine(t, mock)

	result, err := e.Categorize(context.Background(), model.Product{Title: "Daily Defense Fluid"})
	require.NoError(t, err)

	assert.Equal(t, "Sunscreen", result.Category)
	assert.InDelta(t, 0.6, result.Confidence, 1e-9)
	assert.Equal(t, model.ReasonNLP, result.Reasoning)
	assert.Equal(t, map[string]float64{"Sunscreen": 0.6, "Face Serum": 0.2}, result.Scores)

	require.Len(t, result.Alternatives, 1)
	assert.Equal(t, "Face Serum", result.Alternatives[0].Category)
	assert.InDelta(t, 0.2, result.Alternatives[0].Score, 1e-9)

	// The classifier is handed the full configured category list.
	calls := mock.GetCalls()
	require.Len(t, calls, 1)
	assert.Len(t, calls[0].Labels, 15)
	assert.Equal(t, "Face Moisturizer", calls[0].Labels[0])
}

func TestNLPAlternativeCutoffs(t *testing.T) {
	t.Run("capped at three", func(t *testing.T) {
		mock := NewMockClassifier()
		mock.SetResponse("Daily Defense Fluid", zeroshot.Classification{
			Labels: []string{"Sunscreen", "Face Serum", "Face Toner", "Face Mask", "Face Cleanser"},
			Scores: []float64{0.5, 0.2, 0.15, 0.12, 0.11},
		})
		e := newTestEngine(t, mock)

		result, err := e.Categorize(context.Background(), model.Product{Title: "Daily Defense Fluid"})
		require.NoError(t, err)

		require.Len(t, result.Alternatives, 3)
		assert.Equal(t, "Face Serum", result.Alternatives[0].Category)
		assert.Equal(t, "Face Toner", result.Alternatives[1].Category)
		assert.Equal(t, "Face Mask", result.Alternatives[2].Category)
	})

	t.Run("scores at or below the floor are dropped", func(t *testing.T) {
		mock := NewMockClassifier()
		mock.SetResponse("Daily Defense Fluid", zeroshot.Classification{
			Labels: []string{"Sunscreen", "Face Serum", "Face Toner"},
			Scores: []float64{0.5, 0.1, 0.04},
		})
		e := newTestEngine(t, mock)

		result, err := e.Categorize(context.Background(), model.Product{Title: "Daily Defense Fluid"})
		require.NoError(t, err)

		assert.Equal(t, "Sunscreen", result.Category)
		assert.Empty(t, result.Alternatives)
	})
}

func TestNLPBelowThresholdFallsThrough(t *testing.T) {
	mock := NewMockClassifier()
	mock.SetResponse("Mystery Potion", zeroshot.Classification{
		Labels: []string{"Sunscreen"},
		Scores: []float64{0.25},
	})
	e := newTestEngine(t, mock)

	result, err := e.Categorize(context.Background(), model.Product{Title: "Mystery Potion"})
	require.NoError(t, err)

	assert.Equal(t, model.CategoryUncategorized, result.Category)
	assert.Equal(t, model.ReasonUncategorized, result.Reasoning)
	assert.Equal(t, 1, mock.CallCount())
}

func TestClassifierUnavailableFallsThrough(t *testing.T) {
	mock := NewMockClassifier()
	mock.SetError(fmt.Errorf("%w: connection refused", common.ErrClassifierUnavailable))
	e := newTestEngine(t, mock)

	result, err := e.Categorize(context.Background(), moisturizerProduct("Mystery Potion"))
	require.NoError(t, err)

	assert.Equal(t, "Face Moisturizer", result.Category)
	assert.Equal(t, model.ReasonRuleBased, result.Reasoning)
}

func TestClassifierTimeoutFallsThrough(t *testing.T) {
	mock := NewMockClassifier()
	mock.SetError(fmt.Errorf("inference request: %w", context.DeadlineExceeded))
	e := newTestEngine(t, mock)

	result, err := e.Categorize(context.Background(), moisturizerProduct("Mystery Potion"))
	require.NoError(t, err)

	assert.Equal(t, "Face Moisturizer", result.Category)
	assert.Equal(t, model.ReasonRuleBased, result.Reasoning)
}

func TestClassifierHardErrorPropagates(t *testing.T) {
	mock := NewMockClassifier()
	mock.SetError(errors.New("inference API error (status 500): boom"))
	e := newTestEngine(t, mock)

	_, err := e.Categorize(context.Background(), model.Product{Title: "Mystery Potion"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestCategorizeByRules(t *testing.T) {
	// Title matching is restricted to patterns that do not hit this title,
	// so the decision falls to ingredient scoring.
	matcher, err := namematch.New([]namematch.CategoryPatterns{
		{Category: "Face Moisturizer", Patterns: []string{`face cream|facial moisturizer`}},
	}, nil, 0)
	require.NoError(t, err)

	cfg := rules.Default()
	set, err := cfg.RuleSet()
	require.NoError(t, err)
	e := New(rules.NewScorer(set), matcher, analyzer.New(cfg.SynonymGroups()), nil)

	result, err := e.Categorize(context.Background(), moisturizerProduct("Hydrating Face Moisturizer"))
	require.NoError(t, err)

	assert.Equal(t, "Face Moisturizer", result.Category)
	assert.Equal(t, model.ReasonRuleBased, result.Reasoning)
	assert.Greater(t, result.Confidence, 0.0)
	// 2.0 required + 1.5 key ingredient + 0.5 beneficial = 4.0, over the
	// soft ceiling of 10.
	assert.InDelta(t, 0.4, result.Confidence, 1e-9)

	assert.Len(t, result.Scores, 15)
	assert.InDelta(t, 4.0, result.Scores["Face Moisturizer"], 1e-9)
	assert.Zero(t, result.Scores["Face Cleanser"])

	require.Len(t, result.Alternatives, 3)
	assert.Equal(t, "Hair Mask", result.Alternatives[0].Category)
	assert.InDelta(t, 3.1, result.Alternatives[0].Score, 1e-9)
	assert.Equal(t, "Face Mask", result.Alternatives[1].Category)
	assert.Equal(t, "Conditioner", result.Alternatives[2].Category)
}

func TestCategorizeUncategorized(t *testing.T) {
	e := newTestEngine(t, nil)

	result, err := e.Categorize(context.Background(), model.Product{Title: "xyzzy plugh"})
	require.NoError(t, err)

	assert.Equal(t, model.CategoryUncategorized, result.Category)
	assert.Zero(t, result.Confidence)
	assert.Equal(t, model.ReasonUncategorized, result.Reasoning)
	assert.Empty(t, result.Alternatives)

	assert.Len(t, result.Scores, 15)
	for category, score := range result.Scores {
		assert.Zerof(t, score, "category %s", category)
	}
}

func TestCategorizeDeterminism(t *testing.T) {
	mock := NewMockClassifier()
	mock.SetResponse("Daily Defense Fluid", zeroshot.Classification{
		Labels: []string{"Sunscreen", "Face Serum"},
		Scores: []float64{0.6, 0.2},
	})
	e := newTestEngine(t, mock)

	product := moisturizerProduct("Daily Defense Fluid")

	first, err := e.Categorize(context.Background(), product)
	require.NoError(t, err)

	// A fresh mock scripted identically must reproduce the same result.
	mock.Reset()
	mock.SetResponse("Daily Defense Fluid", zeroshot.Classification{
		Labels: []string{"Sunscreen", "Face Serum"},
		Scores: []float64{0.6, 0.2},
	})

	second, err := e.Categorize(context.Background(), product)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, mock.CallCount())
}

func TestCategorizeConfidenceBounds(t *testing.T) {
	e := newTestEngine(t, nil)

	products := []model.Product{
		moisturizerProduct("Ultra Repair Face Cream"),
		moisturizerProduct("Hydrating Elixir"),
		{Title: "xyzzy plugh"},
		{Title: "Gentle Foaming Facial Cleanser"},
	}

	for _, product := range products {
		result, err := e.Categorize(context.Background(), product)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, result.Confidence, 0.0, "title %s", product.Title)
		assert.LessOrEqual(t, result.Confidence, 1.0, "title %s", product.Title)
	}
}
