// Package engine implements the staged categorization pipeline for
// cosmetic products.
package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/seralys/inciwise/internal/analyzer"
	"github.com/seralys/inciwise/internal/common"
	"github.com/seralys/inciwise/internal/model"
	"github.com/seralys/inciwise/internal/namematch"
	"github.com/seralys/inciwise/internal/rules"
	"github.com/seralys/inciwise/internal/zeroshot"
)

// Classifier is the capability interface for the optional NLP stage.
type Classifier interface {
	Classify(ctx context.Context, text string, labels []string) (zeroshot.Classification, error)
}

// Engine orchestrates the categorization of products.
type Engine struct {
	analyzer   *analyzer.Analyzer
	matcher    *namematch.Matcher
	scorer     *rules.Scorer
	classifier Classifier
	config     Config
}

// Config holds the engine's stage thresholds.
type Config struct {
	// NameMatchThreshold is the minimum title-match confidence accepted
	// by the first stage.
	NameMatchThreshold float64
	// NLPThreshold is the minimum top-label score accepted by the
	// zero-shot stage.
	NLPThreshold float64
	// MinAlternativeScore is the exclusive lower bound for a category to
	// be reported as an NLP alternative.
	MinAlternativeScore float64
	// MaxAlternatives caps the alternatives reported per result.
	MaxAlternatives int
	// Workers bounds batch concurrency.
	Workers int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		NameMatchThreshold:  0.70,
		NLPThreshold:        0.30,
		MinAlternativeScore: 0.1,
		MaxAlternatives:     3,
		Workers:             5,
	}
}

// New creates a new categorization engine with the given dependencies.
// The classifier may be nil, which disables the NLP stage.
func New(scorer *rules.Scorer, matcher *namematch.Matcher, ingredientAnalyzer *analyzer.Analyzer, classifier Classifier) *Engine {
	return NewWithConfig(scorer, matcher, ingredientAnalyzer, classifier, DefaultConfig())
}

// NewWithConfig creates a new categorization engine with custom configuration.
func NewWithConfig(scorer *rules.Scorer, matcher *namematch.Matcher, ingredientAnalyzer *analyzer.Analyzer, classifier Classifier, config Config) *Engine {
	return &Engine{
		analyzer:   ingredientAnalyzer,
		matcher:    matcher,
		scorer:     scorer,
		classifier: classifier,
		config:     config,
	}
}

// Categorize runs the staged pipeline for a single product: title matching,
// zero-shot NLP when a classifier is configured, then rule-based scoring.
// An unavailable or timed-out classifier falls through to the rule stage;
// any other classifier failure is returned to the caller.
func (e *Engine) Categorize(ctx context.Context, product model.Product) (model.Result, error) {
	analysis := e.analyzer.Analyze(product.Ingredients)

	if match := e.matcher.Match(product.Title); match != nil && match.Confidence >= e.config.NameMatchThreshold {
		slog.Debug("categorized by title match",
			"title", product.Title,
			"category", match.Category,
			"confidence", match.Confidence)
		return model.Result{
			Product:    product,
			Analysis:   analysis,
			Category:   match.Category,
			Confidence: match.Confidence,
			Reasoning:  model.ReasonNameMatch,
			Scores:     map[string]float64{match.Category: match.Confidence},
		}, nil
	}

	if e.classifier != nil {
		result, err := e.classifyByNLP(ctx, product, analysis)
		switch {
		case err != nil && skippableClassifierError(err):
			slog.Debug("classifier unavailable, skipping NLP stage",
				"title", product.Title,
				"error", err)
		case err != nil:
			return model.Result{}, err
		case result != nil:
			return *result, nil
		}
	}

	return e.categorizeByRules(product, analysis), nil
}

// skippableClassifierError reports whether a classifier failure falls
// through to rule-based scoring instead of failing the product.
func skippableClassifierError(err error) bool {
	return errors.Is(err, common.ErrClassifierUnavailable) || errors.Is(err, context.DeadlineExceeded)
}

// classifyByNLP runs the zero-shot stage. A nil result with nil error means
// the top label fell below the acceptance threshold.
func (e *Engine) classifyByNLP(ctx context.Context, product model.Product, analysis model.IngredientAnalysis) (*model.Result, error) {
	labels := e.scorer.RuleSet().Categories()

	classification, err := e.classifier.Classify(ctx, product.Title, labels)
	if err != nil {
		return nil, err
	}

	top, topScore := classification.Top()
	if top == "" || topScore < e.config.NLPThreshold {
		slog.Debug("NLP top label below threshold",
			"title", product.Title,
			"top_label", top,
			"top_score", topScore)
		return nil, nil
	}

	scores := make(model.CategoryScores, 0, len(classification.Labels))
	for i, label := range classification.Labels {
		scores = append(scores, model.CategoryScore{
			Category: label,
			Score:    classification.Scores[i],
			Position: i,
		})
	}

	slog.Debug("categorized by NLP",
		"title", product.Title,
		"category", top,
		"confidence", topScore)

	return &model.Result{
		Product:      product,
		Analysis:     analysis,
		Category:     top,
		Confidence:   topScore,
		Reasoning:    model.ReasonNLP,
		Scores:       classification.Map(),
		Alternatives: scores.Alternatives(top, e.config.MaxAlternatives, e.config.MinAlternativeScore),
	}, nil
}

// categorizeByRules runs the final stage. A zero maximum score resolves to
// the Uncategorized sentinel; ties resolve to the first-declared category.
func (e *Engine) categorizeByRules(product model.Product, analysis model.IngredientAnalysis) model.Result {
	scores := e.scorer.ScoreAll(analysis)
	scoreMap := scores.Map()

	top := scores.Top()
	if top == nil || top.Score == 0 {
		return model.Result{
			Product:   product,
			Analysis:  analysis,
			Category:  model.CategoryUncategorized,
			Reasoning: model.ReasonUncategorized,
			Scores:    scoreMap,
		}
	}

	return model.Result{
		Product:      product,
		Analysis:     analysis,
		Category:     top.Category,
		Confidence:   rules.Confidence(top.Score),
		Reasoning:    model.ReasonRuleBased,
		Scores:       scoreMap,
		Alternatives: scores.Alternatives(top.Category, e.config.MaxAlternatives, 0),
	}
}

// ruleWinner returns the rule-stage winner for an analysis, which is the
// Uncategorized sentinel when no rule scores above zero.
func (e *Engine) ruleWinner(analysis model.IngredientAnalysis) string {
	top := e.scorer.ScoreAll(analysis).Top()
	if top == nil || top.Score == 0 {
		return model.CategoryUncategorized
	}
	return top.Category
}
