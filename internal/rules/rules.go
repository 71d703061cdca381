// Package rules scores categories against ingredient features and loads the
// rule configuration that drives scoring.
package rules

import (
	"strings"

	"github.com/seralys/inciwise/internal/model"
)

// Scoring weights. Matches are counted with multiplicity and scaled by the
// rule's weight.
const (
	requiredFunctionWeight = 2.0
	keyIngredientWeight    = 1.5
	avoidFunctionPenalty   = 1.0
	beneficialBonus        = 0.5
	concernPenalty         = 0.3
)

// confidenceCeiling is the soft score ceiling used to normalize a raw rule
// score onto [0,1]. A handful of strong matches saturates confidence.
const confidenceCeiling = 10.0

// Confidence normalizes a raw rule score onto the unit scale.
func Confidence(score float64) float64 {
	c := score / confidenceCeiling
	if c > 1.0 {
		return 1.0
	}
	return c
}

// Scorer scores ingredient analyses against an ordered rule set. It is
// immutable after construction and safe for concurrent use.
type Scorer struct {
	set *model.RuleSet
}

// NewScorer creates a Scorer over the given rule set.
func NewScorer(set *model.RuleSet) *Scorer {
	return &Scorer{set: set}
}

// RuleSet returns the rule set this scorer was built from.
func (s *Scorer) RuleSet() *model.RuleSet {
	return s.set
}

// Score computes how well an ingredient analysis fits one rule. Function and
// ingredient matching is case-insensitive substring containment, so compound
// labels like "surfactant/cleansing" match a required "surfactant". The
// result is clamped to >= 0.
func (s *Scorer) Score(analysis model.IngredientAnalysis, rule model.CategoryRule) float64 {
	score := 0.0

	for _, required := range rule.RequiredFunctions {
		matches := countFunctionMatches(analysis.FunctionCounts, required)
		score += float64(matches) * requiredFunctionWeight * rule.Weight
	}

	for _, key := range rule.KeyIngredients {
		matches := countNameMatches(analysis.Names, key)
		score += float64(matches) * keyIngredientWeight * rule.Weight
	}

	for _, avoid := range rule.AvoidFunctions {
		matches := countFunctionMatches(analysis.FunctionCounts, avoid)
		score -= float64(matches) * avoidFunctionPenalty * rule.Weight
	}

	score += beneficialBonus * float64(analysis.BeneficialCount)
	score -= concernPenalty * float64(analysis.ConcernCount)

	if score < 0 {
		return 0
	}
	return score
}

// ScoreAll scores every configured category, returning one entry per category
// in declaration order.
func (s *Scorer) ScoreAll(analysis model.IngredientAnalysis) model.CategoryScores {
	rules := s.set.Rules()
	scores := make(model.CategoryScores, len(rules))

	for i := range rules {
		scores[i] = model.CategoryScore{
			Category: rules[i].Name,
			Score:    s.Score(analysis, rules[i]),
			Position: i,
		}
	}

	return scores
}

// countFunctionMatches counts ingredient function occurrences containing the
// target as a substring.
func countFunctionMatches(counts map[string]int, target string) int {
	target = strings.ToLower(target)

	matches := 0
	for fn, count := range counts {
		if strings.Contains(fn, target) {
			matches += count
		}
	}
	return matches
}

// countNameMatches counts normalized ingredient names containing the target
// as a substring.
func countNameMatches(names []string, target string) int {
	target = strings.ToLower(target)

	matches := 0
	for _, name := range names {
		if strings.Contains(name, target) {
			matches++
		}
	}
	return matches
}
