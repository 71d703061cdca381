// Package analyzer derives aggregate ingredient features for categorization.
package analyzer

import (
	"strings"

	"github.com/seralys/inciwise/internal/model"
)

// comedogenicity ratings above this value count as a concern.
const comedogenicityConcern = 2

// SynonymGroup maps one canonical ingredient name to the synonyms it absorbs.
type SynonymGroup struct {
	Canonical string
	Synonyms  []string
}

// Analyzer turns a raw ingredient list into aggregate features. It is
// immutable after construction and safe for concurrent use.
type Analyzer struct {
	synonyms []SynonymGroup
}

// New creates an Analyzer with the given synonym table. Groups are consulted
// in declaration order; the first matching group wins.
func New(synonyms []SynonymGroup) *Analyzer {
	return &Analyzer{synonyms: synonyms}
}

// NewDefault creates an Analyzer with the built-in synonym table.
func NewDefault() *Analyzer {
	return New(DefaultSynonyms())
}

// Normalize maps an ingredient name onto its canonical form. A name matches a
// group when it contains one of the group's synonyms as a substring.
// Unmatched names pass through lower-cased.
func (a *Analyzer) Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))

	for _, group := range a.synonyms {
		for _, syn := range group.Synonyms {
			if strings.Contains(name, syn) {
				return group.Canonical
			}
		}
	}

	return name
}

// Analyze computes aggregate features for a product's ingredient list.
// It is a pure function of its input.
func (a *Analyzer) Analyze(ingredients []model.Ingredient) model.IngredientAnalysis {
	analysis := model.IngredientAnalysis{
		FunctionCounts: make(map[string]int),
		RatingCounts:   make(map[model.Rating]int),
		Total:          len(ingredients),
	}

	seenNames := make(map[string]bool)

	for _, ing := range ingredients {
		for _, fn := range ing.Functions {
			fn = strings.ToLower(strings.TrimSpace(fn))
			if fn == "" {
				continue
			}
			if analysis.FunctionCounts[fn] == 0 {
				analysis.Functions = append(analysis.Functions, fn)
			}
			analysis.FunctionCounts[fn]++
		}

		name := a.Normalize(ing.Name)
		if name != "" && !seenNames[name] {
			seenNames[name] = true
			analysis.Names = append(analysis.Names, name)
		}

		if ing.Rating.Recognized() {
			analysis.RatingCounts[ing.Rating]++
		}
		if ing.Rating.Beneficial() {
			analysis.BeneficialCount++
		}

		if ing.Comedogenicity != nil && *ing.Comedogenicity > comedogenicityConcern {
			analysis.ConcernCount++
		}
	}

	return analysis
}
