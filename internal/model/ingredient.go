// Package model defines the core domain models used throughout the application.
package model

// Rating is the published safety rating of an ingredient.
type Rating string

// Recognized ingredient ratings. Values outside this set are ignored during analysis.
const (
	RatingSuperstar Rating = "superstar"
	RatingGoodie    Rating = "goodie"
	RatingIcky      Rating = "icky"
	RatingNone      Rating = "none"
)

// Beneficial reports whether the rating marks an ingredient as desirable.
func (r Rating) Beneficial() bool {
	return r == RatingSuperstar || r == RatingGoodie
}

// Recognized reports whether the rating is one of the published values.
func (r Rating) Recognized() bool {
	return r == RatingSuperstar || r == RatingGoodie || r == RatingIcky
}

// Ingredient represents a single entry from a product's INCI list.
type Ingredient struct {
	Name           string
	Functions      []string // comma-split, trimmed, lower-cased function tags
	Rating         Rating
	Irritancy      *int
	Comedogenicity *int
}

// Product represents a cosmetic product record to be categorized.
// The engine never mutates a Product; it produces a derived Result.
type Product struct {
	Brand       string
	Title       string
	Ingredients []Ingredient
}

// IngredientAnalysis holds aggregate features derived from a product's
// ingredient list. It is immutable once built.
type IngredientAnalysis struct {
	FunctionCounts map[string]int
	RatingCounts   map[Rating]int
	// Functions and Names preserve first-seen order so derived output
	// (e.g. key function summaries) stays deterministic.
	Functions       []string
	Names           []string
	BeneficialCount int
	ConcernCount    int
	Total           int
}

// KeyFunctions returns up to n distinct ingredient functions in first-seen order.
func (a IngredientAnalysis) KeyFunctions(n int) []string {
	if n <= 0 || len(a.Functions) == 0 {
		return nil
	}
	if n > len(a.Functions) {
		n = len(a.Functions)
	}
	out := make([]string, n)
	copy(out, a.Functions[:n])
	return out
}
