package model

// Reasoning indicates which signal source decided a categorization.
type Reasoning string

// Reasoning constants.
const (
	ReasonNameMatch     Reasoning = "NAME_MATCH"
	ReasonNLP           Reasoning = "NLP"
	ReasonRuleBased     Reasoning = "RULE_BASED"
	ReasonUncategorized Reasoning = "UNCATEGORIZED"
	ReasonError         Reasoning = "ERROR"
)

// Sentinel categories produced by the engine.
const (
	// CategoryUncategorized is assigned when no signal clears its threshold.
	CategoryUncategorized = "Uncategorized"
	// CategoryError is assigned when processing a product failed.
	CategoryError = "Error"
)

// Result represents a product after categorization.
type Result struct {
	Scores       map[string]float64
	Category     string
	Err          string
	Reasoning    Reasoning
	Product      Product
	Analysis     IngredientAnalysis
	Alternatives CategoryScores
	Confidence   float64
	Flagged      bool
}

// IsError reports whether the result records a per-item processing failure.
func (r *Result) IsError() bool {
	return r.Category == CategoryError
}

// IsCategorized reports whether the result carries a real category label.
func (r *Result) IsCategorized() bool {
	return r.Category != CategoryUncategorized && r.Category != CategoryError
}
