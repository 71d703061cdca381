package model

// ConfidenceStats summarizes the confidence values observed for one category.
type ConfidenceStats struct {
	Avg float64
	Min float64
	Max float64
}

// Insights aggregates distribution and confidence statistics for a batch of
// results. Error results are counted but excluded from confidence statistics.
type Insights struct {
	CategoryDistribution map[string]int
	ConfidenceByCategory map[string]ConfidenceStats
	TotalProducts        int
	Processed            int
	Errors               int
	AverageConfidence    float64
	HighConfidence       int
	LowConfidence        int
	Uncategorized        int
	Flagged              int
}
