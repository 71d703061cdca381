package engine

import (
	"github.com/seralys/inciwise/internal/model"
)

// Confidence cutoffs for the batch summary.
const (
	highConfidenceCutoff = 0.7
	lowConfidenceCutoff  = 0.3
)

// Summarize aggregates batch results into distribution and confidence
// insights. Error results count toward the distribution and error tally but
// are excluded from all confidence statistics.
func Summarize(results []model.Result) model.Insights {
	insights := model.Insights{
		TotalProducts:        len(results),
		CategoryDistribution: make(map[string]int),
		ConfidenceByCategory: make(map[string]model.ConfidenceStats),
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	var confidenceSum float64

	for i := range results {
		r := &results[i]

		insights.CategoryDistribution[r.Category]++
		if r.Flagged {
			insights.Flagged++
		}

		if r.IsError() {
			insights.Errors++
			continue
		}

		insights.Processed++
		if r.Category == model.CategoryUncategorized {
			insights.Uncategorized++
		}

		confidenceSum += r.Confidence
		if r.Confidence > highConfidenceCutoff {
			insights.HighConfidence++
		}
		if r.Confidence < lowConfidenceCutoff {
			insights.LowConfidence++
		}

		stats, seen := insights.ConfidenceByCategory[r.Category]
		if !seen {
			stats = model.ConfidenceStats{Min: r.Confidence, Max: r.Confidence}
		} else {
			if r.Confidence < stats.Min {
				stats.Min = r.Confidence
			}
			if r.Confidence > stats.Max {
				stats.Max = r.Confidence
			}
		}
		insights.ConfidenceByCategory[r.Category] = stats

		sums[r.Category] += r.Confidence
		counts[r.Category]++
	}

	for category, sum := range sums {
		stats := insights.ConfidenceByCategory[category]
		stats.Avg = sum / float64(counts[category])
		insights.ConfidenceByCategory[category] = stats
	}

	if insights.Processed > 0 {
		insights.AverageConfidence = confidenceSum / float64(insights.Processed)
	}

	return insights
}
