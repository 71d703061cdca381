package dataset

import "strings"

// CategoryAccuracy is the accuracy over samples whose primary manual label
// is one category.
type CategoryAccuracy struct {
	Accuracy float64 `json:"accuracy"`
	Correct  int     `json:"correct"`
	Samples  int     `json:"total_samples"`
}

// AccuracyReport summarizes how well predicted categories agree with manual
// labels.
type AccuracyReport struct {
	OverallAccuracy    float64                     `json:"overall_accuracy"`
	TotalSamples       int                         `json:"total_samples"`
	CorrectPredictions int                         `json:"correct_predictions"`
	Unlabeled          int                         `json:"unlabeled"`
	ByCategory         map[string]CategoryAccuracy `json:"category_accuracy"`
}

// Accuracy scores predicted categories against manual labels. Records
// without a manual label are tallied as unlabeled and excluded from the
// metrics. A manual value may list several acceptable categories separated
// by commas; a prediction matching any of them counts as correct, and the
// first listed is the sample's primary category for the per-category
// breakdown.
func Accuracy(records []ResultRecord) AccuracyReport {
	report := AccuracyReport{ByCategory: make(map[string]CategoryAccuracy)}

	for _, rec := range records {
		var accepted []string
		if rec.ManualCategory != nil {
			accepted = splitCategories(*rec.ManualCategory)
		}
		if len(accepted) == 0 {
			report.Unlabeled++
			continue
		}

		report.TotalSamples++

		correct := false
		for _, category := range accepted {
			if rec.PredictedCategory == category {
				correct = true
				break
			}
		}
		if correct {
			report.CorrectPredictions++
		}

		primary := accepted[0]
		stats := report.ByCategory[primary]
		stats.Samples++
		if correct {
			stats.Correct++
		}
		report.ByCategory[primary] = stats
	}

	if report.TotalSamples > 0 {
		report.OverallAccuracy = float64(report.CorrectPredictions) / float64(report.TotalSamples)
	}
	for category, stats := range report.ByCategory {
		stats.Accuracy = float64(stats.Correct) / float64(stats.Samples)
		report.ByCategory[category] = stats
	}

	return report
}

func splitCategories(manual string) []string {
	var out []string
	for _, category := range strings.Split(manual, ",") {
		if category = strings.TrimSpace(category); category != "" {
			out = append(out, category)
		}
	}
	return out
}
