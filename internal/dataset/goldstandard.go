package dataset

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// GoldMetadata describes how a gold standard sample was drawn.
type GoldMetadata struct {
	TotalSamples         int            `json:"total_samples"`
	SamplingDate         string         `json:"sampling_date"`
	CategoryDistribution map[string]int `json:"category_distribution"`
}

// GoldStandard is a category-balanced sample of results awaiting manual
// labels. Each record keeps its original fields and gains an empty
// manual_category for the annotator to fill in.
type GoldStandard struct {
	Metadata GoldMetadata   `json:"metadata"`
	Results  []ResultRecord `json:"results"`
}

// SampleGoldStandard draws a balanced sample of up to sampleSize records.
// The budget is split evenly across predicted categories with the remainder
// spread over the earliest-seen ones; a category with fewer records than its
// share contributes what it has. Records within a category are chosen
// uniformly without replacement from rnd.
func SampleGoldStandard(records []ResultRecord, sampleSize int, rnd *rand.Rand) (GoldStandard, error) {
	if sampleSize <= 0 {
		return GoldStandard{}, fmt.Errorf("sample size must be positive, got %d", sampleSize)
	}
	if len(records) == 0 {
		return GoldStandard{}, errors.New("no results to sample from")
	}

	groups := make(map[string][]ResultRecord)
	var categories []string
	for _, rec := range records {
		if _, seen := groups[rec.PredictedCategory]; !seen {
			categories = append(categories, rec.PredictedCategory)
		}
		groups[rec.PredictedCategory] = append(groups[rec.PredictedCategory], rec)
	}

	perCategory := sampleSize / len(categories)
	remainder := sampleSize % len(categories)

	gold := GoldStandard{
		Metadata: GoldMetadata{
			SamplingDate:         time.Now().Format(time.RFC3339),
			CategoryDistribution: make(map[string]int, len(categories)),
		},
	}

	for _, category := range categories {
		group := groups[category]

		n := perCategory
		if remainder > 0 {
			n++
			remainder--
		}
		if n > len(group) {
			n = len(group)
		}

		for _, idx := range rnd.Perm(len(group))[:n] {
			rec := group[idx]
			rec.ManualCategory = new(string)
			gold.Results = append(gold.Results, rec)
		}
		gold.Metadata.CategoryDistribution[category] = n
	}

	gold.Metadata.TotalSamples = len(gold.Results)
	return gold, nil
}

// WriteGoldStandard writes a gold standard sample to path as indented JSON.
func WriteGoldStandard(path string, gold GoldStandard) error {
	return writeJSON(path, gold)
}
