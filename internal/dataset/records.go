package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/seralys/inciwise/internal/model"
)

// maxKeyFunctions caps how many ingredient functions a result record lists.
const maxKeyFunctions = 5

// AlternativePair is one runner-up category with its score. It serializes as
// a two-element [name, score] array; existing accuracy tooling expects that
// shape.
type AlternativePair struct {
	Category string
	Score    float64
}

// MarshalJSON implements json.Marshaler.
func (p AlternativePair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Category, p.Score})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *AlternativePair) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("alternative pair must have 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.Category); err != nil {
		return fmt.Errorf("invalid alternative category: %w", err)
	}
	if err := json.Unmarshal(raw[1], &p.Score); err != nil {
		return fmt.Errorf("invalid alternative score: %w", err)
	}
	return nil
}

// ResultRecord is the flat serialized form of one categorization outcome.
// The field set and the 3-decimal rounding of confidence values are a
// compatibility contract; downstream tooling keys on them.
type ResultRecord struct {
	ProductBrand          string             `json:"product_brand"`
	ProductTitle          string             `json:"product_title"`
	PredictedCategory     string             `json:"predicted_category"`
	ManualCategory        *string            `json:"manual_category,omitempty"`
	Confidence            float64            `json:"confidence"`
	CategoryScores        map[string]float64 `json:"category_scores,omitempty"`
	Reasoning             string             `json:"reasoning"`
	TotalIngredients      int                `json:"total_ingredients"`
	KeyFunctions          []string           `json:"key_functions,omitempty"`
	BeneficialIngredients int                `json:"beneficial_ingredients"`
	ConcernIngredients    int                `json:"concern_ingredients"`
	AlternativeCategories []AlternativePair  `json:"alternative_categories,omitempty"`
	FlaggedForReview      bool               `json:"flagged_for_review"`
	Error                 string             `json:"error,omitempty"`
}

// InsightsRecord is the serialized form of batch insights.
type InsightsRecord struct {
	TotalProducts          int                               `json:"total_products"`
	SuccessfullyProcessed  int                               `json:"successfully_processed"`
	Errors                 int                               `json:"errors"`
	CategoryDistribution   map[string]int                    `json:"category_distribution"`
	AverageConfidence      float64                           `json:"average_confidence"`
	ConfidenceByCategory   map[string]ConfidenceStatsRecord  `json:"confidence_by_category,omitempty"`
	HighConfidenceProducts int                               `json:"high_confidence_products"`
	LowConfidenceProducts  int                               `json:"low_confidence_products"`
	UncategorizedProducts  int                               `json:"uncategorized_products"`
	FlaggedProducts        int                               `json:"flagged_products"`
}

// ConfidenceStatsRecord is the serialized per-category confidence summary.
type ConfidenceStatsRecord struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Metadata describes how an output document was produced.
type Metadata struct {
	TotalProcessed         int  `json:"total_processed"`
	NLPAvailable           bool `json:"nlp_available"`
	FuzzyMatchingAvailable bool `json:"fuzzy_matching_available"`
}

// Envelope is the on-disk output document: results plus optional insights
// and metadata blocks.
type Envelope struct {
	Results  []ResultRecord  `json:"results"`
	Insights *InsightsRecord `json:"insights,omitempty"`
	Metadata *Metadata       `json:"metadata,omitempty"`
}

// NewResultRecord flattens a categorization result into its wire form.
func NewResultRecord(r model.Result) ResultRecord {
	rec := ResultRecord{
		ProductBrand:          r.Product.Brand,
		ProductTitle:          r.Product.Title,
		PredictedCategory:     r.Category,
		Confidence:            round3(r.Confidence),
		Reasoning:             string(r.Reasoning),
		TotalIngredients:      r.Analysis.Total,
		KeyFunctions:          r.Analysis.KeyFunctions(maxKeyFunctions),
		BeneficialIngredients: r.Analysis.BeneficialCount,
		ConcernIngredients:    r.Analysis.ConcernCount,
		FlaggedForReview:      r.Flagged,
		Error:                 r.Err,
	}

	if len(r.Scores) > 0 {
		rec.CategoryScores = make(map[string]float64, len(r.Scores))
		for category, score := range r.Scores {
			rec.CategoryScores[category] = round3(score)
		}
	}

	for _, alt := range r.Alternatives {
		rec.AlternativeCategories = append(rec.AlternativeCategories, AlternativePair{
			Category: alt.Category,
			Score:    alt.Score,
		})
	}

	return rec
}

// NewInsightsRecord converts batch insights into their wire form.
func NewInsightsRecord(in model.Insights) InsightsRecord {
	rec := InsightsRecord{
		TotalProducts:          in.TotalProducts,
		SuccessfullyProcessed:  in.Processed,
		Errors:                 in.Errors,
		CategoryDistribution:   in.CategoryDistribution,
		AverageConfidence:      round3(in.AverageConfidence),
		HighConfidenceProducts: in.HighConfidence,
		LowConfidenceProducts:  in.LowConfidence,
		UncategorizedProducts:  in.Uncategorized,
		FlaggedProducts:        in.Flagged,
	}

	if len(in.ConfidenceByCategory) > 0 {
		rec.ConfidenceByCategory = make(map[string]ConfidenceStatsRecord, len(in.ConfidenceByCategory))
		for category, stats := range in.ConfidenceByCategory {
			rec.ConfidenceByCategory[category] = ConfidenceStatsRecord{
				Avg: round3(stats.Avg),
				Min: round3(stats.Min),
				Max: round3(stats.Max),
			}
		}
	}

	return rec
}

// NewEnvelope builds the output document for a completed batch.
func NewEnvelope(results []model.Result, insights model.Insights, nlpAvailable bool) Envelope {
	records := make([]ResultRecord, 0, len(results))
	for i := range results {
		records = append(records, NewResultRecord(results[i]))
	}

	insightsRec := NewInsightsRecord(insights)

	return Envelope{
		Results:  records,
		Insights: &insightsRec,
		Metadata: &Metadata{
			TotalProcessed:         len(results),
			NLPAvailable:           nlpAvailable,
			FuzzyMatchingAvailable: true,
		},
	}
}

// WriteResults writes an output document to path as indented JSON.
func WriteResults(path string, env Envelope) error {
	return writeJSON(path, env)
}

// LoadResults reads a previously written output document. Bare result lists
// from older runs are accepted alongside the enveloped form.
func LoadResults(path string) (Envelope, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path supplied by the operator
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to read results file: %w", err)
	}

	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("[")) {
		var records []ResultRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return Envelope{}, fmt.Errorf("failed to parse results list: %w", err)
		}
		return Envelope{Results: records}, nil
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("failed to parse results document: %w", err)
	}

	return env, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
