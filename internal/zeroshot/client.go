// Package zeroshot classifies free-form product text against candidate
// category labels using hosted zero-shot inference endpoints.
package zeroshot

import (
	"context"
	"fmt"
	"sort"
)

// Client is the interface for zero-shot inference backends.
type Client interface {
	// Classify scores text against every candidate label.
	Classify(ctx context.Context, text string, labels []string) (Classification, error)
}

// Classification holds the scored labels for one piece of text.
// Labels and Scores are parallel slices ordered by descending score.
type Classification struct {
	Labels []string
	Scores []float64
}

// Top returns the best-scoring label and its score.
func (c Classification) Top() (string, float64) {
	if len(c.Labels) == 0 {
		return "", 0
	}
	return c.Labels[0], c.Scores[0]
}

// Len returns the number of scored labels.
func (c Classification) Len() int {
	return len(c.Labels)
}

// Map returns the label scores as a map.
func (c Classification) Map() map[string]float64 {
	scores := make(map[string]float64, len(c.Labels))
	for i, label := range c.Labels {
		scores[label] = c.Scores[i]
	}
	return scores
}

// Validate checks that the classification is well formed.
func (c Classification) Validate() error {
	if len(c.Labels) == 0 {
		return fmt.Errorf("no labels scored")
	}
	if len(c.Labels) != len(c.Scores) {
		return fmt.Errorf("label/score length mismatch: %d labels, %d scores", len(c.Labels), len(c.Scores))
	}
	for i, score := range c.Scores {
		if score < 0 {
			return fmt.Errorf("negative score %f for label %q", score, c.Labels[i])
		}
	}
	return nil
}

// sort orders both slices by descending score.
func (c Classification) sort() {
	sort.Sort(byScore(c))
}

type byScore Classification

func (b byScore) Len() int { return len(b.Labels) }

func (b byScore) Less(i, j int) bool { return b.Scores[i] > b.Scores[j] }

func (b byScore) Swap(i, j int) {
	b.Labels[i], b.Labels[j] = b.Labels[j], b.Labels[i]
	b.Scores[i], b.Scores[j] = b.Scores[j], b.Scores[i]
}
