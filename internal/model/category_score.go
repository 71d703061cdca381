package model

import (
	"fmt"
	"sort"
)

// CategoryScore represents how strongly a product matched a specific category.
type CategoryScore struct {
	Category string
	Score    float64
	Position int // declaration index of the category, used to break score ties
}

// Validate ensures the CategoryScore has valid data.
func (s *CategoryScore) Validate() error {
	if s.Category == "" {
		return fmt.Errorf("category name is required")
	}

	if s.Score < 0.0 {
		return fmt.Errorf("score must be non-negative, got %.2f", s.Score)
	}

	return nil
}

// CategoryScores is a slice of CategoryScore that supports sorting and utility methods.
type CategoryScores []CategoryScore

// Len implements sort.Interface.
func (s CategoryScores) Len() int {
	return len(s)
}

// Less implements sort.Interface - higher scores come first.
func (s CategoryScores) Less(i, j int) bool {
	// Sort by score descending (higher scores first)
	if s[i].Score != s[j].Score {
		return s[i].Score > s[j].Score
	}
	// If scores are equal, the earlier-declared category wins
	if s[i].Position != s[j].Position {
		return s[i].Position < s[j].Position
	}
	return s[i].Category < s[j].Category
}

// Swap implements sort.Interface.
func (s CategoryScores) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

// Sort sorts the scores by score in descending order.
func (s CategoryScores) Sort() {
	sort.Sort(s)
}

// Top returns the highest-scoring category, or nil if empty.
func (s CategoryScores) Top() *CategoryScore {
	if len(s) == 0 {
		return nil
	}
	s.Sort()
	return &s[0]
}

// TopN returns the N highest-scoring categories.
func (s CategoryScores) TopN(n int) CategoryScores {
	if n <= 0 {
		return CategoryScores{}
	}

	s.Sort()

	if n > len(s) {
		n = len(s)
	}

	result := make(CategoryScores, n)
	copy(result, s[:n])
	return result
}

// Alternatives returns up to n categories other than winner whose score is
// strictly above minScore, in descending score order.
func (s CategoryScores) Alternatives(winner string, n int, minScore float64) CategoryScores {
	if n <= 0 {
		return nil
	}

	s.Sort()

	var result CategoryScores
	for _, score := range s {
		if len(result) == n {
			break
		}
		if score.Category == winner || score.Score <= minScore {
			continue
		}
		result = append(result, score)
	}
	return result
}

// Map returns the scores keyed by category name.
func (s CategoryScores) Map() map[string]float64 {
	m := make(map[string]float64, len(s))
	for _, score := range s {
		m[score.Category] = score.Score
	}
	return m
}

// Validate ensures all scores in the slice are valid.
func (s CategoryScores) Validate() error {
	seen := make(map[string]bool)

	for i, score := range s {
		// Validate individual score
		if err := score.Validate(); err != nil {
			return fmt.Errorf("invalid score at index %d: %w", i, err)
		}

		// Check for duplicate categories
		if seen[score.Category] {
			return fmt.Errorf("duplicate category %q in scores", score.Category)
		}
		seen[score.Category] = true
	}

	return nil
}
