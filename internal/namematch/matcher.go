// Package namematch matches product titles against per-category phrase patterns.
package namematch

import (
	"fmt"
	"regexp"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

const (
	// RegexMatchConfidence is the fixed confidence assigned to regex matches.
	RegexMatchConfidence = 0.95
	// DefaultFuzzyThreshold is the minimum accepted fuzzy similarity on the
	// unit scale. Similarity libraries that report 0-100 are normalized to
	// 0-1 before comparison.
	DefaultFuzzyThreshold = 0.8
)

// CategoryPatterns holds the regex patterns for one category.
// Patterns are tried in order; the declaration order of categories decides
// priority on pattern collision.
type CategoryPatterns struct {
	Category string
	Patterns []string
}

// FuzzyPatterns holds the curated phrases used by the fuzzy fallback pass.
type FuzzyPatterns struct {
	Category string
	Phrases  []string
}

// Match represents a successful title match.
type Match struct {
	Category   string
	Confidence float64
}

type compiledCategory struct {
	category string
	regexes  []*regexp.Regexp
}

// Matcher matches product titles against category patterns. It is immutable
// after construction and safe for concurrent use.
type Matcher struct {
	regex          []compiledCategory
	fuzzy          []FuzzyPatterns
	fuzzyThreshold float64
}

// New creates a Matcher from regex pattern and fuzzy phrase tables.
// A fuzzyThreshold <= 0 selects DefaultFuzzyThreshold.
func New(patterns []CategoryPatterns, fuzzyPhrases []FuzzyPatterns, fuzzyThreshold float64) (*Matcher, error) {
	if fuzzyThreshold <= 0 {
		fuzzyThreshold = DefaultFuzzyThreshold
	}
	if fuzzyThreshold > 1.0 {
		return nil, fmt.Errorf("fuzzy threshold must be on the unit scale, got %.2f", fuzzyThreshold)
	}

	compiled := make([]compiledCategory, 0, len(patterns))

	for _, cp := range patterns {
		if cp.Category == "" {
			return nil, fmt.Errorf("pattern group with empty category name")
		}

		cc := compiledCategory{category: cp.Category}
		for _, p := range cp.Patterns {
			// Patterns match anywhere in the lower-cased title
			regexStr := p
			if !strings.HasPrefix(regexStr, "(?i)") {
				regexStr = "(?i)" + regexStr
			}

			regex, err := regexp.Compile(regexStr)
			if err != nil {
				return nil, fmt.Errorf("failed to compile pattern for %s: %w", cp.Category, err)
			}
			cc.regexes = append(cc.regexes, regex)
		}
		compiled = append(compiled, cc)
	}

	return &Matcher{
		regex:          compiled,
		fuzzy:          fuzzyPhrases,
		fuzzyThreshold: fuzzyThreshold,
	}, nil
}

// NewDefault creates a Matcher with the built-in pattern tables.
func NewDefault() (*Matcher, error) {
	return New(DefaultPatterns(), DefaultFuzzyPatterns(), DefaultFuzzyThreshold)
}

// Match matches a product title in two passes: regex patterns in category
// declaration order, then fuzzy phrase similarity. The first regex hit wins
// immediately with RegexMatchConfidence. Fuzzy matches are accepted only at
// or above the configured threshold. Returns nil when nothing matched.
func (m *Matcher) Match(title string) *Match {
	titleLower := strings.ToLower(strings.TrimSpace(title))
	if titleLower == "" {
		return nil
	}

	// First try regex patterns
	for _, cc := range m.regex {
		for _, regex := range cc.regexes {
			if regex.MatchString(titleLower) {
				return &Match{
					Category:   cc.category,
					Confidence: RegexMatchConfidence,
				}
			}
		}
	}

	// Fall back to fuzzy matching over the curated phrase set
	var best *Match
	for _, fp := range m.fuzzy {
		for _, phrase := range fp.Phrases {
			score := float64(fuzzy.PartialRatio(phrase, titleLower)) / 100.0
			if score < m.fuzzyThreshold {
				continue
			}
			if best == nil || score > best.Confidence {
				best = &Match{
					Category:   fp.Category,
					Confidence: score,
				}
			}
		}
	}

	return best
}

// PatternCount returns the number of compiled regex patterns.
func (m *Matcher) PatternCount() int {
	n := 0
	for _, cc := range m.regex {
		n += len(cc.regexes)
	}
	return n
}

// FuzzyThreshold returns the minimum accepted fuzzy similarity.
func (m *Matcher) FuzzyThreshold() float64 {
	return m.fuzzyThreshold
}
