package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/seralys/inciwise/internal/analyzer"
	"github.com/seralys/inciwise/internal/common"
	"github.com/seralys/inciwise/internal/model"
	"github.com/seralys/inciwise/internal/namematch"
)

// CategoryConfig is the YAML shape of one category rule.
type CategoryConfig struct {
	Name              string   `yaml:"name"`
	RequiredFunctions []string `yaml:"required_functions"`
	KeyIngredients    []string `yaml:"key_ingredients"`
	AvoidFunctions    []string `yaml:"avoid_functions"`
	Weight            float64  `yaml:"weight"`
	MinConfidence     float64  `yaml:"min_confidence"`
}

// SynonymConfig is the YAML shape of one ingredient synonym group.
type SynonymConfig struct {
	Canonical string   `yaml:"canonical"`
	Matches   []string `yaml:"matches"`
}

// PatternConfig is the YAML shape of one category's regex patterns.
type PatternConfig struct {
	Category string   `yaml:"category"`
	Patterns []string `yaml:"patterns"`
}

// FuzzyConfig is the YAML shape of one category's fuzzy phrases.
type FuzzyConfig struct {
	Category string   `yaml:"category"`
	Phrases  []string `yaml:"phrases"`
}

// Config is the full categorization configuration document. Category order in
// the document is the declaration order used for tie-breaking.
//
// Synonym, pattern, and fuzzy sections may be omitted; the built-in tables
// are used in their place.
type Config struct {
	Categories     []CategoryConfig `yaml:"categories"`
	Synonyms       []SynonymConfig  `yaml:"synonyms"`
	NamePatterns   []PatternConfig  `yaml:"name_patterns"`
	FuzzyPatterns  []FuzzyConfig    `yaml:"fuzzy_patterns"`
	FuzzyThreshold float64          `yaml:"fuzzy_threshold"`
}

// Load reads a categorization configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse rules config: %w", err)
	}

	if len(cfg.Categories) == 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrNoCategories, path)
	}

	return &cfg, nil
}

// RuleSet converts the configured categories into a validated ordered rule set.
// A category with no weight gets weight 1.0; a category with no min
// confidence gets 0.3.
func (c *Config) RuleSet() (*model.RuleSet, error) {
	if len(c.Categories) == 0 {
		return nil, common.ErrNoCategories
	}

	rules := make([]model.CategoryRule, len(c.Categories))
	for i, cat := range c.Categories {
		weight := cat.Weight
		if weight == 0 {
			weight = 1.0
		}
		minConfidence := cat.MinConfidence
		if minConfidence == 0 {
			minConfidence = 0.3
		}

		rules[i] = model.CategoryRule{
			Name:              cat.Name,
			RequiredFunctions: cat.RequiredFunctions,
			KeyIngredients:    cat.KeyIngredients,
			AvoidFunctions:    cat.AvoidFunctions,
			Weight:            weight,
			MinConfidence:     minConfidence,
		}
	}

	set, err := model.NewRuleSet(rules...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	return set, nil
}

// SynonymGroups returns the configured synonym table, or the built-in table
// when the section is omitted.
func (c *Config) SynonymGroups() []analyzer.SynonymGroup {
	if len(c.Synonyms) == 0 {
		return analyzer.DefaultSynonyms()
	}

	groups := make([]analyzer.SynonymGroup, len(c.Synonyms))
	for i, s := range c.Synonyms {
		groups[i] = analyzer.SynonymGroup{
			Canonical: s.Canonical,
			Synonyms:  s.Matches,
		}
	}
	return groups
}

// Matcher builds a name matcher from the configured pattern tables, falling
// back to the built-in tables for omitted sections.
func (c *Config) Matcher() (*namematch.Matcher, error) {
	patterns := namematch.DefaultPatterns()
	if len(c.NamePatterns) > 0 {
		patterns = make([]namematch.CategoryPatterns, len(c.NamePatterns))
		for i, p := range c.NamePatterns {
			patterns[i] = namematch.CategoryPatterns{
				Category: p.Category,
				Patterns: p.Patterns,
			}
		}
	}

	fuzzy := namematch.DefaultFuzzyPatterns()
	if len(c.FuzzyPatterns) > 0 {
		fuzzy = make([]namematch.FuzzyPatterns, len(c.FuzzyPatterns))
		for i, f := range c.FuzzyPatterns {
			fuzzy[i] = namematch.FuzzyPatterns{
				Category: f.Category,
				Phrases:  f.Phrases,
			}
		}
	}

	matcher, err := namematch.New(patterns, fuzzy, c.FuzzyThreshold)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	return matcher, nil
}
