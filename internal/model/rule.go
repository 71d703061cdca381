package model

import "fmt"

// CategoryRule defines how one category is scored against ingredient features.
// Rules are static configuration: loaded once, shared read-only across
// classifications.
type CategoryRule struct {
	Name              string
	RequiredFunctions []string
	KeyIngredients    []string
	AvoidFunctions    []string
	Weight            float64
	MinConfidence     float64
}

// Validate ensures the rule has valid data.
func (r *CategoryRule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("category name is required")
	}

	if r.Weight <= 0 {
		return fmt.Errorf("category %q: weight must be positive, got %.2f", r.Name, r.Weight)
	}

	if r.MinConfidence < 0.0 || r.MinConfidence > 1.0 {
		return fmt.Errorf("category %q: min confidence must be between 0.0 and 1.0, got %.2f", r.Name, r.MinConfidence)
	}

	return nil
}

// RuleSet is an ordered collection of category rules. Declaration order is
// significant: when two categories score equally, the earlier one wins.
type RuleSet struct {
	index map[string]int
	rules []CategoryRule
}

// NewRuleSet builds a RuleSet from rules in declaration order.
// Category names must be unique.
func NewRuleSet(rules ...CategoryRule) (*RuleSet, error) {
	index := make(map[string]int, len(rules))

	for i := range rules {
		if err := rules[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid rule at index %d: %w", i, err)
		}
		if _, ok := index[rules[i].Name]; ok {
			return nil, fmt.Errorf("duplicate category %q in rule set", rules[i].Name)
		}
		index[rules[i].Name] = i
	}

	owned := make([]CategoryRule, len(rules))
	copy(owned, rules)

	return &RuleSet{rules: owned, index: index}, nil
}

// Len returns the number of rules in the set.
func (s *RuleSet) Len() int {
	return len(s.rules)
}

// Rules returns the rules in declaration order. The returned slice is shared;
// callers must not modify it.
func (s *RuleSet) Rules() []CategoryRule {
	return s.rules
}

// Categories returns the category names in declaration order.
func (s *RuleSet) Categories() []string {
	names := make([]string, len(s.rules))
	for i := range s.rules {
		names[i] = s.rules[i].Name
	}
	return names
}

// Get returns the rule for a category name.
func (s *RuleSet) Get(name string) (CategoryRule, bool) {
	i, ok := s.index[name]
	if !ok {
		return CategoryRule{}, false
	}
	return s.rules[i], true
}

// Position returns the declaration index of a category name.
func (s *RuleSet) Position(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}
