package model

import (
	"testing"
)

func TestCategoryRule_Validate(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		rule    CategoryRule
		wantErr bool
	}{
		{
			name: "valid rule",
			rule: CategoryRule{
				Name:              "Face Moisturizer",
				RequiredFunctions: []string{"moisturizer/humectant", "emollient"},
				KeyIngredients:    []string{"hyaluronic acid", "glycerin"},
				Weight:            1.0,
				MinConfidence:     0.3,
			},
			wantErr: false,
		},
		{
			name: "missing name",
			rule: CategoryRule{
				Weight: 1.0,
			},
			wantErr: true,
			errMsg:  "category name is required",
		},
		{
			name: "zero weight",
			rule: CategoryRule{
				Name:   "Sunscreen",
				Weight: 0,
			},
			wantErr: true,
			errMsg:  `category "Sunscreen": weight must be positive, got 0.00`,
		},
		{
			name: "negative weight",
			rule: CategoryRule{
				Name:   "Sunscreen",
				Weight: -1.5,
			},
			wantErr: true,
			errMsg:  `category "Sunscreen": weight must be positive, got -1.50`,
		},
		{
			name: "min confidence out of range",
			rule: CategoryRule{
				Name:          "Face Toner",
				Weight:        1.1,
				MinConfidence: 1.5,
			},
			wantErr: true,
			errMsg:  `category "Face Toner": min confidence must be between 0.0 and 1.0, got 1.50`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && tt.errMsg != "" && err.Error() != tt.errMsg {
				t.Errorf("Validate() error = %v, want %v", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestNewRuleSet(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		rules   []CategoryRule
		wantErr bool
	}{
		{
			name: "valid rules",
			rules: []CategoryRule{
				{Name: "Face Moisturizer", Weight: 1.0},
				{Name: "Face Cleanser", Weight: 1.2},
			},
			wantErr: false,
		},
		{
			name:    "empty set is valid",
			rules:   nil,
			wantErr: false,
		},
		{
			name: "duplicate category",
			rules: []CategoryRule{
				{Name: "Sunscreen", Weight: 1.5},
				{Name: "Sunscreen", Weight: 1.0},
			},
			wantErr: true,
			errMsg:  `duplicate category "Sunscreen"`,
		},
		{
			name: "invalid rule",
			rules: []CategoryRule{
				{Name: "Sunscreen", Weight: 1.5},
				{Name: "", Weight: 1.0},
			},
			wantErr: true,
			errMsg:  "invalid rule at index 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRuleSet(tt.rules...)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewRuleSet() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && tt.errMsg != "" && !containsString(err.Error(), tt.errMsg) {
				t.Errorf("NewRuleSet() error = %v, want error containing %v", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestRuleSet_PreservesDeclarationOrder(t *testing.T) {
	set, err := NewRuleSet(
		CategoryRule{Name: "Face Moisturizer", Weight: 1.0},
		CategoryRule{Name: "Face Cleanser", Weight: 1.2},
		CategoryRule{Name: "Face Serum", Weight: 1.1},
	)
	if err != nil {
		t.Fatalf("NewRuleSet() unexpected error: %v", err)
	}

	want := []string{"Face Moisturizer", "Face Cleanser", "Face Serum"}
	got := set.Categories()

	if len(got) != len(want) {
		t.Fatalf("Categories() returned %d names, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("Categories()[%d] = %s, want %s", i, got[i], name)
		}
	}

	for i, name := range want {
		pos, ok := set.Position(name)
		if !ok || pos != i {
			t.Errorf("Position(%s) = %d, %v, want %d, true", name, pos, ok, i)
		}
	}
}

func TestRuleSet_Get(t *testing.T) {
	set, err := NewRuleSet(
		CategoryRule{Name: "Shampoo", Weight: 1.3, RequiredFunctions: []string{"surfactant/cleansing"}},
	)
	if err != nil {
		t.Fatalf("NewRuleSet() unexpected error: %v", err)
	}

	rule, ok := set.Get("Shampoo")
	if !ok {
		t.Fatal("Get(Shampoo) not found")
	}
	if rule.Weight != 1.3 || len(rule.RequiredFunctions) != 1 {
		t.Errorf("Get(Shampoo) = %+v, want weight 1.3 and one required function", rule)
	}

	if _, ok := set.Get("Nail Polish"); ok {
		t.Error("Get(Nail Polish) found, want missing")
	}
}
