package model

import (
	"testing"
)

func TestCategoryScore_Validate(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		score   CategoryScore
		wantErr bool
	}{
		{
			name: "valid score",
			score: CategoryScore{
				Category: "Face Moisturizer",
				Score:    4.5,
			},
			wantErr: false,
		},
		{
			name: "empty category name",
			score: CategoryScore{
				Score: 0.5,
			},
			wantErr: true,
			errMsg:  "category name is required",
		},
		{
			name: "negative score",
			score: CategoryScore{
				Category: "Sunscreen",
				Score:    -0.1,
			},
			wantErr: true,
			errMsg:  "score must be non-negative, got -0.10",
		},
		{
			name: "edge case - score 0.0",
			score: CategoryScore{
				Category: "Face Toner",
				Score:    0.0,
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.score.Validate()
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

func TestCategoryScores_Sort(t *testing.T) {
	scores := CategoryScores{
		{Category: "Face Cleanser", Score: 2.5, Position: 1},
		{Category: "Face Moisturizer", Score: 4.8, Position: 0},
		{Category: "Body Wash", Score: 1.2, Position: 14},
		{Category: "Face Serum", Score: 4.8, Position: 2}, // Same score as Face Moisturizer
	}

	scores.Sort()

	// Check order
	expected := []struct {
		category string
		score    float64
	}{
		{"Face Moisturizer", 4.8}, // First by score, then by declaration position
		{"Face Serum", 4.8},
		{"Face Cleanser", 2.5},
		{"Body Wash", 1.2},
	}

	for i, exp := range expected {
		if scores[i].Category != exp.category || scores[i].Score != exp.score {
			t.Errorf("Sort() index %d = %v, want {%s, %.1f}",
				i, scores[i], exp.category, exp.score)
		}
	}
}

func TestCategoryScores_Sort_TieBreakByPosition(t *testing.T) {
	// Equal scores must resolve to whichever category was declared first,
	// regardless of alphabetical order.
	scores := CategoryScores{
		{Category: "Acne Treatment", Score: 3.0, Position: 3},
		{Category: "Sunscreen", Score: 3.0, Position: 6},
		{Category: "Face Mask", Score: 3.0, Position: 4},
	}

	scores.Sort()

	want := []string{"Acne Treatment", "Face Mask", "Sunscreen"}
	for i, cat := range want {
		if scores[i].Category != cat {
			t.Errorf("Sort() index %d = %s, want %s", i, scores[i].Category, cat)
		}
	}
}

func TestCategoryScores_Top(t *testing.T) {
	tests := []struct {
		want   *CategoryScore
		name   string
		scores CategoryScores
	}{
		{
			name:   "empty scores",
			scores: CategoryScores{},
			want:   nil,
		},
		{
			name: "single score",
			scores: CategoryScores{
				{Category: "Shampoo", Score: 2.6},
			},
			want: &CategoryScore{Category: "Shampoo", Score: 2.6},
		},
		{
			name: "multiple scores",
			scores: CategoryScores{
				{Category: "Conditioner", Score: 1.5},
				{Category: "Shampoo", Score: 3.9},
				{Category: "Hair Mask", Score: 0.3},
			},
			want: &CategoryScore{Category: "Shampoo", Score: 3.9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.scores.Top()
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("Top() = %v, want nil", got)
			case tt.want != nil && got == nil:
				t.Errorf("Top() = nil, want %v", tt.want)
			case tt.want != nil && got != nil && (got.Category != tt.want.Category || got.Score != tt.want.Score):
				t.Errorf("Top() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategoryScores_TopN(t *testing.T) {
	scores := CategoryScores{
		{Category: "A", Score: 0.9},
		{Category: "B", Score: 0.7},
		{Category: "C", Score: 0.5},
		{Category: "D", Score: 0.3},
		{Category: "E", Score: 0.1},
	}

	tests := []struct {
		name  string
		first string
		last  string
		n     int
		count int
	}{
		{name: "zero", n: 0, count: 0, first: "", last: ""},
		{name: "negative", n: -1, count: 0, first: "", last: ""},
		{name: "top 1", n: 1, count: 1, first: "A", last: "A"},
		{name: "top 3", n: 3, count: 3, first: "A", last: "C"},
		{name: "top all", n: 5, count: 5, first: "A", last: "E"},
		{name: "top more than exists", n: 10, count: 5, first: "A", last: "E"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scores.TopN(tt.n)
			if len(got) != tt.count {
				t.Errorf("TopN(%d) returned %d items, want %d", tt.n, len(got), tt.count)
			}
			if tt.count > 0 {
				if got[0].Category != tt.first {
					t.Errorf("TopN(%d) first = %s, want %s", tt.n, got[0].Category, tt.first)
				}
				if got[len(got)-1].Category != tt.last {
					t.Errorf("TopN(%d) last = %s, want %s", tt.n, got[len(got)-1].Category, tt.last)
				}
			}
		})
	}
}

func TestCategoryScores_Alternatives(t *testing.T) {
	scores := CategoryScores{
		{Category: "Face Serum", Score: 6.2},
		{Category: "Face Moisturizer", Score: 4.1},
		{Category: "Brightening Treatment", Score: 2.0},
		{Category: "Face Toner", Score: 0.5},
		{Category: "Sunscreen", Score: 0.0},
	}

	tests := []struct {
		name     string
		winner   string
		want     []string
		n        int
		minScore float64
	}{
		{
			name:     "next three above zero",
			winner:   "Face Serum",
			n:        3,
			minScore: 0.0,
			want:     []string{"Face Moisturizer", "Brightening Treatment", "Face Toner"},
		},
		{
			name:     "min score filters tail",
			winner:   "Face Serum",
			n:        3,
			minScore: 1.0,
			want:     []string{"Face Moisturizer", "Brightening Treatment"},
		},
		{
			name:     "n limits results",
			winner:   "Face Serum",
			n:        1,
			minScore: 0.0,
			want:     []string{"Face Moisturizer"},
		},
		{
			name:     "winner excluded even mid-list",
			winner:   "Face Moisturizer",
			n:        3,
			minScore: 0.0,
			want:     []string{"Face Serum", "Brightening Treatment", "Face Toner"},
		},
		{
			name:     "zero n",
			winner:   "Face Serum",
			n:        0,
			minScore: 0.0,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scores.Alternatives(tt.winner, tt.n, tt.minScore)
			if len(got) != len(tt.want) {
				t.Fatalf("Alternatives() returned %d items, want %d", len(got), len(tt.want))
			}
			for i, cat := range tt.want {
				if got[i].Category != cat {
					t.Errorf("Alternatives()[%d] = %s, want %s", i, got[i].Category, cat)
				}
			}
		})
	}
}

func TestCategoryScores_Map(t *testing.T) {
	scores := CategoryScores{
		{Category: "Shampoo", Score: 3.9},
		{Category: "Conditioner", Score: 1.5},
	}

	m := scores.Map()

	if len(m) != 2 {
		t.Fatalf("Map() returned %d entries, want 2", len(m))
	}
	if m["Shampoo"] != 3.9 || m["Conditioner"] != 1.5 {
		t.Errorf("Map() = %v, want Shampoo=3.9 Conditioner=1.5", m)
	}
}

func TestCategoryScores_Validate(t *testing.T) {
	tests := []struct {
		name    string
		errMsg  string
		scores  CategoryScores
		wantErr bool
	}{
		{
			name: "valid scores",
			scores: CategoryScores{
				{Category: "A", Score: 0.9},
				{Category: "B", Score: 0.7},
			},
			wantErr: false,
		},
		{
			name: "duplicate category",
			scores: CategoryScores{
				{Category: "A", Score: 0.9},
				{Category: "A", Score: 0.7},
			},
			wantErr: true,
			errMsg:  "duplicate category",
		},
		{
			name: "invalid score",
			scores: CategoryScores{
				{Category: "A", Score: 0.9},
				{Category: "", Score: 0.7},
			},
			wantErr: true,
			errMsg:  "invalid score at index 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scores.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil && tt.errMsg != "" {
				if !containsString(err.Error(), tt.errMsg) {
					t.Errorf("Validate() error = %v, want error containing %v", err.Error(), tt.errMsg)
				}
			}
		})
	}
}

// Helper function.
func containsString(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(s) > len(substr) && containsSubstring(s, substr))
}

func containsSubstring(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
