package generator

import (
	"strings"
	"testing"
)

// プロンプトにゴール別の推奨カロリー帯が含まれることを検証
func TestBuildPrompt_IncludesCalorieBand(t *testing.T) {
	tests := []struct {
		goal string
		want string
	}{
		{"weight_loss", "1200-1500 kcal"},
		{"weight_gain", "2000-2500 kcal"},
		{"maintenance", "1600-2000 kcal"},
	}
	for _, tt := range tests {
		t.Run(tt.goal, func(t *testing.T) {
			prompt := buildPrompt(Input{FitnessGoal: tt.goal})
			if !strings.Contains(prompt, tt.want) {
				t.Errorf("prompt should contain %q", tt.want)
			}
		})
	}
}

// プロンプトに制約条件が全て反映されることを検証
func TestBuildPrompt_IncludesConstraints(t *testing.T) {
	prompt := buildPrompt(Input{
		FitnessGoal:       "weight_loss",
		Cuisine:           "indian",
		DietType:          "vegetarian",
		MedicalConditions: []string{"diabetes", "hypertension"},
		FoodExclusions:    []string{"peanuts"},
		Age:               34,
		Gender:            "female",
	})

	for _, want := range []string{
		"indian", "vegetarian", "weight_loss",
		"diabetes, hypertension", "peanuts",
		"Age: 34", "Gender: female",
		"exactly 7 entries",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt should contain %q", want)
		}
	}
}

// 未設定のプロフィール項目がプロンプトに含まれないことを検証
func TestBuildPrompt_OmitsEmptyProfile(t *testing.T) {
	prompt := buildPrompt(Input{FitnessGoal: "maintenance", Cuisine: "japanese"})

	for _, unwanted := range []string{"Age:", "Gender:", "Height:", "Weight:", "Medical conditions", "Foods to exclude"} {
		if strings.Contains(prompt, unwanted) {
			t.Errorf("prompt should not contain %q for empty input", unwanted)
		}
	}
}

// extractJSONの各入力形式を検証
func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"素のJSON", `{"a": 1}`, `{"a": 1}`},
		{"jsonフェンス", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"言語指定なしフェンス", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"前置きテキスト付き", "Here is the plan:\n{\"a\": 1}", `{"a": 1}`},
		{"JSONなし", "no json here", ""},
		{"空文字列", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
