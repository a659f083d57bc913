package generator

import (
	"fmt"
	"strings"
)

// buildPrompt は生成入力からLLMプロンプトを構築する。
// JSONのみの応答を要求し、応答スキーマをプロンプト内に明示する。
func buildPrompt(input Input) string {
	var b strings.Builder

	b.WriteString("You are a professional nutritionist and meal planning expert. ")
	b.WriteString("Create a 7-day meal plan (Monday to Sunday) based on the user's requirements.\n\n")

	b.WriteString("USER PROFILE:\n")
	if input.Age > 0 {
		fmt.Fprintf(&b, "- Age: %d years\n", input.Age)
	}
	if input.Gender != "" {
		fmt.Fprintf(&b, "- Gender: %s\n", input.Gender)
	}
	if input.HeightCm > 0 {
		fmt.Fprintf(&b, "- Height: %.0f cm\n", input.HeightCm)
	}
	if input.WeightKg > 0 {
		fmt.Fprintf(&b, "- Weight: %.0f kg\n", input.WeightKg)
	}
	if input.ActivityLevel != "" {
		fmt.Fprintf(&b, "- Activity level: %s\n", input.ActivityLevel)
	}

	b.WriteString("\nREQUIREMENTS:\n")
	fmt.Fprintf(&b, "- Fitness goal: %s\n", input.FitnessGoal)
	fmt.Fprintf(&b, "- Preferred cuisine: %s\n", input.Cuisine)
	fmt.Fprintf(&b, "- Diet type: %s\n", input.DietType)

	min, max := CalorieBand(input.FitnessGoal)
	fmt.Fprintf(&b, "- Target daily calories: %d-%d kcal\n", min, max)

	if len(input.MedicalConditions) > 0 {
		fmt.Fprintf(&b, "- Medical conditions to account for: %s\n",
			strings.Join(input.MedicalConditions, ", "))
	}
	if len(input.FoodExclusions) > 0 {
		fmt.Fprintf(&b, "- Foods to exclude: %s\n",
			strings.Join(input.FoodExclusions, ", "))
	}
	if len(input.FoodPreferences) > 0 {
		fmt.Fprintf(&b, "- Foods to include where possible: %s\n",
			strings.Join(input.FoodPreferences, ", "))
	}

	b.WriteString(`
RESPONSE FORMAT:
Respond with JSON only, no prose and no markdown fences. The JSON must have
exactly this shape, with exactly 7 entries in "days":

{
  "week_start": "YYYY-MM-DD",
  "total_daily_calories": 1400,
  "goals": {"fitness_goal": "...", "cuisine": "...", "diet_type": "..."},
  "days": [
    {
      "day": "Monday",
      "meals": [
        {
          "type": "breakfast",
          "time": "8:00 AM",
          "name": "...",
          "ingredients": ["..."],
          "instructions": ["..."],
          "calories": 350
        }
      ]
    }
  ]
}

Each day must contain breakfast, lunch, dinner and one snack. All calorie
values must be non-negative integers.
`)

	return b.String()
}

// extractJSON はLLM応答からJSON本体を取り出す。
// モデルが指示に反してマークダウンのコードフェンスで囲んで返す場合があるため、
// フェンスを剥がした上で最初の '{' から最後の '}' までを返す。
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}
