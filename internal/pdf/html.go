package pdf

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/hitoshi/mealdesk/internal/model"
)

// TextSanitizer はHTMLプレビューに埋め込むテキストのサニタイズを抽象化する。
// security.TextSanitizerServiceの部分集合として定義する。
type TextSanitizer interface {
	Sanitize(raw string) string
}

// previewTemplate はHTMLプレビューのテンプレート。
// PDFと同じ入れ子構造（ヘッダー → 日 → 食事 → 材料/手順）を再現する。
// ブラウザが折り返しを行うため、ページ分割や幅制御は持たない。
var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>7-Day Meal Plan</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; max-width: 720px; margin: 2rem auto; color: #222; }
  h1 { font-size: 1.6rem; }
  h2 { font-size: 1.2rem; border-bottom: 1px solid #ddd; padding-bottom: 0.2rem; margin-top: 1.6rem; }
  .summary { color: #555; margin-bottom: 1rem; }
  .meal { margin: 0.8rem 0 1.2rem; }
  .meal-header { display: flex; justify-content: space-between; font-weight: bold; }
  .meal-time { color: #777; font-size: 0.9rem; }
  .label { font-weight: bold; margin-top: 0.4rem; }
  ol, p.ingredients { margin: 0.2rem 0; }
  footer { margin-top: 2rem; color: #888; font-size: 0.8rem; }
</style>
</head>
<body>
<h1>7-Day Personalized Meal Plan</h1>
<p class="summary">
  Week starting: {{.WeekStart}}<br>
  Goal: {{.Goals.FitnessGoal}} | Cuisine: {{.Goals.Cuisine}} | Diet: {{.Goals.DietType}}<br>
  Target daily calories: {{.TotalDailyCalories}} kcal
</p>
{{range .Days}}
<h2>{{.Day}}</h2>
{{range .Meals}}
<div class="meal">
  <div class="meal-header"><span>{{.Name}} ({{.Type}})</span><span>{{.Calories}} kcal</span></div>
  <div class="meal-time">{{.Time}}</div>
  <div class="label">Ingredients:</div>
  <p class="ingredients">{{.IngredientsJoined}}</p>
  <div class="label">Instructions:</div>
  <ol>
  {{- range .Instructions}}
    <li>{{.}}</li>
  {{- end}}
  </ol>
</div>
{{end}}
{{end}}
<footer>
  Generated by Mealdesk. This plan is a suggestion, not medical advice.<br>
  Consult a healthcare professional before making major dietary changes.
</footer>
</body>
</html>
`))

// previewMeal はテンプレートに渡す食事データ。材料は結合済み文字列で持つ。
type previewMeal struct {
	Type              string
	Time              string
	Name              string
	IngredientsJoined string
	Instructions      []string
	Calories          int
}

type previewDay struct {
	Day   string
	Meals []previewMeal
}

type previewData struct {
	WeekStart          string
	TotalDailyCalories int
	Goals              model.PlanGoals
	Days               []previewDay
}

// FormatHTML はプランのHTMLプレビューを生成する。
//
// PDFパスと異なりASCIIサニタイズは行わない（ブラウザは絵文字等を描画できる）。
// 代わりにLLM由来の全テキストをsanitizerに通し、生成物経由の
// マークアップ混入を防いだ上でテンプレートに渡す。
func FormatHTML(plan *model.WeeklyMealPlan, sanitizer TextSanitizer) (string, error) {
	data := previewData{
		WeekStart:          sanitizer.Sanitize(plan.WeekStart),
		TotalDailyCalories: plan.TotalDailyCalories,
		Goals: model.PlanGoals{
			FitnessGoal: sanitizer.Sanitize(plan.Goals.FitnessGoal),
			Cuisine:     sanitizer.Sanitize(plan.Goals.Cuisine),
			DietType:    sanitizer.Sanitize(plan.Goals.DietType),
		},
	}

	for _, day := range plan.Days {
		pd := previewDay{Day: sanitizer.Sanitize(day.Day)}
		for _, meal := range day.Meals {
			pm := previewMeal{
				Type:              sanitizer.Sanitize(meal.Type),
				Time:              sanitizer.Sanitize(meal.Time),
				Name:              sanitizer.Sanitize(meal.Name),
				IngredientsJoined: sanitizer.Sanitize(strings.Join(meal.Ingredients, ", ")),
				Calories:          meal.Calories,
			}
			for _, step := range meal.Instructions {
				pm.Instructions = append(pm.Instructions, sanitizer.Sanitize(step))
			}
			pd.Meals = append(pd.Meals, pm)
		}
		data.Days = append(data.Days, pd)
	}

	var b strings.Builder
	if err := previewTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("failed to execute preview template: %w", err)
	}
	return b.String(), nil
}
