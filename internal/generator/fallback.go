package generator

import (
	"context"
	"strings"
	"time"

	"github.com/hitoshi/mealdesk/internal/model"
)

// weekdays は生成プランの日順。月曜始まり。
var weekdays = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// mealSlot は1日の中の食事枠と表示時刻の定義。
type mealSlot struct {
	mealType string
	time     string
}

var mealSlots = [4]mealSlot{
	{"breakfast", "8:00 AM"},
	{"lunch", "12:30 PM"},
	{"snack", "4:00 PM"},
	{"dinner", "7:00 PM"},
}

// FallbackGenerator は固定カタログから決定的にプランを組み立てるGenerator実装。
// 外部認証情報が未設定の場合とオフラインテストで使用し、
// Generatorの契約が外部依存なしで満たせることを保証する。
type FallbackGenerator struct {
	now func() time.Time // テストで固定時刻を注入するためのフック
}

// NewFallbackGenerator はFallbackGeneratorを生成する。
func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{now: time.Now}
}

// Generate はカタログから7日分のプランを決定的に組み立てる。
// 同一入力・同一週に対して常に同一のプランを返す。失敗しない。
func (g *FallbackGenerator) Generate(ctx context.Context, input Input) (*model.WeeklyMealPlan, error) {
	catalog := catalogFor(strings.ToLower(input.Cuisine))
	min, max := CalorieBand(input.FitnessGoal)

	plan := &model.WeeklyMealPlan{
		WeekStart:          nextMonday(g.now()).Format("2006-01-02"),
		TotalDailyCalories: (min + max) / 2,
		Goals: model.PlanGoals{
			FitnessGoal: input.FitnessGoal,
			Cuisine:     input.Cuisine,
			DietType:    input.DietType,
		},
		Days: make([]model.DayPlan, 0, len(weekdays)),
	}

	for i, day := range weekdays {
		meals := make([]model.Meal, 0, len(mealSlots))
		for _, slot := range mealSlots {
			tmpl := pickTemplate(catalog, slot.mealType, i)
			meals = append(meals, model.Meal{
				Type:         slot.mealType,
				Time:         slot.time,
				Name:         tmpl.name,
				Ingredients:  append([]string(nil), tmpl.ingredients...),
				Instructions: append([]string(nil), tmpl.instructions...),
				Calories:     tmpl.calories,
			})
		}
		plan.Days = append(plan.Days, model.DayPlan{Day: day, Meals: meals})
	}

	return plan, nil
}

// pickTemplate はカタログから曜日インデックスの剰余で食事を選択する。
// 月曜（dayIndex=0）は常に各枠の先頭エントリになる。
func pickTemplate(catalog cuisineCatalog, mealType string, dayIndex int) mealTemplate {
	var pool []mealTemplate
	switch mealType {
	case "breakfast":
		pool = catalog.breakfasts
	case "lunch":
		pool = catalog.lunches
	case "dinner":
		pool = catalog.dinners
	default:
		pool = catalog.snacks
	}
	return pool[dayIndex%len(pool)]
}

// nextMonday はtより後の直近の月曜を返す。t自身が月曜の場合はtの日付を返す。
func nextMonday(t time.Time) time.Time {
	offset := (int(time.Monday) - int(t.Weekday()) + 7) % 7
	return t.AddDate(0, 0, offset)
}

// compile-time interface check
var _ Generator = (*FallbackGenerator)(nil)
