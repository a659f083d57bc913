// Package model はドメインモデルを定義する。
package model

import "time"

// Meal は1食分の料理を表す。
// 生成後は不変で、日の中での位置以外に同一性を持たない。
type Meal struct {
	Type         string   `json:"type"`         // breakfast / lunch / dinner / snack（実態は自由記述）
	Time         string   `json:"time"`         // 表示用時刻文字列（パースしない）
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`  // 順序付き。nil不可（空は許容）
	Instructions []string `json:"instructions"` // 手順。リスト順 = 手順順
	Calories     int      `json:"calories"`     // 非負
}

// DayPlan は1日分の食事を表す。
type DayPlan struct {
	Day   string `json:"day"` // 曜日名（例: "Monday"）
	Meals []Meal `json:"meals"`
}

// PlanGoals はプラン生成時の選択入力3つ組を表す。
type PlanGoals struct {
	FitnessGoal string `json:"fitness_goal"`
	Cuisine     string `json:"cuisine"`
	DietType    string `json:"diet_type"`
}

// WeeklyMealPlan は7日分のミールプランのルート成果物。
//
// 生成器が返すWeeklyMealPlanは以下の不変条件を満たす:
//   - Daysはちょうど7要素
//   - 各MealのCaloriesは非負
//   - Ingredients / Instructionsはnilでない（空は許容）
//
// PDFレンダラーはこの不変条件を前提とし、再検証しない。
type WeeklyMealPlan struct {
	WeekStart          string    `json:"week_start"` // 表示用文字列
	TotalDailyCalories int       `json:"total_daily_calories"`
	Goals              PlanGoals `json:"goals"`
	Days               []DayPlan `json:"days"`
}

// MealPlanRecord はWeeklyMealPlanの永続化ラッパーを表す。
//
// 不変条件: 1ユーザーにつきIsActive=trueのレコードは高々1件。
// 新しいアクティブプランの作成は、同一ユーザーの既存アクティブプランの
// 無効化と不可分に行われる（last-writer-wins）。
type MealPlanRecord struct {
	ID          string
	UserID      string
	FitnessGoal string
	Cuisine     string
	DietType    string
	Plan        WeeklyMealPlan
	IsActive    bool
	CreatedAt   time.Time
}

// PdfFileRecord は生成済みPDFのメタデータを表す。
// 生成時刻+48時間で期限切れとなり、外部スイープで削除される。
type PdfFileRecord struct {
	ID         string
	MealPlanID string
	FileURL    string
	ExpiresAt  time.Time // 作成時刻 + 48時間（呼び出し側で計算）
	CreatedAt  time.Time
}

// PdfExpiry はPDFメタデータの有効期間。固定値。
const PdfExpiry = 48 * time.Hour
