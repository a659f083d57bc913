// Package generator はユーザーの制約条件から7日分のミールプランを生成する。
//
// LLM（Gemini）を使用する実装と、外部依存なしで動作する決定的な
// フォールバック実装が同一のGeneratorインターフェースを満たし、
// 起動時にAPIキーの有無で1回だけ選択される。
package generator

import (
	"context"

	"github.com/hitoshi/mealdesk/internal/model"
)

// Input はプラン生成の入力を表す。
// カテゴリ選択3つ組に加え、プロンプトの質を上げるための
// プロフィール由来のヒントを含む。
type Input struct {
	FitnessGoal string // weight_loss / weight_gain / maintenance
	Cuisine     string
	DietType    string

	MedicalConditions []string
	FoodExclusions    []string
	FoodPreferences   []string

	Age           int
	Gender        string
	HeightCm      float64
	WeightKg      float64
	ActivityLevel string
}

// Generator はミールプラン生成のインターフェース。
//
// 返されるWeeklyMealPlanはmodelパッケージの不変条件
// （7日分、非負カロリー、非nilリスト）を満たす。
// 生成失敗はGENERATION_FAILEDのAPIErrorとして返し、内部でリトライしない。
type Generator interface {
	Generate(ctx context.Context, input Input) (*model.WeeklyMealPlan, error)
}

// CalorieBand はフィットネスゴールに対応する推奨1日カロリー帯を返す。
// この帯はプロンプトに記載される助言であり、LLM応答の
// total_daily_caloriesが帯の外でもサーバー側では拒否しない。
func CalorieBand(fitnessGoal string) (min, max int) {
	switch fitnessGoal {
	case "weight_loss":
		return 1200, 1500
	case "weight_gain":
		return 2000, 2500
	default: // maintenance
		return 1600, 2000
	}
}

// validatePlan は生成されたプランを不変条件に照らして検証・正規化する。
//   - 日数がちょうど7でなければGENERATION_FAILED
//   - カロリーが負ならGENERATION_FAILED
//   - nilのingredients/instructionsは空スライスに正規化
//
// PDFレンダラーはこの不変条件を前提とするため、違反はここで止める。
func validatePlan(plan *model.WeeklyMealPlan) error {
	if len(plan.Days) != 7 {
		return model.NewGenerationFailedError("応答が7日分ではありません")
	}

	for di := range plan.Days {
		for mi := range plan.Days[di].Meals {
			meal := &plan.Days[di].Meals[mi]
			if meal.Calories < 0 {
				return model.NewGenerationFailedError("カロリーに負の値が含まれています")
			}
			if meal.Ingredients == nil {
				meal.Ingredients = []string{}
			}
			if meal.Instructions == nil {
				meal.Instructions = []string{}
			}
		}
	}
	return nil
}
