// Package plan はミールプラン生成と参照のドメインロジックを提供する。
package plan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/mealdesk/internal/generator"
	"github.com/hitoshi/mealdesk/internal/model"
	"github.com/hitoshi/mealdesk/internal/repository"
)

// GenerateInput はプラン生成リクエストの入力を表す。
type GenerateInput struct {
	UserID         string
	FitnessGoal    string
	Cuisine        string
	DietType       string
	FoodExclusions []string
}

// GenerationObserver は生成メトリクスの記録インターフェース。
type GenerationObserver interface {
	ObserveGeneration(success bool, elapsed time.Duration)
}

// Service はミールプランのサービス層。
// 生成・一覧・個別取得のビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	planRepo repository.MealPlanRepository
	gen      generator.Generator
	observer GenerationObserver // nil可
	now      func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// observerはnilでもよい（メトリクスなしで動作する）。
func NewService(
	userRepo repository.UserRepository,
	planRepo repository.MealPlanRepository,
	gen generator.Generator,
	observer GenerationObserver,
) *Service {
	return &Service{
		userRepo: userRepo,
		planRepo: planRepo,
		gen:      gen,
		observer: observer,
		now:      time.Now,
	}
}

// validFitnessGoals は受け付けるフィットネスゴールの集合。
var validFitnessGoals = map[string]bool{
	"weight_loss": true,
	"weight_gain": true,
	"maintenance": true,
}

// Generate はユーザーのプロフィールと選択条件から新しいプランを生成し、
// アクティブプランとして保存する。保存は既存アクティブプランの
// 非アクティブ化と不可分に行われる（リポジトリの契約）。
func (s *Service) Generate(ctx context.Context, input GenerateInput) (*model.MealPlanRecord, error) {
	if input.UserID == "" {
		return nil, model.NewInvalidRequestError("user_idは必須です")
	}
	if !validFitnessGoals[input.FitnessGoal] {
		return nil, model.NewInvalidRequestError("fitness_goalはweight_loss / weight_gain / maintenanceのいずれかを指定してください")
	}
	if input.Cuisine == "" {
		return nil, model.NewInvalidRequestError("cuisineは必須です")
	}
	if input.DietType == "" {
		return nil, model.NewInvalidRequestError("diet_typeは必須です")
	}

	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(input.UserID)
	}

	start := s.now()
	weekly, err := s.gen.Generate(ctx, generator.Input{
		FitnessGoal:       input.FitnessGoal,
		Cuisine:           input.Cuisine,
		DietType:          input.DietType,
		MedicalConditions: user.HealthConditions,
		FoodExclusions:    input.FoodExclusions,
		FoodPreferences:   user.FoodsToInclude,
		Age:               user.Age,
		Gender:            user.Gender,
		HeightCm:          user.HeightCm,
		WeightKg:          user.WeightKg,
		ActivityLevel:     user.ActivityLevel,
	})
	if s.observer != nil {
		s.observer.ObserveGeneration(err == nil, s.now().Sub(start))
	}
	if err != nil {
		slog.Error("ミールプランの生成に失敗しました",
			slog.String("user_id", input.UserID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	record := &model.MealPlanRecord{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		FitnessGoal: input.FitnessGoal,
		Cuisine:     input.Cuisine,
		DietType:    input.DietType,
		Plan:        *weekly,
		IsActive:    true,
		CreatedAt:   s.now(),
	}

	if err := s.planRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("プランの保存に失敗しました: %w", err)
	}

	slog.Info("ミールプランを生成しました",
		slog.String("user_id", user.ID),
		slog.String("plan_id", record.ID),
		slog.String("fitness_goal", input.FitnessGoal),
	)

	return record, nil
}

// ListByUID はUIDで指定したユーザーのプラン一覧を作成順で返す。
// ユーザーが存在しない場合はUSER_NOT_FOUNDエラー、
// プランが1件もない場合は空スライスを返す。
func (s *Service) ListByUID(ctx context.Context, uid string) ([]*model.MealPlanRecord, error) {
	user, err := s.userRepo.FindByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(uid)
	}

	records, err := s.planRepo.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("プラン一覧の取得に失敗しました: %w", err)
	}
	if records == nil {
		records = []*model.MealPlanRecord{}
	}
	return records, nil
}

// GetByID はプランIDで1件取得する。
// 存在しない場合はPLAN_NOT_FOUNDエラーを返す。
func (s *Service) GetByID(ctx context.Context, id string) (*model.MealPlanRecord, error) {
	record, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("プランの取得に失敗しました: %w", err)
	}
	if record == nil {
		return nil, model.NewPlanNotFoundError(id)
	}
	return record, nil
}
