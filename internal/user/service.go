// Package user はユーザープロフィール管理のドメインロジックを提供する。
package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/mealdesk/internal/model"
	"github.com/hitoshi/mealdesk/internal/repository"
)

// RegisterInput はユーザー登録の入力を表す。
// 初回認証後にIdP由来の属性で呼ばれる。
type RegisterInput struct {
	UID   string
	Email string
	Name  string
}

// Service はユーザー管理のサービス層。
// 登録・取得・プロフィール部分更新のビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// GetByUID は外部IdPのUIDでユーザーを取得する。
// 存在しない場合はUSER_NOT_FOUNDエラーを返す。
func (s *Service) GetByUID(ctx context.Context, uid string) (*model.User, error) {
	user, err := s.userRepo.FindByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(uid)
	}
	return user, nil
}

// Register はユーザーを登録する。冪等: 同じUIDで既に登録済みの場合は
// エラーにせず既存ユーザーを返す（再認証のたびに呼ばれるため）。
// 戻り値のcreatedは新規作成された場合のみtrue。
func (s *Service) Register(ctx context.Context, input RegisterInput) (*model.User, bool, error) {
	if input.UID == "" {
		return nil, false, model.NewInvalidRequestError("uidは必須です")
	}
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, false, model.NewInvalidRequestError("emailの形式が不正です")
	}

	existing, err := s.userRepo.FindByUID(ctx, input.UID)
	if err != nil {
		return nil, false, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	now := s.now()
	user := &model.User{
		ID:               uuid.New().String(),
		UID:              input.UID,
		Email:            input.Email,
		Name:             input.Name,
		HealthConditions: []string{},
		FoodsToInclude:   []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	// FindByUIDとCreateの間に同一UIDの並行登録が割り込んだ場合は
	// リポジトリの一意制約がDUPLICATE_USERとして検出する
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, false, err
	}

	slog.Info("ユーザーを登録しました",
		slog.String("user_id", user.ID),
		slog.String("uid", user.UID),
	)

	return user, true, nil
}

// UpdateProfile はユーザープロフィールを部分更新する。
// patchのnilフィールドは変更されない。
func (s *Service) UpdateProfile(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError(id)
	}

	applyPatch(user, patch)
	user.UpdatedAt = s.now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("プロフィールを更新しました",
		slog.String("user_id", user.ID),
	)

	return user, nil
}

// validatePatch は部分更新の入力値を検証する。
func validatePatch(patch model.UserPatch) error {
	if patch.Age != nil && (*patch.Age < 0 || *patch.Age > 150) {
		return model.NewInvalidRequestError("ageは0から150の範囲で指定してください")
	}
	if patch.HeightCm != nil && *patch.HeightCm < 0 {
		return model.NewInvalidRequestError("height_cmは0以上で指定してください")
	}
	if patch.WeightKg != nil && *patch.WeightKg < 0 {
		return model.NewInvalidRequestError("weight_kgは0以上で指定してください")
	}
	return nil
}

// applyPatch はnilでないフィールドだけをuserに反映する。
func applyPatch(user *model.User, patch model.UserPatch) {
	if patch.Name != nil {
		user.Name = *patch.Name
	}
	if patch.Age != nil {
		user.Age = *patch.Age
	}
	if patch.Gender != nil {
		user.Gender = *patch.Gender
	}
	if patch.HeightCm != nil {
		user.HeightCm = *patch.HeightCm
	}
	if patch.WeightKg != nil {
		user.WeightKg = *patch.WeightKg
	}
	if patch.ActivityLevel != nil {
		user.ActivityLevel = *patch.ActivityLevel
	}
	if patch.CountryRegion != nil {
		user.CountryRegion = *patch.CountryRegion
	}
	if patch.HealthConditions != nil {
		user.HealthConditions = *patch.HealthConditions
	}
	if patch.FoodsToInclude != nil {
		user.FoodsToInclude = *patch.FoodsToInclude
	}
}
