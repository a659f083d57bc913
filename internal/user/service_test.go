package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/mealdesk/internal/model"
)

// --- モック ---

type mockUserRepo struct {
	findByIDFn  func(ctx context.Context, id string) (*model.User, error)
	findByUIDFn func(ctx context.Context, uid string) (*model.User, error)
	createFn    func(ctx context.Context, user *model.User) error
	updateFn    func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockUserRepo) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	if m.findByUIDFn != nil {
		return m.findByUIDFn(ctx, uid)
	}
	return nil, nil
}
func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}
func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func ptr[T any](v T) *T { return &v }

// --- テスト ---

// TestService_Register は新規ユーザーが作成されることを検証する。
func TestService_Register(t *testing.T) {
	var created *model.User
	repo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}

	svc := NewService(repo)
	fixed := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	user, isNew, err := svc.Register(context.Background(), RegisterInput{
		UID:   "firebase-uid-1",
		Email: "taro@example.com",
		Name:  "Taro",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if !isNew {
		t.Error("expected created=true for a new user")
	}
	if created == nil {
		t.Fatal("expected repository Create to be called")
	}
	if user.ID == "" {
		t.Error("expected a generated user ID")
	}
	if user.UID != "firebase-uid-1" || user.Email != "taro@example.com" || user.Name != "Taro" {
		t.Errorf("unexpected user fields: %+v", user)
	}
	if !user.CreatedAt.Equal(fixed) || !user.UpdatedAt.Equal(fixed) {
		t.Errorf("timestamps not set from clock: %+v", user)
	}
	if user.HealthConditions == nil || user.FoodsToInclude == nil {
		t.Error("list fields should be initialized, not nil")
	}
}

// TestService_Register_Idempotent は登録済みUIDで既存ユーザーが返ることを検証する。
func TestService_Register_Idempotent(t *testing.T) {
	existing := &model.User{ID: "user-1", UID: "firebase-uid-1", Email: "taro@example.com"}
	createCalled := false
	repo := &mockUserRepo{
		findByUIDFn: func(ctx context.Context, uid string) (*model.User, error) {
			return existing, nil
		},
		createFn: func(ctx context.Context, user *model.User) error {
			createCalled = true
			return nil
		},
	}

	svc := NewService(repo)
	user, isNew, err := svc.Register(context.Background(), RegisterInput{
		UID:   "firebase-uid-1",
		Email: "other@example.com",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if isNew {
		t.Error("expected created=false for an existing user")
	}
	if user != existing {
		t.Error("expected the existing user to be returned unchanged")
	}
	if createCalled {
		t.Error("Create should not be called for an existing user")
	}
}

// TestService_Register_Invalid は入力検証エラーを検証する。
func TestService_Register_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"uidなし", RegisterInput{Email: "a@example.com"}},
		{"emailなし", RegisterInput{UID: "u1"}},
		{"email形式不正", RegisterInput{UID: "u1", Email: "not-an-email"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&mockUserRepo{})
			_, _, err := svc.Register(context.Background(), tt.input)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidRequest {
				t.Errorf("err = %v, want INVALID_REQUEST", err)
			}
		})
	}
}

// TestService_GetByUID_NotFound は未登録UIDでUSER_NOT_FOUNDになることを検証する。
func TestService_GetByUID_NotFound(t *testing.T) {
	svc := NewService(&mockUserRepo{})

	_, err := svc.GetByUID(context.Background(), "unknown-uid")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("err = %v, want USER_NOT_FOUND", err)
	}
}

// TestService_UpdateProfile はnilでないフィールドだけが更新されることを検証する。
func TestService_UpdateProfile(t *testing.T) {
	stored := &model.User{
		ID:            "user-1",
		UID:           "firebase-uid-1",
		Email:         "taro@example.com",
		Name:          "Taro",
		Age:           30,
		ActivityLevel: "light",
	}
	var updated *model.User
	repo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return stored, nil
		},
		updateFn: func(ctx context.Context, user *model.User) error {
			updated = user
			return nil
		},
	}

	svc := NewService(repo)
	fixed := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	got, err := svc.UpdateProfile(context.Background(), "user-1", model.UserPatch{
		Age:              ptr(31),
		WeightKg:         ptr(72.5),
		HealthConditions: ptr([]string{"diabetes"}),
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if updated == nil {
		t.Fatal("expected repository Update to be called")
	}
	if got.Age != 31 || got.WeightKg != 72.5 {
		t.Errorf("patched fields not applied: %+v", got)
	}
	if len(got.HealthConditions) != 1 || got.HealthConditions[0] != "diabetes" {
		t.Errorf("HealthConditions = %v, want [diabetes]", got.HealthConditions)
	}
	// nilフィールドは据え置き
	if got.Name != "Taro" || got.ActivityLevel != "light" {
		t.Errorf("untouched fields changed: %+v", got)
	}
	if !got.UpdatedAt.Equal(fixed) {
		t.Errorf("UpdatedAt = %v, want %v", got.UpdatedAt, fixed)
	}
}

// TestService_UpdateProfile_NotFound は存在しないIDでUSER_NOT_FOUNDになることを検証する。
func TestService_UpdateProfile_NotFound(t *testing.T) {
	svc := NewService(&mockUserRepo{})

	_, err := svc.UpdateProfile(context.Background(), "missing", model.UserPatch{Name: ptr("x")})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeUserNotFound {
		t.Errorf("err = %v, want USER_NOT_FOUND", err)
	}
}

// TestService_UpdateProfile_InvalidPatch は不正な値の部分更新が拒否されることを検証する。
func TestService_UpdateProfile_InvalidPatch(t *testing.T) {
	tests := []struct {
		name  string
		patch model.UserPatch
	}{
		{"負のage", model.UserPatch{Age: ptr(-1)}},
		{"過大なage", model.UserPatch{Age: ptr(151)}},
		{"負のheight", model.UserPatch{HeightCm: ptr(-170.0)}},
		{"負のweight", model.UserPatch{WeightKg: ptr(-60.0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			findCalled := false
			repo := &mockUserRepo{
				findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
					findCalled = true
					return &model.User{ID: id}, nil
				},
			}
			svc := NewService(repo)

			_, err := svc.UpdateProfile(context.Background(), "user-1", tt.patch)

			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidRequest {
				t.Errorf("err = %v, want INVALID_REQUEST", err)
			}
			if findCalled {
				t.Error("validation should fail before any repository access")
			}
		})
	}
}
