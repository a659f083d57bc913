package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/mealdesk/internal/model"
	"github.com/hitoshi/mealdesk/internal/user"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// GetByUID は外部IdPのUIDでユーザーを取得する。
	GetByUID(ctx context.Context, uid string) (*model.User, error)
	// Register はユーザーを登録する。登録済みUIDでは既存ユーザーを返す（冪等）。
	Register(ctx context.Context, input user.RegisterInput) (*model.User, bool, error)
	// UpdateProfile はプロフィールを部分更新する。
	UpdateProfile(ctx context.Context, id string, patch model.UserPatch) (*model.User, error)
}

// UserHandler はユーザー管理のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// registerUserRequest はユーザー登録リクエストのボディ。
type registerUserRequest struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// updateUserRequest はプロフィール部分更新リクエストのボディ。
// 省略されたフィールドは変更しない。
type updateUserRequest struct {
	Name             *string   `json:"name"`
	Age              *int      `json:"age"`
	Gender           *string   `json:"gender"`
	HeightCm         *float64  `json:"height_cm"`
	WeightKg         *float64  `json:"weight_kg"`
	ActivityLevel    *string   `json:"activity_level"`
	CountryRegion    *string   `json:"country_region"`
	HealthConditions *[]string `json:"health_conditions"`
	FoodsToInclude   *[]string `json:"foods_to_include"`
}

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID               string    `json:"id"`
	UID              string    `json:"uid"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Age              int       `json:"age"`
	Gender           string    `json:"gender"`
	HeightCm         float64   `json:"height_cm"`
	WeightKg         float64   `json:"weight_kg"`
	ActivityLevel    string    `json:"activity_level"`
	CountryRegion    string    `json:"country_region"`
	HealthConditions []string  `json:"health_conditions"`
	FoodsToInclude   []string  `json:"foods_to_include"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// GetUser はUIDでユーザーを取得する。
// GET /api/users/:uid（パスパラメータはIdPのUID）
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "id")

	u, err := h.service.GetByUID(r.Context(), uid)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponse(u))
}

// RegisterUser はユーザー登録を処理する。
// 新規登録は201、登録済みUIDの再登録は200で既存ユーザーを返す。
// POST /api/users
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req registerUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidBodyError())
		return
	}

	u, created, err := h.service.Register(r.Context(), user.RegisterInput{
		UID:   req.UID,
		Email: req.Email,
		Name:  req.Name,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSONResponse(w, status, toUserResponse(u))
}

// UpdateUser はプロフィールを部分更新する。
// PATCH /api/users/:id
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidBodyError())
		return
	}

	u, err := h.service.UpdateProfile(r.Context(), id, model.UserPatch{
		Name:             req.Name,
		Age:              req.Age,
		Gender:           req.Gender,
		HeightCm:         req.HeightCm,
		WeightKg:         req.WeightKg,
		ActivityLevel:    req.ActivityLevel,
		CountryRegion:    req.CountryRegion,
		HealthConditions: req.HealthConditions,
		FoodsToInclude:   req.FoodsToInclude,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponse(u))
}

// toUserResponse はmodel.UserからAPIレスポンスに変換する。
func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:               u.ID,
		UID:              u.UID,
		Email:            u.Email,
		Name:             u.Name,
		Age:              u.Age,
		Gender:           u.Gender,
		HeightCm:         u.HeightCm,
		WeightKg:         u.WeightKg,
		ActivityLevel:    u.ActivityLevel,
		CountryRegion:    u.CountryRegion,
		HealthConditions: u.HealthConditions,
		FoodsToInclude:   u.FoodsToInclude,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}
