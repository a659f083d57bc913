package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/mealdesk/internal/model"
	"github.com/hitoshi/mealdesk/internal/pdf"
	"github.com/hitoshi/mealdesk/internal/plan"
)

// PlanServiceInterface はミールプランハンドラーが必要とするサービスインターフェース。
type PlanServiceInterface interface {
	// Generate は新しいプランを生成しアクティブプランとして保存する。
	Generate(ctx context.Context, input plan.GenerateInput) (*model.MealPlanRecord, error)
	// ListByUID はUIDで指定したユーザーのプラン一覧を作成順で返す。
	ListByUID(ctx context.Context, uid string) ([]*model.MealPlanRecord, error)
	// GetByID はプランIDで1件取得する。
	GetByID(ctx context.Context, id string) (*model.MealPlanRecord, error)
}

// PlanHandler はミールプランのHTTPハンドラー。
type PlanHandler struct {
	service   PlanServiceInterface
	sanitizer pdf.TextSanitizer
}

// NewPlanHandler はPlanHandlerを生成する。
// sanitizerはHTMLプレビューに埋め込むLLM由来テキストのサニタイズに使う。
func NewPlanHandler(service PlanServiceInterface, sanitizer pdf.TextSanitizer) *PlanHandler {
	return &PlanHandler{
		service:   service,
		sanitizer: sanitizer,
	}
}

// generatePlanRequest はプラン生成リクエストのボディ。
type generatePlanRequest struct {
	UserID         string   `json:"user_id"`
	FitnessGoal    string   `json:"fitness_goal"`
	Cuisine        string   `json:"cuisine"`
	DietType       string   `json:"diet_type"`
	FoodExclusions []string `json:"food_exclusions"`
}

// planResponse はミールプランのAPIレスポンス。
type planResponse struct {
	ID          string               `json:"id"`
	UserID      string               `json:"user_id"`
	FitnessGoal string               `json:"fitness_goal"`
	Cuisine     string               `json:"cuisine"`
	DietType    string               `json:"diet_type"`
	Plan        model.WeeklyMealPlan `json:"plan"`
	IsActive    bool                 `json:"is_active"`
	CreatedAt   time.Time            `json:"created_at"`
}

// GeneratePlan は新しいミールプランを生成する。
// POST /api/meal-plans/generate
func (h *PlanHandler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req generatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidBodyError())
		return
	}

	record, err := h.service.Generate(r.Context(), plan.GenerateInput{
		UserID:         req.UserID,
		FitnessGoal:    req.FitnessGoal,
		Cuisine:        req.Cuisine,
		DietType:       req.DietType,
		FoodExclusions: req.FoodExclusions,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toPlanResponse(record))
}

// ListPlans はユーザーのプラン一覧を返す。
// GET /api/meal-plans/:uid（パスパラメータはIdPのUID）
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	uid := chi.URLParam(r, "id")

	records, err := h.service.ListByUID(r.Context(), uid)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	responses := make([]planResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, toPlanResponse(record))
	}
	writeJSONResponse(w, http.StatusOK, responses)
}

// GetPlan はプランIDで1件取得する。
// GET /api/meal-plans/plan/:id
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toPlanResponse(record))
}

// PreviewPlan はプランのHTMLプレビューを返す。
// GET /api/meal-plans/plan/:id/preview
func (h *PlanHandler) PreviewPlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	html, err := pdf.FormatHTML(&record.Plan, h.sanitizer)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

// toPlanResponse はmodel.MealPlanRecordからAPIレスポンスに変換する。
func toPlanResponse(record *model.MealPlanRecord) planResponse {
	return planResponse{
		ID:          record.ID,
		UserID:      record.UserID,
		FitnessGoal: record.FitnessGoal,
		Cuisine:     record.Cuisine,
		DietType:    record.DietType,
		Plan:        record.Plan,
		IsActive:    record.IsActive,
		CreatedAt:   record.CreatedAt,
	}
}
