package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/mealdesk/internal/model"
)

// ExportServiceInterface はPDF出力ハンドラーが必要とするサービスインターフェース。
type ExportServiceInterface interface {
	// Export はプランをPDFとして描画し、48時間有効なメタデータを記録する。
	Export(ctx context.Context, planID string) (*model.PdfFileRecord, error)
	// CleanupExpired は期限切れPDFのファイルとメタデータを削除し、削除件数を返す。
	CleanupExpired(ctx context.Context) (int, error)
}

// ExportHandler はPDF出力のHTTPハンドラー。
type ExportHandler struct {
	service ExportServiceInterface
}

// NewExportHandler はExportHandlerを生成する。
func NewExportHandler(service ExportServiceInterface) *ExportHandler {
	return &ExportHandler{
		service: service,
	}
}

// pdfResponse はPDF出力のAPIレスポンス。
type pdfResponse struct {
	ID         string    `json:"id"`
	MealPlanID string    `json:"meal_plan_id"`
	URL        string    `json:"url"`
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// cleanupResponse はクリーンアップのAPIレスポンス。
type cleanupResponse struct {
	Message string `json:"message"`
}

// ExportPDF はプランをPDFとして出力する。
// POST /api/meal-plans/:id/pdf
func (h *ExportHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "id")

	record, err := h.service.Export(r.Context(), planID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, pdfResponse{
		ID:         record.ID,
		MealPlanID: record.MealPlanID,
		URL:        record.FileURL,
		ExpiresAt:  record.ExpiresAt,
		CreatedAt:  record.CreatedAt,
	})
}

// CleanupPdfs は期限切れPDFの即時削除を実行する。
// ワーカーの定期スイープと同じ処理を手動で起動するための管理用エンドポイント。
// POST /api/cleanup-pdfs
func (h *ExportHandler) CleanupPdfs(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.service.CleanupExpired(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, cleanupResponse{
		Message: fmt.Sprintf("Cleaned up %d expired PDFs", deleted),
	})
}
