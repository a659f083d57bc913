// Package export はミールプランのPDF出力と期限切れPDFの掃除を提供する。
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/mealdesk/internal/model"
	"github.com/hitoshi/mealdesk/internal/repository"
)

// PlanRenderer はプラン描画のインターフェース。
// 戻り値は出力ディレクトリからの相対ファイル名。
type PlanRenderer interface {
	Render(plan *model.WeeklyMealPlan) (string, error)
}

// Observer はPDF関連メトリクスの記録インターフェース。
type Observer interface {
	ObserveRender(success bool, elapsed time.Duration)
	ObserveCleanup(deleted int)
}

// Service はPDF出力のサービス層。
//
// 出力されたPDFのメタデータは作成から48時間で期限切れとなり、
// CleanupExpiredがファイルとレコードの両方を削除する。
type Service struct {
	planRepo  repository.MealPlanRepository
	pdfRepo   repository.PdfFileRepository
	renderer  PlanRenderer
	outputDir string
	baseURL   string // 空なら相対URLを返す
	observer  Observer
	now       func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// observerはnilでもよい（メトリクスなしで動作する）。
func NewService(
	planRepo repository.MealPlanRepository,
	pdfRepo repository.PdfFileRepository,
	renderer PlanRenderer,
	outputDir string,
	baseURL string,
	observer Observer,
) *Service {
	return &Service{
		planRepo:  planRepo,
		pdfRepo:   pdfRepo,
		renderer:  renderer,
		outputDir: outputDir,
		baseURL:   baseURL,
		observer:  observer,
		now:       time.Now,
	}
}

// Export は指定プランをPDFとして描画し、48時間有効なメタデータを記録する。
// 同じプランを複数回出力すると、それぞれ独立したPDFとレコードが作られる。
func (s *Service) Export(ctx context.Context, planID string) (*model.PdfFileRecord, error) {
	record, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("プランの取得に失敗しました: %w", err)
	}
	if record == nil {
		return nil, model.NewPlanNotFoundError(planID)
	}

	start := s.now()
	filename, err := s.renderer.Render(&record.Plan)
	if s.observer != nil {
		s.observer.ObserveRender(err == nil, s.now().Sub(start))
	}
	if err != nil {
		slog.Error("PDFの描画に失敗しました",
			slog.String("plan_id", planID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	now := s.now()
	pdf := &model.PdfFileRecord{
		ID:         uuid.New().String(),
		MealPlanID: record.ID,
		FileURL:    s.baseURL + "/pdfs/" + filename,
		ExpiresAt:  now.Add(model.PdfExpiry),
		CreatedAt:  now,
	}

	if err := s.pdfRepo.Create(ctx, pdf); err != nil {
		return nil, fmt.Errorf("PDFメタデータの保存に失敗しました: %w", err)
	}

	slog.Info("PDFを出力しました",
		slog.String("plan_id", record.ID),
		slog.String("pdf_id", pdf.ID),
		slog.String("file", filename),
	)

	return pdf, nil
}

// CleanupExpired は期限切れPDFのファイルとメタデータを削除し、削除件数を返す。
//
// 冪等: ファイルが既に消えていてもレコード削除は続行する。
// レコード削除に失敗した分は件数に含めず、次回のスイープに委ねる。
func (s *Service) CleanupExpired(ctx context.Context) (int, error) {
	expired, err := s.pdfRepo.ListExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("期限切れPDFの取得に失敗しました: %w", err)
	}

	deleted := 0
	for _, record := range expired {
		filePath := filepath.Join(s.outputDir, path.Base(record.FileURL))
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			slog.Warn("PDFファイルの削除に失敗しました",
				slog.String("pdf_id", record.ID),
				slog.String("path", filePath),
				slog.String("error", err.Error()),
			)
		}

		if err := s.pdfRepo.Delete(ctx, record.ID); err != nil {
			slog.Warn("PDFメタデータの削除に失敗しました",
				slog.String("pdf_id", record.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		deleted++
	}

	if s.observer != nil {
		s.observer.ObserveCleanup(deleted)
	}

	if deleted > 0 {
		slog.Info("期限切れPDFを削除しました",
			slog.Int("deleted", deleted),
		)
	}

	return deleted, nil
}
