package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/mealdesk/internal/middleware"
	"github.com/hitoshi/mealdesk/internal/pdf"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	AuthSecret        string // 空ならJWT検証なし（デモモード）
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger
	HTTPMetrics       func(next http.Handler) http.Handler // nil可
	MetricsHandler    http.Handler                         // GET /metrics。nil可

	// ユーザー
	UserService UserServiceInterface

	// ミールプラン
	PlanService PlanServiceInterface
	Sanitizer   pdf.TextSanitizer

	// PDF出力
	ExportService ExportServiceInterface
	PdfDir        string // 生成済みPDFの配信元ディレクトリ
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → CORS → SecurityHeaders → Logging → HTTPMetrics → Auth → RateLimit
//
// /health、/metrics、/pdfs/ は認証とレート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.HTTPMetrics != nil {
		r.Use(deps.HTTPMetrics)
	}

	userHandler := NewUserHandler(deps.UserService)
	planHandler := NewPlanHandler(deps.PlanService, deps.Sanitizer)
	exportHandler := NewExportHandler(deps.ExportService)

	// --- 認証不要のルート ---

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// 生成済みPDFの静的配信。期限切れ掃除でファイルが消えると404になる
	if deps.PdfDir != "" {
		fs := http.StripPrefix("/pdfs/", http.FileServer(http.Dir(deps.PdfDir)))
		r.Get("/pdfs/*", fs.ServeHTTP)
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.AuthSecret))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		// ユーザー管理
		r.Route("/api/users", func(r chi.Router) {
			r.Post("/", userHandler.RegisterUser)
			r.Get("/{id}", userHandler.GetUser)
			r.Patch("/{id}", userHandler.UpdateUser)
		})

		// ミールプラン
		r.Route("/api/meal-plans", func(r chi.Router) {
			// POST /api/meal-plans/generate - プラン生成（LLM呼び出し専用レート制限を追加）
			if deps.RateLimiter != nil {
				r.With(deps.RateLimiter.GenerateMiddleware()).Post("/generate", planHandler.GeneratePlan)
			} else {
				r.Post("/generate", planHandler.GeneratePlan)
			}

			r.Get("/{id}", planHandler.ListPlans)
			r.Post("/{id}/pdf", exportHandler.ExportPDF)

			r.Route("/plan/{id}", func(r chi.Router) {
				r.Get("/", planHandler.GetPlan)
				r.Get("/preview", planHandler.PreviewPlan)
			})
		})

		// PDFクリーンアップ（管理用）
		r.Post("/api/cleanup-pdfs", exportHandler.CleanupPdfs)
	})

	return r
}
