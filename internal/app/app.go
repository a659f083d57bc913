package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/hitoshi/mealdesk/internal/config"
	"github.com/hitoshi/mealdesk/internal/database"
	"github.com/hitoshi/mealdesk/internal/export"
	"github.com/hitoshi/mealdesk/internal/generator"
	"github.com/hitoshi/mealdesk/internal/handler"
	"github.com/hitoshi/mealdesk/internal/logger"
	"github.com/hitoshi/mealdesk/internal/metrics"
	"github.com/hitoshi/mealdesk/internal/middleware"
	"github.com/hitoshi/mealdesk/internal/pdf"
	"github.com/hitoshi/mealdesk/internal/plan"
	"github.com/hitoshi/mealdesk/internal/repository"
	"github.com/hitoshi/mealdesk/internal/security"
	"github.com/hitoshi/mealdesk/internal/user"
	"github.com/hitoshi/mealdesk/internal/worker/cleanup"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("storage", string(cfg.Storage)),
	)

	switch cmd {
	case CommandServe:
		return runServe(cfg)
	case CommandWorker:
		return runWorker(cfg)
	case CommandMigrate:
		return runMigrate(cfg)
	default:
		return runServe(cfg)
	}
}

// stores はサービス層が必要とするリポジトリ一式を保持する。
type stores struct {
	users repository.UserRepository
	plans repository.MealPlanRepository
	pdfs  repository.PdfFileRepository
	close func()
}

// openStores は設定に応じた永続化バックエンドを開く。
// DATABASE_URLが設定されていればPostgreSQL、なければインメモリストアを使う。
func openStores(cfg *config.Config) (*stores, error) {
	if cfg.Storage == config.StorageDriverPostgres {
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}

		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		slog.Info("database connection established")

		return &stores{
			users: repository.NewPostgresUserRepo(db),
			plans: repository.NewPostgresMealPlanRepo(db),
			pdfs:  repository.NewPostgresPdfFileRepo(db),
			close: func() { db.Close() },
		}, nil
	}

	slog.Warn("DATABASE_URL is not set, using in-memory storage (data is lost on restart)")

	return &stores{
		users: repository.NewMemoryUserRepo(),
		plans: repository.NewMemoryMealPlanRepo(),
		pdfs:  repository.NewMemoryPdfFileRepo(),
		close: func() {},
	}, nil
}

// buildGenerator は設定に応じたミールプラン生成器を構築する。
// GEMINI_API_KEYが設定されていればGemini、なければ決定的なフォールバック生成器を使う。
// 返すclose関数は生成器が保持するリソースを解放する。
func buildGenerator(ctx context.Context, cfg *config.Config) (generator.Generator, func(), error) {
	if cfg.GeminiAPIKey == "" {
		slog.Warn("GEMINI_API_KEY is not set, using fallback generator")
		return generator.NewFallbackGenerator(), func() {}, nil
	}

	client, err := generator.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	slog.Info("LLM generator configured", slog.String("model", cfg.GeminiModel))

	gen := generator.NewTimeoutGenerator(generator.NewLLMGenerator(client), cfg.LLMTimeout)
	return gen, func() { client.Close() }, nil
}

// runServe はAPIサーバーモードで起動する。
// ストレージと生成器を設定に応じて選択し、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. ストレージの初期化
	st, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer st.close()

	// 2. PDF出力ディレクトリの準備
	if err := os.MkdirAll(cfg.PdfOutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create PDF output directory: %w", err)
	}

	// 3. 生成器の初期化
	gen, closeGen, err := buildGenerator(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer closeGen()

	// 4. メトリクスの初期化
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 5. ドメインサービスの初期化
	userService := user.NewService(st.users)
	planService := plan.NewService(st.users, st.plans, gen, collector)

	renderer := pdf.NewRenderer(cfg.PdfOutputDir)
	exportService := export.NewService(
		st.plans, st.pdfs, renderer,
		cfg.PdfOutputDir, cfg.BaseURL, collector,
	)

	// 6. レートリミッターの構築
	// configのRateLimitGeneral/Generateはreq/min単位なのでreq/secに変換する
	rateLimiterCfg := middleware.DefaultRateLimiterConfig()
	rateLimiterCfg.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rateLimiterCfg.GeneralBurst = cfg.RateLimitGeneral
	rateLimiterCfg.GenerateRate = rate.Limit(float64(cfg.RateLimitGenerate) / 60.0)
	rateLimiterCfg.GenerateBurst = cfg.RateLimitGenerate

	rateLimiter := middleware.NewRateLimiter(rateLimiterCfg)
	defer rateLimiter.Stop()

	// 7. ルーターの構築
	deps := &handler.RouterDeps{
		AuthSecret:        cfg.AuthSecret,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		Logger:            slog.Default(),
		HTTPMetrics:       collector.HTTPMiddleware(),
		MetricsHandler:    metrics.Handler(registry),

		UserService: userService,

		PlanService: planService,
		Sanitizer:   security.NewTextSanitizer(),

		ExportService: exportService,
		PdfDir:        cfg.PdfOutputDir,
	}

	router := handler.NewRouter(deps)

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker はワーカーモードで起動する。
// 期限切れPDFのスイープジョブを定期実行する。
// SIGINTまたはSIGTERMシグナルを受信するとシャットダウンする。
func runWorker(cfg *config.Config) error {
	// 1. ストレージの初期化
	st, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer st.close()

	// 2. PDF出力サービスの初期化（スイープはレンダラーを使わない）
	renderer := pdf.NewRenderer(cfg.PdfOutputDir)
	exportService := export.NewService(
		st.plans, st.pdfs, renderer,
		cfg.PdfOutputDir, cfg.BaseURL, nil,
	)

	job := cleanup.NewSweepJob(exportService, slog.Default())

	// グレースフルシャットダウンのためのシグナルハンドリング
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		slog.Info("shutting down worker...")
		cancel()
	}()

	slog.Info("worker starting",
		slog.Duration("cleanup_interval", cfg.CleanupInterval),
	)

	// スイープループをメインgoroutineで実行（ブロッキング）
	job.RunLoop(ctx, cfg.CleanupInterval)

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required for migrations")
	}

	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info("database migrations completed successfully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
