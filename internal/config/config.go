// Package config は環境変数からのアプリケーション設定読み込みを提供する。
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// StorageDriver は永続化バックエンドの種別を表す。
type StorageDriver string

const (
	// StorageDriverPostgres はPostgreSQLバックエンドを示す。
	StorageDriverPostgres StorageDriver = "postgres"
	// StorageDriverMemory はインメモリバックエンドを示す。
	// DATABASE_URL未設定時およびオフラインテストで使用する。
	StorageDriverMemory StorageDriver = "memory"
)

// Config はアプリケーション全体の設定を保持する。
// 起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Database
	DatabaseURL string
	Storage     StorageDriver

	// LLM
	GeminiAPIKey string
	GeminiModel  string
	LLMTimeout   time.Duration

	// Auth
	AuthSecret string // 空の場合は認証ミドルウェアを無効化（デモモード）

	// PDF
	PdfOutputDir string

	// Cleanup
	CleanupInterval time.Duration

	// Rate Limit（req/min/user）
	RateLimitGeneral  int
	RateLimitGenerate int

	// Server
	ServerPort string
	BaseURL    string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envがあれば先に読み込む（既存の環境変数を優先）。
//
// 必須の環境変数はない。DATABASE_URLが未設定の場合はインメモリストア、
// GEMINI_API_KEYが未設定の場合はフォールバック生成器が選択され、
// 外部依存なしで起動できる。
func Load() (*Config, error) {
	// .envは存在しなくてもよい
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL != "" {
		cfg.Storage = StorageDriverPostgres
	} else {
		cfg.Storage = StorageDriverMemory
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = getEnvString("GEMINI_MODEL", "gemini-2.0-flash")
	cfg.LLMTimeout = getEnvDuration("LLM_TIMEOUT", 60*time.Second)

	cfg.AuthSecret = os.Getenv("AUTH_SECRET")

	cfg.PdfOutputDir = getEnvString("PDF_OUTPUT_DIR", "./generated_pdfs")
	cfg.CleanupInterval = getEnvDuration("CLEANUP_INTERVAL", 1*time.Hour)

	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitGenerate = getEnvInt("RATE_LIMIT_GENERATE", 5)

	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.BaseURL = getEnvString("BASE_URL", "http://localhost:8080")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
