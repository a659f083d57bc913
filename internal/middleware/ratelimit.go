package middleware

import (
	"encoding/json"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig はレート制限の設定を保持する。
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // API全般のレート（req/sec）。120/60 = 2 req/sec
	GeneralBurst    int           // API全般のバーストサイズ
	GenerateRate    rate.Limit    // プラン生成のレート（req/sec）。5/60
	GenerateBurst   int           // プラン生成のバーストサイズ
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// DefaultRateLimiterConfig はデフォルトのレート制限設定を返す。
// API全般 120 req/min/user、プラン生成 5 req/min/user（LLM呼び出しのコスト対策）
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(120.0 / 60.0), // 2 req/sec
		GeneralBurst:    120,
		GenerateRate:    rate.Limit(5.0 / 60.0), // ~0.083 req/sec
		GenerateBurst:   5,
		CleanupInterval: 5 * time.Minute,
	}
}

// userLimiter はクライアントごとのレートリミッターとアクセス時刻を保持する。
type userLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter はクライアントごとのレート制限を管理する。
// API全般のレート制限とプラン生成のレート制限の2種類を提供する。
type RateLimiter struct {
	config RateLimiterConfig

	generalMu       sync.RWMutex
	generalLimiters map[string]*userLimiter

	generateMu       sync.RWMutex
	generateLimiters map[string]*userLimiter

	stopCh chan struct{}
}

// NewRateLimiter は新しいRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:           config,
		generalLimiters:  make(map[string]*userLimiter),
		generateLimiters: make(map[string]*userLimiter),
		stopCh:           make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// clientKey はレート制限のキーを返す。
// 認証済みならUID、未認証（デモモード）なら接続元IPを使う。
func clientKey(r *http.Request) string {
	if userID, err := UserIDFromContext(r.Context()); err == nil {
		return userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// GeneralMiddleware はAPI全般のレート制限ミドルウェアを返す。
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			limiter := rl.getOrCreateGeneralLimiter(key)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.GeneralRate)
				slog.Warn("rate limit exceeded",
					slog.String("client", key),
					slog.String("limit_type", "general"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GenerateMiddleware はプラン生成専用のレート制限ミドルウェアを返す。
// API全般のレート制限とは独立に動作する。
func (rl *RateLimiter) GenerateMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			limiter := rl.getOrCreateGenerateLimiter(key)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.GenerateRate)
				slog.Warn("rate limit exceeded",
					slog.String("client", key),
					slog.String("limit_type", "generate"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GeneralLimiterCount は現在管理されているAPI全般リミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) GeneralLimiterCount() int {
	rl.generalMu.RLock()
	defer rl.generalMu.RUnlock()
	return len(rl.generalLimiters)
}

// GenerateLimiterCount は現在管理されているプラン生成リミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) GenerateLimiterCount() int {
	rl.generateMu.RLock()
	defer rl.generateMu.RUnlock()
	return len(rl.generateLimiters)
}

// getOrCreateGeneralLimiter はクライアントのAPI全般リミッターを取得または作成する。
func (rl *RateLimiter) getOrCreateGeneralLimiter(key string) *rate.Limiter {
	rl.generalMu.RLock()
	ul, exists := rl.generalLimiters[key]
	rl.generalMu.RUnlock()

	if exists {
		rl.generalMu.Lock()
		ul.lastAccess = time.Now()
		rl.generalMu.Unlock()
		return ul.limiter
	}

	rl.generalMu.Lock()
	defer rl.generalMu.Unlock()

	// ダブルチェック
	if ul, exists := rl.generalLimiters[key]; exists {
		ul.lastAccess = time.Now()
		return ul.limiter
	}

	limiter := rate.NewLimiter(rl.config.GeneralRate, rl.config.GeneralBurst)
	rl.generalLimiters[key] = &userLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// getOrCreateGenerateLimiter はクライアントのプラン生成リミッターを取得または作成する。
func (rl *RateLimiter) getOrCreateGenerateLimiter(key string) *rate.Limiter {
	rl.generateMu.RLock()
	ul, exists := rl.generateLimiters[key]
	rl.generateMu.RUnlock()

	if exists {
		rl.generateMu.Lock()
		ul.lastAccess = time.Now()
		rl.generateMu.Unlock()
		return ul.limiter
	}

	rl.generateMu.Lock()
	defer rl.generateMu.Unlock()

	// ダブルチェック
	if ul, exists := rl.generateLimiters[key]; exists {
		ul.lastAccess = time.Now()
		return ul.limiter
	}

	limiter := rate.NewLimiter(rl.config.GenerateRate, rl.config.GenerateBurst)
	rl.generateLimiters[key] = &userLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// cleanupLoop はバックグラウンドで期限切れエントリを定期的にクリーンアップする。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup は最終アクセス時刻がCleanupIntervalの2倍を超えたエントリを削除する。
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2

	now := time.Now()

	rl.generalMu.Lock()
	for key, ul := range rl.generalLimiters {
		if now.Sub(ul.lastAccess) > ttl {
			delete(rl.generalLimiters, key)
		}
	}
	rl.generalMu.Unlock()

	rl.generateMu.Lock()
	for key, ul := range rl.generateLimiters {
		if now.Sub(ul.lastAccess) > ttl {
			delete(rl.generateLimiters, key)
		}
	}
	rl.generateMu.Unlock()
}

// writeRateLimitResponse は429 Too Many Requestsレスポンスを書き込む。
// Retry-Afterヘッダーにはトークンが補充されるまでの推定秒数を設定する。
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	// Retry-Afterの算出: 1トークンが補充されるまでの秒数
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	json.NewEncoder(w).Encode(map[string]string{
		"code":     "rate_limit_exceeded",
		"message":  "Too many requests. Please try again later.",
		"category": "system",
		"action":   "Please wait and retry after the specified time.",
	})
}
