// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userIDContextKey はリクエストコンテキストに認証済みUIDを格納するためのキー。
var userIDContextKey = contextKey("user_id")

// NewAuthMiddleware はAuthorizationヘッダーのBearerトークン（HS256 JWT）を検証し、
// subクレームをUIDとしてリクエストコンテキストに注入するミドルウェアを返す。
//
// secretが空の場合は検証を行わないパススルーになる（ローカル実行のデモモード）。
// トークンの発行はIdP側の責務で、このサーバーは検証のみを行う。
func NewAuthMiddleware(secret string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. AuthorizationヘッダーからBearerトークンを取得
			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" || raw == r.Header.Get("Authorization") {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			// 2. 署名と有効期限を検証
			token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			uid, err := token.Claims.GetSubject()
			if err != nil || uid == "" {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			// 3. 認証済みUIDをコンテキストに注入
			ctx := context.WithValue(r.Context(), userIDContextKey, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext はリクエストコンテキストから認証済みUIDを取得する。
// 認証ミドルウェアを通過したリクエストでのみ有効。
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDContextKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user ID not found in context")
	}
	return userID, nil
}

// ContextWithUserID はコンテキストにUIDを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}
