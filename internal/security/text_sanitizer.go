// Package security はアプリケーションのセキュリティ機能を提供する。
//
// TextSanitizerService はLLM生成コンテンツ（食事名・材料・手順）を
// HTMLプレビューに埋め込む前にサニタイズし、生成物経由のマークアップ混入から
// ユーザーを保護する。bluemondayのStrictPolicyにより全てのタグを除去し、
// プレーンテキストのみを通過させる。
package security

import "github.com/microcosm-cc/bluemonday"

// TextSanitizerService はテキストサニタイズ機能のインターフェースを定義する。
type TextSanitizerService interface {
	// Sanitize は入力から全てのHTMLタグを除去したプレーンテキストを返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// textSanitizer はTextSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type textSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はTextSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyは許可タグを一切持たず、全てのマークアップを除去する。
func NewTextSanitizer() *textSanitizer {
	return &textSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// Sanitize は入力から全てのHTMLタグを除去したプレーンテキストを返す。
func (s *textSanitizer) Sanitize(raw string) string {
	return s.policy.Sanitize(raw)
}
