// Package pdf はWeeklyMealPlanのPDF描画とHTMLプレビュー生成を提供する。
//
// ページ送りの判断は描画ライブラリから独立したレイアウトコンテキスト
// （ensureSpace）で行い、同一プランに対して常に同一のページ数・
// 同一の描画順を再現する。
package pdf

import "strings"

// SanitizeText は印字可能ASCII範囲外の文字を全て除去し、前後の空白を取り除く。
//
// AI生成コンテンツに含まれる絵文字や非ラテン文字でフォント描画が
// 失敗するのを避けるための、意図的に非可逆な変換。
// フォントのグリフカバレッジを広げる場合はこの関数だけを差し替えればよい。
func SanitizeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 0x20 && r <= 0x7E {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
