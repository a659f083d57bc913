package pdf

// ページ座標の定数。Y座標はページ下端原点で上向きに増加する。
const (
	pageTop    = 750.0 // カーソルの初期位置（ページ上端付近）
	pageBottom = 50.0  // 下マージン。残り空間がこれを下回ると改ページ
	leftMargin = 50.0
	rightEdge  = 545.0
	wrapWidth  = rightEdge - leftMargin - 10 // 折り返し対象テキストの最大幅
)

// Canvas はレイアウトが必要とする描画操作を抽象化するインターフェース。
// 本番実装はgofpdfのアダプタ、テストでは描画命令を記録するフェイクを使う。
type Canvas interface {
	// AddPage は新しいページを開始する。
	AddPage()
	// SetFont は以降の計測・描画に使うフォントを設定する。styleは""または"B"。
	SetFont(style string, size float64)
	// TextWidth は現在のフォントでの文字列幅を返す。
	TextWidth(s string) float64
	// DrawText は(x, y)に文字列を描画する。yはページ下端からの距離。
	DrawText(x, y float64, s string)
}

// layout はページ送りカーソルを管理するレイアウトコンテキスト。
// 高さが既知のブロックを描く前に必ずensureSpaceを呼ぶ。
type layout struct {
	canvas Canvas
	y      float64
	pages  int
}

// newLayout は最初のページを開始したレイアウトコンテキストを返す。
func newLayout(canvas Canvas) *layout {
	canvas.AddPage()
	return &layout{canvas: canvas, y: pageTop, pages: 1}
}

// ensureSpace は高さrequiredのブロックを描く余地を保証する。
// 残り空間が不足する場合は新しいページを開始し、カーソルを上端に戻す。
func (l *layout) ensureSpace(required float64) {
	if l.y-required < pageBottom {
		l.canvas.AddPage()
		l.y = pageTop
		l.pages++
	}
}

// drawLine は左マージンから1行描画し、カーソルをadvanceだけ進める。
func (l *layout) drawLine(style string, size float64, text string, advance float64) {
	l.canvas.SetFont(style, size)
	l.canvas.DrawText(leftMargin, l.y, text)
	l.y -= advance
}

// drawLineRight は同じ行の右端に右揃えでテキストを追記する。カーソルは進めない。
func (l *layout) drawLineRight(style string, size float64, text string) {
	l.canvas.SetFont(style, size)
	w := l.canvas.TextWidth(text)
	l.canvas.DrawText(rightEdge-w, l.y, text)
}

// advance はカーソルを描画なしで進める（ブロック間の余白用）。
func (l *layout) advance(amount float64) {
	l.y -= amount
}
