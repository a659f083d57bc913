package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/hitoshi/mealdesk/internal/model"
)

// pdfCanvas はgofpdfをCanvasインターフェースに適合させるアダプタ。
// レイアウトのY座標（ページ下端原点）をgofpdfの上端原点座標に変換する。
type pdfCanvas struct {
	doc        *gofpdf.Fpdf
	pageHeight float64
}

func (c *pdfCanvas) AddPage() {
	c.doc.AddPage()
}

func (c *pdfCanvas) SetFont(style string, size float64) {
	c.doc.SetFont("Helvetica", style, size)
}

func (c *pdfCanvas) TextWidth(s string) float64 {
	return c.doc.GetStringWidth(s)
}

func (c *pdfCanvas) DrawText(x, y float64, s string) {
	c.doc.Text(x, c.pageHeight-y, s)
}

// Renderer はWeeklyMealPlanをページ分割されたPDFファイルとして出力する。
//
// 描画はブロッキングかつ単一スレッドで行う。内部に共有状態を持たないため、
// 異なるプランの描画は並行して実行できる。
type Renderer struct {
	outputDir string
	now       func() time.Time // ファイル名のタイムスタンプ用フック
}

// NewRenderer は出力先ディレクトリを指定してRendererを生成する。
// ディレクトリは描画時に存在しなければ作成される。
func NewRenderer(outputDir string) *Renderer {
	return &Renderer{outputDir: outputDir, now: time.Now}
}

// Render はプランを描画し、タイムスタンプ由来の一意なファイル名で保存する。
// 戻り値は出力ディレクトリからの相対ファイル名。
//
// ファイルシステムエラーはRENDER_FAILEDとしてそのまま呼び出し側に伝播する。
// 途中まで書かれたファイルの後始末は外部スイープの責務。
func (r *Renderer) Render(plan *model.WeeklyMealPlan) (string, error) {
	doc := gofpdf.New("P", "pt", "A4", "")
	_, pageHeight := doc.GetPageSize()

	renderPlan(newLayout(&pdfCanvas{doc: doc, pageHeight: pageHeight}), plan)

	if err := doc.Error(); err != nil {
		return "", model.NewRenderFailedError(err.Error())
	}

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", model.NewRenderFailedError(fmt.Sprintf("出力ディレクトリを作成できません: %v", err))
	}

	filename := fmt.Sprintf("meal_plan_%d.pdf", r.now().UnixNano())
	if err := doc.OutputFileAndClose(filepath.Join(r.outputDir, filename)); err != nil {
		return "", model.NewRenderFailedError(fmt.Sprintf("ファイルの書き込みに失敗しました: %v", err))
	}

	return filename, nil
}

// renderPlan はプラン全体をレイアウトコンテキスト上に描画する。
//
// 描画順: タイトル → サマリー → 日ごとに（日ヘッダー → 食事ごとに
// ヘッダー/時刻/材料/手順）→ フッター。高さが既知の各ブロックの直前で
// ensureSpaceを呼ぶ。手順は件数に上限がないため1行ずつ改ページ判定する。
// 全てのテキストは計測・描画の前にSanitizeTextを通す。
func renderPlan(l *layout, plan *model.WeeklyMealPlan) {
	// タイトル
	l.ensureSpace(40)
	l.drawLine("B", 20, "7-Day Personalized Meal Plan", 30)

	// 週・ゴール・カロリーのサマリーブロック
	l.ensureSpace(60)
	l.drawLine("", 11, SanitizeText("Week starting: "+plan.WeekStart), 15)
	l.drawLine("", 11, SanitizeText(fmt.Sprintf("Goal: %s | Cuisine: %s | Diet: %s",
		plan.Goals.FitnessGoal, plan.Goals.Cuisine, plan.Goals.DietType)), 15)
	l.drawLine("", 11, fmt.Sprintf("Target daily calories: %d kcal", plan.TotalDailyCalories), 15)
	l.advance(10)

	for _, day := range plan.Days {
		// 日ヘッダー
		l.ensureSpace(60)
		l.drawLine("B", 15, SanitizeText(day.Day), 22)

		for _, meal := range day.Meals {
			// 食事ヘッダー。カロリーは同じ行の右端に右揃え
			l.ensureSpace(90)
			l.drawLineRight("B", 12, fmt.Sprintf("%d kcal", meal.Calories))
			l.drawLine("B", 12, SanitizeText(fmt.Sprintf("%s (%s)", meal.Name, meal.Type)), 16)
			l.drawLine("", 10, SanitizeText(meal.Time), 14)

			// 材料はカンマ結合した1本の文字列を貪欲法で折り返す
			l.drawLine("B", 10, "Ingredients:", 14)
			l.canvas.SetFont("", 10)
			ingredients := SanitizeText(strings.Join(meal.Ingredients, ", "))
			lines := WrapText(ingredients, wrapWidth, l.canvas.TextWidth)
			l.ensureSpace(float64(len(lines)) * 13)
			for _, line := range lines {
				l.drawLine("", 10, line, 13)
			}

			// 手順は件数が無制限のため1行ごとに改ページ判定する
			l.ensureSpace(14)
			l.drawLine("B", 10, "Instructions:", 14)
			for i, step := range meal.Instructions {
				l.ensureSpace(13)
				l.drawLine("", 10, SanitizeText(fmt.Sprintf("%d. %s", i+1, step)), 13)
			}
			l.advance(10)
		}
		l.advance(8)
	}

	// 固定2行フッター
	l.ensureSpace(40)
	l.drawLine("", 9, "Generated by Mealdesk. This plan is a suggestion, not medical advice.", 13)
	l.drawLine("", 9, "Consult a healthcare professional before making major dietary changes.", 13)
}
