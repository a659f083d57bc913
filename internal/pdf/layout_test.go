package pdf

import (
	"fmt"
	"strings"
	"testing"

	"github.com/hitoshi/mealdesk/internal/model"
)

// fakeCanvas は描画命令を記録するテスト用のCanvas実装。
// 文字幅は1文字あたりフォントサイズの半分として近似する。
type fakeCanvas struct {
	ops      []string
	fontSize float64
}

func (c *fakeCanvas) AddPage() {
	c.ops = append(c.ops, "PAGE")
}

func (c *fakeCanvas) SetFont(style string, size float64) {
	c.fontSize = size
}

func (c *fakeCanvas) TextWidth(s string) float64 {
	return float64(len(s)) * c.fontSize * 0.5
}

func (c *fakeCanvas) DrawText(x, y float64, s string) {
	c.ops = append(c.ops, fmt.Sprintf("TEXT %.0f %.0f %s", x, y, s))
}

// texts は記録された描画命令からテキスト部分だけを抽出する。
func (c *fakeCanvas) texts() []string {
	var out []string
	for _, op := range c.ops {
		if strings.HasPrefix(op, "TEXT ") {
			parts := strings.SplitN(op, " ", 4)
			out = append(out, parts[3])
		}
	}
	return out
}

// newLayoutが最初のページを開始しカーソルを上端に置くことを検証
func TestNewLayout(t *testing.T) {
	canvas := &fakeCanvas{}
	l := newLayout(canvas)

	if l.pages != 1 {
		t.Errorf("pages = %d, want 1", l.pages)
	}
	if l.y != pageTop {
		t.Errorf("y = %f, want %f", l.y, pageTop)
	}
	if len(canvas.ops) != 1 || canvas.ops[0] != "PAGE" {
		t.Errorf("ops = %v, want [PAGE]", canvas.ops)
	}
}

// ensureSpaceの改ページ境界を検証。
// 残り空間がちょうど下マージンに一致する場合は改ページしない。
func TestEnsureSpace_Boundary(t *testing.T) {
	// y=750, pageBottom=50 なので高さ700まではそのまま描ける
	l := newLayout(&fakeCanvas{})
	l.ensureSpace(pageTop - pageBottom)
	if l.pages != 1 {
		t.Errorf("pages = %d, want 1 (no break at exact fit)", l.pages)
	}

	// 1単位でも超えると改ページしてカーソルが上端に戻る
	l = newLayout(&fakeCanvas{})
	l.ensureSpace(pageTop - pageBottom + 1)
	if l.pages != 2 {
		t.Errorf("pages = %d, want 2", l.pages)
	}
	if l.y != pageTop {
		t.Errorf("y = %f, want %f after page break", l.y, pageTop)
	}
}

// drawLineがカーソルを進め、drawLineRightは進めないことを検証
func TestDrawLine_CursorAdvance(t *testing.T) {
	canvas := &fakeCanvas{}
	l := newLayout(canvas)

	l.drawLine("B", 12, "left", 16)
	if l.y != pageTop-16 {
		t.Errorf("y = %f, want %f", l.y, pageTop-16)
	}

	before := l.y
	l.drawLineRight("B", 12, "right")
	if l.y != before {
		t.Errorf("drawLineRight moved cursor: y = %f, want %f", l.y, before)
	}
}

// drawLineRightが右端に揃えて描画することを検証
func TestDrawLineRight_Position(t *testing.T) {
	canvas := &fakeCanvas{}
	l := newLayout(canvas)

	l.drawLineRight("B", 12, "450 kcal")

	// 幅 = 8文字 * 12 * 0.5 = 48、x = 545 - 48 = 497
	want := fmt.Sprintf("TEXT %.0f %.0f 450 kcal", rightEdge-48.0, pageTop)
	if canvas.ops[1] != want {
		t.Errorf("ops[1] = %q, want %q", canvas.ops[1], want)
	}
}

// fullPlan は全曜日・全食事スロットを持つ描画テスト用のプランを返す。
func fullPlan() *model.WeeklyMealPlan {
	weekdays := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	days := make([]model.DayPlan, 0, len(weekdays))
	for _, w := range weekdays {
		days = append(days, model.DayPlan{
			Day: w,
			Meals: []model.Meal{
				{
					Type:         "breakfast",
					Time:         "8:00 AM",
					Name:         "Vegetable Poha",
					Ingredients:  []string{"flattened rice", "onion", "green peas", "turmeric", "mustard seeds"},
					Instructions: []string{"Rinse the rice", "Saute the spices", "Combine and steam"},
					Calories:     320,
				},
				{
					Type:         "lunch",
					Time:         "12:30 PM",
					Name:         "Chickpea Salad Bowl",
					Ingredients:  []string{"chickpeas", "cucumber", "tomato", "lemon juice"},
					Instructions: []string{"Chop the vegetables", "Toss with dressing"},
					Calories:     450,
				},
				{
					Type:         "dinner",
					Time:         "7:00 PM",
					Name:         "Lentil Curry with Rice",
					Ingredients:  []string{"red lentils", "rice", "coconut milk", "curry powder"},
					Instructions: []string{"Simmer the lentils", "Cook the rice", "Serve together"},
					Calories:     520,
				},
			},
		})
	}
	return &model.WeeklyMealPlan{
		WeekStart:          "2026-08-31",
		TotalDailyCalories: 1350,
		Goals:              model.PlanGoals{FitnessGoal: "weight_loss", Cuisine: "indian", DietType: "vegetarian"},
		Days:               days,
	}
}

// 7日分のプランが複数ページにまたがることを検証
func TestRenderPlan_PaginatesFullWeek(t *testing.T) {
	canvas := &fakeCanvas{}
	l := newLayout(canvas)

	renderPlan(l, fullPlan())

	if l.pages < 2 {
		t.Errorf("pages = %d, want at least 2 for a full week", l.pages)
	}
}

// 同一プランから常に同一の描画命令列が生成されることを検証（決定性）
func TestRenderPlan_Deterministic(t *testing.T) {
	first := &fakeCanvas{}
	renderPlan(newLayout(first), fullPlan())

	second := &fakeCanvas{}
	renderPlan(newLayout(second), fullPlan())

	if len(first.ops) != len(second.ops) {
		t.Fatalf("op count differs: %d vs %d", len(first.ops), len(second.ops))
	}
	for i := range first.ops {
		if first.ops[i] != second.ops[i] {
			t.Fatalf("op %d differs: %q vs %q", i, first.ops[i], second.ops[i])
		}
	}
}

// 描画内容の構造を検証: タイトル、曜日順、ラベル、フッターが揃っていること
func TestRenderPlan_Structure(t *testing.T) {
	canvas := &fakeCanvas{}
	renderPlan(newLayout(canvas), fullPlan())
	texts := canvas.texts()

	if len(texts) == 0 || texts[0] != "7-Day Personalized Meal Plan" {
		t.Fatalf("first text = %q, want title", texts[0])
	}

	joined := strings.Join(texts, "\n")
	for _, want := range []string{
		"Week starting: 2026-08-31",
		"Goal: weight_loss | Cuisine: indian | Diet: vegetarian",
		"Target daily calories: 1350 kcal",
		"Vegetable Poha (breakfast)",
		"320 kcal",
		"Ingredients:",
		"Instructions:",
		"1. Rinse the rice",
		"Generated by Mealdesk. This plan is a suggestion, not medical advice.",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("rendered texts missing %q", want)
		}
	}

	// 曜日ヘッダーは月曜から日曜の順に現れる
	lastIdx := -1
	for _, w := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} {
		idx := -1
		for i, s := range texts {
			if s == w {
				idx = i
				break
			}
		}
		if idx == -1 {
			t.Fatalf("day header %q not found", w)
		}
		if idx <= lastIdx {
			t.Errorf("day header %q out of order", w)
		}
		lastIdx = idx
	}
}

// 絵文字入りの食事名がASCIIサニタイズされて描画されることを検証
func TestRenderPlan_SanitizesMealNames(t *testing.T) {
	plan := fullPlan()
	plan.Days[0].Meals[0].Name = "Spicy Curry 🌶️"

	canvas := &fakeCanvas{}
	renderPlan(newLayout(canvas), plan)

	joined := strings.Join(canvas.texts(), "\n")
	if !strings.Contains(joined, "Spicy Curry (breakfast)") {
		t.Errorf("sanitized meal name not found in output")
	}
	if strings.Contains(joined, "🌶") {
		t.Errorf("emoji survived sanitization")
	}
}

// 長大な手順リストでも改ページにより下マージンを侵さないことを検証
func TestRenderPlan_LongInstructionsBreakPages(t *testing.T) {
	plan := fullPlan()
	steps := make([]string, 80)
	for i := range steps {
		steps[i] = fmt.Sprintf("Repeat the stirring pass number %d", i+1)
	}
	plan.Days[0].Meals[0].Instructions = steps

	canvas := &fakeCanvas{}
	l := newLayout(canvas)
	renderPlan(l, plan)

	if l.pages < 3 {
		t.Errorf("pages = %d, want at least 3 with 80 instruction steps", l.pages)
	}
	for _, op := range canvas.ops {
		if !strings.HasPrefix(op, "TEXT ") {
			continue
		}
		var x, y float64
		var rest string
		if _, err := fmt.Sscanf(op, "TEXT %f %f %s", &x, &y, &rest); err != nil {
			t.Fatalf("unparseable op %q: %v", op, err)
		}
		if y < pageBottom {
			t.Errorf("text drawn below bottom margin: %q", op)
		}
	}
}
