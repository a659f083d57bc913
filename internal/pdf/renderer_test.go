package pdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// RenderがPDFファイルを出力し、相対ファイル名を返すことを検証
func TestRenderer_Render(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir)
	r.now = func() time.Time { return time.Unix(0, 1756400000000000000) }

	filename, err := r.Render(fullPlan())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if filename != "meal_plan_1756400000000000000.pdf" {
		t.Errorf("filename = %q, want timestamp-derived name", filename)
	}

	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		t.Fatalf("output file not readable: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Errorf("output is not a PDF document")
	}
}

// 出力ディレクトリが存在しない場合に作成されることを検証
func TestRenderer_CreatesOutputDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "pdfs")
	r := NewRenderer(dir)

	filename, err := r.Render(fullPlan())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, filename)); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

// 絵文字入りのプランでも描画が成功することを検証
func TestRenderer_EmojiPlan(t *testing.T) {
	plan := fullPlan()
	plan.Days[0].Meals[0].Name = "Spicy Curry 🌶️"
	plan.Days[0].Meals[0].Ingredients = []string{"green chili 🌶", "rice"}

	r := NewRenderer(t.TempDir())
	if _, err := r.Render(plan); err != nil {
		t.Fatalf("Render failed on emoji plan: %v", err)
	}
}

// タイムスタンプが異なればファイル名が衝突しないことを検証
func TestRenderer_UniqueFilenames(t *testing.T) {
	r := NewRenderer(t.TempDir())

	var tick int64 = 1756400000000000000
	r.now = func() time.Time {
		tick++
		return time.Unix(0, tick)
	}

	first, err := r.Render(fullPlan())
	if err != nil {
		t.Fatalf("first Render failed: %v", err)
	}
	second, err := r.Render(fullPlan())
	if err != nil {
		t.Fatalf("second Render failed: %v", err)
	}
	if first == second {
		t.Errorf("filenames collide: %q", first)
	}
}
