package pdf

import "strings"

// WrapText はテキストを単語単位の貪欲法でmaxWidth以下の行に詰める。
//
// 次の単語を足すと幅を超える時点で行を確定する。単語の途中では決して
// 折り返さないため、単独でmaxWidthを超える単語はそのまま1行になる。
// 幅の計測はmeasureに委譲し、フォントメトリクスへの依存を分離する。
func WrapText(text string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if measure(candidate) > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	lines = append(lines, current)
	return lines
}
