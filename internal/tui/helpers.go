package tui

import "strings"

// truncate shortens a string to a maximum length
func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// visibleFeedLines calculates how many feed lines fit in the bottom panel
func (m Model) visibleFeedLines() int {
	// Bottom panel is 40% of height; reserve space for borders, title and footer
	bottomHeight := m.height - int(float64(m.height)*0.6)
	return max(bottomHeight-8, 3)
}

// maxFeedScroll calculates the maximum scroll position of the feed
func (m Model) maxFeedScroll() int {
	return max(len(m.feed)-m.visibleFeedLines(), 0)
}

var sparkChars = []string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// renderSparkline creates a compact sparkline of the last width points
func renderSparkline(data []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(data) > width {
		data = data[len(data)-width:]
	}

	peak := 0.0
	for _, v := range data {
		peak = max(peak, v)
	}

	var b strings.Builder
	for i := len(data); i < width; i++ {
		b.WriteString(sparkChars[0])
	}
	for _, v := range data {
		idx := 0
		if peak > 0 {
			idx = int(v / peak * float64(len(sparkChars)-1))
		}
		b.WriteString(sparkChars[min(idx, len(sparkChars)-1)])
	}
	return b.String()
}
