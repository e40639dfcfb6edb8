package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/backdrop/internal/raster"
)

// Styles are rebuilt from CurrentTheme on every render so a theme toggle
// takes effect on the next frame.
func titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Text)
}

func subtle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
}

func keyHint() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Italic(true)
}

func metricLabel() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Muted).Width(12)
}

func metricValue() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Bold(true)
}

func statusRunning() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Success)
}

func statusPaused() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.Warning)
}

func ctaStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(CurrentTheme.Background).
		Background(CurrentTheme.Accent).
		Padding(0, 2)
}

func page() lipgloss.Style {
	return lipgloss.NewStyle().Background(CurrentTheme.Background)
}

// GradientText colors text from startColor to endColor, one rune at a time.
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	start, end := raster.Hex(string(startColor)), raster.Hex(string(endColor))

	var result strings.Builder
	n := len(runes)
	for i, c := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		col := lipgloss.Color(start.Lerp(end, t).Hex())
		result.WriteString(lipgloss.NewStyle().Bold(true).Foreground(col).Render(string(c)))
	}

	return result.String()
}

// ProgressBar renders a bar filled to percent in [0,1].
func ProgressBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := lipgloss.NewStyle().Foreground(CurrentTheme.Primary).Render(strings.Repeat("█", filled))
	rest := subtle().Render(strings.Repeat("░", width-filled))
	return bar + rest
}

// Dots renders a carousel position indicator.
func Dots(index, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		if i == index {
			b.WriteString(lipgloss.NewStyle().Foreground(CurrentTheme.Secondary).Render("●"))
		} else {
			b.WriteString(subtle().Render("○"))
		}
	}
	return b.String()
}

// SparklineChart renders a mini sparkline of the most recent values. Low
// values are good: frame times render green when fast.
func SparklineChart(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	rng := max - min
	if rng == 0 {
		rng = 1
	}

	low := lipgloss.NewStyle().Foreground(CurrentTheme.Success)
	mid := lipgloss.NewStyle().Foreground(CurrentTheme.Warning)
	high := lipgloss.NewStyle().Foreground(CurrentTheme.Error)

	var result strings.Builder
	for _, v := range values {
		norm := (v - min) / rng
		idx := int(norm * float64(len(chars)-1))
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx < 0 {
			idx = 0
		}

		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(high.Render(c))
		case norm > 0.3:
			result.WriteString(mid.Render(c))
		default:
			result.WriteString(low.Render(c))
		}
	}

	return result.String()
}

// Separator draws a decorative rule
func Separator(width int) string {
	if width < 8 {
		return subtle().Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	left := strings.Repeat("─", mid-3)
	right := strings.Repeat("─", width-mid-3)
	return subtle().Render(left + " ◆ " + right)
}

// overlay replaces the middle line of lines with text centered across
// width.
func overlay(lines []string, text string, width int) []string {
	if len(lines) == 0 {
		return lines
	}
	out := make([]string, len(lines))
	copy(out, lines)
	out[len(out)/2] = lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
	return out
}
