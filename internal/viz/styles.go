package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	sparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff88"))
	sparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffcc00"))
	sparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

// ProgressBar renders a bar filled to percent of width.
func ProgressBar(percent float64, width int) string {
	if math.IsNaN(percent) {
		percent = 0
	}
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	if percent > 0.8 {
		return sparkHigh.Render(bar)
	} else if percent > 0.4 {
		return sparkMid.Render(bar)
	}
	return sparkLow.Render(bar)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline maps values onto block characters, sampling down to width.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	rng := hi - lo
	if rng == 0 || math.IsNaN(rng) || math.IsInf(rng, 0) {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(sparkChars)-1))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteRune(sparkChars[idx])
	}
	return b.String()
}

// shadeRamp orders characters from empty to dense.
const shadeRamp = " .:-=+*#%@"

// Shade renders a grid as characters, averaging cells into at most
// w columns and h rows. Values are mapped from [lo, hi].
func Shade(rows [][]float64, w, h int, lo, hi float64) string {
	if len(rows) == 0 || len(rows[0]) == 0 || w <= 0 || h <= 0 {
		return ""
	}
	nr, nc := len(rows), len(rows[0])
	h, w = min(h, nr), min(w, nc)

	var b strings.Builder
	for i := 0; i < h; i++ {
		r0, r1 := i*nr/h, (i+1)*nr/h
		for j := 0; j < w; j++ {
			c0, c1 := j*nc/w, (j+1)*nc/w
			sum, n := 0.0, 0
			for r := r0; r < r1; r++ {
				for c := c0; c < c1; c++ {
					sum += rows[r][c]
					n++
				}
			}
			b.WriteByte(shadeByte(sum/float64(n), lo, hi))
		}
		if i < h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func shadeByte(v, lo, hi float64) byte {
	if math.IsNaN(v) {
		return '?'
	}
	if !(hi > lo) {
		return shadeRamp[0]
	}
	t := math.Max(0, math.Min(1, (v-lo)/(hi-lo)))
	return shadeRamp[int(math.Round(t*float64(len(shadeRamp)-1)))]
}
