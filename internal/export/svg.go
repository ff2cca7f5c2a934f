package export

import (
	"fmt"
	"strings"
)

func bounds(vs []float64) (lo, hi float64) {
	lo, hi = vs[0], vs[0]
	for _, v := range vs {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// ProfileSVG draws a 1D field profile as a polyline, cell centres at
// (i+0.5)*dx. Several profiles share one value axis; the first is drawn
// with the first stroke colour and so on.
func ProfileSVG(profiles [][]float64, dx float64, width, height int, strokes ...string) string {
	if len(profiles) == 0 || len(profiles[0]) < 2 {
		return ""
	}
	if len(strokes) == 0 {
		strokes = []string{"#00ff88"}
	}

	all := make([]float64, 0, len(profiles)*len(profiles[0]))
	for _, p := range profiles {
		all = append(all, p...)
	}
	minY, maxY := bounds(all)
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for k, p := range profiles {
		length := float64(len(p)) * dx
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokes[k%len(strokes)])
		for i, v := range p {
			x := (float64(i) + 0.5) * dx / length * float64(width)
			y := float64(height) - (v-minY)/rangeY*float64(height)
			if i == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// PointsSVG draws particles projected on the x-y plane as dots, mapping
// [-extent, extent] on both axes onto the square image.
func PointsSVG(xs, ys []float64, extent float64, size int, fill string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, size, size, size, size, fill)

	scale := float64(size) / (2 * extent)
	for i := range xs {
		cx := (xs[i] + extent) * scale
		cy := float64(size) - (ys[i]+extent)*scale
		if cx < 0 || cy < 0 || cx > float64(size) || cy > float64(size) {
			continue
		}
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"0.6\"/>\n", cx, cy)
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
