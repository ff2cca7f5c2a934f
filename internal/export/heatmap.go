package export

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/mazznoer/colorgrad"
)

// Palette is the 256-step viridis ramp used by every raster export.
func Palette() color.Palette {
	grad := colorgrad.Viridis()
	pal := make(color.Palette, 0, 256)
	for _, c := range grad.Colors(256) {
		pal = append(pal, c)
	}
	return pal
}

// Heatmap rasterizes a grid, each cell a scale x scale block. Values are
// mapped linearly from [lo, hi] onto the palette; pass lo == hi to use the
// grid's own range.
func Heatmap(rows [][]float64, scale int, lo, hi float64) *image.Paletted {
	if scale < 1 {
		scale = 1
	}
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}

	if lo == hi {
		lo, hi = math.Inf(1), math.Inf(-1)
		for _, row := range rows {
			for _, v := range row {
				lo = math.Min(lo, v)
				hi = math.Max(hi, v)
			}
		}
	}

	pal := Palette()
	img := image.NewPaletted(image.Rect(0, 0, w*scale, h*scale), pal)
	for i, row := range rows {
		for j, v := range row {
			idx := paletteIndex(v, lo, hi, len(pal))
			for y := i * scale; y < (i+1)*scale; y++ {
				for x := j * scale; x < (j+1)*scale; x++ {
					img.SetColorIndex(x, y, idx)
				}
			}
		}
	}
	return img
}

func paletteIndex(v, lo, hi float64, n int) uint8 {
	if !(hi > lo) || math.IsNaN(v) {
		return 0
	}
	t := (v - lo) / (hi - lo)
	t = math.Max(0, math.Min(1, t))
	return uint8(math.Round(t * float64(n-1)))
}

// HeatmapPNG writes Heatmap(rows, scale, 0, 0) as PNG.
func HeatmapPNG(w io.Writer, rows [][]float64, scale int) error {
	return png.Encode(w, Heatmap(rows, scale, 0, 0))
}

// DensityPNG bins points in [-extent, extent]^2 into a size x size image,
// coloured by log(1+count).
func DensityPNG(w io.Writer, xs, ys []float64, extent float64, size int) error {
	counts := make([][]float64, size)
	for i := range counts {
		counts[i] = make([]float64, size)
	}
	scale := float64(size) / (2 * extent)
	for i := range xs {
		col := int((xs[i] + extent) * scale)
		row := size - 1 - int((ys[i]+extent)*scale)
		if col < 0 || row < 0 || col >= size || row >= size {
			continue
		}
		counts[row][col]++
	}
	for _, row := range counts {
		for j := range row {
			row[j] = math.Log1p(row[j])
		}
	}
	return png.Encode(w, Heatmap(counts, 1, 0, 0))
}
