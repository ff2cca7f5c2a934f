package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Variance returns the second moment of a 1D profile about its centre of
// mass, with positions in physical units (cell offset times dx). The ring
// is unrolled at the cell opposite the maximum. Negative values carry no
// weight.
func Variance(values []float64, dx float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	peak := floats.MaxIdx(values)

	x := make([]float64, n)
	w := make([]float64, n)
	for i := range values {
		off := i - peak
		if off > n/2 {
			off -= n
		} else if off < -(n-1)/2 {
			off += n
		}
		x[i] = float64(off) * dx
		w[i] = math.Max(values[i], 0)
	}
	if stat.Mean(w, nil) == 0 {
		return 0
	}

	mean := stat.Mean(x, w)
	dev := make([]float64, n)
	for i := range x {
		dev[i] = (x[i] - mean) * (x[i] - mean)
	}
	return stat.Mean(dev, w)
}
