package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

// PowerSpectrum returns |X_k|^2/n for k = 0..n/2 of a 1D profile.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}
	coeffs := fft.FFTReal(data)
	ps := make([]float64, n/2+1)
	for k := range ps {
		a := cmplx.Abs(coeffs[k])
		ps[k] = a * a / float64(n)
	}
	return ps
}

// RadialSpectrum returns the 2D power binned by integer radius of the
// wrapped wavenumber (kx, ky), with kx = min(i, n-i).
func RadialSpectrum(rows [][]float64) []float64 {
	n := len(rows)
	if n == 0 || len(rows[0]) == 0 {
		return nil
	}
	m := len(rows[0])
	coeffs := fft.FFT2Real(rows)

	kmax := math.Hypot(float64(n/2), float64(m/2))
	bins := make([]float64, int(kmax)+1)
	norm := float64(n * m)
	for i := 0; i < n; i++ {
		ki := i
		if n-i < ki {
			ki = n - i
		}
		for j := 0; j < m; j++ {
			kj := j
			if m-j < kj {
				kj = m - j
			}
			b := int(math.Round(math.Hypot(float64(ki), float64(kj))))
			if b >= len(bins) {
				b = len(bins) - 1
			}
			a := cmplx.Abs(coeffs[i][j])
			bins[b] += a * a / norm
		}
	}
	return bins
}

// DominantMode returns the index of the strongest mode above k=0, or 0
// when there is none.
func DominantMode(ps []float64) int {
	if len(ps) < 2 {
		return 0
	}
	return floats.MaxIdx(ps[1:]) + 1
}
