package analysis

import "math"

// AmplificationFactor is the von Neumann factor of one periodic FTCS step
// with mesh ratio r = alpha*dt/dx^2 for the Fourier mode with the given
// wavenumber on each axis:
//
//	G = 1 - 4r * sum_a sin^2(pi*k_a/n_a)
func AmplificationFactor(r float64, wavenumbers, extents []int) float64 {
	s := 0.0
	for a := range wavenumbers {
		sin := math.Sin(math.Pi * float64(wavenumbers[a]) / float64(extents[a]))
		s += sin * sin
	}
	return 1 - 4*r*s
}

// MaxAmplification is the largest |G| over all modes of a grid with the
// given number of axes. It is reached by the constant mode (G = 1) or the
// checkerboard (G = 1 - 4*r*dims).
func MaxAmplification(r float64, dims int) float64 {
	return math.Max(1, math.Abs(1-4*r*float64(dims)))
}

// MeshRatio returns alpha*dt/dx^2.
func MeshRatio(alpha, dt, dx float64) float64 {
	return alpha * dt / (dx * dx)
}
