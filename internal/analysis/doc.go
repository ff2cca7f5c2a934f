// Package analysis inspects diffusion field states.
//
// The package includes:
//
//   - [PowerSpectrum]: Fourier power of a 1D profile
//   - [RadialSpectrum]: Fourier power of a 2D grid binned by |k|
//   - [DominantMode]: strongest non-constant mode of a spectrum
//   - [AmplificationFactor]: von Neumann growth factor of one FTCS step
//   - [Variance]: spread of a 1D profile about its centre of mass
//
// # Stability
//
// Each Fourier mode of the periodic FTCS scheme is multiplied by a fixed
// factor per step. The scheme is stable when no factor exceeds 1 in
// magnitude:
//
//	g := analysis.MaxAmplification(r, dims)
//	if g > 1 {
//	    // the checkerboard mode grows every step
//	}
package analysis
