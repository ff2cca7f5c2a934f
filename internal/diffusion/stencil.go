package diffusion

// Stencil applies one forward-time centered-space update with periodic
// wraparound on every axis.
type Stencil struct {
	alpha float64
}

func NewStencil(alpha float64) *Stencil {
	return &Stencil{alpha: alpha}
}

func (s *Stencil) Alpha() float64 { return s.alpha }

// Apply computes the next state of f after dt into the field's scratch
// buffer and returns it. f itself is not modified; pass the result to
// f.WriteInPlace.
//
// Every cell uses the same formula: for each axis the two neighbours are
// found modulo the axis extent, so edges and corners need no special case.
func (s *Stencil) Apply(f *Field, dt float64) []float64 {
	old := f.values
	out := f.scratch()
	r := s.alpha * dt / (f.dx * f.dx)
	center := float64(2 * len(f.shape))

	for c := range old {
		sum := 0.0
		for a, n := range f.shape {
			stride := f.strides[a]
			coord := (c / stride) % n
			base := c - coord*stride
			sum += old[base+((coord+1)%n)*stride]
			sum += old[base+((coord-1+n)%n)*stride]
		}
		out[c] = old[c] + r*(sum-center*old[c])
	}
	return out
}
