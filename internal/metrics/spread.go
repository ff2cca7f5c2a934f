package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/protolab/internal/diffusion"
)

// Spread is the standard deviation of the last observed frame. Diffusion
// drives it towards zero.
type Spread struct {
	name    string
	last    float64
	samples int
}

func NewSpread() *Spread {
	return &Spread{name: "spread"}
}

func (s *Spread) Name() string {
	return s.name
}

func (s *Spread) Observe(fr diffusion.Frame) {
	if fr.Field.Len() < 2 {
		s.last = 0
	} else {
		_, s.last = stat.MeanStdDev(fr.Field.Copy(), nil)
	}
	s.samples++
}

func (s *Spread) Value() float64 {
	return s.last
}

func (s *Spread) Reset() {
	s.last = 0
	s.samples = 0
}
