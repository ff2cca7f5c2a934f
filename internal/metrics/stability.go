package metrics

import (
	"math"

	"github.com/san-kum/protolab/internal/diffusion"
)

// Stability is the fraction of frames whose largest magnitude stayed
// within threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(fr diffusion.Frame) {
	s.samples++
	if m := fr.Field.MaxAbs(); m > s.threshold || math.IsNaN(m) {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Peak is the largest ratio of a frame's maximum magnitude to the initial
// one. A stable run stays at or below 1; an unstable one grows without
// bound.
type Peak struct {
	name    string
	initial float64
	primed  bool
	growth  float64
}

func NewPeak() *Peak {
	return &Peak{name: "peak_growth"}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Prime(v diffusion.View) {
	p.initial = v.MaxAbs()
	p.primed = true
}

func (p *Peak) Observe(fr diffusion.Frame) {
	m := fr.Field.MaxAbs()
	if !p.primed {
		p.Prime(fr.Field)
		p.growth = 1
		return
	}
	if p.initial == 0 {
		if m > 0 {
			p.growth = math.Inf(1)
		}
		return
	}
	p.growth = math.Max(p.growth, m/p.initial)
}

func (p *Peak) Value() float64 {
	return p.growth
}

func (p *Peak) Reset() {
	p.initial = 0
	p.primed = false
	p.growth = 0
}
