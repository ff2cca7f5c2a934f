package metrics

import (
	"math"

	"github.com/san-kum/protolab/internal/diffusion"
)

// Energy is the mean total energy over all observed frames.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(fr diffusion.Frame) {
	e.totalEnergy += fr.Diagnostics.TotalEnergy
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// Conservation is the largest relative drift of the field sum from its
// initial value. Periodic diffusion conserves the sum, so anything above
// rounding noise points at a broken stencil.
type Conservation struct {
	name     string
	initial  float64
	primed   bool
	maxDrift float64
}

func NewConservation() *Conservation {
	return &Conservation{name: "conservation_drift"}
}

func (c *Conservation) Name() string { return c.name }

func (c *Conservation) Prime(v diffusion.View) {
	c.initial = v.Sum()
	c.primed = true
}

func (c *Conservation) Observe(fr diffusion.Frame) {
	sum := fr.Field.Sum()
	if !c.primed {
		c.Prime(fr.Field)
		return
	}

	drift := math.Abs(sum - c.initial)
	if c.initial != 0 {
		drift /= math.Abs(c.initial)
	}
	c.maxDrift = math.Max(c.maxDrift, drift)
}

func (c *Conservation) Value() float64 {
	return c.maxDrift
}

func (c *Conservation) Reset() {
	c.initial = 0
	c.primed = false
	c.maxDrift = 0
}
