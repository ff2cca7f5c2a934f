package metrics

import (
	"math"
	"sort"

	"github.com/san-kum/protolab/internal/diffusion"
)

// Metric accumulates a scalar over the frames of one run.
type Metric interface {
	Name() string
	Observe(fr diffusion.Frame)
	Value() float64
	Reset()
}

// Primer is implemented by metrics that compare against the initial state.
// Prime is called once with the field before the first step.
type Primer interface {
	Prime(v diffusion.View)
}

// Defaults returns the metrics reported for every run.
func Defaults(threshold float64) []Metric {
	return []Metric{
		NewEnergy(),
		NewConservation(),
		NewPeak(),
		NewStability(threshold),
		NewSpread(),
	}
}

// Finite splits metric values into those JSON can carry and the sorted names
// of those that went NaN or infinite, as they do once a run diverges.
func Finite(values map[string]float64) (map[string]float64, []string) {
	out := make(map[string]float64, len(values))
	var dropped []string
	for name, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			dropped = append(dropped, name)
			continue
		}
		out[name] = v
	}
	sort.Strings(dropped)
	return out, dropped
}
