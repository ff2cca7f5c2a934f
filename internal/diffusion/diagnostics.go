package diffusion

import (
	"gonum.org/v1/gonum/floats"
)

// Snapshot summarizes one field state.
type Snapshot struct {
	TotalEnergy float64 `json:"total_energy"`
	MeanValue   float64 `json:"mean_value"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
}

// Diagnostics converts field sums to energy with a fixed factor.
type Diagnostics struct {
	energyFactor float64
}

func NewDiagnostics(energyFactor float64) Diagnostics {
	return Diagnostics{energyFactor: energyFactor}
}

func (d Diagnostics) EnergyFactor() float64 { return d.energyFactor }

func (d Diagnostics) Summarize(v View) Snapshot {
	if len(v.values) == 0 {
		return Snapshot{}
	}
	sum := floats.Sum(v.values)
	return Snapshot{
		TotalEnergy: sum * d.energyFactor,
		MeanValue:   sum / float64(len(v.values)),
		Min:         floats.Min(v.values),
		Max:         floats.Max(v.values),
	}
}
