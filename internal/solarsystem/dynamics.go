package solarsystem

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

func TotalMass(ps []Particle) float64 {
	m := 0.0
	for _, p := range ps {
		m += p.Mass
	}
	return m
}

// Barycenter returns the mass-weighted mean position.
func Barycenter(ps []Particle) r3.Vec {
	var c r3.Vec
	m := TotalMass(ps)
	if m == 0 {
		return c
	}
	for _, p := range ps {
		c = r3.Add(c, r3.Scale(p.Mass, p.Position))
	}
	return r3.Scale(1/m, c)
}

func Momentum(ps []Particle) r3.Vec {
	var total r3.Vec
	for _, p := range ps {
		total = r3.Add(total, r3.Scale(p.Mass, p.Velocity))
	}
	return total
}

func AngularMomentum(ps []Particle) r3.Vec {
	var total r3.Vec
	for _, p := range ps {
		total = r3.Add(total, r3.Scale(p.Mass, r3.Cross(p.Position, p.Velocity)))
	}
	return total
}

func KineticEnergy(ps []Particle) float64 {
	e := 0.0
	for _, p := range ps {
		e += 0.5 * p.Mass * r3.Dot(p.Velocity, p.Velocity)
	}
	return e
}

// PotentialEnergy sums -G m_i m_j / r over all pairs; coincident pairs are
// skipped.
func PotentialEnergy(ps []Particle) float64 {
	e := 0.0
	for i := 0; i < len(ps)-1; i++ {
		for j := i + 1; j < len(ps); j++ {
			r := r3.Norm(r3.Sub(ps[i].Position, ps[j].Position))
			if r > 1e-10 {
				e -= G * ps[i].Mass * ps[j].Mass / r
			}
		}
	}
	return e
}

// ToBarycentric shifts positions and velocities so the barycenter sits at
// the origin at rest.
func ToBarycentric(ps []Particle) []Particle {
	c := Barycenter(ps)
	m := TotalMass(ps)
	v := r3.Vec{}
	if m > 0 {
		v = r3.Scale(1/m, Momentum(ps))
	}
	out := make([]Particle, len(ps))
	for i, p := range ps {
		p.Position = r3.Sub(p.Position, c)
		p.Velocity = r3.Sub(p.Velocity, v)
		out[i] = p
	}
	return out
}

// CircularSpeed is sqrt(G*M/r) around a central mass M at distance r.
func CircularSpeed(centralMass, r float64) float64 {
	return math.Sqrt(G * centralMass / r)
}
