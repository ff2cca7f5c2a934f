// Package solarsystem builds initial conditions for an N-body integrator:
// the Sun, the planets, Pluto, Ceres, Halley's Comet and major moons.
//
// Units are AU, AU/day and solar masses. Every body starts on the +x axis
// moving along +y.
package solarsystem

import "gonum.org/v1/gonum/spatial/r3"

const (
	// VelocityFactor converts m/s to AU/day.
	VelocityFactor = 5.775e-7

	// G is the gravitational constant in AU^3 / (Msun day^2).
	G = 2.959122e-4
)

type Body struct {
	Name     string
	Mass     float64
	Position r3.Vec
	Velocity r3.Vec
	Moons    []Body
}

func body(name string, mass, x, speed float64, moons ...Body) Body {
	return Body{
		Name:     name,
		Mass:     mass,
		Position: r3.Vec{X: x},
		Velocity: r3.Vec{Y: speed * VelocityFactor},
		Moons:    moons,
	}
}

// Catalog returns a fresh copy of the solar-system bodies. Moon positions
// are absolute; their velocity entries are the tabulated orbital speeds
// scaled by VelocityFactor as given, not added to the parent's motion.
func Catalog() []Body {
	return []Body{
		body("Sun", 1.0, 0, 0),
		body("Mercury", 1.651e-7, 0.387, 4.79e4),
		body("Venus", 2.447e-6, 0.723, 3.5e4),
		body("Earth", 3.003e-6, 1.0, 2.978e4,
			body("Moon", 3.694e-8, 1.00257, 1.023),
		),
		body("Mars", 3.213e-7, 1.524, 2.41e4),
		body("Jupiter", 9.545e-4, 5.202, 1.31e4,
			body("Io", 4.86e-8, 5.202+4.217e-5, 17.334),
			body("Europa", 2.53e-8, 5.202+6.713e-5, 13.74),
			body("Ganymede", 7.8e-8, 5.202+1.0704e-4, 10.88),
			body("Callisto", 5.59e-8, 5.202+1.8827e-4, 8.204),
		),
		body("Saturn", 2.857e-4, 9.537, 9.68e3,
			body("Titan", 2.37e-7, 9.537+8.167e-4, 5.57),
		),
		body("Uranus", 4.366e-5, 19.191, 6.8e3,
			body("Titania", 3.4e-8, 19.191+2.761e-4, 3.64),
		),
		body("Neptune", 5.15e-5, 30.068, 5.43e3,
			body("Triton", 2.14e-7, 30.068+2.371e-4, 4.39),
		),
		body("Pluto", 6.55e-9, 39.482, 4.74e3),
		body("Ceres", 4.7e-10, 2.767, 1.73e4),
		body("Halley's Comet", 1.106e-16, 0.586, 5.452e4),
	}
}

// Particle is one body of a flattened catalog.
type Particle struct {
	ID       int
	Name     string
	Parent   string
	Mass     float64
	Position r3.Vec
	Velocity r3.Vec
}

// Flatten lists every body and moon in catalog order, each moon directly
// after its parent.
func Flatten(bodies []Body) []Particle {
	var out []Particle
	var walk func(b Body, parent string)
	walk = func(b Body, parent string) {
		out = append(out, Particle{
			ID:       len(out),
			Name:     b.Name,
			Parent:   parent,
			Mass:     b.Mass,
			Position: b.Position,
			Velocity: b.Velocity,
		})
		for _, m := range b.Moons {
			walk(m, b.Name)
		}
	}
	for _, b := range bodies {
		walk(b, "")
	}
	return out
}

// Find returns the named body or moon.
func Find(bodies []Body, name string) (Body, bool) {
	for _, b := range bodies {
		if b.Name == name {
			return b, true
		}
		if m, ok := Find(b.Moons, name); ok {
			return m, true
		}
	}
	return Body{}, false
}
