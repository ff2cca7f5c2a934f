// Package galaxy generates particle positions for a model spiral galaxy:
// logarithmic spiral arms in leading/trailing pairs, a two-shell core and
// a two-layer disc of haze.
//
// Positions are in model units of 0.05 kpc; multiply by Unit for kpc.
package galaxy

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/protolab/internal/config"
)

// Unit is the length of one model unit in kpc.
const Unit = 0.05

// Arm is one logarithmic spiral. Rotation is in units of pi.
//
// Arms come in pairs: one at i*RotSpacing and a twin rotated back by
// TrailDelay. The twin is the one marked Leading and binned into
// Components.LeadingArm.
type Arm struct {
	Rotation float64
	Fuzz     float64
	Leading  bool
}

type Galaxy struct {
	cfg    config.GalaxyConfig
	radius float64
	arms   []Arm
}

func New(cfg *config.GalaxyConfig) (*Galaxy, error) {
	if !(cfg.Size > 0) {
		return nil, fmt.Errorf("galaxy: size must be positive, got %g", cfg.Size)
	}
	if cfg.Arms < 1 {
		return nil, fmt.Errorf("galaxy: need at least one arm, got %d", cfg.Arms)
	}
	if cfg.CoreStars < 0 || cfg.ArmStars < 0 || cfg.HazeStars < 0 {
		return nil, fmt.Errorf("galaxy: particle counts must not be negative")
	}
	if !(cfg.InnerHazeR > 0) || !(cfg.OuterHazeR > 0) {
		return nil, fmt.Errorf("galaxy: haze radius divisors must be positive")
	}

	g := &Galaxy{
		cfg:    *cfg,
		radius: cfg.Size / Unit,
	}
	spacing := cfg.RotSpacing
	if spacing == 0 {
		spacing = 2 / float64(cfg.Arms)
	}
	for i := 0; i < cfg.Arms; i++ {
		rot := float64(i) * spacing
		g.arms = append(g.arms,
			Arm{Rotation: rot, Fuzz: cfg.Fuzz},
			Arm{Rotation: rot - cfg.TrailDelay, Fuzz: cfg.Fuzz, Leading: true},
		)
	}
	return g, nil
}

// Radius is the disc radius in model units.
func (g *Galaxy) Radius() float64 { return g.radius }

func (g *Galaxy) Arms() []Arm {
	return append([]Arm(nil), g.arms...)
}

// Components are the particle sets of one generated galaxy.
type Components struct {
	LeadingArm  []r3.Vec
	TrailingArm []r3.Vec
	Core        []r3.Vec
	InnerHaze   []r3.Vec
	OuterHaze   []r3.Vec
}

// Particles groups the components into arm, core and haze.
type Particles struct {
	Arm  []r3.Vec
	Core []r3.Vec
	Haze []r3.Vec
}

// Build generates every component. The same seed yields the same galaxy.
func (g *Galaxy) Build() Components {
	src := rand.NewSource(g.cfg.Seed)
	rnd := rand.New(src)

	var c Components
	for _, arm := range g.arms {
		pts := g.spiral(arm, rnd, src)
		if arm.Leading {
			c.LeadingArm = append(c.LeadingArm, pts...)
		} else {
			c.TrailingArm = append(c.TrailingArm, pts...)
		}
	}

	coreRadius := g.radius / 15
	c.Core = append(sphere(g.cfg.CoreStars, coreRadius, src), sphere(g.cfg.CoreStars, coreRadius/2.5, src)...)
	c.InnerHaze = g.haze(g.cfg.InnerHazeR, g.cfg.InnerHazeZ, src)
	c.OuterHaze = g.haze(g.cfg.OuterHazeR, g.cfg.OuterHazeZ, src)
	return c
}

func (c Components) Particles() Particles {
	return Particles{
		Arm:  concat(c.LeadingArm, c.TrailingArm),
		Core: concat(c.Core),
		Haze: concat(c.InnerHaze, c.OuterHaze),
	}
}

// All returns every particle with its component name.
func (c Components) All() ([]r3.Vec, []string) {
	parts := []struct {
		name string
		pts  []r3.Vec
	}{
		{"leading_arm", c.LeadingArm},
		{"trailing_arm", c.TrailingArm},
		{"core", c.Core},
		{"inner_haze", c.InnerHaze},
		{"outer_haze", c.OuterHaze},
	}
	var pts []r3.Vec
	var names []string
	for _, p := range parts {
		pts = append(pts, p.pts...)
		for range p.pts {
			names = append(names, p.name)
		}
	}
	return pts, names
}

func concat(sets ...[]r3.Vec) []r3.Vec {
	n := 0
	for _, s := range sets {
		n += len(s)
	}
	out := make([]r3.Vec, 0, n)
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}

// spiral places ArmStars particles along r*exp(b*theta) at one degree
// steps, jittered in the plane by whole units scaled by the arm's fuzz.
func (g *Galaxy) spiral(arm Arm, rnd *rand.Rand, src rand.Source) []r3.Vec {
	jitter := int(0.030 * math.Abs(g.radius))
	offset := func() float64 {
		if jitter == 0 {
			return 0
		}
		return float64(rnd.Intn(2*jitter) - jitter)
	}
	height := distuv.Uniform{Min: -1.0 / 3, Max: 1.0 / 3, Src: src}

	pts := make([]r3.Vec, g.cfg.ArmStars)
	for j := range pts {
		theta := float64(j) * math.Pi / 180
		r := g.radius * math.Exp(g.cfg.B*theta)
		phase := theta - math.Pi*arm.Rotation
		pts[j] = r3.Vec{
			X: r*math.Cos(phase) - offset()*arm.Fuzz,
			Y: r*math.Sin(phase) - offset()*arm.Fuzz,
			Z: height.Rand(),
		}
	}
	return pts
}

// sphere draws n points from an isotropic normal scaled by radius, with the
// vertical axis flattened to 2%.
func sphere(n int, radius float64, src rand.Source) []r3.Vec {
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	pts := make([]r3.Vec, n)
	for i := range pts {
		pts[i] = r3.Vec{
			X: norm.Rand() * radius,
			Y: norm.Rand() * radius,
			Z: norm.Rand() * radius * 0.02,
		}
	}
	return pts
}

// haze scatters particles uniformly over a disc of radius radius/rMult,
// with planar coordinates rounded to whole units before scaling.
func (g *Galaxy) haze(rMult, zMult float64, src rand.Source) []r3.Vec {
	unit := distuv.Uniform{Min: 0, Max: 1, Src: src}
	angle := distuv.Uniform{Min: 0, Max: 2 * math.Pi, Src: src}
	height := distuv.Uniform{Min: -1, Max: 1, Src: src}

	pts := make([]r3.Vec, g.cfg.HazeStars)
	for i := range pts {
		n := math.Sqrt(unit.Rand())
		theta := angle.Rand()
		pts[i] = r3.Vec{
			X: math.Round(n*math.Cos(theta)*g.radius) / rMult,
			Y: math.Round(n*math.Sin(theta)*g.radius) / rMult,
			Z: height.Rand() * zMult,
		}
	}
	return pts
}

// Summary describes one particle set.
type Summary struct {
	Count      int
	MeanRadius float64
	MaxRadius  float64
	RMSHeight  float64
}

func Summarize(pts []r3.Vec) Summary {
	if len(pts) == 0 {
		return Summary{}
	}
	radii := make([]float64, len(pts))
	heights := make([]float64, len(pts))
	maxR := 0.0
	for i, p := range pts {
		radii[i] = math.Hypot(p.X, p.Y)
		heights[i] = p.Z * p.Z
		maxR = math.Max(maxR, radii[i])
	}
	return Summary{
		Count:      len(pts),
		MeanRadius: stat.Mean(radii, nil),
		MaxRadius:  maxR,
		RMSHeight:  math.Sqrt(stat.Mean(heights, nil)),
	}
}

// Centroid returns the mean position of pts.
func Centroid(pts []r3.Vec) r3.Vec {
	var sum r3.Vec
	for _, p := range pts {
		sum = r3.Add(sum, p)
	}
	if len(pts) == 0 {
		return sum
	}
	return r3.Scale(1/float64(len(pts)), sum)
}
