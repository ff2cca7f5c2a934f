package experiment

import (
	"fmt"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/san-kum/protolab/internal/config"
	"github.com/san-kum/protolab/internal/diffusion"
	"github.com/san-kum/protolab/internal/metrics"
)

// InitialCondition fills a grid of the given shape, row-major.
type InitialCondition func(shape diffusion.Shape, ic config.InitialConfig) []float64

type Registry struct {
	initials map[string]InitialCondition
}

func NewRegistry() *Registry {
	r := &Registry{
		initials: make(map[string]InitialCondition),
	}

	r.initials[config.KindImpulse] = impulse
	r.initials[config.KindBand] = band
	r.initials[config.KindGaussian] = gaussian
	r.initials[config.KindUniform] = uniform

	return r
}

func (r *Registry) Register(kind string, fn InitialCondition) {
	r.initials[kind] = fn
}

func (r *Registry) GetInitial(kind string) (InitialCondition, error) {
	fn, ok := r.initials[kind]
	if !ok {
		return nil, fmt.Errorf("unknown initial condition: %s", kind)
	}
	return fn, nil
}

func (r *Registry) ListInitials() []string {
	names := make([]string, 0, len(r.initials))
	for name := range r.initials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildField creates the starting field described by cfg.
func (r *Registry) BuildField(cfg *config.Config) (*diffusion.Field, error) {
	fn, err := r.GetInitial(cfg.Initial.Kind)
	if err != nil {
		return nil, err
	}
	shape := diffusion.Shape{cfg.N}
	if cfg.Dims == 2 {
		shape = diffusion.Shape{cfg.N, cfg.N}
	}
	return diffusion.NewField(shape, cfg.Dx(), fn(shape, cfg.Initial))
}

func (r *Registry) DefaultMetrics(cfg *config.Config) []metrics.Metric {
	// Anything beyond a thousand times the starting scale has diverged.
	threshold := 1e3 * scale(cfg.Initial)
	return metrics.Defaults(threshold)
}

func scale(ic config.InitialConfig) float64 {
	s := 1.0
	for _, v := range []float64{ic.Amplitude, ic.Background, ic.Mean, ic.StdDev} {
		if v < 0 {
			v = -v
		}
		if v > s {
			s = v
		}
	}
	return s
}

func filled(shape diffusion.Shape, v float64) []float64 {
	values := make([]float64, shape.Size())
	for i := range values {
		values[i] = v
	}
	return values
}

// impulse puts Amplitude in the centre cell on top of Background.
func impulse(shape diffusion.Shape, ic config.InitialConfig) []float64 {
	values := filled(shape, ic.Background)
	c := 0
	stride := 1
	for a := len(shape) - 1; a >= 0; a-- {
		c += (shape[a] / 2) * stride
		stride *= shape[a]
	}
	values[c] += ic.Amplitude
	return values
}

// band sets Width rows centred on the middle of the first axis to
// Amplitude. In 1D that is the cells [n/2-w/2, n/2+w/2).
func band(shape diffusion.Shape, ic config.InitialConfig) []float64 {
	values := filled(shape, ic.Background)
	n := shape[0]
	rowLen := shape.Size() / n
	w := ic.Width
	if w < 1 {
		w = 1
	}
	lo := n/2 - w/2
	hi := lo + w
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	for i := lo * rowLen; i < hi*rowLen; i++ {
		values[i] = ic.Amplitude
	}
	return values
}

// gaussian draws every cell independently from N(Mean, StdDev^2) with a
// seeded source so runs repeat.
func gaussian(shape diffusion.Shape, ic config.InitialConfig) []float64 {
	if ic.StdDev <= 0 {
		return filled(shape, ic.Mean)
	}
	dist := distuv.Normal{
		Mu:    ic.Mean,
		Sigma: ic.StdDev,
		Src:   rand.NewSource(uint64(ic.Seed)),
	}
	values := make([]float64, shape.Size())
	for i := range values {
		values[i] = dist.Rand()
	}
	return values
}

func uniform(shape diffusion.Shape, ic config.InitialConfig) []float64 {
	return filled(shape, ic.Background)
}
