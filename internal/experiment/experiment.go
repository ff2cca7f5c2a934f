package experiment

import (
	"context"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/san-kum/protolab/internal/config"
	"github.com/san-kum/protolab/internal/diffusion"
	"github.com/san-kum/protolab/internal/metrics"
)

// Observer sees every frame of a run. Returning false stops the run.
type Observer interface {
	OnFrame(fr diffusion.Frame) bool
}

type ObserverFunc func(fr diffusion.Frame) bool

func (f ObserverFunc) OnFrame(fr diffusion.Frame) bool { return f(fr) }

// Result holds the sampled history of a run. Times and Snapshots start with
// the initial state at t_start and always end with the final frame.
type Result struct {
	Config     *config.Config
	Shape      diffusion.Shape
	Dt         float64
	Bound      float64
	Stable     bool
	Steps      int
	Times      []float64
	Snapshots  []diffusion.Snapshot
	Initial    []float64
	Final      []float64
	Metrics    map[string]float64
	Terminated bool
}

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	logger    *log.Entry
	metrics   []metrics.Metric
	observers []Observer

	field  *diffusion.Field
	clock  *diffusion.Clock
	sched  *diffusion.Scheduler
	driver *diffusion.Driver
	start  []float64
}

type Option func(*Experiment)

func WithLogger(entry *log.Entry) Option {
	return func(e *Experiment) {
		if entry != nil {
			e.logger = entry
		}
	}
}

func WithRegistry(r *Registry) Option {
	return func(e *Experiment) {
		if r != nil {
			e.registry = r
		}
	}
}

func New(cfg *config.Config, opts ...Option) *Experiment {
	discard := log.New()
	discard.SetOutput(io.Discard)
	e := &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		logger:   log.NewEntry(discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Experiment) AddObserver(o Observer) { e.observers = append(e.observers, o) }

// Setup validates the configuration, builds the initial field and starts a
// fresh driver. It can be called again to reset the experiment.
func (e *Experiment) Setup(ms ...metrics.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	field, err := e.registry.BuildField(e.cfg)
	if err != nil {
		return fmt.Errorf("build field: %w", err)
	}
	clock, err := diffusion.NewClock(e.cfg.TStart, e.cfg.TEnd)
	if err != nil {
		return err
	}
	sched, err := diffusion.NewScheduler(field.Dx(), e.cfg.Alpha, e.cfg.SafetyDivisor())
	if err != nil {
		return err
	}

	logger := e.logger.WithField("run", e.cfg.Name)
	if !sched.StableFor(e.cfg.Dims) {
		logger.WithFields(log.Fields{
			"dt":    sched.Dt(),
			"limit": sched.Bound() / float64(e.cfg.Dims),
			"dims":  e.cfg.Dims,
		}).Warn("timestep exceeds the explicit stability limit; the run may diverge")
	}

	driver := diffusion.NewDriver(
		diffusion.WithEnergyFactor(e.cfg.EnergyFactor),
		diffusion.WithLogger(logger),
	)

	e.start = field.Read().Copy()
	if err := driver.Start(field, clock, sched); err != nil {
		return err
	}

	if len(ms) > 0 {
		e.metrics = ms
	}
	for _, m := range e.metrics {
		m.Reset()
		if p, ok := m.(metrics.Primer); ok {
			p.Prime(field.Read())
		}
	}

	e.field, e.clock, e.sched, e.driver = field, clock, sched, driver
	return nil
}

func (e *Experiment) Config() *config.Config          { return e.cfg }
func (e *Experiment) Driver() *diffusion.Driver       { return e.driver }
func (e *Experiment) Scheduler() *diffusion.Scheduler { return e.sched }
func (e *Experiment) Field() *diffusion.Field         { return e.field }

// Initial returns a copy of the starting values.
func (e *Experiment) Initial() []float64 {
	c := make([]float64, len(e.start))
	copy(c, e.start)
	return c
}

// Observe feeds a frame to the metrics. Callers stepping the driver
// themselves use it to keep metrics current.
func (e *Experiment) Observe(fr diffusion.Frame) {
	for _, m := range e.metrics {
		m.Observe(fr)
	}
}

// MetricValues returns the current value of every metric by name.
func (e *Experiment) MetricValues() map[string]float64 {
	out := make(map[string]float64, len(e.metrics))
	for _, m := range e.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.driver == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	initial := diffusion.NewDiagnostics(e.cfg.EnergyFactor).Summarize(e.field.Read())
	res := &Result{
		Config:    e.cfg,
		Shape:     e.field.Shape(),
		Dt:        e.sched.Dt(),
		Bound:     e.sched.Bound(),
		Stable:    e.sched.StableFor(e.cfg.Dims),
		Times:     []float64{e.clock.Start()},
		Snapshots: []diffusion.Snapshot{initial},
		Initial:   e.Initial(),
	}

	every := e.cfg.FrameEvery
	var last diffusion.Frame
	lastKept := true

	err := e.driver.Run(ctx, func(fr diffusion.Frame) bool {
		e.Observe(fr)
		last = fr
		lastKept = fr.Step%every == 0
		if lastKept {
			res.Times = append(res.Times, fr.Time)
			res.Snapshots = append(res.Snapshots, fr.Diagnostics)
		}
		for _, o := range e.observers {
			if !o.OnFrame(fr) {
				res.Terminated = true
				return false
			}
		}
		return true
	})

	if !lastKept {
		res.Times = append(res.Times, last.Time)
		res.Snapshots = append(res.Snapshots, last.Diagnostics)
	}
	res.Steps = e.driver.Steps()
	res.Final = e.field.Read().Copy()
	res.Metrics = e.MetricValues()

	e.logger.WithFields(log.Fields{
		"run":   e.cfg.Name,
		"steps": res.Steps,
		"state": e.driver.State().String(),
	}).Info("experiment finished")

	return res, err
}
