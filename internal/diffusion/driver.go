package diffusion

import (
	"context"
	"io"

	log "github.com/sirupsen/logrus"
)

// State is the lifecycle stage of a Driver.
type State int

const (
	Idle State = iota
	Running
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Done:
		return "done"
	}
	return "unknown"
}

// Frame is what the driver emits after each accepted step.
type Frame struct {
	Step        int
	Time        float64
	Dt          float64
	Field       View
	Diagnostics Snapshot
}

// Driver advances a field from the clock's start to its end.
type Driver struct {
	field   *Field
	clock   *Clock
	sched   *Scheduler
	stencil *Stencil
	diag    Diagnostics
	state   State
	step    int
	logger  *log.Entry
}

type Option func(*Driver)

// WithEnergyFactor sets the factor converting the field sum to energy.
func WithEnergyFactor(factor float64) Option {
	return func(d *Driver) { d.diag = NewDiagnostics(factor) }
}

func WithLogger(entry *log.Entry) Option {
	return func(d *Driver) {
		if entry != nil {
			d.logger = entry
		}
	}
}

func NewDriver(opts ...Option) *Driver {
	discard := log.New()
	discard.SetOutput(io.Discard)
	d := &Driver{
		diag:   NewDiagnostics(1),
		state:  Idle,
		logger: log.NewEntry(discard),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) State() State { return d.state }

// Steps returns how many frames have been emitted.
func (d *Driver) Steps() int { return d.step }

func (d *Driver) Clock() *Clock { return d.clock }
func (d *Driver) Field() *Field { return d.field }

// Start injects the run's collaborators and moves Idle to Running. A clock
// whose start equals its end finishes immediately without emitting frames.
func (d *Driver) Start(field *Field, clock *Clock, sched *Scheduler) error {
	if d.state != Idle {
		return ErrDriverState
	}
	if field == nil || clock == nil || sched == nil {
		return &ConfigurationError{Param: "driver", Reason: "needs a field, a clock and a scheduler"}
	}
	if field.Dx() != sched.Dx() {
		return &ConfigurationError{Param: "dx", Value: field.Dx(), Reason: "field spacing differs from scheduler spacing"}
	}

	d.field, d.clock, d.sched = field, clock, sched
	d.stencil = NewStencil(sched.Alpha())
	d.state = Running

	d.logger.WithFields(log.Fields{
		"shape": field.shape.String(),
		"dx":    sched.Dx(),
		"alpha": sched.Alpha(),
		"dt":    sched.Dt(),
		"t_end": clock.End(),
	}).Debug("diffusion run started")

	if clock.Done() {
		d.finish()
	}
	return nil
}

// Step performs one update and returns the resulting frame. It returns
// false when the driver is not running.
func (d *Driver) Step() (Frame, bool) {
	if d.state != Running {
		return Frame{}, false
	}

	dt := d.sched.NextStep(d.clock)
	next := d.stencil.Apply(d.field, dt)
	// Lengths always match: next is the field's own scratch buffer.
	_ = d.field.WriteInPlace(next)
	d.clock.Advance(dt)
	d.step++

	view := d.field.Read()
	fr := Frame{
		Step:        d.step,
		Time:        d.clock.Current(),
		Dt:          dt,
		Field:       view,
		Diagnostics: d.diag.Summarize(view),
	}

	if d.clock.Done() {
		d.finish()
	}
	return fr, true
}

// Run steps until Done, until emit returns false, or until ctx is
// cancelled between two frames.
func (d *Driver) Run(ctx context.Context, emit func(Frame) bool) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fr, ok := d.Step()
		if !ok {
			return nil
		}
		if emit != nil && !emit(fr) {
			return nil
		}
	}
}

func (d *Driver) finish() {
	d.state = Done
	d.logger.WithFields(log.Fields{
		"steps": d.step,
		"time":  d.clock.Current(),
	}).Debug("diffusion run finished")
}
