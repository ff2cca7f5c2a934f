package diffusion

import "math"

// Clock tracks simulated time from Start to End.
type Clock struct {
	start, end float64
	current    float64
	dt         float64
}

// NewClock returns a clock positioned at start.
func NewClock(start, end float64) (*Clock, error) {
	if math.IsNaN(start) || math.IsInf(start, 0) {
		return nil, &ConfigurationError{Param: "t_start", Value: start, Reason: "must be finite"}
	}
	if math.IsNaN(end) || math.IsInf(end, 0) {
		return nil, &ConfigurationError{Param: "t_end", Value: end, Reason: "must be finite"}
	}
	if end < start {
		return nil, &ConfigurationError{Param: "t_end", Value: end, Reason: "must not precede t_start"}
	}
	return &Clock{start: start, end: end, current: start}, nil
}

func (c *Clock) Start() float64   { return c.start }
func (c *Clock) End() float64     { return c.end }
func (c *Clock) Current() float64 { return c.current }

// Dt returns the size of the most recent advance.
func (c *Clock) Dt() float64 { return c.dt }

// Remaining returns End - Current.
func (c *Clock) Remaining() float64 { return c.end - c.current }

// Done reports whether the clock has reached End.
func (c *Clock) Done() bool { return c.current >= c.end }

// Advance moves the clock forward by dt. A step that covers the remaining
// interval lands exactly on End.
func (c *Clock) Advance(dt float64) {
	if dt < 0 {
		dt = 0
	}
	c.dt = dt
	if dt >= c.end-c.current {
		c.current = c.end
		return
	}
	c.current += dt
}

// Scheduler picks the explicit-scheme timestep for a run.
type Scheduler struct {
	dx, alpha, k float64
	bound        float64
	dt           float64
}

// NewScheduler derives the stability bound dx^2/(2*alpha) and the operating
// step bound/k.
func NewScheduler(dx, alpha, k float64) (*Scheduler, error) {
	if err := positive("dx", dx); err != nil {
		return nil, err
	}
	if err := positive("alpha", alpha); err != nil {
		return nil, err
	}
	if err := positive("k", k); err != nil {
		return nil, err
	}
	bound := dx * dx / (2 * alpha)
	return &Scheduler{
		dx:    dx,
		alpha: alpha,
		k:     k,
		bound: bound,
		dt:    bound / k,
	}, nil
}

func (s *Scheduler) Dx() float64    { return s.dx }
func (s *Scheduler) Alpha() float64 { return s.alpha }
func (s *Scheduler) K() float64     { return s.k }

// Bound returns the single-axis stability limit dx^2/(2*alpha).
func (s *Scheduler) Bound() float64 { return s.bound }

// Dt returns the unclamped operating step.
func (s *Scheduler) Dt() float64 { return s.dt }

// NextStep returns the step to take from the clock's current time, clamped
// so the clock never passes End.
func (s *Scheduler) NextStep(c *Clock) float64 {
	if rem := c.Remaining(); s.dt > rem {
		return rem
	}
	return s.dt
}

// StableFor reports whether the operating step satisfies the exact FTCS
// limit dx^2/(2*alpha*dims) for a grid with the given number of axes.
func (s *Scheduler) StableFor(dims int) bool {
	if dims < 1 {
		dims = 1
	}
	return s.dt <= s.bound/float64(dims)
}

// Steps returns how many steps the clock needs to reach End.
func (s *Scheduler) Steps(c *Clock) int {
	rem := c.Remaining()
	if rem <= 0 {
		return 0
	}
	return int(math.Ceil(rem / s.dt))
}
