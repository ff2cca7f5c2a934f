// Package diffusion provides the explicit finite-difference heat solver.
//
// The package evolves a scalar field under the diffusion equation
// du/dt = alpha * laplacian(u) on a periodic grid in one or two dimensions:
//
//   - [Field]: scalar grid with uniform spacing, double-buffered
//   - [Clock]: simulated time between a start and an end
//   - [Scheduler]: stability-bounded timestep with a final-step clamp
//   - [Stencil]: forward-time centered-space update with wraparound
//   - [Diagnostics]: total energy and mean value of a field state
//   - [Driver]: Idle/Running/Done loop emitting one [Frame] per step
//
// # Example
//
//	field, _ := diffusion.NewField1D(1.0, initial)
//	clock, _ := diffusion.NewClock(0, 10)
//	sched, _ := diffusion.NewScheduler(1.0, 0.5, 2)
//	d := diffusion.NewDriver(diffusion.WithEnergyFactor(1))
//	_ = d.Start(field, clock, sched)
//	_ = d.Run(ctx, func(fr diffusion.Frame) bool {
//	    fmt.Println(fr.Time, fr.Diagnostics.TotalEnergy)
//	    return true
//	})
//
// # Stability
//
// The scheduler keeps dt below dx^2/(2*alpha) divided by a safety divisor.
// The core never inspects field magnitudes: a divisor too small for the
// grid dimensionality diverges silently. See [Scheduler.StableFor].
//
// # Thread Safety
//
// A Driver and the Field, Clock and Scheduler it owns are NOT thread-safe.
// Independent runs may execute concurrently as long as they share nothing.
package diffusion
