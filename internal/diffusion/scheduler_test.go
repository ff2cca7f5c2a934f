package diffusion

import (
	"errors"
	"math"
	"testing"
)

func TestNewScheduler_Invalid(t *testing.T) {
	tests := []struct {
		name         string
		dx, alpha, k float64
		param        string
	}{
		{"zero dx", 0, 1, 2, "dx"},
		{"negative dx", -1, 1, 2, "dx"},
		{"zero alpha", 1, 0, 2, "alpha"},
		{"negative alpha", 1, -0.5, 2, "alpha"},
		{"zero k", 1, 1, 0, "k"},
		{"negative k", 1, 1, -4, "k"},
		{"nan alpha", 1, math.NaN(), 2, "alpha"},
		{"inf dx", math.Inf(1), 1, 2, "dx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewScheduler(tt.dx, tt.alpha, tt.k)
			var ce *ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("expected *ConfigurationError, got %v", err)
			}
			if ce.Param != tt.param {
				t.Errorf("param = %q, want %q", ce.Param, tt.param)
			}
			if !errors.Is(err, ErrConfiguration) {
				t.Error("error does not unwrap to ErrConfiguration")
			}
		})
	}
}

func TestScheduler_Bound(t *testing.T) {
	s, err := NewScheduler(1, 0.5, 2)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	if s.Bound() != 1 {
		t.Errorf("bound = %v, want 1", s.Bound())
	}
	if s.Dt() != 0.5 {
		t.Errorf("dt = %v, want 0.5", s.Dt())
	}
	if !s.StableFor(1) || !s.StableFor(2) {
		t.Error("dt = bound/2 should be stable in 1D and 2D")
	}
	if s.StableFor(3) {
		t.Error("dt = bound/2 should not be stable in 3D")
	}
}

func TestScheduler_FinalStepClamp(t *testing.T) {
	s, _ := NewScheduler(1, 0.5, 2)
	c, _ := NewClock(0, 10.3)

	steps := 0
	for !c.Done() {
		dt := s.NextStep(c)
		if c.Current()+dt > c.End() {
			t.Fatalf("step %d overshoots: %v + %v > %v", steps, c.Current(), dt, c.End())
		}
		c.Advance(dt)
		steps++
	}

	if c.Current() != 10.3 {
		t.Errorf("final time = %v, want exactly 10.3", c.Current())
	}
	if steps != 21 {
		t.Errorf("steps = %d, want 21", steps)
	}
	if math.Abs(c.Dt()-0.3) > 1e-12 {
		t.Errorf("last dt = %v, want 0.3", c.Dt())
	}
}

func TestScheduler_ClampInexactStep(t *testing.T) {
	s, _ := NewScheduler(0.1, 1, 2)
	c, _ := NewClock(0.001, 0.01234)

	want := s.Steps(c)
	steps := 0
	last := c.Current()
	for !c.Done() {
		c.Advance(s.NextStep(c))
		if c.Current() <= last {
			t.Fatalf("time did not increase: %v -> %v", last, c.Current())
		}
		last = c.Current()
		steps++
	}
	if c.Current() != 0.01234 {
		t.Errorf("final time = %v, want exactly 0.01234", c.Current())
	}
	if steps != want {
		t.Errorf("steps = %d, Steps() predicted %d", steps, want)
	}
}

func TestNewClock_Invalid(t *testing.T) {
	if _, err := NewClock(5, 1); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for reversed range, got %v", err)
	}
	if _, err := NewClock(0, math.Inf(1)); !errors.Is(err, ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for infinite end, got %v", err)
	}
	c, err := NewClock(2, 2)
	if err != nil {
		t.Fatalf("empty range: %v", err)
	}
	if !c.Done() {
		t.Error("empty range should start done")
	}
}
