package diffusion

import (
	"context"
	"errors"
	"testing"
)

func newExampleRun(t *testing.T, tEnd float64) (*Field, *Clock, *Scheduler) {
	t.Helper()
	f, err := NewField1D(1, impulse1D(20, 10, 100))
	if err != nil {
		t.Fatalf("field: %v", err)
	}
	c, err := NewClock(0, tEnd)
	if err != nil {
		t.Fatalf("clock: %v", err)
	}
	s, err := NewScheduler(1, 0.5, 2)
	if err != nil {
		t.Fatalf("scheduler: %v", err)
	}
	return f, c, s
}

func TestDriver_Lifecycle(t *testing.T) {
	d := NewDriver()
	if d.State() != Idle {
		t.Fatalf("initial state = %s", d.State())
	}
	if _, ok := d.Step(); ok {
		t.Error("idle driver should not step")
	}

	f, c, s := newExampleRun(t, 2)
	if err := d.Start(f, c, s); err != nil {
		t.Fatalf("start: %v", err)
	}
	if d.State() != Running {
		t.Fatalf("state after start = %s", d.State())
	}

	var frames []Frame
	if err := d.Run(context.Background(), func(fr Frame) bool {
		frames = append(frames, fr)
		return true
	}); err != nil {
		t.Fatalf("run: %v", err)
	}

	if d.State() != Done {
		t.Errorf("state after run = %s", d.State())
	}
	if len(frames) != 4 {
		t.Fatalf("frames = %d, want 4", len(frames))
	}
	for i, fr := range frames {
		if fr.Step != i+1 {
			t.Errorf("frame %d step = %d", i, fr.Step)
		}
	}
	if last := frames[len(frames)-1]; last.Time != 2 {
		t.Errorf("last frame time = %v, want 2", last.Time)
	}

	if err := d.Start(f, c, s); !errors.Is(err, ErrDriverState) {
		t.Errorf("restart: expected ErrDriverState, got %v", err)
	}
}

func TestDriver_FirstFrame(t *testing.T) {
	d := NewDriver(WithEnergyFactor(2))
	f, c, s := newExampleRun(t, 10)
	if err := d.Start(f, c, s); err != nil {
		t.Fatalf("start: %v", err)
	}

	fr, ok := d.Step()
	if !ok {
		t.Fatal("expected a frame")
	}
	if fr.Time != 0.5 || fr.Dt != 0.5 {
		t.Errorf("time=%v dt=%v, want 0.5 and 0.5", fr.Time, fr.Dt)
	}
	if fr.Field.At(10) != 50 || fr.Field.At(9) != 25 || fr.Field.At(11) != 25 {
		t.Errorf("unexpected profile around center: %v %v %v",
			fr.Field.At(9), fr.Field.At(10), fr.Field.At(11))
	}
	if fr.Diagnostics.TotalEnergy != 200 {
		t.Errorf("energy = %v, want 200", fr.Diagnostics.TotalEnergy)
	}
	if fr.Diagnostics.MeanValue != 5 || fr.Diagnostics.Max != 50 || fr.Diagnostics.Min != 0 {
		t.Errorf("unexpected snapshot %+v", fr.Diagnostics)
	}
}

func TestDriver_ZeroLengthRun(t *testing.T) {
	d := NewDriver()
	f, c, s := newExampleRun(t, 0)
	if err := d.Start(f, c, s); err != nil {
		t.Fatalf("start: %v", err)
	}
	if d.State() != Done {
		t.Errorf("state = %s, want done", d.State())
	}

	emitted := 0
	_ = d.Run(context.Background(), func(Frame) bool { emitted++; return true })
	if emitted != 0 {
		t.Errorf("emitted %d frames on an empty interval", emitted)
	}
}

func TestDriver_StartValidation(t *testing.T) {
	f, c, _ := newExampleRun(t, 1)
	other, _ := NewScheduler(0.5, 0.5, 2)

	d := NewDriver()
	if err := d.Start(f, c, other); !errors.Is(err, ErrConfiguration) {
		t.Errorf("spacing mismatch: expected ErrConfiguration, got %v", err)
	}
	if err := d.Start(nil, c, other); !errors.Is(err, ErrConfiguration) {
		t.Errorf("nil field: expected ErrConfiguration, got %v", err)
	}
	if d.State() != Idle {
		t.Errorf("rejected start changed state to %s", d.State())
	}
}

func TestDriver_RunStops(t *testing.T) {
	t.Run("emit returns false", func(t *testing.T) {
		d := NewDriver()
		f, c, s := newExampleRun(t, 10)
		_ = d.Start(f, c, s)

		n := 0
		err := d.Run(context.Background(), func(Frame) bool {
			n++
			return n < 3
		})
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		if n != 3 || d.State() != Running {
			t.Errorf("n=%d state=%s, want 3 and running", n, d.State())
		}
	})

	t.Run("context cancelled", func(t *testing.T) {
		d := NewDriver()
		f, c, s := newExampleRun(t, 10)
		_ = d.Start(f, c, s)

		ctx, cancel := context.WithCancel(context.Background())
		n := 0
		err := d.Run(ctx, func(Frame) bool {
			n++
			if n == 2 {
				cancel()
			}
			return true
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if n != 2 {
			t.Errorf("frames after cancel = %d, want 2", n)
		}
	})
}

func TestState_String(t *testing.T) {
	for s, want := range map[State]string{Idle: "idle", Running: "running", Done: "done", State(9): "unknown"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
