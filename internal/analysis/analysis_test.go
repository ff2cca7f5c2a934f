package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/protolab/internal/diffusion"
)

func mode(n, k int, amp float64) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = amp * math.Cos(2*math.Pi*float64(k*i)/float64(n))
	}
	return v
}

func TestPowerSpectrum_SingleMode(t *testing.T) {
	ps := PowerSpectrum(mode(32, 3, 1))
	if len(ps) != 17 {
		t.Fatalf("len = %d, want 17", len(ps))
	}
	if got := DominantMode(ps); got != 3 {
		t.Errorf("dominant mode = %d, want 3", got)
	}
	if math.Abs(ps[3]-8) > 1e-9 {
		t.Errorf("power at k=3 = %v, want 8", ps[3])
	}
	for k, p := range ps {
		if k != 3 && p > 1e-9 {
			t.Errorf("leak at k=%d: %v", k, p)
		}
	}
}

func TestPowerSpectrum_Constant(t *testing.T) {
	ps := PowerSpectrum([]float64{2, 2, 2, 2, 2})
	if math.Abs(ps[0]-20) > 1e-9 {
		t.Errorf("dc power = %v, want 20", ps[0])
	}
	if DominantMode([]float64{5}) != 0 {
		t.Error("expected 0 for a spectrum with only dc")
	}
	if PowerSpectrum(nil) != nil {
		t.Error("expected nil for empty input")
	}
}

func TestRadialSpectrum(t *testing.T) {
	n := 16
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
		for j := range rows[i] {
			rows[i][j] = math.Cos(2*math.Pi*float64(2*i)/float64(n)) + 1
		}
	}
	bins := RadialSpectrum(rows)
	if got := DominantMode(bins); got != 2 {
		t.Errorf("dominant radial bin = %d, want 2", got)
	}
}

func TestAmplificationFactor_MatchesStencil(t *testing.T) {
	tests := []struct {
		n, k  int
		alpha float64
		dt    float64
	}{
		{20, 1, 0.5, 0.5},
		{20, 5, 0.5, 0.5},
		{20, 10, 0.5, 0.5},
		{16, 4, 1, 0.2},
	}

	for _, tt := range tests {
		f, err := diffusion.NewField1D(1, mode(tt.n, tt.k, 1))
		if err != nil {
			t.Fatalf("field: %v", err)
		}
		r := MeshRatio(tt.alpha, tt.dt, 1)
		g := AmplificationFactor(r, []int{tt.k}, []int{tt.n})

		before := f.Read().Copy()
		next := diffusion.NewStencil(tt.alpha).Apply(f, tt.dt)
		for i := range next {
			if math.Abs(next[i]-g*before[i]) > 1e-12 {
				t.Errorf("n=%d k=%d cell %d: got %v, want %v", tt.n, tt.k, i, next[i], g*before[i])
				break
			}
		}
	}
}

func TestMaxAmplification(t *testing.T) {
	tests := []struct {
		r    float64
		dims int
		want float64
	}{
		{0.25, 1, 1},
		{0.5, 1, 1},
		{1, 1, 3},
		{0.25, 2, 1},
		{0.5, 2, 3},
	}
	for _, tt := range tests {
		if got := MaxAmplification(tt.r, tt.dims); got != tt.want {
			t.Errorf("MaxAmplification(%v, %d) = %v, want %v", tt.r, tt.dims, got, tt.want)
		}
	}
}

func TestVariance_GrowsLinearly(t *testing.T) {
	values := make([]float64, 100)
	values[50] = 1
	f, _ := diffusion.NewField1D(1, values)
	if Variance(f.Read().Copy(), 1) != 0 {
		t.Error("impulse should have zero variance")
	}

	st := diffusion.NewStencil(0.5)
	for i := 0; i < 20; i++ {
		if err := f.WriteInPlace(st.Apply(f, 0.5)); err != nil {
			t.Fatal(err)
		}
	}
	// r = 0.25; each step adds 2*r*dx^2.
	if got := Variance(f.Read().Copy(), 1); math.Abs(got-10) > 1e-9 {
		t.Errorf("variance = %v, want 10", got)
	}
}

func TestVariance_AcrossSeam(t *testing.T) {
	values := make([]float64, 100)
	values[0] = 1
	values[99] = 1
	// Peak at 0, cell 99 unrolls to -1: positions {0, -1}, mean -0.5.
	if got := Variance(values, 1); math.Abs(got-0.25) > 1e-12 {
		t.Errorf("variance = %v, want 0.25", got)
	}
	if got := Variance(values, 2); math.Abs(got-1) > 1e-12 {
		t.Errorf("variance with dx=2 = %v, want 1", got)
	}
}
