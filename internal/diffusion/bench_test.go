package diffusion

import "testing"

func BenchmarkStencil1D(b *testing.B) {
	f, _ := NewField1D(1, impulse1D(1024, 512, 1))
	st := NewStencil(0.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f.WriteInPlace(st.Apply(f, 0.25))
	}
}

func BenchmarkStencil2D(b *testing.B) {
	rows := make([][]float64, 128)
	for i := range rows {
		rows[i] = make([]float64, 128)
	}
	rows[64][64] = 1
	f, _ := NewField2D(1, rows)
	st := NewStencil(0.5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f.WriteInPlace(st.Apply(f, 0.25))
	}
}
