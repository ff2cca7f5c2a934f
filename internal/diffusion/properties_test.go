package diffusion_test

import (
	"context"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/protolab/internal/diffusion"
)

func randomRows(rng *rand.Rand, n, m int) [][]float64 {
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, m)
		for j := range rows[i] {
			rows[i][j] = rng.NormFloat64()*50 + 100
		}
	}
	return rows
}

func roll(rows [][]float64, di, dj int) [][]float64 {
	n, m := len(rows), len(rows[0])
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, m)
		for j := range out[i] {
			out[i][j] = rows[((i-di)%n+n)%n][((j-dj)%m+m)%m]
		}
	}
	return out
}

func runAll(f *diffusion.Field, tEnd, alpha, k float64, each func(diffusion.Frame)) {
	c, err := diffusion.NewClock(0, tEnd)
	Expect(err).NotTo(HaveOccurred())
	s, err := diffusion.NewScheduler(f.Dx(), alpha, k)
	Expect(err).NotTo(HaveOccurred())

	d := diffusion.NewDriver()
	Expect(d.Start(f, c, s)).To(Succeed())
	Expect(d.Run(context.Background(), func(fr diffusion.Frame) bool {
		each(fr)
		return true
	})).To(Succeed())
	Expect(d.State()).To(Equal(diffusion.Done))
}

var _ = Describe("Periodic FTCS diffusion", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(2025))
	})

	Describe("conservation", func() {
		It("keeps the 1D total within rounding of its initial value", func() {
			values := make([]float64, 100)
			for i := 40; i < 60; i++ {
				values[i] = 1e3
			}
			f, err := diffusion.NewField1D(0.01, values)
			Expect(err).NotTo(HaveOccurred())
			initial := f.Read().Sum()

			runAll(f, 0.5, 3.35e-4*100, 2, func(fr diffusion.Frame) {
				Expect(fr.Field.Sum()).To(BeNumerically("~", initial, 1e-9*initial))
			})
		})

		It("keeps the 2D total within rounding of its initial value", func() {
			f, err := diffusion.NewField2D(1, randomRows(rng, 16, 16))
			Expect(err).NotTo(HaveOccurred())
			initial := f.Read().Sum()

			runAll(f, 20, 0.5, 4, func(fr diffusion.Frame) {
				Expect(fr.Field.Sum()).To(BeNumerically("~", initial, 1e-9*math.Abs(initial)))
			})
		})
	})

	Describe("stability", func() {
		It("never grows the largest magnitude when dt respects the 2D limit", func() {
			f, err := diffusion.NewField2D(1, randomRows(rng, 12, 12))
			Expect(err).NotTo(HaveOccurred())
			prev := f.Read().MaxAbs()

			runAll(f, 30, 0.5, 4, func(fr diffusion.Frame) {
				cur := fr.Field.MaxAbs()
				Expect(cur).To(BeNumerically("<=", prev*(1+1e-12)))
				prev = cur
			})
		})

		It("amplifies a checkerboard when dt exceeds the limit", func() {
			values := make([]float64, 20)
			for i := range values {
				values[i] = 1
				if i%2 == 1 {
					values[i] = -1
				}
			}
			f, err := diffusion.NewField1D(1, values)
			Expect(err).NotTo(HaveOccurred())

			s, err := diffusion.NewScheduler(1, 0.5, 0.5)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.StableFor(1)).To(BeFalse())

			// r = alpha*dt/dx^2 = 1, so each step multiplies the mode by 1-4r = -3.
			st := diffusion.NewStencil(0.5)
			for i := 0; i < 10; i++ {
				Expect(f.WriteInPlace(st.Apply(f, s.Dt()))).To(Succeed())
			}
			Expect(f.Read().MaxAbs()).To(BeNumerically("~", math.Pow(3, 10), 1e-6))
		})
	})

	Describe("final step clamp", func() {
		It("lands exactly on t_end without overshooting", func() {
			f, err := diffusion.NewField1D(0.1, make([]float64, 10))
			Expect(err).NotTo(HaveOccurred())

			var times []float64
			runAll(f, 0.0777, 1, 2, func(fr diffusion.Frame) {
				Expect(fr.Time).To(BeNumerically("<=", 0.0777))
				times = append(times, fr.Time)
			})
			Expect(times).NotTo(BeEmpty())
			Expect(times[len(times)-1]).To(Equal(0.0777))
		})
	})

	Describe("wraparound", func() {
		It("commutes with a cyclic shift of the grid", func() {
			rows := randomRows(rng, 7, 9)
			st := diffusion.NewStencil(0.4)

			plain, err := diffusion.NewField2D(1, rows)
			Expect(err).NotTo(HaveOccurred())
			shifted, err := diffusion.NewField2D(1, roll(rows, 3, -2))
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 5; i++ {
				Expect(plain.WriteInPlace(st.Apply(plain, 0.5))).To(Succeed())
				Expect(shifted.WriteInPlace(st.Apply(shifted, 0.5))).To(Succeed())
			}

			want := roll(plain.Read().Rows(), 3, -2)
			got := shifted.Read().Rows()
			for i := range want {
				for j := range want[i] {
					Expect(got[i][j]).To(BeNumerically("~", want[i][j], 1e-12))
				}
			}
		})

		It("treats an impulse on the last cell like one in the middle", func() {
			edge := make([]float64, 11)
			edge[10] = 1
			mid := make([]float64, 11)
			mid[5] = 1

			a, _ := diffusion.NewField1D(1, edge)
			b, _ := diffusion.NewField1D(1, mid)
			st := diffusion.NewStencil(1)
			Expect(a.WriteInPlace(st.Apply(a, 0.25))).To(Succeed())
			Expect(b.WriteInPlace(st.Apply(b, 0.25))).To(Succeed())

			Expect(a.Read().At(0)).To(Equal(b.Read().At(6)))
			Expect(a.Read().At(9)).To(Equal(b.Read().At(4)))
			Expect(a.Read().At(10)).To(Equal(b.Read().At(5)))
		})
	})

	Describe("uniform field", func() {
		It("is a fixed point for any timestep", func() {
			rows := [][]float64{{7, 7, 7, 7}, {7, 7, 7, 7}}
			f, err := diffusion.NewField2D(0.5, rows)
			Expect(err).NotTo(HaveOccurred())

			runAll(f, 1, 2, 4, func(fr diffusion.Frame) {
				for i := 0; i < fr.Field.Len(); i++ {
					Expect(fr.Field.At(i)).To(Equal(7.0))
				}
			})
		})
	})
})
