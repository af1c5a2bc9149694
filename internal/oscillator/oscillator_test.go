package oscillator_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/shmulib/harmonic-oscillator/internal/oscillator"
)

var _ = Describe("Parameters", func() {
	It("rejects non-positive mass", func() {
		_, err := oscillator.NewParameters(0, 1, 0.5, 1, 0)
		Expect(err).To(MatchError(oscillator.ErrInvalidParameter))

		_, err = oscillator.NewParameters(-1, 1, 0.5, 1, 0)
		Expect(err).To(MatchError(oscillator.ErrInvalidParameter))
	})

	It("rejects non-positive spring constant", func() {
		_, err := oscillator.NewParameters(1, 0, 0.5, 1, 0)
		Expect(err).To(MatchError(oscillator.ErrInvalidParameter))
	})

	It("rejects negative damping", func() {
		_, err := oscillator.NewParameters(1, 1, -0.1, 1, 0)
		Expect(err).To(MatchError(oscillator.ErrInvalidParameter))
	})

	It("accepts zero damping", func() {
		p, err := oscillator.NewParameters(1, 1, 0, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Classify()).To(Equal(oscillator.Underdamped))
	})

	It("computes natural frequency and damping ratio", func() {
		p, err := oscillator.NewParameters(2, 8, 1, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.NaturalFrequency()).To(BeNumerically("~", 2.0, 1e-12))
		Expect(p.DampingRatio()).To(BeNumerically("~", 0.125, 1e-12))
	})
})

var _ = Describe("Classify", func() {
	It("matches the exact sign of the discriminant", func() {
		cases := []struct {
			m, k, b float64
			want    oscillator.Regime
		}{
			{1, 1, 0.2, oscillator.Underdamped},
			{1, 1, 2.0, oscillator.CriticallyDamped},
			{1, 1, 3.0, oscillator.Overdamped},
			{2, 2, 4.0, oscillator.CriticallyDamped}, // b^2 = 16 = 4*2*2
			{0.5, 8, 4.0, oscillator.CriticallyDamped},
		}
		for _, c := range cases {
			p, err := oscillator.NewParameters(c.m, c.k, c.b, 1, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Classify()).To(Equal(c.want), "m=%g k=%g b=%g", c.m, c.k, c.b)
		}
	})

	It("tracks the discriminant under joint mass/stiffness scaling", func() {
		// Scaling m and k by lambda with b fixed multiplies 4mk by lambda^2,
		// so a critical system becomes underdamped for lambda > 1.
		base, err := oscillator.NewParameters(1, 1, 2, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(base.Classify()).To(Equal(oscillator.CriticallyDamped))

		scaled, err := oscillator.NewParameters(2, 2, 2, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(scaled.Discriminant()).To(BeNumerically("<", 0))
		Expect(scaled.Classify()).To(Equal(oscillator.Underdamped))

		shrunk, err := oscillator.NewParameters(0.25, 0.25, 2, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(shrunk.Discriminant()).To(BeNumerically(">", 0))
		Expect(shrunk.Classify()).To(Equal(oscillator.Overdamped))
	})
})

var _ = Describe("Solve", func() {
	times := oscillator.SampleTimes(10, 600)

	solveOne := func(p oscillator.Parameters, t float64) float64 {
		xs, err := oscillator.Solve(p, []float64{t})
		Expect(err).NotTo(HaveOccurred())
		return xs[0]
	}

	It("returns one sample per requested time, in order", func() {
		p, err := oscillator.NewParameters(1, 4, 1, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		xs, err := oscillator.Solve(p, times)
		Expect(err).NotTo(HaveOccurred())
		Expect(xs).To(HaveLen(len(times)))
		Expect(xs[0]).To(BeNumerically("~", 1.0, 1e-12))
	})

	It("rejects negative sample times before computing", func() {
		p, err := oscillator.NewParameters(1, 4, 1, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		xs, err := oscillator.Solve(p, []float64{0, 1, -0.5})
		Expect(err).To(MatchError(oscillator.ErrInvalidTime))
		Expect(xs).To(BeNil())
	})

	It("satisfies the initial conditions in every regime", func() {
		const h = 1e-6
		for _, b := range []float64{0, 0.2, 2.0, 3.0, 10.0} {
			p, err := oscillator.NewParameters(1, 1, b, 1.5, -0.75)
			Expect(err).NotTo(HaveOccurred())

			x0 := solveOne(p, 0)
			Expect(x0).To(BeNumerically("~", 1.5, 1e-9), "b=%g", b)

			// Central difference around t=0 is not available (t >= 0), so use
			// a forward difference with second-order correction.
			x1 := solveOne(p, h)
			x2 := solveOne(p, 2*h)
			v0 := (-3*x0 + 4*x1 - x2) / (2 * h)
			Expect(v0).To(BeNumerically("~", -0.75, 1e-4), "b=%g", b)
		}
	})

	It("uses the critical branch for an exact zero discriminant", func() {
		p, err := oscillator.NewParameters(1, 1, 2, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Classify()).To(Equal(oscillator.CriticallyDamped))

		// x(t) = (x0 + (v0 + omega0*x0)t) e^(-omega0*t) with omega0 = 1.
		got := solveOne(p, 2)
		want := (1 + 2.0) * math.Exp(-2)
		Expect(got).To(BeNumerically("~", want, 1e-12))
	})

	It("is continuous across the critical boundary", func() {
		below, err := oscillator.NewParameters(1, 1, 1.999, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		above, err := oscillator.NewParameters(1, 1, 2.001, 1, 0)
		Expect(err).NotTo(HaveOccurred())

		for _, t := range []float64{0.5, 1, 2, 5, 10} {
			Expect(solveOne(below, t)).To(BeNumerically("~", solveOne(above, t), 1e-3),
				"t=%g", t)
		}
	})

	It("decays inside the exponential envelope when underdamped", func() {
		p, err := oscillator.NewParameters(1, 1, 0.2, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		decay := p.DampingRatio() * p.NaturalFrequency()

		xs, err := oscillator.Solve(p, oscillator.SampleTimes(30, 600))
		Expect(err).NotTo(HaveOccurred())

		ts := oscillator.SampleTimes(30, 600)
		for i, x := range xs {
			envelope := 1.01 * math.Exp(-decay*ts[i]) // A=1, B small; 1% slack
			Expect(math.Abs(x)).To(BeNumerically("<=", envelope+1e-9), "t=%g", ts[i])
		}
		Expect(math.Abs(xs[len(xs)-1])).To(BeNumerically("<", 0.06))
	})

	It("oscillates when underdamped", func() {
		p, err := oscillator.NewParameters(1, 1, 0.2, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		xs, err := oscillator.Solve(p, times)
		Expect(err).NotTo(HaveOccurred())

		crossings := 0
		for i := 1; i < len(xs); i++ {
			if xs[i-1]*xs[i] < 0 {
				crossings++
			}
		}
		Expect(crossings).To(BeNumerically(">", 2))
	})

	It("decays monotonically without sign change when overdamped", func() {
		p, err := oscillator.NewParameters(1, 1, 3, 1, 0)
		Expect(err).NotTo(HaveOccurred())
		xs, err := oscillator.Solve(p, times)
		Expect(err).NotTo(HaveOccurred())

		for i := 1; i < len(xs); i++ {
			Expect(xs[i]).To(BeNumerically(">", 0))
			Expect(xs[i]).To(BeNumerically("<=", xs[i-1]+1e-12))
		}
	})
})

var _ = Describe("Energy", func() {
	It("never increases under non-negative damping", func() {
		p, err := oscillator.NewParameters(1, 4, 0.5, 1, 2)
		Expect(err).NotTo(HaveOccurred())

		eval := oscillator.Evaluator(p)
		const h = 1e-6
		prev := math.Inf(1)
		for _, t := range oscillator.SampleTimes(10, 200) {
			x := eval(t)
			v := (eval(t+h) - eval(t)) / h
			e := p.Energy(x, v)
			Expect(e).To(BeNumerically("<=", prev+1e-6))
			prev = e
		}
	})
})
