package oscillator

import (
	"errors"
	"fmt"
	"math"
)

// Domain errors for solver operations.
var (
	// ErrInvalidParameter indicates a physically meaningless parameter set.
	ErrInvalidParameter = errors.New("oscillator: invalid parameter")

	// ErrInvalidTime indicates a negative or unordered sample time.
	ErrInvalidTime = errors.New("oscillator: invalid sample time")
)

// Regime classifies the qualitative behavior of the solution.
type Regime int

const (
	Underdamped Regime = iota
	CriticallyDamped
	Overdamped
)

func (r Regime) String() string {
	switch r {
	case Underdamped:
		return "underdamped"
	case CriticallyDamped:
		return "critically damped"
	case Overdamped:
		return "overdamped"
	default:
		return "unknown"
	}
}

// Parameters describes a mass-spring-damper system and its initial conditions.
// Immutable once constructed.
type Parameters struct {
	M  float64 // mass
	K  float64 // spring constant
	B  float64 // damping coefficient
	X0 float64 // initial position
	V0 float64 // initial velocity
}

// NewParameters validates and constructs a parameter set. Non-positive mass or
// stiffness and negative damping are rejected.
func NewParameters(m, k, b, x0, v0 float64) (Parameters, error) {
	p := Parameters{M: m, K: k, B: b, X0: x0, V0: v0}
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

func (p Parameters) Validate() error {
	if p.M <= 0 || math.IsNaN(p.M) {
		return fmt.Errorf("%w: mass must be positive, got %g", ErrInvalidParameter, p.M)
	}
	if p.K <= 0 || math.IsNaN(p.K) {
		return fmt.Errorf("%w: spring constant must be positive, got %g", ErrInvalidParameter, p.K)
	}
	if p.B < 0 || math.IsNaN(p.B) {
		return fmt.Errorf("%w: damping coefficient must be non-negative, got %g", ErrInvalidParameter, p.B)
	}
	if math.IsNaN(p.X0) || math.IsNaN(p.V0) {
		return fmt.Errorf("%w: initial conditions must be finite", ErrInvalidParameter)
	}
	return nil
}

// Discriminant returns b^2 - 4mk. Its sign selects the damping regime.
func (p Parameters) Discriminant() float64 {
	return p.B*p.B - 4*p.M*p.K
}

// Classify derives the regime from the exact sign of the discriminant. The
// branch used by Evaluator always agrees with this.
func (p Parameters) Classify() Regime {
	d := p.Discriminant()
	switch {
	case d < 0:
		return Underdamped
	case d > 0:
		return Overdamped
	default:
		return CriticallyDamped
	}
}

// NaturalFrequency returns omega0 = sqrt(k/m).
func (p Parameters) NaturalFrequency() float64 {
	return math.Sqrt(p.K / p.M)
}

// DampingRatio returns zeta = b / (2*sqrt(k*m)).
func (p Parameters) DampingRatio() float64 {
	return p.B / (2 * math.Sqrt(p.K*p.M))
}

// DampedFrequency returns omega_d = omega0*sqrt(1-zeta^2), the oscillation
// frequency of the underdamped solution. Zero for the other regimes.
func (p Parameters) DampedFrequency() float64 {
	if p.Classify() != Underdamped {
		return 0
	}
	zeta := p.DampingRatio()
	return p.NaturalFrequency() * math.Sqrt(1-zeta*zeta)
}

// Roots returns the characteristic roots r1 >= r2 of the overdamped solution.
func (p Parameters) Roots() (float64, float64) {
	omega0 := p.NaturalFrequency()
	zeta := p.DampingRatio()
	spread := omega0 * math.Sqrt(zeta*zeta-1)
	return -zeta*omega0 + spread, -zeta*omega0 - spread
}

// Energy returns the mechanical energy at displacement x and velocity v.
func (p Parameters) Energy(x, v float64) float64 {
	return 0.5*p.M*v*v + 0.5*p.K*x*x
}

// Evaluator returns the closed-form solution x(t) for p. The caller must hold
// a validated parameter set; the closure itself is pure.
func Evaluator(p Parameters) func(t float64) float64 {
	omega0 := p.NaturalFrequency()
	zeta := p.DampingRatio()

	switch p.Classify() {
	case Underdamped:
		omegaD := omega0 * math.Sqrt(1-zeta*zeta)
		a := p.X0
		b := (p.V0 + zeta*omega0*p.X0) / omegaD
		decay := zeta * omega0
		return func(t float64) float64 {
			return math.Exp(-decay*t) * (a*math.Cos(omegaD*t) + b*math.Sin(omegaD*t))
		}
	case Overdamped:
		r1, r2 := p.Roots()
		c1 := (p.V0 - r2*p.X0) / (r1 - r2)
		c2 := p.X0 - c1
		return func(t float64) float64 {
			return c1*math.Exp(r1*t) + c2*math.Exp(r2*t)
		}
	default:
		slope := p.V0 + omega0*p.X0
		return func(t float64) float64 {
			return (p.X0 + slope*t) * math.Exp(-omega0*t)
		}
	}
}

// Solve evaluates the displacement at each requested time. Output has the same
// length and order as times. Validation happens before any computation; no
// partial results are returned.
func Solve(p Parameters, times []float64) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	for i, t := range times {
		if t < 0 || math.IsNaN(t) {
			return nil, fmt.Errorf("%w: times[%d] = %g", ErrInvalidTime, i, t)
		}
	}

	eval := Evaluator(p)
	xs := make([]float64, len(times))
	for i, t := range times {
		xs[i] = eval(t)
	}
	return xs, nil
}

// SampleTimes returns n evenly spaced times over [0, duration], endpoints
// included.
func SampleTimes(duration float64, n int) []float64 {
	if n < 2 || duration <= 0 {
		return nil
	}
	times := make([]float64, n)
	step := duration / float64(n-1)
	for i := range times {
		times[i] = float64(i) * step
	}
	return times
}
