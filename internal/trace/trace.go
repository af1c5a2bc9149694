// Package trace holds frozen displacement curves for side-by-side comparison.
package trace

import (
	"fmt"
	"strings"
	"time"

	"github.com/shmulib/harmonic-oscillator/internal/oscillator"
)

// Trace is a computed displacement curve together with the parameters that
// produced it. Never mutated after creation.
type Trace struct {
	Params    oscillator.Parameters
	Label     string
	Regime    oscillator.Regime
	Delta     float64
	Times     []float64
	Xs        []float64
	CreatedAt time.Time
}

// New computes a trace for p over the given sample times.
func New(p oscillator.Parameters, times []float64, label string) (Trace, error) {
	xs, err := oscillator.Solve(p, times)
	if err != nil {
		return Trace{}, err
	}
	return Trace{
		Params:    p,
		Label:     label,
		Regime:    p.Classify(),
		Delta:     p.Discriminant(),
		Times:     append([]float64(nil), times...),
		Xs:        xs,
		CreatedAt: time.Now(),
	}, nil
}

// Set is an append-only trace collection. Traces are added or cleared, never
// edited in place.
type Set struct {
	traces []Trace
}

func NewSet() *Set {
	return &Set{traces: make([]Trace, 0)}
}

// Add freezes a curve for p. An empty label gets an auto-generated one that
// marks parameters changed since the previous trace.
func (s *Set) Add(p oscillator.Parameters, times []float64, label string) (Trace, error) {
	if label == "" {
		var prev *oscillator.Parameters
		if n := len(s.traces); n > 0 {
			prev = &s.traces[n-1].Params
		}
		label = AutoLabel(p, prev)
	}
	tr, err := New(p, times, label)
	if err != nil {
		return Trace{}, err
	}
	s.traces = append(s.traces, tr)
	return tr, nil
}

func (s *Set) Clear() { s.traces = s.traces[:0] }

func (s *Set) Len() int { return len(s.traces) }

// All returns a copy of the collection; callers cannot reorder or drop traces
// behind the set's back.
func (s *Set) All() []Trace {
	out := make([]Trace, len(s.traces))
	copy(out, s.traces)
	return out
}

// AutoLabel formats a trace label in the explorer's style: regime, the
// discriminant, and the parameter list with values that differ from prev
// wrapped in * markers. UIs render the markers as emphasis.
func AutoLabel(p oscillator.Parameters, prev *oscillator.Parameters) string {
	type field struct {
		name     string
		val, old float64
		hasPrev  bool
	}
	fields := []field{
		{"b", p.B, 0, false},
		{"m", p.M, 0, false},
		{"k", p.K, 0, false},
		{"x0", p.X0, 0, false},
		{"v0", p.V0, 0, false},
	}
	if prev != nil {
		fields[0].old, fields[1].old = prev.B, prev.M
		fields[2].old, fields[3].old = prev.K, prev.X0
		fields[4].old = prev.V0
		for i := range fields {
			fields[i].hasPrev = true
		}
	}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		s := fmt.Sprintf("%s=%.2f", f.name, f.val)
		if f.hasPrev && !closeEnough(f.old, f.val) {
			s = "*" + s + "*"
		}
		parts = append(parts, s)
	}

	return fmt.Sprintf("%s (Δ = %.2f) | %s",
		displayRegime(p), p.Discriminant(), strings.Join(parts, ", "))
}

// displayRegime labels a near-critical discriminant as critically damped.
// Branch selection elsewhere stays exact.
func displayRegime(p oscillator.Parameters) string {
	d := p.Discriminant()
	if d != 0 && closeEnough(d, 0) {
		return oscillator.CriticallyDamped.String()
	}
	return p.Classify().String()
}

func closeEnough(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff <= 1e-9
}
