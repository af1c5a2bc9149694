package trace

import (
	"strings"
	"testing"

	"github.com/shmulib/harmonic-oscillator/internal/oscillator"
)

func mustParams(t *testing.T, m, k, b, x0, v0 float64) oscillator.Parameters {
	t.Helper()
	p, err := oscillator.NewParameters(m, k, b, x0, v0)
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	return p
}

func TestSetAdd(t *testing.T) {
	s := NewSet()
	p := mustParams(t, 1, 4, 4, 1, 0)
	times := oscillator.SampleTimes(10, 100)

	tr, err := s.Add(p, times, "first")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if tr.Label != "first" {
		t.Errorf("expected label 'first', got %q", tr.Label)
	}
	if len(tr.Xs) != 100 {
		t.Errorf("expected 100 samples, got %d", len(tr.Xs))
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 trace, got %d", s.Len())
	}
}

func TestSetAdd_InvalidParams(t *testing.T) {
	s := NewSet()
	bad := oscillator.Parameters{M: -1, K: 1, B: 0, X0: 1}

	_, err := s.Add(bad, oscillator.SampleTimes(10, 10), "")
	if err == nil {
		t.Fatal("expected error for invalid params")
	}
	if s.Len() != 0 {
		t.Errorf("failed add should not grow the set, len=%d", s.Len())
	}
}

func TestSetClear(t *testing.T) {
	s := NewSet()
	p := mustParams(t, 1, 4, 4, 1, 0)
	times := oscillator.SampleTimes(10, 50)

	for i := 0; i < 3; i++ {
		if _, err := s.Add(p, times, ""); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	s.Clear()
	if s.Len() != 0 {
		t.Errorf("expected empty set after clear, got %d", s.Len())
	}
}

func TestSetAll_Copies(t *testing.T) {
	s := NewSet()
	p := mustParams(t, 1, 4, 4, 1, 0)
	if _, err := s.Add(p, oscillator.SampleTimes(10, 10), "a"); err != nil {
		t.Fatalf("add: %v", err)
	}

	all := s.All()
	all[0].Label = "mutated"
	if s.All()[0].Label != "a" {
		t.Error("All should return a copy")
	}
}

func TestAutoLabel_FirstTrace(t *testing.T) {
	p := mustParams(t, 1, 4, 1, 1, 0)
	label := AutoLabel(p, nil)

	if !strings.HasPrefix(label, "underdamped") {
		t.Errorf("expected regime prefix, got %q", label)
	}
	if strings.Contains(label, "*") {
		t.Errorf("first trace should have no change markers: %q", label)
	}
	if !strings.Contains(label, "m=1.00") || !strings.Contains(label, "k=4.00") {
		t.Errorf("label missing parameters: %q", label)
	}
}

func TestAutoLabel_MarksChanges(t *testing.T) {
	prev := mustParams(t, 1, 4, 1, 1, 0)
	next := mustParams(t, 1, 4, 6, 1, 0)

	label := AutoLabel(next, &prev)
	if !strings.Contains(label, "*b=6.00*") {
		t.Errorf("changed b should be marked: %q", label)
	}
	if strings.Contains(label, "*m=") || strings.Contains(label, "*k=") {
		t.Errorf("unchanged params should not be marked: %q", label)
	}
}

func TestAutoLabel_NearCriticalDisplay(t *testing.T) {
	// Within display tolerance of critical but with a strictly negative
	// discriminant; the label says critical, Classify stays exact.
	p := mustParams(t, 1, 1, 2-1e-12, 1, 0)
	if p.Classify() != oscillator.Underdamped {
		t.Fatalf("expected exact classification underdamped, got %v", p.Classify())
	}
	label := AutoLabel(p, nil)
	if !strings.HasPrefix(label, "critically damped") {
		t.Errorf("near-critical label should display critical: %q", label)
	}
}
