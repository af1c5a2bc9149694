package viz

import (
	"strings"
	"testing"
)

func TestBoundsIncludeZero(t *testing.T) {
	lines := []Line{
		{Times: []float64{0, 1, 2}, Xs: []float64{0.5, 0.8, 0.6}},
	}
	lo, hi := Bounds(lines)
	if lo > 0 {
		t.Errorf("bounds should include zero, got lo=%f", lo)
	}
	if hi <= 0.8 {
		t.Errorf("expected padded upper bound above 0.8, got %f", hi)
	}
}

func TestRenderCurves(t *testing.T) {
	n := 200
	times := make([]float64, n)
	xs := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * 0.05
		xs[i] = 1 - float64(i)/float64(n)
	}

	out := RenderCurves(40, 10, []Line{{Times: times, Xs: xs}})
	rows := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(rows) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if len([]rune(row)) != 40 {
			t.Errorf("row %d has %d cells, want 40", i, len([]rune(row)))
		}
	}
	// Something must have been drawn.
	if !strings.ContainsFunc(out, func(r rune) bool { return r > 0x2800 }) {
		t.Error("expected lit braille cells")
	}
}

func TestRenderCurves_Empty(t *testing.T) {
	out := RenderCurves(20, 5, nil)
	for _, r := range out {
		if r != 0x2800 && r != '\n' {
			t.Fatalf("empty render should be blank, found %q", r)
		}
	}
}

func TestChart(t *testing.T) {
	xs := []float64{0, 1, 0, -1, 0, 1, 0}
	out := Chart(xs, "wave", 40, 6)
	if out == "" {
		t.Fatal("expected chart output")
	}
	if !strings.Contains(out, "wave") {
		t.Error("caption missing")
	}

	if Chart(nil, "", 40, 6) != "" {
		t.Error("expected empty output for no data")
	}
}
