package store

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/shmulib/harmonic-oscillator/internal/oscillator"
	"github.com/shmulib/harmonic-oscillator/internal/trace"
)

func sampleTrace(t *testing.T) trace.Trace {
	t.Helper()
	p, err := oscillator.NewParameters(1, 4, 1, 1, 0)
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	tr, err := trace.New(p, oscillator.SampleTimes(10, 200), "sample")
	if err != nil {
		t.Fatalf("trace: %v", err)
	}
	return tr
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	tr := sampleTrace(t)
	id, err := st.Save(tr)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if id == "" {
		t.Error("expected non-empty trace id")
	}

	meta, err := st.Load(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Label != "sample" {
		t.Errorf("expected label 'sample', got %q", meta.Label)
	}
	if meta.Regime != "underdamped" {
		t.Errorf("expected regime underdamped, got %q", meta.Regime)
	}
	if meta.Samples != 200 {
		t.Errorf("expected 200 samples, got %d", meta.Samples)
	}
	if _, ok := meta.Metrics["peak"]; !ok {
		t.Error("expected peak metric in metadata")
	}

	p, err := meta.Parameters()
	if err != nil {
		t.Fatalf("metadata parameters: %v", err)
	}
	if p.K != 4 {
		t.Errorf("expected stiffness 4, got %f", p.K)
	}

	times, xs, err := st.LoadSamples(id)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(times) != 200 || len(xs) != 200 {
		t.Errorf("expected 200 samples back, got %d/%d", len(times), len(xs))
	}
	if math.Abs(xs[0]-1.0) > 1e-5 {
		t.Errorf("expected x(0)=1, got %f", xs[0])
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	traces, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(traces) != 0 {
		t.Errorf("expected 0 traces, got %d", len(traces))
	}

	if _, err := st.Save(sampleTrace(t)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	traces, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(traces) != 1 {
		t.Errorf("expected 1 trace, got %d", len(traces))
	}
}

func TestStoreSave_UniqueIDs(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	// Tight-loop saves must not collide even where the clock is coarse
	// enough to hand out the same nanosecond twice.
	tr := sampleTrace(t)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id, err := st.Save(tr)
		if err != nil {
			t.Fatalf("save %d failed: %v", i, err)
		}
		if seen[id] {
			t.Fatalf("duplicate trace id %q", id)
		}
		seen[id] = true
	}

	traces, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(traces) != 50 {
		t.Errorf("expected 50 traces, got %d", len(traces))
	}
}

func TestStoreList_MissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "never-created"))
	traces, err := st.List()
	if err != nil {
		t.Fatalf("list on missing dir should not error: %v", err)
	}
	if len(traces) != 0 {
		t.Errorf("expected empty list, got %d", len(traces))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	id, err := st.Save(sampleTrace(t))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	traceDir := filepath.Join(tmpDir, id)
	if _, err := os.Stat(filepath.Join(traceDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	if _, err := os.Stat(filepath.Join(traceDir, "samples.csv")); os.IsNotExist(err) {
		t.Error("samples.csv not created")
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	id, err := st.Save(sampleTrace(t))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	meta, err := st.Load(id)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	times, xs, err := st.LoadSamples(id)
	if err != nil {
		t.Fatalf("samples: %v", err)
	}

	out := filepath.Join(t.TempDir(), "trace.json")
	if err := ExportJSON(out, meta, times, xs); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty export")
	}
}
