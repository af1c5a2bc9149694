package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shmulib/harmonic-oscillator/internal/config"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestAdjustClampsToBounds(t *testing.T) {
	m := New(config.DefaultConfig())

	// damping is the third slider
	m.Update(key("j"))
	m.Update(key("j"))

	for i := 0; i < 500; i++ {
		m.Update(key("h"))
	}
	if got := m.cfg.Damping; got != 0 {
		t.Errorf("damping should clamp at 0, got %f", got)
	}

	for i := 0; i < 500; i++ {
		m.Update(key("l"))
	}
	if got := m.cfg.Damping; got != config.Bounds["damping"].Max {
		t.Errorf("damping should clamp at %f, got %f", config.Bounds["damping"].Max, got)
	}
}

func TestExactValueEntry(t *testing.T) {
	m := New(config.DefaultConfig())

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.edit != editValue {
		t.Fatal("enter should open the value editor")
	}
	m.input.SetValue("2.5")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.edit != editNone {
		t.Fatal("enter should commit the edit")
	}
	if m.cfg.Mass != 2.5 {
		t.Errorf("expected mass 2.5, got %f", m.cfg.Mass)
	}

	// Out-of-range values clamp to the slider bound.
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.input.SetValue("500")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.cfg.Mass != config.Bounds["mass"].Max {
		t.Errorf("expected clamped mass, got %f", m.cfg.Mass)
	}
}

func TestAddAndClearTraces(t *testing.T) {
	m := New(config.DefaultConfig())

	m.Update(key("a"))
	if m.traces.Len() != 1 {
		t.Fatalf("expected 1 trace, got %d", m.traces.Len())
	}

	m.Update(key("l"))
	m.Update(key("a"))
	if m.traces.Len() != 2 {
		t.Fatalf("expected 2 traces, got %d", m.traces.Len())
	}
	second := m.traces.All()[1]
	if !strings.Contains(second.Label, "*m=") {
		t.Errorf("expected mass change marker in label %q", second.Label)
	}

	m.Update(key("c"))
	if m.traces.Len() != 0 {
		t.Errorf("expected cleared traces, got %d", m.traces.Len())
	}
}

func TestPresetCycling(t *testing.T) {
	m := New(config.DefaultConfig())
	before := *m.cfg

	m.Update(key("p"))
	if *m.cfg == before && m.status == "" {
		t.Error("preset key should apply a preset")
	}
	if !strings.HasPrefix(m.status, "preset: ") {
		t.Errorf("expected preset status, got %q", m.status)
	}
}

func TestPresetKeepsSessionSettings(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = "/tmp/custom-traces"
	cfg.Samples = 1200
	m := New(cfg)

	// Cycle through every preset; none should touch the session settings.
	for range config.ListPresets() {
		m.Update(key("p"))
		if m.cfg.DataDir != "/tmp/custom-traces" {
			t.Fatalf("preset %q reset data dir to %q", m.status, m.cfg.DataDir)
		}
		if m.cfg.Samples != 1200 {
			t.Fatalf("preset %q reset samples to %d", m.status, m.cfg.Samples)
		}
	}
}

func TestViewShowsRegime(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Damping = 0.5
	m := New(cfg)

	view := m.View()
	if !strings.Contains(view, "underdamped") {
		t.Error("view missing regime label")
	}
	if !strings.Contains(view, "damping b") {
		t.Error("view missing slider labels")
	}
}
