// Package tui is the interactive explorer: sliders for the oscillator
// parameters on the left, the live displacement curve on the right, saved
// traces overlaid for comparison.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/shmulib/harmonic-oscillator/internal/config"
	"github.com/shmulib/harmonic-oscillator/internal/export"
	"github.com/shmulib/harmonic-oscillator/internal/oscillator"
	"github.com/shmulib/harmonic-oscillator/internal/trace"
	"github.com/shmulib/harmonic-oscillator/internal/viz"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	bold    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
)

// fieldOrder fixes the slider panel layout.
var fieldOrder = []string{"mass", "stiffness", "damping", "x0", "v0", "duration"}

var fieldLabels = map[string]string{
	"mass":      "mass m",
	"stiffness": "spring k",
	"damping":   "damping b",
	"x0":        "position x₀",
	"v0":        "velocity v₀",
	"duration":  "duration",
}

type editTarget int

const (
	editNone editTarget = iota
	editValue
	editLabel
	editTitle
)

type Model struct {
	cfg    *config.Config
	cursor int

	traces *trace.Set

	input textinput.Model
	edit  editTarget

	presets   []string
	presetIdx int

	status   string
	showHelp bool
	width    int
	height   int
}

func New(cfg *config.Config) *Model {
	ti := textinput.New()
	ti.CharLimit = 48
	ti.Width = 24

	return &Model{
		cfg:       cfg,
		traces:    trace.NewSet(),
		input:     ti,
		presets:   config.ListPresets(),
		presetIdx: -1,
		width:     100,
		height:    32,
	}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) fieldValue(name string) float64 {
	switch name {
	case "mass":
		return m.cfg.Mass
	case "stiffness":
		return m.cfg.Stiffness
	case "damping":
		return m.cfg.Damping
	case "x0":
		return m.cfg.X0
	case "v0":
		return m.cfg.V0
	case "duration":
		return m.cfg.Duration
	}
	return 0
}

func (m *Model) setField(name string, v float64) {
	v = config.ClampField(name, v)
	switch name {
	case "mass":
		m.cfg.Mass = v
	case "stiffness":
		m.cfg.Stiffness = v
	case "damping":
		m.cfg.Damping = v
	case "x0":
		m.cfg.X0 = v
	case "v0":
		m.cfg.V0 = v
	case "duration":
		m.cfg.Duration = v
	}
}

func (m *Model) params() (oscillator.Parameters, error) {
	return m.cfg.Parameters()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.edit != editNone {
			return m.editKey(msg)
		}
		return m.browseKey(msg)
	}
	return m, nil
}

func (m *Model) editKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.commitEdit()
		return m, nil
	case "esc":
		m.edit = editNone
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) commitEdit() {
	val := strings.TrimSpace(m.input.Value())
	switch m.edit {
	case editValue:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			m.status = "not a number: " + val
		} else {
			m.setField(fieldOrder[m.cursor], f)
			m.status = ""
		}
	case editLabel:
		m.saveTrace(val)
	case editTitle:
		m.exportSVG(val)
	}
	m.edit = editNone
	m.input.Blur()
}

func (m *Model) startEdit(target editTarget, initial, placeholder string) tea.Cmd {
	m.edit = target
	m.input.Placeholder = placeholder
	m.input.SetValue(initial)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) browseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(fieldOrder)-1 {
			m.cursor++
		}
	case "left", "h":
		name := fieldOrder[m.cursor]
		m.setField(name, m.fieldValue(name)-config.Bounds[name].Step)
	case "right", "l":
		name := fieldOrder[m.cursor]
		m.setField(name, m.fieldValue(name)+config.Bounds[name].Step)
	case "enter":
		name := fieldOrder[m.cursor]
		return m, m.startEdit(editValue,
			fmt.Sprintf("%.2f", m.fieldValue(name)), fieldLabels[name])
	case "a":
		m.saveTrace("")
	case "A":
		return m, m.startEdit(editLabel, "", "trace label")
	case "c":
		m.traces.Clear()
		m.status = "traces cleared"
	case "e":
		return m, m.startEdit(editTitle, "", "plot title (optional)")
	case "p":
		m.presetIdx = (m.presetIdx + 1) % len(m.presets)
		name := m.presets[m.presetIdx]
		p := config.GetPreset(name)
		// Presets set the physics only; the session's data dir and sample
		// count stay as configured.
		m.cfg.Mass = p.Mass
		m.cfg.Stiffness = p.Stiffness
		m.cfg.Damping = p.Damping
		m.cfg.X0 = p.X0
		m.cfg.V0 = p.V0
		m.cfg.Duration = p.Duration
		m.status = "preset: " + name
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) saveTrace(label string) {
	p, err := m.params()
	if err != nil {
		m.status = err.Error()
		return
	}
	tr, err := m.traces.Add(p, m.cfg.SampleTimes(), label)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("saved trace %d: %s", m.traces.Len(), stripMarkers(tr.Label))
}

func (m *Model) exportSVG(title string) {
	series := make([]export.Series, 0, m.traces.Len()+1)
	if p, err := m.params(); err == nil {
		if xs, err := oscillator.Solve(p, m.cfg.SampleTimes()); err == nil {
			series = append(series, export.Series{
				Label: trace.AutoLabel(p, nil),
				Times: m.cfg.SampleTimes(),
				Xs:    xs,
			})
		}
	}
	for _, tr := range m.traces.All() {
		series = append(series, export.Series{
			Label: tr.Label, Times: tr.Times, Xs: tr.Xs, Dashed: true,
		})
	}
	if len(series) == 0 {
		m.status = "nothing to export"
		return
	}
	const path = "oscillator_plot.svg"
	if err := export.WriteSVG(path, series, title, 1600, 800); err != nil {
		m.status = "export failed: " + err.Error()
		return
	}
	m.status = "wrote " + path
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(dimmer.Render("  ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("      " + cyan.Render("damped oscillator explorer") + "\n")
	b.WriteString(dimmer.Render("  ╺━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n\n")

	p, perr := m.params()

	b.WriteString(m.viewSliders())
	b.WriteString("\n")
	if perr != nil {
		b.WriteString("  " + yellow.Render(perr.Error()) + "\n")
	} else {
		b.WriteString(m.viewReadout(p))
		b.WriteString(m.viewChart(p))
	}

	if n := m.traces.Len(); n > 0 {
		b.WriteString("\n")
		for i, tr := range m.traces.All() {
			b.WriteString(fmt.Sprintf("  %s %s\n",
				dim.Render(fmt.Sprintf("%d.", i+1)), renderMarkers(tr.Label)))
		}
	}

	if m.edit != editNone {
		b.WriteString("\n  " + cyan.Render("▸ ") + m.input.View() + "\n")
	}
	if m.status != "" {
		b.WriteString("\n  " + dim.Render(m.status) + "\n")
	}

	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(dim.Render("  j/k select   h/l adjust   enter exact value\n"))
		b.WriteString(dim.Render("  a add trace  A labeled trace  c clear traces\n"))
		b.WriteString(dim.Render("  p cycle presets  e export svg  q quit\n"))
	} else {
		b.WriteString(dim.Render("  j/k h/l adjust  a trace  e export  p preset  ? help  q quit") + "\n")
	}

	return b.String()
}

func (m *Model) viewSliders() string {
	var b strings.Builder
	for i, name := range fieldOrder {
		bound := config.Bounds[name]
		val := m.fieldValue(name)
		bar := sliderBar(val, bound, 22)
		label := fmt.Sprintf("%-12s", fieldLabels[name])
		value := fmt.Sprintf("%7.2f", val)
		if i == m.cursor {
			b.WriteString("  " + cyan.Render("▸ ") + white.Render(label) +
				cyan.Render(bar) + " " + magenta.Render(value) + "\n")
		} else {
			b.WriteString("    " + dim.Render(label) +
				dimmer.Render(bar) + " " + dim.Render(value) + "\n")
		}
	}
	return b.String()
}

func sliderBar(val float64, bound config.Bound, width int) string {
	frac := (val - bound.Min) / (bound.Max - bound.Min)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))
	return strings.Repeat("━", filled) + strings.Repeat("─", width-filled)
}

func (m *Model) viewReadout(p oscillator.Parameters) string {
	regime := p.Classify()
	style := green
	switch regime {
	case oscillator.CriticallyDamped:
		style = yellow
	case oscillator.Overdamped:
		style = magenta
	}

	line := fmt.Sprintf("  %s   Δ = %.3f   ω₀ = %.3f   ζ = %.3f",
		style.Render(regime.String()), p.Discriminant(),
		p.NaturalFrequency(), p.DampingRatio())
	if regime == oscillator.Underdamped {
		line += fmt.Sprintf("   ω_d = %.3f", p.DampedFrequency())
	}
	line += fmt.Sprintf("   E₀ = %.2f", p.Energy(p.X0, p.V0))
	return line + "\n\n"
}

func (m *Model) viewChart(p oscillator.Parameters) string {
	times := m.cfg.SampleTimes()
	xs, err := oscillator.Solve(p, times)
	if err != nil {
		return "  " + yellow.Render(err.Error()) + "\n"
	}

	lines := make([]viz.Line, 0, m.traces.Len()+1)
	lines = append(lines, viz.Line{Times: times, Xs: xs})
	for _, tr := range m.traces.All() {
		lines = append(lines, viz.Line{Times: tr.Times, Xs: tr.Xs})
	}

	cw := m.width - 14
	if cw < 40 {
		cw = 40
	}
	if cw > 110 {
		cw = 110
	}
	ch := m.height - 22
	if ch < 8 {
		ch = 8
	}
	if ch > 16 {
		ch = 16
	}

	lo, hi := viz.Bounds(lines)
	chart := viz.RenderCurves(cw, ch, lines)

	var b strings.Builder
	rows := strings.Split(strings.TrimRight(chart, "\n"), "\n")
	for i, row := range rows {
		prefix := "          "
		switch i {
		case 0:
			prefix = fmt.Sprintf("  %6.2f  ", hi)
		case len(rows) - 1:
			prefix = fmt.Sprintf("  %6.2f  ", lo)
		}
		b.WriteString(dim.Render(prefix) + cyan.Render(row) + "\n")
	}
	b.WriteString(dim.Render(fmt.Sprintf("%*s t = 0 .. %.0fs", 10, "", m.cfg.Duration)) + "\n")
	return b.String()
}

// stripMarkers drops the *changed-value* emphasis markers for plain text.
func stripMarkers(label string) string {
	return strings.ReplaceAll(label, "*", "")
}

// renderMarkers converts *changed-value* markers to bold styled text.
func renderMarkers(label string) string {
	var b strings.Builder
	parts := strings.Split(label, "*")
	for i, part := range parts {
		if i%2 == 1 {
			b.WriteString(bold.Render(part))
		} else {
			b.WriteString(dim.Render(part))
		}
	}
	return b.String()
}

// Run starts the explorer in the alternate screen.
func Run(cfg *config.Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
