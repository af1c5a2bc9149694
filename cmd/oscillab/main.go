package main

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/shmulib/harmonic-oscillator/internal/analysis"
	"github.com/shmulib/harmonic-oscillator/internal/config"
	"github.com/shmulib/harmonic-oscillator/internal/export"
	"github.com/shmulib/harmonic-oscillator/internal/oscillator"
	"github.com/shmulib/harmonic-oscillator/internal/server"
	"github.com/shmulib/harmonic-oscillator/internal/store"
	"github.com/shmulib/harmonic-oscillator/internal/trace"
	"github.com/shmulib/harmonic-oscillator/internal/tui"
	"github.com/shmulib/harmonic-oscillator/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	mass      float64
	stiffness float64
	damping   float64
	x0        float64
	v0        float64
	duration  float64
	samples   int
	label     string

	outFile string
	title   string

	sweepField string
	sweepSteps int

	addr string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "oscillab",
		Short: "damped harmonic oscillator explorer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return tui.Run(cfg)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "solve and chart the displacement curve",
		RunE:  runSolve,
	}
	addParamFlags(solveCmd)

	saveCmd := &cobra.Command{
		Use:   "save",
		Short: "solve and persist the trace",
		RunE:  runSave,
	}
	addParamFlags(saveCmd)
	saveCmd.Flags().StringVar(&label, "label", "", "trace label (auto-generated when empty)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved traces",
		RunE:  listTraces,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [trace_id]",
		Short: "chart a saved trace",
		Args:  cobra.ExactArgs(1),
		RunE:  plotTrace,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [trace_id] [trace_id] ...",
		Short: "overlay saved traces in one chart",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareTraces,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter across its range",
		RunE:  runSweep,
	}
	addParamFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepField, "field", "damping", "parameter to sweep (mass, stiffness, damping, x0, v0)")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 9, "number of sweep points")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in parameter presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tM\tK\tB\tX0\tV0\tREGIME")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				p, err := cfg.Parameters()
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%s\n",
					name, cfg.Mass, cfg.Stiffness, cfg.Damping, cfg.X0, cfg.V0,
					p.Classify())
			}
			return w.Flush()
		},
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [trace_id]",
		Short: "response metrics and frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeTrace,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [trace_id]",
		Short: "export trace samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [trace_id]",
		Short: "export trace data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [trace_id] ...",
		Short: "render traces to an SVG plot",
		Args:  cobra.MinimumNArgs(1),
		RunE:  exportPlot("svg"),
	}
	exportHTMLCmd := &cobra.Command{
		Use:   "export-html [trace_id] ...",
		Short: "render traces to a standalone HTML page",
		Args:  cobra.MinimumNArgs(1),
		RunE:  exportPlot("html"),
	}
	exportPDFCmd := &cobra.Command{
		Use:   "export-pdf [trace_id] ...",
		Short: "render traces to a PDF plot",
		Args:  cobra.MinimumNArgs(1),
		RunE:  exportPlot("pdf"),
	}
	exportXLSXCmd := &cobra.Command{
		Use:   "export-xlsx [trace_id] ...",
		Short: "export traces to a spreadsheet",
		Args:  cobra.MinimumNArgs(1),
		RunE:  exportXLSX,
	}
	for _, c := range []*cobra.Command{exportSVGCmd, exportHTMLCmd, exportPDFCmd, exportXLSXCmd} {
		c.Flags().StringVarP(&outFile, "out", "o", "", "output file")
		c.Flags().StringVar(&title, "title", "", "plot title")
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the browser explorer",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default $OSCILLAB_ADDR or :8080)")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "terminal explorer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return tui.Run(cfg)
		},
	}

	rootCmd.AddCommand(solveCmd, saveCmd, listCmd, plotCmd, compareCmd, sweepCmd,
		presetsCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd,
		exportHTMLCmd, exportPDFCmd, exportXLSXCmd, serveCmd, tuiCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&mass, "mass", config.DefaultMass, "mass m")
	cmd.Flags().Float64Var(&stiffness, "stiffness", config.DefaultStiffness, "spring constant k")
	cmd.Flags().Float64Var(&damping, "damping", config.DefaultDamping, "damping coefficient b")
	cmd.Flags().Float64Var(&x0, "x0", config.DefaultX0, "initial position")
	cmd.Flags().Float64Var(&v0, "v0", config.DefaultV0, "initial velocity")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().IntVar(&samples, "samples", config.DefaultSamples, "number of samples")
}

// loadConfig layers preset, config file, and CLI flags, later sources winning.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("mass") {
		cfg.Mass = mass
	}
	if flags.Changed("stiffness") {
		cfg.Stiffness = stiffness
	}
	if flags.Changed("damping") {
		cfg.Damping = damping
	}
	if flags.Changed("x0") {
		cfg.X0 = x0
	}
	if flags.Changed("v0") {
		cfg.V0 = v0
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	cfg.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func solveConfig(cfg *config.Config) (oscillator.Parameters, []float64, []float64, error) {
	p, err := cfg.Parameters()
	if err != nil {
		return oscillator.Parameters{}, nil, nil, err
	}
	times := cfg.SampleTimes()
	xs, err := oscillator.Solve(p, times)
	if err != nil {
		return oscillator.Parameters{}, nil, nil, err
	}
	return p, times, xs, nil
}

func printSummary(p oscillator.Parameters) {
	fmt.Printf("regime: %s\n", p.Classify())
	fmt.Printf("discriminant: %.4f\n", p.Discriminant())
	fmt.Printf("natural frequency: %.4f rad/s\n", p.NaturalFrequency())
	fmt.Printf("damping ratio: %.4f\n", p.DampingRatio())
	if p.Classify() == oscillator.Underdamped {
		fmt.Printf("damped frequency: %.4f rad/s\n", p.DampedFrequency())
	}
	fmt.Printf("initial energy: %.4f J\n", p.Energy(p.X0, p.V0))
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, times, xs, err := solveConfig(cfg)
	if err != nil {
		return err
	}

	printSummary(p)
	fmt.Println()
	caption := fmt.Sprintf("x(t), m=%.2f k=%.2f b=%.2f", p.M, p.K, p.B)
	fmt.Println(viz.Chart(xs, caption, 80, 12))
	fmt.Println()

	resp := analysis.Measure(times, xs)
	fmt.Printf("peak: %.4f at t=%.2fs\n", resp.Peak, resp.PeakTime)
	if resp.SettlingTime >= 0 {
		fmt.Printf("settling time (2%%): %.2fs\n", resp.SettlingTime)
	}
	fmt.Printf("zero crossings: %d\n", resp.ZeroCrossings)
	return nil
}

func runSave(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := cfg.Parameters()
	if err != nil {
		return err
	}

	l := label
	if l == "" {
		l = trace.AutoLabel(p, nil)
	}
	tr, err := trace.New(p, cfg.SampleTimes(), l)
	if err != nil {
		return err
	}

	st := store.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(tr)
	if err != nil {
		return err
	}

	fmt.Printf("trace id: %s\n", id)
	printSummary(p)
	return nil
}

func listTraces(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	metas, err := st.List()
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println("no saved traces")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tREGIME\tDELTA\tM\tK\tB\tX0\tV0")
	for _, m := range metas {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\t%.2f\n",
			m.ID,
			m.Timestamp.Format("2006-01-02 15:04:05"),
			m.Regime, m.Delta,
			m.Mass, m.Stiffness, m.Damping, m.X0, m.V0,
		)
	}
	return w.Flush()
}

func plotTrace(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	_, xs, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(xs) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("trace: %s\n", meta.ID)
	fmt.Printf("label: %s\n", strings.ReplaceAll(meta.Label, "*", ""))
	fmt.Printf("samples: %d\n\n", len(xs))
	fmt.Println(viz.Chart(xs, "displacement x(t)", 80, 14))
	return nil
}

func compareTraces(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)

	series := make([][]float64, 0, len(args))
	captions := make([]string, 0, len(args))
	for _, id := range args {
		meta, err := st.Load(id)
		if err != nil {
			return err
		}
		_, xs, err := st.LoadSamples(id)
		if err != nil {
			return err
		}
		series = append(series, xs)
		captions = append(captions, strings.ReplaceAll(meta.Label, "*", ""))
	}

	for i, c := range captions {
		fmt.Printf("%d. %s\n", i+1, c)
	}
	fmt.Println()
	fmt.Println(viz.CompareChart(series, []string{"displacement x(t)"}, 80, 16))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	bound, ok := config.Bounds[sweepField]
	if !ok || sweepField == "duration" {
		return fmt.Errorf("cannot sweep %q (try mass, stiffness, damping, x0, v0)", sweepField)
	}
	if sweepSteps < 2 {
		return fmt.Errorf("need at least 2 sweep points")
	}

	fmt.Printf("sweeping %s from %.2f to %.2f\n\n", sweepField, bound.Min, bound.Max)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(sweepField)+"\tREGIME\tDELTA\tPEAK\tSETTLING\tCROSSINGS")

	for i := 0; i < sweepSteps; i++ {
		val := bound.Min + (bound.Max-bound.Min)*float64(i)/float64(sweepSteps-1)
		c := *cfg
		switch sweepField {
		case "mass":
			c.Mass = val
		case "stiffness":
			c.Stiffness = val
		case "damping":
			c.Damping = val
		case "x0":
			c.X0 = val
		case "v0":
			c.V0 = val
		}

		p, times, xs, err := solveConfig(&c)
		if err != nil {
			fmt.Fprintf(w, "%.2f\terror: %v\n", val, err)
			continue
		}
		resp := analysis.Measure(times, xs)
		settling := "-"
		if resp.SettlingTime >= 0 {
			settling = fmt.Sprintf("%.2fs", resp.SettlingTime)
		}
		fmt.Fprintf(w, "%.2f\t%s\t%.2f\t%.4f\t%s\t%d\n",
			val, p.Classify(), p.Discriminant(), resp.Peak, settling, resp.ZeroCrossings)
	}
	return w.Flush()
}

func analyzeTrace(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	times, xs, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(xs) < 2 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("regime: %s (delta = %.4f)\n\n", meta.Regime, meta.Delta)

	resp := analysis.Measure(times, xs)
	fmt.Printf("peak: %.4f at t=%.2fs\n", resp.Peak, resp.PeakTime)
	if resp.SettlingTime >= 0 {
		fmt.Printf("settling time (2%%): %.2fs\n", resp.SettlingTime)
	}
	fmt.Printf("zero crossings: %d\n", resp.ZeroCrossings)
	if resp.LogDecrement > 0 {
		fmt.Printf("log decrement: %.4f\n", resp.LogDecrement)
	}

	dt := times[1] - times[0]
	ps, err := analysis.PowerSpectrum(xs, dt)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(viz.Chart(ps[:len(ps)/4], "power spectrum", 80, 14))
	fmt.Println()

	freq, err := analysis.DominantFrequency(xs, dt)
	if err != nil {
		return err
	}
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	times, xs, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"time", "x"}); err != nil {
		return err
	}
	for i := range times {
		row := []string{
			strconv.FormatFloat(times[i], 'f', 6, 64),
			strconv.FormatFloat(xs[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	times, xs, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	return store.ExportJSONStdout(meta, times, xs)
}

func loadSeries(ids []string) ([]export.Series, []store.TraceMetadata, error) {
	st := store.New(dataDir)
	series := make([]export.Series, 0, len(ids))
	metas := make([]store.TraceMetadata, 0, len(ids))
	for _, id := range ids {
		meta, err := st.Load(id)
		if err != nil {
			return nil, nil, err
		}
		times, xs, err := st.LoadSamples(id)
		if err != nil {
			return nil, nil, err
		}
		series = append(series, export.Series{
			Label:  meta.Label,
			Times:  times,
			Xs:     xs,
			Dashed: len(series) > 0,
		})
		metas = append(metas, *meta)
	}
	return series, metas, nil
}

func exportPlot(kind string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		series, _, err := loadSeries(args)
		if err != nil {
			return err
		}

		out := outFile
		if out == "" {
			out = "oscillator_plot." + kind
		}

		switch kind {
		case "svg":
			err = export.WriteSVG(out, series, title, 1600, 800)
		case "html":
			err = export.WriteHTML(out, series, title, 1600, 800)
		case "pdf":
			err = export.WritePDF(out, series, title)
		}
		if err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", out)
		return nil
	}
}

func exportXLSX(cmd *cobra.Command, args []string) error {
	series, metas, err := loadSeries(args)
	if err != nil {
		return err
	}

	sheets := make([]export.SheetData, len(series))
	for i := range series {
		sheets[i] = export.SheetData{
			Name:   fmt.Sprintf("Trace%d", i+1),
			Label:  metas[i].Label,
			Regime: metas[i].Regime,
			Delta:  metas[i].Delta,
			Mass:   metas[i].Mass,
			K:      metas[i].Stiffness,
			B:      metas[i].Damping,
			X0:     metas[i].X0,
			V0:     metas[i].V0,
			Times:  series[i].Times,
			Xs:     series[i].Xs,
		}
	}

	out := outFile
	if out == "" {
		out = "oscillator_traces.xlsx"
	}
	if err := export.WriteXLSXFile(out, sheets); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	// .env is optional; flags and real env still win.
	_ = godotenv.Load()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	listen := addr
	if listen == "" {
		listen = os.Getenv("OSCILLAB_ADDR")
	}
	if listen == "" {
		listen = ":8080"
	}

	logger := log.New(os.Stderr, "oscillab ", log.LstdFlags)
	srv := &http.Server{
		Addr:         listen,
		Handler:      server.New(cfg, logger).Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logger.Printf("listening on %s", listen)
	return srv.ListenAndServe()
}
