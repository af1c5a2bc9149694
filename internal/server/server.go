// Package server exposes the explorer over HTTP: a single-page UI plus a JSON
// API for solving, trace management and plot export.
package server

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/shmulib/harmonic-oscillator/internal/analysis"
	"github.com/shmulib/harmonic-oscillator/internal/config"
	"github.com/shmulib/harmonic-oscillator/internal/export"
	"github.com/shmulib/harmonic-oscillator/internal/oscillator"
	"github.com/shmulib/harmonic-oscillator/internal/store"
	"github.com/shmulib/harmonic-oscillator/internal/trace"
)

type Server struct {
	cfg    *config.Config
	logger *log.Logger

	mu     sync.Mutex
	traces *trace.Set
	st     *store.Store

	router *mux.Router
}

func New(cfg *config.Config, logger *log.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		logger: logger,
		traces: trace.NewSet(),
		st:     store.New(cfg.DataDir),
	}

	r := mux.NewRouter()
	r.Use(s.logMiddleware)

	r.HandleFunc("/", s.handleIndex).Methods("GET")

	limiter := newIPRateLimiter(20, 40)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(limiter.limitMiddleware)

	api.HandleFunc("/solve", s.handleSolve).Methods("POST")
	api.HandleFunc("/traces", s.handleListTraces).Methods("GET")
	api.HandleFunc("/traces", s.handleAddTrace).Methods("POST")
	api.HandleFunc("/traces", s.handleClearTraces).Methods("DELETE")
	api.HandleFunc("/presets", s.handlePresets).Methods("GET")

	r.HandleFunc("/export/svg", s.handleExportSVG).Methods("GET")
	r.HandleFunc("/export/html", s.handleExportHTML).Methods("GET")
	r.HandleFunc("/export/pdf", s.handleExportPDF).Methods("GET")
	r.HandleFunc("/export/xlsx", s.handleExportXLSX).Methods("GET")
	r.HandleFunc("/export/csv", s.handleExportCSV).Methods("GET")
	r.HandleFunc("/export/json", s.handleExportJSON).Methods("GET")

	s.router = r
	return s
}

// Handler returns the server's root handler for use with http.Server.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		if s.logger != nil {
			s.logger.Printf("%s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
		}
	})
}

type solveRequest struct {
	Mass      float64 `json:"mass"`
	Stiffness float64 `json:"stiffness"`
	Damping   float64 `json:"damping"`
	X0        float64 `json:"x0"`
	V0        float64 `json:"v0"`
	Duration  float64 `json:"duration"`
	Samples   int     `json:"samples"`
	Label     string  `json:"label"`
}

func (s *Server) params(req solveRequest) (oscillator.Parameters, []float64, error) {
	if req.Duration == 0 {
		req.Duration = s.cfg.Duration
	}
	if req.Samples == 0 {
		req.Samples = s.cfg.Samples
	}
	p, err := oscillator.NewParameters(req.Mass, req.Stiffness, req.Damping, req.X0, req.V0)
	if err != nil {
		return oscillator.Parameters{}, nil, err
	}
	if req.Duration <= 0 || req.Samples < 2 {
		return oscillator.Parameters{}, nil,
			fmt.Errorf("%w: duration and samples must be positive", oscillator.ErrInvalidParameter)
	}
	return p, oscillator.SampleTimes(req.Duration, req.Samples), nil
}

type solveResponse struct {
	Regime  string             `json:"regime"`
	Delta   float64            `json:"delta"`
	Omega0  float64            `json:"omega0"`
	Zeta    float64            `json:"zeta"`
	OmegaD  float64            `json:"omega_d"`
	Times   []float64          `json:"times"`
	Xs      []float64          `json:"xs"`
	Metrics map[string]float64 `json:"metrics"`
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	p, times, err := s.params(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	xs, err := oscillator.Solve(p, times)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp := analysis.Measure(times, xs)
	writeJSON(w, http.StatusOK, solveResponse{
		Regime: p.Classify().String(),
		Delta:  p.Discriminant(),
		Omega0: p.NaturalFrequency(),
		Zeta:   p.DampingRatio(),
		OmegaD: p.DampedFrequency(),
		Times:  times,
		Xs:     xs,
		Metrics: map[string]float64{
			"peak":           resp.Peak,
			"peak_time":      resp.PeakTime,
			"overshoot":      resp.Overshoot,
			"settling_time":  resp.SettlingTime,
			"zero_crossings": float64(resp.ZeroCrossings),
			"log_decrement":  resp.LogDecrement,
		},
	})
}

type traceInfo struct {
	Label  string    `json:"label"`
	Regime string    `json:"regime"`
	Delta  float64   `json:"delta"`
	Mass   float64   `json:"mass"`
	K      float64   `json:"stiffness"`
	B      float64   `json:"damping"`
	X0     float64   `json:"x0"`
	V0     float64   `json:"v0"`
	Times  []float64 `json:"times"`
	Xs     []float64 `json:"xs"`
}

func (s *Server) handleAddTrace(w http.ResponseWriter, r *http.Request) {
	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	p, times, err := s.params(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	tr, err := s.traces.Add(p, times, req.Label)
	n := s.traces.Len()
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	resp := map[string]interface{}{
		"label": tr.Label,
		"count": n,
	}

	// Traces are session-scoped; persist=1 also writes through to the store.
	if r.URL.Query().Get("persist") == "1" {
		if err := s.st.Init(); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		id, err := s.st.Save(tr)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		resp["id"] = id
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListTraces(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	all := s.traces.All()
	s.mu.Unlock()

	infos := make([]traceInfo, len(all))
	for i, tr := range all {
		infos[i] = traceInfo{
			Label:  tr.Label,
			Regime: tr.Regime.String(),
			Delta:  tr.Delta,
			Mass:   tr.Params.M,
			K:      tr.Params.K,
			B:      tr.Params.B,
			X0:     tr.Params.X0,
			V0:     tr.Params.V0,
			Times:  tr.Times,
			Xs:     tr.Xs,
		}
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleClearTraces(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.traces.Clear()
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	out := make(map[string]*config.Config)
	for _, name := range config.ListPresets() {
		out[name] = config.GetPreset(name)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) exportSeries() []export.Series {
	s.mu.Lock()
	all := s.traces.All()
	s.mu.Unlock()

	series := make([]export.Series, len(all))
	for i, tr := range all {
		series[i] = export.Series{
			Label:  tr.Label,
			Times:  tr.Times,
			Xs:     tr.Xs,
			Dashed: true,
		}
	}
	return series
}

func exportDims(r *http.Request) (int, int) {
	width, height := 1600, 800
	if v, err := strconv.Atoi(r.URL.Query().Get("width")); err == nil && v > 100 {
		width = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("height")); err == nil && v > 100 {
		height = v
	}
	return width, height
}

func (s *Server) handleExportSVG(w http.ResponseWriter, r *http.Request) {
	series := s.exportSeries()
	if len(series) == 0 {
		writeError(w, http.StatusNotFound, fmt.Errorf("no traces to export"))
		return
	}
	width, height := exportDims(r)
	w.Header().Set("Content-Type", "image/svg+xml")
	fmt.Fprint(w, export.PlotSVG(series, r.URL.Query().Get("title"), width, height))
}

func (s *Server) handleExportHTML(w http.ResponseWriter, r *http.Request) {
	series := s.exportSeries()
	if len(series) == 0 {
		writeError(w, http.StatusNotFound, fmt.Errorf("no traces to export"))
		return
	}
	width, height := exportDims(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="oscillator_plot.html"`)
	fmt.Fprint(w, export.PlotHTML(series, r.URL.Query().Get("title"), width, height))
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	series := s.exportSeries()
	if len(series) == 0 {
		writeError(w, http.StatusNotFound, fmt.Errorf("no traces to export"))
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="oscillator_plot.pdf"`)
	if err := export.PlotPDF(w, series, r.URL.Query().Get("title")); err != nil && s.logger != nil {
		s.logger.Printf("pdf export: %v", err)
	}
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	all := s.traces.All()
	s.mu.Unlock()
	if len(all) == 0 {
		writeError(w, http.StatusNotFound, fmt.Errorf("no traces to export"))
		return
	}

	sheets := make([]export.SheetData, len(all))
	for i, tr := range all {
		sheets[i] = export.SheetData{
			Name:   fmt.Sprintf("Trace%d", i+1),
			Label:  tr.Label,
			Regime: tr.Regime.String(),
			Delta:  tr.Delta,
			Mass:   tr.Params.M,
			K:      tr.Params.K,
			B:      tr.Params.B,
			X0:     tr.Params.X0,
			V0:     tr.Params.V0,
			Times:  tr.Times,
			Xs:     tr.Xs,
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="oscillator_traces.xlsx"`)
	if err := export.WriteXLSX(w, sheets); err != nil && s.logger != nil {
		s.logger.Printf("xlsx export: %v", err)
	}
}

// handleExportCSV writes all traces in long form: trace index, label, time, x.
func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	all := s.traces.All()
	s.mu.Unlock()
	if len(all) == 0 {
		writeError(w, http.StatusNotFound, fmt.Errorf("no traces to export"))
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="oscillator_traces.csv"`)

	cw := csv.NewWriter(w)
	defer cw.Flush()
	_ = cw.Write([]string{"trace", "label", "time", "x"})
	for i, tr := range all {
		idx := strconv.Itoa(i + 1)
		label := strings.ReplaceAll(tr.Label, "*", "")
		for j := range tr.Times {
			_ = cw.Write([]string{
				idx,
				label,
				strconv.FormatFloat(tr.Times[j], 'f', 6, 64),
				strconv.FormatFloat(tr.Xs[j], 'f', 6, 64),
			})
		}
	}
}

type traceExport struct {
	Label  string    `json:"label"`
	Regime string    `json:"regime"`
	Delta  float64   `json:"delta"`
	Mass   float64   `json:"mass"`
	K      float64   `json:"stiffness"`
	B      float64   `json:"damping"`
	X0     float64   `json:"x0"`
	V0     float64   `json:"v0"`
	Times  []float64 `json:"times"`
	Xs     []float64 `json:"xs"`
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	all := s.traces.All()
	s.mu.Unlock()
	if len(all) == 0 {
		writeError(w, http.StatusNotFound, fmt.Errorf("no traces to export"))
		return
	}

	out := make([]traceExport, len(all))
	for i, tr := range all {
		out[i] = traceExport{
			Label:  tr.Label,
			Regime: tr.Regime.String(),
			Delta:  tr.Delta,
			Mass:   tr.Params.M,
			K:      tr.Params.K,
			B:      tr.Params.B,
			X0:     tr.Params.X0,
			V0:     tr.Params.V0,
			Times:  tr.Times,
			Xs:     tr.Xs,
		}
	}
	w.Header().Set("Content-Disposition", `attachment; filename="oscillator_traces.json"`)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexPage)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
