// Package store persists saved traces under a data directory, one directory
// per trace with metadata.json and samples.csv.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/shmulib/harmonic-oscillator/internal/analysis"
	"github.com/shmulib/harmonic-oscillator/internal/oscillator"
	"github.com/shmulib/harmonic-oscillator/internal/trace"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type TraceMetadata struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
	Mass      float64   `json:"mass"`
	Stiffness float64   `json:"stiffness"`
	Damping   float64   `json:"damping"`
	X0        float64   `json:"x0"`
	V0        float64   `json:"v0"`
	Regime    string    `json:"regime"`
	Delta     float64   `json:"delta"`
	Samples   int       `json:"samples"`
	Duration  float64   `json:"duration"`

	Metrics map[string]float64 `json:"metrics"`
}

// Parameters rebuilds the validated parameter set from saved metadata.
func (m *TraceMetadata) Parameters() (oscillator.Parameters, error) {
	return oscillator.NewParameters(m.Mass, m.Stiffness, m.Damping, m.X0, m.V0)
}

// seq disambiguates ids minted within one clock tick, so back-to-back saves
// never land in the same directory.
var seq uint64

// Save writes a trace and its response metrics, returning the generated id.
func (s *Store) Save(tr trace.Trace) (string, error) {
	id := fmt.Sprintf("trace_%d_%d", time.Now().UnixNano(), atomic.AddUint64(&seq, 1))
	dir := filepath.Join(s.baseDir, id)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	duration := 0.0
	if n := len(tr.Times); n > 0 {
		duration = tr.Times[n-1]
	}

	resp := analysis.Measure(tr.Times, tr.Xs)
	meta := TraceMetadata{
		ID:        id,
		Label:     tr.Label,
		Timestamp: tr.CreatedAt,
		Mass:      tr.Params.M,
		Stiffness: tr.Params.K,
		Damping:   tr.Params.B,
		X0:        tr.Params.X0,
		V0:        tr.Params.V0,
		Regime:    tr.Regime.String(),
		Delta:     tr.Delta,
		Samples:   len(tr.Xs),
		Duration:  duration,
		Metrics: map[string]float64{
			"peak":           resp.Peak,
			"peak_time":      resp.PeakTime,
			"overshoot":      resp.Overshoot,
			"settling_time":  resp.SettlingTime,
			"zero_crossings": float64(resp.ZeroCrossings),
			"log_decrement":  resp.LogDecrement,
			"decay_rate":     resp.DecayRate,
		},
	}

	metaFile, err := os.Create(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(dir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "x"}); err != nil {
		return "", err
	}
	for i := range tr.Times {
		row := []string{
			strconv.FormatFloat(tr.Times[i], 'f', 6, 64),
			strconv.FormatFloat(tr.Xs[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return id, nil
}

// List returns metadata for every saved trace, oldest first. A missing data
// directory yields an empty list.
func (s *Store) List() ([]TraceMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []TraceMetadata{}, nil
		}
		return nil, err
	}

	metas := make([]TraceMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta TraceMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		metas = append(metas, meta)
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Timestamp.Before(metas[j].Timestamp)
	})
	return metas, nil
}

func (s *Store) Load(id string) (*TraceMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta TraceMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reads a trace's (time, x) series back.
func (s *Store) LoadSamples(id string) ([]float64, []float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, "samples.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	xs := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		x, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		xs = append(xs, x)
	}
	return times, xs, nil
}
