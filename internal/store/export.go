package store

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	ID      string             `json:"id"`
	Label   string             `json:"label"`
	Regime  string             `json:"regime"`
	Delta   float64            `json:"delta"`
	Mass    float64            `json:"mass"`
	K       float64            `json:"stiffness"`
	B       float64            `json:"damping"`
	X0      float64            `json:"x0"`
	V0      float64            `json:"v0"`
	Steps   int                `json:"steps"`
	Times   []float64          `json:"times"`
	Xs      []float64          `json:"xs"`
	Metrics map[string]float64 `json:"metrics"`
}

func buildExport(meta *TraceMetadata, times, xs []float64) ExportData {
	return ExportData{
		ID:      meta.ID,
		Label:   meta.Label,
		Regime:  meta.Regime,
		Delta:   meta.Delta,
		Mass:    meta.Mass,
		K:       meta.Stiffness,
		B:       meta.Damping,
		X0:      meta.X0,
		V0:      meta.V0,
		Steps:   len(times),
		Times:   times,
		Xs:      xs,
		Metrics: meta.Metrics,
	}
}

func writeExport(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSON writes a saved trace as a single JSON document.
func ExportJSON(path string, meta *TraceMetadata, times, xs []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return writeExport(file, buildExport(meta, times, xs))
}

// ExportJSONStdout writes the same document to stdout.
func ExportJSONStdout(meta *TraceMetadata, times, xs []float64) error {
	return writeExport(os.Stdout, buildExport(meta, times, xs))
}
