package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/threebody/internal/sim"
)

type ExportData struct {
	Preset  string             `json:"preset"`
	Seed    int64              `json:"seed"`
	Dt      float64            `json:"dt"`
	G       float64            `json:"g"`
	Steps   int                `json:"steps"`
	Masses  []float64          `json:"masses"`
	Times   []float64          `json:"times"`
	States  [][]float64        `json:"states"`
	Metrics map[string]float64 `json:"metrics"`
}

// ExportJSON writes a run as one indented JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, result *sim.Result) error {
	data := ExportData{
		Preset:  meta.Preset,
		Seed:    meta.Seed,
		Dt:      meta.Dt,
		G:       meta.G,
		Steps:   result.StepsTaken,
		Masses:  result.Masses,
		Times:   result.Times,
		States:  result.States,
		Metrics: result.Metrics,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
