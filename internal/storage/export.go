package storage

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/protolab/internal/diffusion"
)

type ExportData struct {
	RunMetadata
	Times       []float64            `json:"times"`
	Diagnostics []diffusion.Snapshot `json:"diagnostics"`
	Initial     [][]float64          `json:"initial"`
	Final       [][]float64          `json:"final"`
}

// Export gathers everything stored for a run into one document.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	times, snaps, err := s.LoadDiagnostics(runID)
	if err != nil {
		return nil, err
	}
	initial, err := s.LoadField(runID, Initial)
	if err != nil {
		return nil, err
	}
	final, err := s.LoadField(runID, Final)
	if err != nil {
		return nil, err
	}

	return &ExportData{
		RunMetadata: *meta,
		Times:       times,
		Diagnostics: snaps,
		Initial:     initial,
		Final:       final,
	}, nil
}

// number encodes NaN and infinities as null.
type number float64

func (n number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func numbers(vs []float64) []number {
	out := make([]number, len(vs))
	for i, v := range vs {
		out[i] = number(v)
	}
	return out
}

func numberRows(rows [][]float64) [][]number {
	out := make([][]number, len(rows))
	for i, row := range rows {
		out[i] = numbers(row)
	}
	return out
}

type snapshotJSON struct {
	TotalEnergy number `json:"total_energy"`
	MeanValue   number `json:"mean_value"`
	Min         number `json:"min"`
	Max         number `json:"max"`
}

type exportJSON struct {
	RunMetadata
	Times       []number       `json:"times"`
	Diagnostics []snapshotJSON `json:"diagnostics"`
	Initial     [][]number     `json:"initial"`
	Final       [][]number     `json:"final"`
}

// ExportJSON writes data as one indented document. Values a diverged run
// left non-finite are written as null.
func ExportJSON(w io.Writer, data *ExportData) error {
	doc := exportJSON{
		RunMetadata: data.RunMetadata,
		Times:       numbers(data.Times),
		Diagnostics: make([]snapshotJSON, len(data.Diagnostics)),
		Initial:     numberRows(data.Initial),
		Final:       numberRows(data.Final),
	}
	for i, s := range data.Diagnostics {
		doc.Diagnostics[i] = snapshotJSON{
			TotalEnergy: number(s.TotalEnergy),
			MeanValue:   number(s.MeanValue),
			Min:         number(s.Min),
			Max:         number(s.Max),
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}
