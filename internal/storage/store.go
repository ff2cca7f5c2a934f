package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/protolab/internal/config"
	"github.com/san-kum/protolab/internal/diffusion"
	"github.com/san-kum/protolab/internal/experiment"
	"github.com/san-kum/protolab/internal/metrics"
)

const (
	metadataFile    = "metadata.json"
	diagnosticsFile = "diagnostics.csv"
	initialFile     = "initial.csv"
	finalFile       = "field.csv"
)

// Field selects which stored grid LoadField reads.
type Field int

const (
	Final Field = iota
	Initial
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

type RunMetadata struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Timestamp time.Time          `json:"timestamp"`
	Shape     []int              `json:"shape"`
	Dx        float64            `json:"dx"`
	Dt        float64            `json:"dt"`
	Bound     float64            `json:"bound"`
	Stable    bool               `json:"stable"`
	Steps     int                `json:"steps"`
	Config    *config.Config     `json:"config"`
	Metrics   map[string]float64 `json:"metrics"`
	NonFinite []string           `json:"non_finite,omitempty"`
}

// Save writes a run as metadata.json, diagnostics.csv, initial.csv and
// field.csv under a new run directory and returns its id.
// A failed write removes the run directory.
func (s *Store) Save(result *experiment.Result) (runID string, err error) {
	name := "run"
	if result.Config != nil && result.Config.Name != "" {
		name = result.Config.Name
	}
	runID = fmt.Sprintf("%s_%s", name, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(runDir)
			runID = ""
		}
	}()

	finite, dropped := metrics.Finite(result.Metrics)

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Timestamp: time.Now(),
		Shape:     result.Shape,
		Dt:        result.Dt,
		Bound:     result.Bound,
		Stable:    result.Stable,
		Steps:     result.Steps,
		Config:    result.Config,
		Metrics:   finite,
		NonFinite: dropped,
	}
	if result.Config != nil {
		meta.Dx = result.Config.Dx()
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeDiagnostics(filepath.Join(runDir, diagnosticsFile), result); err != nil {
		return "", err
	}
	if err := writeGrid(filepath.Join(runDir, initialFile), result.Shape, result.Initial); err != nil {
		return "", err
	}
	if err := writeGrid(filepath.Join(runDir, finalFile), result.Shape, result.Final); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeDiagnostics(path string, result *experiment.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"time", "total_energy", "mean", "min", "max"}); err != nil {
		return err
	}
	for i, snap := range result.Snapshots {
		row := []string{
			formatFloat(result.Times[i]),
			formatFloat(snap.TotalEnergy),
			formatFloat(snap.MeanValue),
			formatFloat(snap.Min),
			formatFloat(snap.Max),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeGrid(path string, shape diffusion.Shape, values []float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if len(values) > 0 && len(shape) > 0 {
		cols := shape[len(shape)-1]
		for i := 0; i < len(values); i += cols {
			row := make([]string, cols)
			for j := range row {
				row[j] = formatFloat(values[i+j])
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every stored run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func parseRow(record []string) ([]float64, error) {
	row := make([]float64, len(record))
	for j, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		row[j] = v
	}
	return row, nil
}

// LoadDiagnostics returns the sampled times and snapshots of a run.
func (s *Store) LoadDiagnostics(runID string) ([]float64, []diffusion.Snapshot, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, diagnosticsFile))
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []diffusion.Snapshot{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	snaps := make([]diffusion.Snapshot, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		row, err := parseRow(records[i])
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", diagnosticsFile, i+1, err)
		}
		if len(row) != 5 {
			return nil, nil, fmt.Errorf("%s line %d: want 5 columns, got %d", diagnosticsFile, i+1, len(row))
		}
		times = append(times, row[0])
		snaps = append(snaps, diffusion.Snapshot{
			TotalEnergy: row[1],
			MeanValue:   row[2],
			Min:         row[3],
			Max:         row[4],
		})
	}
	return times, snaps, nil
}

// LoadField returns a stored grid as rows. A 1D run has a single row.
func (s *Store) LoadField(runID string, which Field) ([][]float64, error) {
	name := finalFile
	if which == Initial {
		name = initialFile
	}
	records, err := readCSV(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, 0, len(records))
	for i, record := range records {
		row, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
