package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/san-kum/protolab/internal/config"
	"github.com/san-kum/protolab/internal/experiment"
)

func runPreset(t *testing.T, name string) *experiment.Result {
	t.Helper()
	cfg := config.GetPreset(name)
	cfg.TEnd = 2
	e := experiment.New(cfg)
	if err := e.Setup(experiment.NewRegistry().DefaultMetrics(cfg)...); err != nil {
		t.Fatalf("setup: %v", err)
	}
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return res
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	result := runPreset(t, "impulse")
	runID, err := st.Save(result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "impulse_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "impulse" || meta.Steps != 4 || meta.Dx != 1 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Config == nil || meta.Config.Alpha != 0.5 {
		t.Error("config not persisted")
	}
	if _, ok := meta.Metrics["conservation_drift"]; !ok {
		t.Error("metrics not persisted")
	}

	times, snaps, err := st.LoadDiagnostics(runID)
	if err != nil {
		t.Fatalf("load diagnostics failed: %v", err)
	}
	if len(times) != 5 || len(snaps) != 5 {
		t.Fatalf("expected 5 samples, got %d/%d", len(times), len(snaps))
	}
	if times[4] != 2 {
		t.Errorf("last time = %v", times[4])
	}
	for i := range snaps {
		if snaps[i] != result.Snapshots[i] {
			t.Errorf("snapshot %d = %+v, want %+v", i, snaps[i], result.Snapshots[i])
		}
	}

	final, err := st.LoadField(runID, Final)
	if err != nil {
		t.Fatalf("load field failed: %v", err)
	}
	if len(final) != 1 || len(final[0]) != 20 {
		t.Fatalf("final field shape %dx%d", len(final), len(final[0]))
	}
	for i, v := range final[0] {
		if v != result.Final[i] {
			t.Errorf("cell %d = %v, want %v", i, v, result.Final[i])
		}
	}

	initial, err := st.LoadField(runID, Initial)
	if err != nil {
		t.Fatalf("load initial failed: %v", err)
	}
	if initial[0][10] != 100 {
		t.Errorf("initial centre = %v", initial[0][10])
	}
}

func TestStore2DField(t *testing.T) {
	st := New(t.TempDir())
	cfg := config.GetPreset("point")
	cfg.N = 8
	cfg.BoxSize = 8
	cfg.TEnd = 1
	e := experiment.New(cfg)
	if err := e.Setup(); err != nil {
		t.Fatalf("setup: %v", err)
	}
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	runID, err := st.Save(res)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	rows, err := st.LoadField(runID, Final)
	if err != nil {
		t.Fatalf("load field: %v", err)
	}
	if len(rows) != 8 || len(rows[0]) != 8 {
		t.Errorf("expected 8x8, got %dx%d", len(rows), len(rows[0]))
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("empty store: runs=%v err=%v", runs, err)
	}

	res := runPreset(t, "impulse")
	for i := 0; i < 2; i++ {
		if _, err := st.Save(res); err != nil {
			t.Fatalf("save: %v", err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID == runs[1].ID {
		t.Error("run ids collide")
	}
}

func TestStoreLoad_Missing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); err == nil {
		t.Error("expected error for missing run")
	}
	if _, _, err := st.LoadDiagnostics("nope"); err == nil {
		t.Error("expected error for missing diagnostics")
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(runPreset(t, "impulse"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := st.Export(runID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, data); err != nil {
		t.Fatalf("encode: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"id", "config", "times", "diagnostics", "initial", "final"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}

func TestStoreSave_DivergedRun(t *testing.T) {
	cfg := config.GetPreset("impulse")
	cfg.Safety = 0.25
	cfg.TEnd = 5000
	e := experiment.New(cfg)
	if err := e.Setup(experiment.NewRegistry().DefaultMetrics(cfg)...); err != nil {
		t.Fatalf("setup: %v", err)
	}
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !math.IsNaN(res.Metrics["conservation_drift"]) {
		t.Fatalf("expected the run to diverge, drift = %g", res.Metrics["conservation_drift"])
	}

	st := New(t.TempDir())
	runID, err := st.Save(res)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.Steps != 1250 || meta.Stable {
		t.Errorf("steps=%d stable=%v", meta.Steps, meta.Stable)
	}
	for _, name := range []string{"conservation_drift", "peak_growth"} {
		if _, ok := meta.Metrics[name]; ok {
			t.Errorf("%s should not be stored as a number", name)
		}
	}
	if !slices.Contains(meta.NonFinite, "conservation_drift") || !slices.Contains(meta.NonFinite, "peak_growth") {
		t.Errorf("non_finite = %v", meta.NonFinite)
	}

	_, snaps, err := st.LoadDiagnostics(runID)
	if err != nil {
		t.Fatalf("load diagnostics: %v", err)
	}
	last := snaps[len(snaps)-1]
	if !math.IsNaN(last.TotalEnergy) && !math.IsInf(last.TotalEnergy, 0) {
		t.Errorf("final energy = %g, want non-finite", last.TotalEnergy)
	}

	data, err := st.Export(runID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var buf bytes.Buffer
	if err := ExportJSON(&buf, data); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestStoreSave_RemovesRunDirOnError(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	res := runPreset(t, "impulse")
	res.Config.EnergyFactor = math.Inf(1)
	if _, err := st.Save(res); err == nil {
		t.Fatal("expected error for unencodable metadata")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("run directory left behind: %v", entries)
	}
}
