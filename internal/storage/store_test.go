package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/san-kum/spm/internal/stream"
	"github.com/san-kum/spm/internal/sweep"
)

const rigCylinderKm = 54.2e-6

func TestSaveAndLoadSweep(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	cfg := sweep.Config{StartMicros: 2.5e4, StopMicros: 1e6, Samples: 50, CylinderDiameterKm: rigCylinderKm}
	res, err := sweep.Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}

	id, err := st.SaveSweep(cfg, res)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(id, KindSweep+"_") {
		t.Errorf("expected sweep_ prefix, got %s", id)
	}

	meta, err := st.Load(id)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Kind != KindSweep || meta.Samples != 50 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Summary["max_watts"] != res.Powers[0] {
		t.Errorf("expected max watts %f, got %f", res.Powers[0], meta.Summary["max_watts"])
	}

	table, err := st.LoadSamples(id)
	if err != nil {
		t.Fatal(err)
	}
	watts := table.Column("watts")
	if len(watts) != 50 {
		t.Fatalf("expected 50 watts, got %d", len(watts))
	}
	for i := range watts {
		if watts[i] != res.Powers[i] {
			t.Fatalf("row %d: expected %v, got %v", i, res.Powers[i], watts[i])
		}
	}
	if table.Column("missing") != nil {
		t.Error("expected nil for unknown column")
	}
}

func TestSaveSession(t *testing.T) {
	st := New(t.TempDir())
	sess := stream.NewSession(rigCylinderKm, time.Second, nil)
	tr, err := sess.Process(context.Background(), []uint32{0, 400_000, 300_000})
	if err != nil {
		t.Fatal(err)
	}

	id, err := st.SaveSession(sess, tr)
	if err != nil {
		t.Fatal(err)
	}

	meta, err := st.Load(id)
	if err != nil {
		t.Fatal(err)
	}
	if meta.Params["interval_s"] != 1 {
		t.Errorf("expected interval 1s, got %v", meta.Params["interval_s"])
	}
	idle, ok := meta.Summary["idle_fraction"]
	if !ok || idle != 1.0/3 {
		t.Errorf("expected idle fraction 1/3, got %v", meta.Summary["idle_fraction"])
	}

	table, err := st.LoadSamples(id)
	if err != nil {
		t.Fatal(err)
	}
	micros := table.Column("micros")
	if len(micros) != 3 || micros[1] != 400_000 {
		t.Errorf("unexpected micros column %v", micros)
	}
}

func TestListNewestFirst(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	table := &Table{Columns: []string{"x"}, Rows: [][]float64{{1}}}
	first, err := st.Save(KindSweep, nil, nil, table)
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := st.Save(KindSession, nil, nil, table)
	if err != nil {
		t.Fatal(err)
	}

	// stray files and unreadable directories are ignored
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "broken"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("expected [%s %s], got [%s %s]", second, first, runs[0].ID, runs[1].ID)
	}
}

func TestListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestSaveRemovesFailedRun(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	ragged := &Table{Columns: []string{"x", "y"}, Rows: [][]float64{{1, 2}, {3}}}
	id, err := st.Save(KindSweep, nil, nil, ragged)
	if err == nil {
		t.Fatal("expected error for ragged table")
	}
	if id != "" {
		t.Errorf("expected no run id, got %s", id)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected failed run to be removed, found %d entries", len(entries))
	}

	runs, err := st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs listed, got %d", len(runs))
	}
}

func TestRejectsRunIDOutsideDataDir(t *testing.T) {
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	st := New(dataDir)
	if err := st.Init(); err != nil {
		t.Fatal(err)
	}

	// a readable run sitting next to the data directory
	outside := New(root)
	table := &Table{Columns: []string{"x"}, Rows: [][]float64{{1}}}
	id, err := outside.Save(KindSweep, nil, nil, table)
	if err != nil {
		t.Fatal(err)
	}

	for _, runID := range []string{"../" + id, "..", ".", "", "a/b", `a\b`} {
		if _, err := st.Load(runID); !errors.Is(err, ErrInvalidRunID) {
			t.Errorf("Load(%q): expected ErrInvalidRunID, got %v", runID, err)
		}
		if _, err := st.LoadSamples(runID); !errors.Is(err, ErrInvalidRunID) {
			t.Errorf("LoadSamples(%q): expected ErrInvalidRunID, got %v", runID, err)
		}
	}
}
