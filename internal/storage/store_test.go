package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func testRecord(fn string, estimate float64) RunRecord {
	s := uint64(42)
	exact := 0.5
	absErr := estimate - exact
	if absErr < 0 {
		absErr = -absErr
	}
	return RunRecord{
		Fn:       fn,
		Dim:      1,
		N:        1000,
		Seed:     &s,
		Backend:  "parallel",
		DType:    "float64",
		Estimate: estimate,
		Exact:    &exact,
		AbsError: &absErr,
		Fevals:   1000,
		Elapsed:  0.01,
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	id, err := store.Save(testRecord("linsum", 0.501))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if id == "" {
		t.Fatal("expected a run ID")
	}

	rec, err := store.Load(id)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if rec.ID != id || rec.Fn != "linsum" || rec.Estimate != 0.501 {
		t.Errorf("loaded record mismatch: %+v", rec)
	}
	if rec.Seed == nil || *rec.Seed != 42 {
		t.Errorf("seed did not survive: %v", rec.Seed)
	}
}

func TestListEmpty(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "missing"))
	recs, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected no runs, got %d", len(recs))
	}
}

func TestListAndExport(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	for _, est := range []float64{0.49, 0.5, 0.51} {
		if _, err := store.Save(testRecord("linsum", est)); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	recs, err := store.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(recs))
	}

	csvPath := filepath.Join(t.TempDir(), "runs.csv")
	if err := store.ExportCSV(csvPath); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected CSV content")
	}
}
