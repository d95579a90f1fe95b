// Package storage persists integration runs under a data directory,
// one subdirectory per run with a metadata.json record.
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

// RunRecord captures one integration run: its configuration, the
// estimate, and the accounting the integrator exposes.
type RunRecord struct {
	ID        string    `json:"id"`
	Fn        string    `json:"fn"`
	Dim       int       `json:"dim"`
	N         int       `json:"n"`
	Seed      *uint64   `json:"seed,omitempty"`
	Backend   string    `json:"backend"`
	DType     string    `json:"dtype"`
	JIT       bool      `json:"jit"`
	Estimate  float64   `json:"estimate"`
	Exact     *float64  `json:"exact,omitempty"`
	AbsError  *float64  `json:"abs_error,omitempty"`
	Fevals    int64     `json:"fevals"`
	Elapsed   float64   `json:"elapsed_seconds"`
	Timestamp time.Time `json:"timestamp"`
}

// Save assigns the record an ID and writes it to its run directory.
func (s *Store) Save(rec RunRecord) (string, error) {
	rec.ID = fmt.Sprintf("%s_%s", rec.Fn, uuid.New().String()[:8])
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	runDir := filepath.Join(s.baseDir, rec.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	file, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

// Load reads one run by ID.
func (s *Store) Load(id string) (*RunRecord, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	var rec RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("run %s: %w", id, err)
	}
	return &rec, nil
}

// List returns all stored runs, newest first.
func (s *Store) List() ([]RunRecord, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var recs []RunRecord
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		recs = append(recs, *rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].Timestamp.After(recs[j].Timestamp)
	})
	return recs, nil
}

// ExportCSV writes every stored run as one CSV row.
func (s *Store) ExportCSV(path string) error {
	recs, err := s.List()
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{"id", "fn", "dim", "n", "backend", "dtype", "jit", "estimate", "abs_error", "fevals", "elapsed_seconds", "timestamp"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range recs {
		absErr := ""
		if r.AbsError != nil {
			absErr = strconv.FormatFloat(*r.AbsError, 'g', -1, 64)
		}
		row := []string{
			r.ID,
			r.Fn,
			strconv.Itoa(r.Dim),
			strconv.Itoa(r.N),
			r.Backend,
			r.DType,
			strconv.FormatBool(r.JIT),
			strconv.FormatFloat(r.Estimate, 'g', -1, 64),
			absErr,
			strconv.FormatInt(r.Fevals, 10),
			strconv.FormatFloat(r.Elapsed, 'g', -1, 64),
			r.Timestamp.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
