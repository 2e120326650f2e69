package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/san-kum/spm/internal/stream"
	"github.com/san-kum/spm/internal/sweep"
)

const (
	KindSweep   = "sweep"
	KindSession = "session"

	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var ErrInvalidRunID = errors.New("storage: invalid run id")

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
	Kind      string             `json:"kind"`
	Timestamp time.Time          `json:"timestamp"`
	Samples   int                `json:"samples"`
	Columns   []string           `json:"columns"`
	Params    map[string]float64 `json:"params"`
	Summary   map[string]float64 `json:"summary"`
}

// Table is the column-oriented content of samples.csv.
type Table struct {
	Columns []string
	Rows    [][]float64
}

// Column returns the named column or nil.
func (t *Table) Column(name string) []float64 {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]float64, 0, len(t.Rows))
	for _, row := range t.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out
}

// Save writes a run directory and returns its ID. A run that fails to
// write is removed.
func (s *Store) Save(kind string, params, summary map[string]float64, table *Table) (runID string, err error) {
	runID = fmt.Sprintf("%s_%s", kind, xid.New().String())
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

	meta := RunMetadata{
		ID:        runID,
		Kind:      kind,
		Timestamp: time.Now(),
		Samples:   len(table.Rows),
		Columns:   table.Columns,
		Params:    params,
		Summary:   summary,
	}

	err = writeFile(filepath.Join(runDir, metadataFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	})
	if err != nil {
		return "", err
	}

	err = writeFile(filepath.Join(runDir, samplesFile), func(w io.Writer) error {
		return writeSamples(w, table)
	})
	if err != nil {
		return "", err
	}

	return runID, nil
}

func writeSamples(w io.Writer, table *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if len(row) != len(table.Columns) {
			return fmt.Errorf("%s row %d: %d values for %d columns", samplesFile, i, len(row), len(table.Columns))
		}
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeFile creates path and hands it to write, reporting the Close
// error when write itself succeeded.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}

// checkRunID keeps lookups inside the data directory.
func checkRunID(runID string) error {
	if runID == "" || runID == "." || runID == ".." || strings.ContainsAny(runID, `/\`) || filepath.Base(runID) != runID {
		return fmt.Errorf("%w: %q", ErrInvalidRunID, runID)
	}
	return nil
}

func (s *Store) SaveSweep(cfg sweep.Config, res *sweep.Result) (string, error) {
	table := &Table{Columns: []string{"micros", "mph", "watts"}}
	for i := range res.Micros {
		table.Rows = append(table.Rows, []float64{res.Micros[i], res.Speeds[i], res.Powers[i]})
	}

	params := map[string]float64{
		"start_micros":         cfg.StartMicros,
		"stop_micros":          cfg.StopMicros,
		"cylinder_diameter_km": cfg.CylinderDiameterKm,
	}
	summary := map[string]float64{}
	if res.Len() > 0 {
		summary["max_mph"] = maxOf(res.Speeds)
		summary["max_watts"] = maxOf(res.Powers)
	}
	return s.Save(KindSweep, params, summary, table)
}

func (s *Store) SaveSession(sess *stream.Session, tr *stream.Trace) (string, error) {
	table := &Table{Columns: []string{"time", "micros", "raw_watts", "watts"}}
	for i := range tr.Times {
		table.Rows = append(table.Rows, []float64{tr.Times[i], float64(tr.Micros[i]), tr.Raw[i], tr.Watts[i]})
	}

	params := map[string]float64{
		"cylinder_diameter_km": sess.CylinderDiameterKm,
		"interval_s":           sess.Interval.Seconds(),
		"proportional_cutoff":  sess.Filter.ProportionalCutoff,
		"derivative_cutoff":    sess.Filter.DerivativeCutoff,
	}
	summary := map[string]float64{
		"avg_watts": tr.Average(),
		"max_watts": tr.Peak(),
	}
	for name, v := range tr.Metrics {
		summary[name] = v
	}
	return s.Save(KindSession, params, summary, table)
}

// List returns all readable runs, newest first.
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
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	if err := checkRunID(runID); err != nil {
		return nil, err
	}
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

func (s *Store) LoadSamples(runID string) (*Table, error) {
	if err := checkRunID(runID); err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return &Table{}, nil
	}

	table := &Table{
		Columns: records[0],
		Rows:    make([][]float64, 0, len(records)-1),
	}
	for i := 1; i < len(records); i++ {
		row := make([]float64, 0, len(records[i]))
		for _, field := range records[i] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", samplesFile, i+1, err)
			}
			row = append(row, v)
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}
