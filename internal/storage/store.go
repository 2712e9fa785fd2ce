// Package storage keeps recorded runs on disk. Each run is a directory with
// a metadata.json and a readouts.csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/simcanvas/internal/experiment"
)

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string              `json:"id"`
	Page      string              `json:"page"`
	Timestamp time.Time           `json:"timestamp"`
	Frames    int                 `json:"frames"`
	Duration  float64             `json:"duration"`
	Params    map[string]float64  `json:"params"`
	Columns   []experiment.Column `json:"columns"`
	Final     map[string]float64  `json:"final"`
}

func metadata(id string, at time.Time, res *experiment.Result) RunMetadata {
	meta := RunMetadata{
		ID:        id,
		Page:      res.Page,
		Timestamp: at,
		Frames:    len(res.Times),
		Params:    res.Params,
		Columns:   res.Columns,
		Final:     make(map[string]float64, len(res.Columns)),
	}
	if n := len(res.Times); n > 0 {
		meta.Duration = res.Times[n-1]
	}
	for _, c := range res.Columns {
		if v, err := res.Final(c.Name); err == nil && !isNonFinite(v) {
			meta.Final[c.Name] = v
		}
	}
	return meta
}

// Save writes res under a new run id and returns the id.
func (s *Store) Save(res *experiment.Result) (string, error) {
	at := s.now()
	runID := fmt.Sprintf("%s_%d", res.Page, at.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(metadata(runID, at, res)); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "readouts.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	header := []string{"time"}
	for _, c := range res.Columns {
		header = append(header, c.Name)
	}
	if err := w.Write(header); err != nil {
		return "", err
	}
	for i, t := range res.Times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, c := range res.Columns {
			row = append(row, strconv.FormatFloat(res.Series[c.Name][i], 'g', 10, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every readable run, oldest first.
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
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadResult reads a run back into the form it was recorded in.
func (s *Store) LoadResult(runID string) (*experiment.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, "readouts.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}

	res := &experiment.Result{
		Page:    meta.Page,
		Params:  meta.Params,
		Columns: meta.Columns,
		Series:  make(map[string][]float64, len(meta.Columns)),
		Frames:  int64(meta.Frames),
	}
	if len(records) < 2 {
		return res, nil
	}

	header := records[0]
	for _, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("run %s: row has %d fields, header %d", runID, len(record), len(header))
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, fmt.Errorf("run %s: %w", runID, err)
		}
		res.Times = append(res.Times, t)
		for j := 1; j < len(record); j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				return nil, fmt.Errorf("run %s: %w", runID, err)
			}
			res.Series[header[j]] = append(res.Series[header[j]], v)
		}
	}

	return res, nil
}

// ExportData is the JSON form of a run. Non-finite samples are null.
type ExportData struct {
	Page    string                `json:"page"`
	Params  map[string]float64    `json:"params"`
	Steps   int                   `json:"steps"`
	Times   []float64             `json:"times"`
	Columns []experiment.Column   `json:"columns"`
	Series  map[string][]*float64 `json:"series"`
}

// ExportJSON writes res as indented JSON.
func ExportJSON(w io.Writer, res *experiment.Result) error {
	data := ExportData{
		Page:    res.Page,
		Params:  res.Params,
		Steps:   len(res.Times),
		Times:   res.Times,
		Columns: res.Columns,
		Series:  make(map[string][]*float64, len(res.Series)),
	}
	for name, s := range res.Series {
		out := make([]*float64, len(s))
		for i := range s {
			if !isNonFinite(s[i]) {
				out[i] = &s[i]
			}
		}
		data.Series[name] = out
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func isNonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
