package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"
)

const (
	metaFile  = "metadata.json"
	tableFile = "ephemeris.csv"
)

// Store keeps saved ephemerides under a base directory, one directory per
// run holding metadata.json and ephemeris.csv.
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
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Start     float64   `json:"start"`
	End       float64   `json:"end"`
	Step      float64   `json:"step"`
	Rows      int       `json:"rows"`
	Bodies    []string  `json:"bodies"`
}

// Save writes e as a new run and returns its id. The table is written
// before the metadata, so List never reports a run without its table.
func (s *Store) Save(e *Ephemeris) (string, error) {
	now := time.Now()
	meta := RunMetadata{
		ID:        fmt.Sprintf("ephemeris_%d", now.UnixNano()),
		Timestamp: now,
		Start:     e.Start,
		End:       e.End,
		Step:      e.Step,
		Rows:      len(e.Rows),
		Bodies:    e.Bodies,
	}

	dir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(dir, tableFile), func(w io.Writer) error {
		return WriteCSV(w, e)
	}); err != nil {
		return "", fmt.Errorf("storage: write table: %w", err)
	}
	if err := writeFile(filepath.Join(dir, metaFile), func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", fmt.Errorf("storage: write metadata: %w", err)
	}
	return meta.ID, nil
}

// writeFile fills a temporary file and renames it over path.
func writeFile(path string, fill func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := fill(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// List returns saved runs oldest first. A missing base directory is empty;
// directories with unreadable metadata are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	paths, err := filepath.Glob(filepath.Join(s.baseDir, "*", metaFile))
	if err != nil {
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(paths))
	for _, p := range paths {
		meta, err := s.Load(filepath.Base(filepath.Dir(p)))
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metaFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadEphemeris(runID string) (*Ephemeris, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, tableFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}
