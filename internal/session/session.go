// Package session persists the working dataset between command invocations,
// so an import in one run feeds the analysis commands of the next.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klytics/inquirykit/internal/config"
	"github.com/klytics/inquirykit/internal/dataset"
)

const datasetFile = "dataset.json"

// Store reads and writes the working dataset under a data directory.
type Store struct {
	Dir string
}

// DefaultStore returns a store rooted at the application data directory.
func DefaultStore() *Store {
	return &Store{Dir: config.Dir()}
}

// envelope is the on-disk shape; it keeps the column-presence map next to
// the rows so analysis after a reload skips the same detectors it would have
// skipped right after the import.
type envelope struct {
	SavedAt time.Time        `json:"saved_at"`
	Sources []string         `json:"sources,omitempty"`
	Present map[string]bool  `json:"present"`
	Records []dataset.Record `json:"records"`
}

// Save writes the dataset atomically: to a temp file first, then renamed
// into place, so a crash mid-write never corrupts the previous snapshot.
func (s *Store) Save(d *dataset.Dataset, sources []string) error {
	if d == nil {
		return dataset.ErrNoDataset
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("could not create data directory %s: %w", s.Dir, err)
	}

	env := envelope{
		SavedAt: time.Now(),
		Sources: sources,
		Present: d.Present,
		Records: d.Records,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode dataset: %w", err)
	}

	path := filepath.Join(s.Dir, datasetFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("could not write dataset: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("could not finalize dataset write: %w", err)
	}
	return nil
}

// Load reads the saved dataset. A missing file means no import has happened
// yet and surfaces as ErrNoDataset.
func (s *Store) Load() (*dataset.Dataset, error) {
	path := filepath.Join(s.Dir, datasetFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, dataset.ErrNoDataset
		}
		return nil, fmt.Errorf("could not read dataset: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("could not decode dataset %s: %w", path, err)
	}

	d := dataset.New()
	d.Records = env.Records
	if env.Present != nil {
		d.Present = env.Present
	}
	return d, nil
}

// Sources returns the file paths recorded with the last save, for
// re-import-driven workflows like watch mode.
func (s *Store) Sources() ([]string, error) {
	path := filepath.Join(s.Dir, datasetFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, dataset.ErrNoDataset
		}
		return nil, fmt.Errorf("could not read dataset: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("could not decode dataset %s: %w", path, err)
	}
	return env.Sources, nil
}

// Clear removes the saved dataset.
func (s *Store) Clear() error {
	path := filepath.Join(s.Dir, datasetFile)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not remove dataset: %w", err)
	}
	return nil
}
