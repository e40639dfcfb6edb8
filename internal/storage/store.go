// Package storage keeps one directory per landing-page session: its
// metadata as json and its frame times as csv.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

var ErrNoID = errors.New("storage: session id is required")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type SessionMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	FPS       int                `json:"fps"`
	Engines   []string           `json:"engines"`
	Theme     string             `json:"theme"`
	Events    int                `json:"events"`
	Errors    int                `json:"errors"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes meta and the per-frame draw times in milliseconds.
func (s *Store) Save(meta SessionMetadata, frameTimes []float64) error {
	if meta.ID == "" {
		return ErrNoID
	}
	dir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	metaFile, err := os.Create(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(dir, "frames.csv"))
	if err != nil {
		return err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"frame", "ms"}); err != nil {
		return err
	}
	for i, ms := range frameTimes {
		row := []string{strconv.Itoa(i), strconv.FormatFloat(ms, 'f', 4, 64)}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable session, oldest first.
func (s *Store) List() ([]SessionMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SessionMetadata{}, nil
		}
		return nil, err
	}

	sessions := make([]SessionMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		sessions = append(sessions, *meta)
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].Timestamp.Before(sessions[j].Timestamp)
	})
	return sessions, nil
}

func (s *Store) Load(id string) (*SessionMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta SessionMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	return &meta, nil
}

// LoadFrameTimes reads a session's frame times back. Malformed rows are
// skipped.
func (s *Store) LoadFrameTimes(id string) ([]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, "frames.csv"))
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

	times := make([]float64, 0, len(records))
	for i := 1; i < len(records); i++ {
		if len(records[i]) < 2 {
			continue
		}
		ms, err := strconv.ParseFloat(records[i][1], 64)
		if err != nil {
			continue
		}
		times = append(times, ms)
	}
	return times, nil
}
