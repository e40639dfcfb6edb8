package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := SessionMetadata{
		ID:        "abc",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Seed:      42,
		FPS:       60,
		Engines:   []string{"particles", "rain"},
		Theme:     "dark",
		Events:    3,
		Metrics:   map[string]float64{"frame_ms": 1.5},
	}
	if err := st.Save(meta, []float64{1.25, 2.5, 0.75}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := st.Load("abc")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Seed != 42 || loaded.Theme != "dark" || len(loaded.Engines) != 2 {
		t.Errorf("unexpected metadata: %+v", loaded)
	}
	if loaded.Metrics["frame_ms"] != 1.5 {
		t.Errorf("expected frame_ms 1.5, got %f", loaded.Metrics["frame_ms"])
	}

	times, err := st.LoadFrameTimes("abc")
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(times) != 3 || times[1] != 2.5 {
		t.Errorf("expected 3 frame times, got %v", times)
	}
}

func TestStoreRequiresID(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Save(SessionMetadata{}, nil); !errors.Is(err, ErrNoID) {
		t.Errorf("expected ErrNoID, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	sessions, err := st.List()
	if err != nil || len(sessions) != 0 {
		t.Fatalf("expected empty list, got %v, %v", sessions, err)
	}

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"late", "early"} {
		meta := SessionMetadata{ID: id, Timestamp: base.Add(time.Duration(1-i) * time.Hour)}
		if err := st.Save(meta, nil); err != nil {
			t.Fatal(err)
		}
	}
	// directories without metadata are skipped
	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	sessions, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != "early" {
		t.Errorf("expected oldest first, got %s", sessions[0].ID)
	}
}

func TestStoreMissingList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	sessions, err := st.List()
	if err != nil || len(sessions) != 0 {
		t.Errorf("missing dir should list nothing, got %v, %v", sessions, err)
	}
}
