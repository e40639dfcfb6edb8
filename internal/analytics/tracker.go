package analytics

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"time"
)

// Event names emitted by the landing page.
const (
	PageView    = "page_view"
	ScrollDepth = "scroll_depth"
	CTAClick    = "cta_click"
	ThemeToggle = "theme_toggle"
)

type Event struct {
	Name      string         `json:"name"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Tracker records events in memory and logs each one. Nothing is sent
// anywhere.
type Tracker struct {
	events []Event
	logger *log.Logger
	now    func() time.Time
}

func NewTracker(logger *log.Logger) *Tracker {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Tracker{logger: logger, now: time.Now}
}

func (t *Tracker) Track(name string, data map[string]any) Event {
	e := Event{Name: name, Data: data, Timestamp: t.now().UTC()}
	t.events = append(t.events, e)
	t.logger.Printf("analytics: %s %v", name, data)
	return e
}

// Events returns a copy of the recorded events.
func (t *Tracker) Events() []Event {
	out := make([]Event, len(t.events))
	copy(out, t.events)
	return out
}

// Count returns how many events carry name.
func (t *Tracker) Count(name string) int {
	n := 0
	for _, e := range t.events {
		if e.Name == name {
			n++
		}
	}
	return n
}

type ExportData struct {
	Session string   `json:"session"`
	Events  []Event  `json:"events"`
	Reports []Report `json:"errors,omitempty"`
}

// ExportJSON writes the session's events and error reports as indented
// JSON.
func ExportJSON(w io.Writer, session string, t *Tracker, r *Reporter) error {
	data := ExportData{Session: session, Events: t.Events()}
	if r != nil {
		data.Reports = r.Reports()
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportFile writes ExportJSON output to path.
func ExportFile(path, session string, t *Tracker, r *Reporter) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, session, t, r)
}
