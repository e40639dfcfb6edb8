package analytics

import (
	"fmt"
	"io"
	"log"
	"runtime/debug"
	"time"
)

// Report is one captured failure.
type Report struct {
	Message   string    `json:"message"`
	Stack     string    `json:"stack,omitempty"`
	Source    string    `json:"source,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Reporter collects errors and recovered panics so a failing component
// degrades instead of taking the page down.
type Reporter struct {
	reports []Report
	logger  *log.Logger
	now     func() time.Time
}

func NewReporter(logger *log.Logger) *Reporter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Reporter{logger: logger, now: time.Now}
}

// Report records err under source.
func (r *Reporter) Report(source string, err error) {
	if err == nil {
		return
	}
	r.add(Report{Message: err.Error(), Source: source, Timestamp: r.now().UTC()})
}

func (r *Reporter) add(rep Report) {
	r.reports = append(r.reports, rep)
	r.logger.Printf("error: %s: %s", rep.Source, rep.Message)
}

// Guard runs fn and recovers a panic into a report. It returns false
// when fn panicked.
func (r *Reporter) Guard(source string, fn func()) (ok bool) {
	defer func() {
		if v := recover(); v != nil {
			r.add(Report{
				Message:   fmt.Sprint(v),
				Stack:     string(debug.Stack()),
				Source:    source,
				Timestamp: r.now().UTC(),
			})
			ok = false
		}
	}()
	fn()
	return true
}

func (r *Reporter) Reports() []Report {
	out := make([]Report, len(r.reports))
	copy(out, r.reports)
	return out
}
