package metrics

import (
	"time"

	"github.com/san-kum/backdrop/internal/raster"
)

// Metric accumulates per-frame observations.
type Metric interface {
	Name() string
	Observe(d time.Duration)
	Value() float64
	Reset()
}

// FrameTime tracks how long frames take to draw, in milliseconds.
type FrameTime struct {
	name     string
	samples  int
	total    time.Duration
	worst    time.Duration
	history  []float64
	capacity int
}

func NewFrameTime(capacity int) *FrameTime {
	if capacity <= 0 {
		capacity = 600
	}
	return &FrameTime{name: "frame_ms", capacity: capacity, history: make([]float64, 0, capacity)}
}

func (f *FrameTime) Name() string { return f.name }

func (f *FrameTime) Observe(d time.Duration) {
	f.samples++
	f.total += d
	if d > f.worst {
		f.worst = d
	}
	f.history = append(f.history, ms(d))
	if len(f.history) > f.capacity {
		f.history = f.history[1:]
	}
}

// Value is the mean frame time in milliseconds.
func (f *FrameTime) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return ms(f.total) / float64(f.samples)
}

// Worst is the slowest frame in milliseconds.
func (f *FrameTime) Worst() float64 { return ms(f.worst) }

func (f *FrameTime) Samples() int { return f.samples }

// History returns the most recent frame times, oldest first.
func (f *FrameTime) History() []float64 {
	out := make([]float64, len(f.history))
	copy(out, f.history)
	return out
}

func (f *FrameTime) Reset() {
	f.samples = 0
	f.total = 0
	f.worst = 0
	f.history = f.history[:0]
}

// FPS measures the actual refresh rate from frame timestamps with an
// exponential moving average.
type FPS struct {
	last time.Time
	rate float64
}

func (f *FPS) Tick(now time.Time) {
	if !f.last.IsZero() {
		if dt := now.Sub(f.last).Seconds(); dt > 0 {
			inst := 1 / dt
			if f.rate == 0 {
				f.rate = inst
			} else {
				f.rate = f.rate*0.9 + inst*0.1
			}
		}
	}
	f.last = now
}

func (f *FPS) Value() float64 { return f.rate }

// MobileWidth is the layout width below which animations are reduced.
const MobileWidth = 768

// ReduceAnimations reports whether a terminal cols wide is narrow enough
// to count as a mobile layout.
func ReduceAnimations(cols int) bool {
	return cols*raster.CellWidth < MobileWidth
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
