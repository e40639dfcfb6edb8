// Package widgets holds the small timer-driven page components. Each one
// owns its state explicitly and is advanced by its own tick.
package widgets

import (
	"math"
	"time"
)

const (
	CarouselInterval = 5 * time.Second
	CounterInterval  = 20 * time.Millisecond
	CounterSteps     = 100
	MilestoneStep    = 25
)

// Carousel cycles through items.
type Carousel struct {
	items []string
	index int
}

func NewCarousel(items []string) *Carousel {
	return &Carousel{items: items}
}

func (c *Carousel) Current() string {
	if len(c.items) == 0 {
		return ""
	}
	return c.items[c.index]
}

func (c *Carousel) Index() int { return c.index }

func (c *Carousel) Len() int { return len(c.items) }

// Next moves to the following item, wrapping at the end.
func (c *Carousel) Next() string {
	if len(c.items) == 0 {
		return ""
	}
	c.index = (c.index + 1) % len(c.items)
	return c.items[c.index]
}

// Counter counts up to Target in CounterSteps equal increments.
type Counter struct {
	Target  float64
	current float64
	started bool
}

func NewCounter(target float64) *Counter {
	return &Counter{Target: target}
}

// Start arms the counter. Only the first call has an effect.
func (c *Counter) Start() bool {
	if c.started {
		return false
	}
	c.started = true
	return true
}

func (c *Counter) Started() bool { return c.started }

// Step adds one increment and reports whether the target was reached.
func (c *Counter) Step() bool {
	if !c.started {
		return false
	}
	c.current += c.Target / CounterSteps
	if c.current >= c.Target {
		c.current = c.Target
		return true
	}
	return false
}

func (c *Counter) Done() bool { return c.started && c.current >= c.Target }

// Value is the displayed whole number.
func (c *Counter) Value() int { return int(math.Floor(c.current)) }

// ScrollDepth tracks the deepest scroll position reached.
type ScrollDepth struct {
	max      int
	progress float64
}

// Percent converts a scroll offset to a rounded percentage of the
// scrollable range.
func Percent(offset, content, viewport int) int {
	scrollable := content - viewport
	if scrollable <= 0 {
		return 100
	}
	return int(math.Round(float64(offset) / float64(scrollable) * 100))
}

// Observe records a scroll percentage. It returns the new maximum and
// true when that maximum lands on a 25% milestone.
func (s *ScrollDepth) Observe(percent int) (int, bool) {
	s.progress = float64(percent) / 100
	if percent <= s.max {
		return s.max, false
	}
	s.max = percent
	return s.max, s.max%MilestoneStep == 0
}

func (s *ScrollDepth) Max() int { return s.max }

// Progress is the latest scroll position in [0,1].
func (s *ScrollDepth) Progress() float64 { return s.progress }
