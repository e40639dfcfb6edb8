// Package tui renders a single engine straight to a terminal with ANSI
// escapes, for hosts where a full-screen TUI is unwanted.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/effect"
	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/raster"
	"github.com/san-kum/backdrop/internal/surface"
)

const (
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"

	// header and footer rows around the canvas
	chromeRows = 4

	resizePoll = 250 * time.Millisecond
)

// SizeFunc reports the terminal size in cells.
type SizeFunc func() (cols, rows int, err error)

type LiveRenderer struct {
	name      string
	out       io.Writer
	size      SizeFunc
	poll      time.Duration
	frameRate int
	// cols and rows belong to the clock goroutine once Run starts.
	cols int
	rows int

	clock  *surface.FrameClock
	window *surface.Window
	pane   *surface.Pane
	effect *effect.Effect
	bg     raster.Color
	timing *metrics.FrameTime
	fps    *metrics.FPS
	logger *log.Logger
}

// NewLiveRenderer mounts the named engine on a pane sized from size.
func NewLiveRenderer(name string, cfg *config.Config, out io.Writer, size SizeFunc, rng *rand.Rand, logger *log.Logger) (*LiveRenderer, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	frameRate := cfg.FPS
	if frameRate <= 0 {
		frameRate = config.DefaultFPS
	}

	r := &LiveRenderer{
		name:      name,
		out:       out,
		size:      size,
		poll:      resizePoll,
		frameRate: frameRate,
		clock:     surface.NewFrameClock(),
		window:    surface.NewWindow(),
		pane:      surface.NewPane(name, 0, 0),
		bg:        raster.Black,
		timing:    metrics.NewFrameTime(0),
		fps:       &metrics.FPS{},
		logger:    logger,
	}
	r.cols, r.rows = r.measure()
	r.pane.SetCells(r.cols, r.rows-chromeRows)

	layout := surface.NewLayout()
	layout.Add(cfg.Particles.Container, r.pane)
	layout.Add(cfg.Rain.Container, r.pane)

	e, err := effect.Launch(effect.NewRegistry(), name, layout, cfg, rng, effect.Deps{
		Scheduler: r.clock,
		Viewport:  r.window,
		Factory:   raster.CellFactory,
		Logger:    logger,
		Timing:    r.timing,
	})
	if err != nil {
		return nil, err
	}
	r.effect = e
	return r, nil
}

func (r *LiveRenderer) measure() (int, int) {
	cols, rows := 80, 24
	if r.size != nil {
		if c, rr, err := r.size(); err == nil && c > 0 && rr > chromeRows {
			cols, rows = c, rr
		}
	}
	return cols, rows
}

// Run paints until ctx is done. Cancellation is a normal exit.
func (r *LiveRenderer) Run(ctx context.Context) error {
	fmt.Fprint(r.out, hideCursor)
	defer fmt.Fprint(r.out, showCursor)
	defer r.effect.Destroy()

	go r.watch(ctx, r.cols, r.rows)
	r.clock.RequestFrame(r.OnFrame)
	err := r.clock.Run(ctx, r.frameRate)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// watch polls the terminal size and posts a resize whenever it changes.
func (r *LiveRenderer) watch(ctx context.Context, cols, rows int) {
	ticker := time.NewTicker(r.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c, rr := r.measure()
			if c == cols && rr == rows {
				continue
			}
			cols, rows = c, rr
			r.Resize(cols, rows)
		}
	}
}

// Resize lays the canvas out for a cols x rows terminal. The change is
// applied on the clock goroutine before the next frame, so it is safe to
// call from any goroutine.
func (r *LiveRenderer) Resize(cols, rows int) {
	if cols <= 0 || rows <= chromeRows {
		return
	}
	r.clock.Post(func() {
		if cols == r.cols && rows == r.rows {
			return
		}
		r.cols, r.rows = cols, rows
		r.pane.SetCells(cols, rows-chromeRows)
		r.window.Dispatch()
		r.logger.Printf("%s: resized to %dx%d cells", r.name, cols, rows)
	})
}

// OnFrame runs after the engine's frame in the same batch: it paints and
// requests the next frame.
func (r *LiveRenderer) OnFrame(now time.Time) {
	r.fps.Tick(now)
	r.render()
	r.clock.RequestFrame(r.OnFrame)
}

func (r *LiveRenderer) render() {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  frame=%d\n", r.name, r.effect.Frames()))
	b.WriteString(strings.Repeat("-", r.cols) + "\n")

	for _, line := range r.pane.Render(r.bg) {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("-", r.cols) + "\n")
	b.WriteString(fmt.Sprintf("  fps=%.0f frame=%.2fms worst=%.2fms", r.fps.Value(), r.timing.Value(), r.timing.Worst()))

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Effect() *effect.Effect { return r.effect }
