package surface

import (
	"io"
	"log"
	"time"

	"github.com/san-kum/backdrop/internal/raster"
)

// FrameFunc is invoked once per display refresh while the loop runs.
type FrameFunc func(now time.Time)

// Options configure the surface a Manager creates.
type Options struct {
	Opacity float64
	ZIndex  int
	Factory raster.Factory
	Logger  *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Factory == nil {
		o.Factory = raster.CellFactory
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
	if o.Opacity == 0 {
		o.Opacity = 1
	}
	return o
}

// Manager owns one drawing surface overlaid on a container and the frame
// loop that repaints it.
//
// The loop is a self-rescheduling frame request guarded by a stopped
// flag: each callback runs the frame function and then requests the next
// frame unless Stop ran in the meantime. Everything happens on the
// scheduler's goroutine, so frames never overlap.
type Manager struct {
	sched     Scheduler
	viewport  Viewport
	opts      Options
	container Container
	surface   *Surface
	onResize  func(w, h int)

	frame   FrameFunc
	pending FrameID
	running bool
	stopped bool
	frames  uint64
}

func NewManager(sched Scheduler, viewport Viewport, opts Options) *Manager {
	return &Manager{
		sched:    sched,
		viewport: viewport,
		opts:     opts.withDefaults(),
	}
}

// Attach mounts a new surface on c, sized to c's content box. A nil
// container leaves the manager disabled.
func (m *Manager) Attach(c Container) {
	if m.stopped || m.surface != nil {
		return
	}
	if c == nil {
		m.opts.Logger.Printf("attach: %v", ErrNoContainer)
		return
	}
	w, h := c.Bounds()
	m.container = c
	m.surface = &Surface{
		Context:       m.opts.Factory(w, h),
		Opacity:       m.opts.Opacity,
		ZIndex:        m.opts.ZIndex,
		PointerEvents: false,
	}
	c.AppendChild(m.surface)
	// The listener lives as long as the viewport; Resize is a no-op once
	// the manager has stopped.
	if m.viewport != nil {
		m.viewport.OnResize(m.Resize)
	}
}

// OnResize registers the hook run after every surface resize.
func (m *Manager) OnResize(fn func(w, h int)) { m.onResize = fn }

// Resize re-reads the container bounds and resizes the surface. The
// resize hook runs even when the size is unchanged.
func (m *Manager) Resize() {
	if m.stopped || m.surface == nil {
		return
	}
	w, h := m.container.Bounds()
	m.surface.Context.Resize(w, h)
	if m.onResize != nil {
		m.onResize(w, h)
	}
}

// Start begins calling fn once per display refresh until Stop.
func (m *Manager) Start(fn FrameFunc) {
	if m.stopped {
		m.opts.Logger.Printf("start: %v", ErrStopped)
		return
	}
	if m.surface == nil {
		m.opts.Logger.Printf("start: %v", ErrNotAttached)
		return
	}
	if m.running {
		return
	}
	m.frame = fn
	m.running = true
	m.schedule()
}

func (m *Manager) schedule() {
	m.pending = m.sched.RequestFrame(m.tick)
}

func (m *Manager) tick(now time.Time) {
	if m.stopped {
		return
	}
	m.pending = 0
	m.frames++
	m.frame(now)
	if !m.stopped {
		m.schedule()
	}
}

// Stop cancels the pending frame and removes the surface from its
// container. No frame callback runs after Stop returns.
func (m *Manager) Stop() {
	if m.stopped {
		return
	}
	m.stopped = true
	m.running = false
	if m.pending != 0 {
		m.sched.CancelFrame(m.pending)
		m.pending = 0
	}
	if m.surface != nil && m.container != nil {
		m.container.RemoveChild(m.surface)
	}
}

// Surface returns the mounted surface, or nil when disabled.
func (m *Manager) Surface() *Surface { return m.surface }

// Enabled reports whether a surface was attached.
func (m *Manager) Enabled() bool { return m.surface != nil }

func (m *Manager) Running() bool { return m.running }

// Frames returns the number of frames run so far.
func (m *Manager) Frames() uint64 { return m.frames }
