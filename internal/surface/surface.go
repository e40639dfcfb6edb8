package surface

import (
	"sort"

	"github.com/san-kum/backdrop/internal/raster"
)

// Surface is a full-bleed drawing layer owned by a Manager and mounted
// on a Container.
type Surface struct {
	Context       raster.Context
	Opacity       float64
	ZIndex        int
	PointerEvents bool
}

// Size returns the surface's pixel dimensions.
func (s *Surface) Size() (int, int) { return s.Context.Size() }

// Container is the element a surface is overlaid on.
type Container interface {
	// Bounds returns the content box in surface pixels.
	Bounds() (w, h int)
	AppendChild(s *Surface)
	RemoveChild(s *Surface)
}

// Viewport delivers host resize events.
type Viewport interface {
	OnResize(fn func())
}

// Window is a Viewport that fans resize events out to every listener.
type Window struct {
	listeners []func()
}

func NewWindow() *Window { return &Window{} }

func (w *Window) OnResize(fn func()) { w.listeners = append(w.listeners, fn) }

// Listeners returns the number of registered resize listeners.
func (w *Window) Listeners() int { return len(w.listeners) }

// Dispatch notifies every listener in registration order.
func (w *Window) Dispatch() {
	for _, fn := range w.listeners {
		fn()
	}
}

// Pane is a rectangular Container inside a terminal layout.
type Pane struct {
	ID       string
	w, h     int
	children []*Surface
}

func NewPane(id string, w, h int) *Pane {
	return &Pane{ID: id, w: w, h: h}
}

func (p *Pane) Bounds() (int, int) { return p.w, p.h }

func (p *Pane) SetBounds(w, h int) { p.w, p.h = w, h }

// SetCells sizes the pane to a block of terminal cells.
func (p *Pane) SetCells(cols, rows int) {
	p.SetBounds(cols*raster.CellWidth, rows*raster.CellHeight)
}

// Cells returns the pane size in terminal cells.
func (p *Pane) Cells() (cols, rows int) {
	return p.w / raster.CellWidth, p.h / raster.CellHeight
}

func (p *Pane) AppendChild(s *Surface) {
	p.children = append(p.children, s)
	sort.SliceStable(p.children, func(i, j int) bool {
		return p.children[i].ZIndex < p.children[j].ZIndex
	})
}

func (p *Pane) RemoveChild(s *Surface) {
	for i, c := range p.children {
		if c == s {
			p.children = append(p.children[:i], p.children[i+1:]...)
			return
		}
	}
}

// Children returns mounted surfaces ordered by z-index.
func (p *Pane) Children() []*Surface {
	out := make([]*Surface, len(p.children))
	copy(out, p.children)
	return out
}

// Render returns the pane as terminal rows. The topmost cell-backed
// surface wins; a pane without one renders blank.
func (p *Pane) Render(bg raster.Color) []string {
	cols, rows := p.Cells()
	for i := len(p.children) - 1; i >= 0; i-- {
		s := p.children[i]
		cells, ok := s.Context.(*raster.Cells)
		if !ok {
			continue
		}
		lines := cells.Render(bg, s.Opacity)
		for len(lines) < rows {
			lines = append(lines, blank(cols))
		}
		return lines[:rows]
	}
	lines := make([]string, rows)
	for i := range lines {
		lines[i] = blank(cols)
	}
	return lines
}

func blank(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

// Layout resolves containers by id with a fallback selector, mirroring a
// document lookup.
type Layout struct {
	panes map[string]*Pane
}

func NewLayout() *Layout {
	return &Layout{panes: make(map[string]*Pane)}
}

func (l *Layout) Add(name string, p *Pane) { l.panes[name] = p }

// Find returns the pane registered as id, else as fallback. It returns a
// nil Container when neither exists.
func (l *Layout) Find(id, fallback string) Container {
	if p, ok := l.panes[id]; ok && p != nil {
		return p
	}
	if p, ok := l.panes[fallback]; ok && p != nil {
		return p
	}
	return nil
}
