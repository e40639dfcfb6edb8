package effect

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/san-kum/backdrop/internal/analytics"
	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/particles"
	"github.com/san-kum/backdrop/internal/rain"
	"github.com/san-kum/backdrop/internal/raster"
	"github.com/san-kum/backdrop/internal/surface"
)

type host struct {
	clock  *surface.FrameClock
	window *surface.Window
	layout *surface.Layout
	hero   *surface.Pane
	cta    *surface.Pane
}

func newHost() *host {
	h := &host{
		clock:  surface.NewFrameClock(),
		window: surface.NewWindow(),
		layout: surface.NewLayout(),
		hero:   surface.NewPane("hero", 800, 600),
		cta:    surface.NewPane("cta", 420, 200),
	}
	h.layout.Add("hero", h.hero)
	h.layout.Add(".final-cta", h.cta)
	return h
}

func (h *host) deps() Deps {
	return Deps{
		Scheduler: h.clock,
		Viewport:  h.window,
		Factory:   func(w, hh int) raster.Context { return raster.NewRecorder(w, hh) },
	}
}

func (h *host) advance(n int) {
	for i := 0; i < n; i++ {
		h.clock.Advance(time.Now())
	}
}

func TestLaunchParticles(t *testing.T) {
	h := newHost()
	e, err := Launch(NewRegistry(), "particles", h.layout, config.DefaultConfig(), rand.New(rand.NewSource(1)), h.deps())
	if err != nil {
		t.Fatal(err)
	}
	if !e.Enabled() || !e.Running() {
		t.Fatal("expected a running effect")
	}

	field := e.Engine().(*particles.Field)
	if len(field.Particles()) != 32 {
		t.Errorf("expected 32 particles, got %d", len(field.Particles()))
	}

	h.advance(3)
	if e.Frames() != 3 {
		t.Errorf("expected 3 frames, got %d", e.Frames())
	}
	rec := e.Surface().Context.(*raster.Recorder)
	if rec.Count(raster.OpClear) != 3 || rec.Count(raster.OpCircle) != 96 {
		t.Errorf("unexpected draw counts: %d clears, %d circles", rec.Count(raster.OpClear), rec.Count(raster.OpCircle))
	}
	if e.Surface().Opacity != 0.6 {
		t.Errorf("expected opacity 0.6, got %f", e.Surface().Opacity)
	}
}

func TestLaunchFallsBackToSelector(t *testing.T) {
	h := newHost()
	e, err := Launch(NewRegistry(), "rain", h.layout, config.DefaultConfig(), rand.New(rand.NewSource(2)), h.deps())
	if err != nil {
		t.Fatal(err)
	}
	if !e.Enabled() {
		t.Fatal("expected rain to mount on the fallback pane")
	}
	if len(h.cta.Children()) != 1 {
		t.Error("expected surface on the cta pane")
	}
	if n := len(e.Engine().(*rain.Rain).Columns()); n != 30 {
		t.Errorf("expected 30 columns, got %d", n)
	}
}

func TestLaunchWithoutContainerIsSilent(t *testing.T) {
	h := newHost()
	cfg := config.DefaultConfig()
	cfg.Particles.Container = "nowhere"
	h.layout = surface.NewLayout()

	e, err := Launch(NewRegistry(), "particles", h.layout, cfg, rand.New(rand.NewSource(3)), h.deps())
	if err != nil {
		t.Fatalf("missing container must not be an error: %v", err)
	}
	if e.Enabled() || e.Running() {
		t.Error("expected a disabled effect")
	}
	if h.clock.Pending() != 0 {
		t.Error("disabled effect must not schedule frames")
	}
	e.Destroy()
}

func TestLaunchUnknownEngine(t *testing.T) {
	h := newHost()
	_, err := Launch(NewRegistry(), "fireworks", h.layout, config.DefaultConfig(), rand.New(rand.NewSource(4)), h.deps())
	if !errors.Is(err, ErrUnknownEngine) {
		t.Errorf("expected ErrUnknownEngine, got %v", err)
	}
}

func TestResizeRepopulates(t *testing.T) {
	h := newHost()
	p, _ := Launch(NewRegistry(), "particles", h.layout, config.DefaultConfig(), rand.New(rand.NewSource(5)), h.deps())
	r, _ := Launch(NewRegistry(), "rain", h.layout, config.DefaultConfig(), rand.New(rand.NewSource(6)), h.deps())
	h.advance(2)

	h.hero.SetBounds(1920, 1080)
	h.cta.SetBounds(140, 300)
	h.window.Dispatch()

	if w, hh := p.Surface().Size(); w != 1920 || hh != 1080 {
		t.Errorf("expected 1920x1080 particle surface, got %dx%d", w, hh)
	}
	if n := len(p.Engine().(*particles.Field).Particles()); n != 138 {
		t.Errorf("expected 138 particles after resize, got %d", n)
	}
	if n := len(r.Engine().(*rain.Rain).Columns()); n != 10 {
		t.Errorf("expected 10 columns after resize, got %d", n)
	}

	h.advance(1)
	if p.Frames() != 3 || r.Frames() != 3 {
		t.Error("loops should keep running across a resize")
	}
}

func TestDestroyStopsFrames(t *testing.T) {
	h := newHost()
	e, _ := Launch(NewRegistry(), "rain", h.layout, config.DefaultConfig(), rand.New(rand.NewSource(7)), h.deps())
	h.advance(4)
	e.Destroy()
	h.advance(10)

	if e.Frames() != 4 {
		t.Errorf("expected frames to stop at 4, got %d", e.Frames())
	}
	if len(h.cta.Children()) != 0 {
		t.Error("expected surface removed on destroy")
	}
}

type faultyEngine struct{ calls int }

func (f *faultyEngine) Name() string      { return "faulty" }
func (f *faultyEngine) Populate(int, int) {}
func (f *faultyEngine) Frame(raster.Context) {
	f.calls++
	if f.calls == 2 {
		panic("bad frame")
	}
}

func TestPanickingEngineDegrades(t *testing.T) {
	h := newHost()
	deps := h.deps()
	deps.Reporter = analytics.NewReporter(nil)
	timing := metrics.NewFrameTime(10)
	deps.Timing = timing

	engine := &faultyEngine{}
	e := Mount(engine, h.hero, surface.Options{}, deps)
	h.advance(5)

	if engine.calls != 2 {
		t.Errorf("expected the loop to stop after the panic, got %d calls", engine.calls)
	}
	if e.Running() {
		t.Error("expected effect to be stopped")
	}
	if n := len(deps.Reporter.Reports()); n != 1 {
		t.Errorf("expected 1 error report, got %d", n)
	}
	if timing.Samples() != 1 {
		t.Errorf("expected 1 timed frame, got %d", timing.Samples())
	}
}
