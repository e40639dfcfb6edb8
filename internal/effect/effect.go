package effect

import (
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/san-kum/backdrop/internal/analytics"
	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/raster"
	"github.com/san-kum/backdrop/internal/surface"
)

// Deps are the host services an effect runs on.
type Deps struct {
	Scheduler surface.Scheduler
	Viewport  surface.Viewport
	Factory   raster.Factory
	Reporter  *analytics.Reporter
	Logger    *log.Logger
	// Timing, when set, observes how long each frame takes.
	Timing metrics.Metric
}

// Effect binds an engine to a surface manager. Callers must Destroy an
// effect before discarding its container, or its frame request stays
// scheduled forever.
type Effect struct {
	engine   Engine
	mgr      *surface.Manager
	reporter *analytics.Reporter
	timing   metrics.Metric
	logger   *log.Logger
}

// Mount attaches engine to c, populates it and starts its loop. With a
// nil container the effect is returned disabled.
func Mount(engine Engine, c surface.Container, opts surface.Options, deps Deps) *Effect {
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard, "", 0)
	}
	if deps.Reporter == nil {
		deps.Reporter = analytics.NewReporter(deps.Logger)
	}
	if opts.Factory == nil {
		opts.Factory = deps.Factory
	}
	if opts.Logger == nil {
		opts.Logger = deps.Logger
	}

	e := &Effect{
		engine:   engine,
		mgr:      surface.NewManager(deps.Scheduler, deps.Viewport, opts),
		reporter: deps.Reporter,
		timing:   deps.Timing,
		logger:   deps.Logger,
	}
	e.mgr.OnResize(engine.Populate)
	e.mgr.Attach(c)
	if !e.mgr.Enabled() {
		e.logger.Printf("%s: disabled", engine.Name())
		return e
	}

	w, h := e.mgr.Surface().Size()
	engine.Populate(w, h)
	e.mgr.Start(e.frame)
	e.logger.Printf("%s: started on %dx%d surface", engine.Name(), w, h)
	return e
}

// Launch builds the named engine from reg and mounts it on the container
// the config points at.
func Launch(reg *Registry, name string, layout *surface.Layout, cfg *config.Config, rng *rand.Rand, deps Deps) (*Effect, error) {
	entry, err := reg.Get(name)
	if err != nil {
		return nil, err
	}
	engine := entry.New(cfg, rng)
	c := layout.Find(entry.Container(cfg), entry.Fallback)
	opts := surface.Options{Opacity: entry.Opacity(cfg), ZIndex: entry.ZIndex}
	return Mount(engine, c, opts, deps), nil
}

func (e *Effect) frame(now time.Time) {
	ctx := e.mgr.Surface().Context
	start := time.Now()
	ok := e.reporter.Guard(e.engine.Name(), func() {
		e.engine.Frame(ctx)
	})
	if !ok {
		e.logger.Printf("%s: frame failed, stopping", e.engine.Name())
		e.Destroy()
		return
	}
	if e.timing != nil {
		e.timing.Observe(time.Since(start))
	}
}

// Destroy stops the loop and removes the surface.
func (e *Effect) Destroy() {
	e.mgr.Stop()
}

func (e *Effect) Engine() Engine { return e.engine }

func (e *Effect) Enabled() bool { return e.mgr.Enabled() }

func (e *Effect) Running() bool { return e.mgr.Running() }

func (e *Effect) Frames() uint64 { return e.mgr.Frames() }

// Surface returns the mounted surface, nil when disabled.
func (e *Effect) Surface() *surface.Surface { return e.mgr.Surface() }
