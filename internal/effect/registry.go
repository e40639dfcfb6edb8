package effect

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/particles"
	"github.com/san-kum/backdrop/internal/rain"
	"github.com/san-kum/backdrop/internal/raster"
)

var ErrUnknownEngine = errors.New("effect: unknown engine")

// Engine is an animation that repaints a surface once per frame.
type Engine interface {
	Name() string
	// Populate rebuilds all per-surface state for a w x h surface.
	Populate(w, h int)
	Frame(ctx raster.Context)
}

// Entry describes how to build and place one engine.
type Entry struct {
	New func(cfg *config.Config, rng *rand.Rand) Engine
	// Container returns the pane id the engine mounts on.
	Container func(cfg *config.Config) string
	// Fallback is the selector tried when the configured id is missing.
	Fallback string
	Opacity  func(cfg *config.Config) float64
	ZIndex   int
}

type Registry struct {
	entries map[string]Entry
}

func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]Entry)}

	r.entries["particles"] = Entry{
		New: func(cfg *config.Config, rng *rand.Rand) Engine {
			return particles.New(cfg.ParticleOptions(), rng)
		},
		Container: func(cfg *config.Config) string { return cfg.Particles.Container },
		Fallback:  ".hero-section",
		Opacity:   func(cfg *config.Config) float64 { return cfg.Particles.Opacity },
		ZIndex:    1,
	}
	r.entries["rain"] = Entry{
		New: func(cfg *config.Config, rng *rand.Rand) Engine {
			return rain.New(cfg.RainOptions(), rng)
		},
		Container: func(cfg *config.Config) string { return cfg.Rain.Container },
		Fallback:  ".final-cta",
		Opacity:   func(cfg *config.Config) float64 { return cfg.Rain.Opacity },
		ZIndex:    1,
	}

	return r
}

func (r *Registry) Get(name string) (Entry, error) {
	e, ok := r.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s (available: %v)", ErrUnknownEngine, name, r.Names())
	}
	return e, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
