package viz

import (
	"log"
	"math/rand"

	"github.com/san-kum/backdrop/internal/analytics"
	"github.com/san-kum/backdrop/internal/config"
	"github.com/san-kum/backdrop/internal/effect"
	"github.com/san-kum/backdrop/internal/metrics"
	"github.com/san-kum/backdrop/internal/raster"
	"github.com/san-kum/backdrop/internal/surface"
)

const (
	width  = 80
	height = 24

	ctaRows = 8
	// rows the landing page spends outside the hero pane
	chromeRows = 6
)

// Stage is the terminal document effects are mounted on: a frame clock,
// a resize source and the named panes.
type Stage struct {
	Clock  *surface.FrameClock
	Window *surface.Window
	Layout *surface.Layout
	Hero   *surface.Pane
	CTA    *surface.Pane
}

// NewStage registers the hero and cta panes under their configured ids
// and under the fallback selectors.
func NewStage(cfg *config.Config) *Stage {
	s := &Stage{
		Clock:  surface.NewFrameClock(),
		Window: surface.NewWindow(),
		Layout: surface.NewLayout(),
		Hero:   surface.NewPane(cfg.Particles.Container, 0, 0),
		CTA:    surface.NewPane(cfg.Rain.Container, 0, 0),
	}
	s.Layout.Add(cfg.Particles.Container, s.Hero)
	s.Layout.Add(".hero-section", s.Hero)
	s.Layout.Add(cfg.Rain.Container, s.CTA)
	s.Layout.Add(".final-cta", s.CTA)
	s.SetSize(width, height)
	return s
}

// SetSize lays the panes out for a cols x rows terminal. Callers dispatch
// the resize on Window once the new size is in place.
func (s *Stage) SetSize(cols, rows int) {
	heroRows := rows - chromeRows
	if heroRows < 4 {
		heroRows = 4
	}
	s.Hero.SetCells(cols, heroRows)
	s.CTA.SetCells(cols, ctaRows)
}

// Launch mounts every named engine. Engines whose container is missing
// come back disabled, not as errors.
func (s *Stage) Launch(names []string, cfg *config.Config, rng *rand.Rand, reporter *analytics.Reporter, timing metrics.Metric, logger *log.Logger) ([]*effect.Effect, error) {
	reg := effect.NewRegistry()
	if len(names) == 0 {
		names = reg.Names()
	}
	deps := effect.Deps{
		Scheduler: s.Clock,
		Viewport:  s.Window,
		Factory:   raster.CellFactory,
		Reporter:  reporter,
		Logger:    logger,
		Timing:    timing,
	}

	var effects []*effect.Effect
	for _, name := range names {
		e, err := effect.Launch(reg, name, s.Layout, cfg, rng, deps)
		if err != nil {
			for _, started := range effects {
				started.Destroy()
			}
			return nil, err
		}
		effects = append(effects, e)
	}
	return effects, nil
}
