// Package particles implements a field of drifting dots joined by faint
// lines when they come close to each other.
//
// Link detection compares every unordered pair each frame, which is
// quadratic in the particle count. The area-based density keeps n small
// (a 1920x1080 surface holds 138 particles); a much denser field would
// need a spatial grid instead.
package particles

import (
	"math"
	"math/rand"

	"github.com/san-kum/backdrop/internal/raster"
)

const (
	DefaultDensity      = 15000.0
	DefaultLinkDistance = 100.0
	DefaultLinkAlpha    = 0.2
	DefaultLinkWidth    = 0.5
	DefaultMaxSpeed     = 0.25
)

var DefaultPalette = []raster.Color{raster.Hex("#3b82f6"), raster.Hex("#ff6b35")}

// Particle is one dot. Radius, Alpha and Color never change after creation.
type Particle struct {
	X, Y   float64
	VX, VY float64
	Radius float64
	Alpha  float64
	Color  raster.Color
}

type Options struct {
	// Density is the surface area per particle.
	Density      float64
	LinkDistance float64
	LinkAlpha    float64
	LinkWidth    float64
	MaxSpeed     float64
	MinRadius    float64
	MaxRadius    float64
	MinAlpha     float64
	MaxAlpha     float64
	Palette      []raster.Color
}

func DefaultOptions() Options {
	return Options{
		Density:      DefaultDensity,
		LinkDistance: DefaultLinkDistance,
		LinkAlpha:    DefaultLinkAlpha,
		LinkWidth:    DefaultLinkWidth,
		MaxSpeed:     DefaultMaxSpeed,
		MinRadius:    1,
		MaxRadius:    4,
		MinAlpha:     0.2,
		MaxAlpha:     0.7,
		Palette:      DefaultPalette,
	}
}

// Count returns the number of particles for a w x h surface.
func Count(w, h int, density float64) int {
	if w <= 0 || h <= 0 || density <= 0 {
		return 0
	}
	return int(math.Floor(float64(w) * float64(h) / density))
}

// LinkAlpha returns the opacity of a link between particles d apart. It
// falls linearly from maxAlpha at distance 0 to 0 at maxDist.
func LinkAlpha(d, maxDist, maxAlpha float64) float64 {
	if maxDist <= 0 {
		return 0
	}
	a := (maxDist - d) / maxDist * maxAlpha
	return math.Max(0, math.Min(maxAlpha, a))
}

// Field is the particle engine.
type Field struct {
	opts      Options
	rng       *rand.Rand
	w, h      float64
	particles []Particle
}

func New(opts Options, rng *rand.Rand) *Field {
	if len(opts.Palette) == 0 {
		opts.Palette = DefaultPalette
	}
	return &Field{opts: opts, rng: rng}
}

func (f *Field) Name() string { return "particles" }

// Populate discards every particle and creates a fresh set sized for a
// w x h surface.
func (f *Field) Populate(w, h int) {
	f.w, f.h = float64(w), float64(h)
	n := Count(w, h, f.opts.Density)
	f.particles = make([]Particle, n)
	for i := range f.particles {
		f.particles[i] = f.spawn()
	}
}

func (f *Field) spawn() Particle {
	o := f.opts
	return Particle{
		X:      f.rng.Float64() * f.w,
		Y:      f.rng.Float64() * f.h,
		VX:     (f.rng.Float64()*2 - 1) * o.MaxSpeed,
		VY:     (f.rng.Float64()*2 - 1) * o.MaxSpeed,
		Radius: o.MinRadius + f.rng.Float64()*(o.MaxRadius-o.MinRadius),
		Alpha:  o.MinAlpha + f.rng.Float64()*(o.MaxAlpha-o.MinAlpha),
		Color:  o.Palette[f.rng.Intn(len(o.Palette))],
	}
}

// Particles exposes the live particle slice.
func (f *Field) Particles() []Particle { return f.particles }

// Step moves every particle by its velocity. A particle past an edge has
// the matching velocity component inverted; its position is left as is,
// so it overshoots by less than one step and comes back on the next.
func (f *Field) Step() {
	for i := range f.particles {
		p := &f.particles[i]
		p.X += p.VX
		p.Y += p.VY
		if p.X < 0 || p.X > f.w {
			p.VX = -p.VX
		}
		if p.Y < 0 || p.Y > f.h {
			p.VY = -p.VY
		}
	}
}

// Frame clears the surface, advances the field and draws particles and
// links.
func (f *Field) Frame(ctx raster.Context) {
	w, h := ctx.Size()
	ctx.ClearRect(0, 0, float64(w), float64(h))

	f.Step()
	for _, p := range f.particles {
		ctx.FillCircle(p.X, p.Y, p.Radius, p.Color, p.Alpha)
	}
	f.drawLinks(ctx)
}

func (f *Field) drawLinks(ctx raster.Context) {
	o := f.opts
	for i := 0; i < len(f.particles); i++ {
		a := f.particles[i]
		for j := i + 1; j < len(f.particles); j++ {
			b := f.particles[j]
			d := math.Hypot(a.X-b.X, a.Y-b.Y)
			if d >= o.LinkDistance {
				continue
			}
			ctx.StrokeLine(a.X, a.Y, b.X, b.Y, a.Color, LinkAlpha(d, o.LinkDistance, o.LinkAlpha), o.LinkWidth)
		}
	}
}
