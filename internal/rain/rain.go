package rain

import (
	"math"
	"math/rand"

	"github.com/san-kum/backdrop/internal/raster"
)

const (
	DefaultFontSize       = 14.0
	DefaultFade           = 0.05
	DefaultResetThreshold = 0.975
	DefaultGlyphBase      = 0x30A0
	DefaultGlyphRange     = 96
	DefaultMinSpeed       = 1.0
	DefaultMaxSpeed       = 4.0
)

var DefaultColor = raster.Hex("#39ff14")

// Column is the falling head of one glyph column.
type Column struct {
	Y     float64
	Speed float64
}

type Options struct {
	FontSize   float64
	FontFamily string
	// Fade is the alpha of the black veil painted over the whole surface
	// every frame. It must stay below 1 or the trail disappears.
	Fade float64
	// A column past the bottom edge restarts when a uniform draw exceeds
	// ResetThreshold.
	ResetThreshold float64
	GlyphBase      rune
	GlyphRange     int
	MinSpeed       float64
	MaxSpeed       float64
	Color          raster.Color
}

func DefaultOptions() Options {
	return Options{
		FontSize:       DefaultFontSize,
		FontFamily:     "monospace",
		Fade:           DefaultFade,
		ResetThreshold: DefaultResetThreshold,
		GlyphBase:      DefaultGlyphBase,
		GlyphRange:     DefaultGlyphRange,
		MinSpeed:       DefaultMinSpeed,
		MaxSpeed:       DefaultMaxSpeed,
		Color:          DefaultColor,
	}
}

// ColumnCount returns the number of columns for a surface w pixels wide.
func ColumnCount(w int, fontSize float64) int {
	if w <= 0 || fontSize <= 0 {
		return 0
	}
	return int(math.Floor(float64(w) / fontSize))
}

// Rain is the matrix rain engine.
type Rain struct {
	opts    Options
	rng     *rand.Rand
	h       float64
	columns []Column
}

func New(opts Options, rng *rand.Rand) *Rain {
	if opts.GlyphRange <= 0 {
		opts.GlyphRange = DefaultGlyphRange
	}
	return &Rain{opts: opts, rng: rng}
}

func (r *Rain) Name() string { return "rain" }

// Populate replaces every column with a fresh set for a w x h surface.
func (r *Rain) Populate(w, h int) {
	r.h = float64(h)
	n := ColumnCount(w, r.opts.FontSize)
	r.columns = make([]Column, n)
	for i := range r.columns {
		r.columns[i] = Column{
			Y:     r.rng.Float64() * r.h,
			Speed: r.opts.MinSpeed + r.rng.Float64()*(r.opts.MaxSpeed-r.opts.MinSpeed),
		}
	}
}

func (r *Rain) Columns() []Column { return r.columns }

// Glyph picks a random code point from the configured block.
func (r *Rain) Glyph() rune {
	return r.opts.GlyphBase + rune(r.rng.Intn(r.opts.GlyphRange))
}

func (r *Rain) font() raster.Font {
	return raster.Font{Size: r.opts.FontSize, Family: r.opts.FontFamily}
}

// Step advances every column and restarts some of those past the bottom.
func (r *Rain) Step() {
	for i := range r.columns {
		r.advance(&r.columns[i])
	}
}

func (r *Rain) advance(c *Column) {
	c.Y += c.Speed
	if c.Y > r.h && r.rng.Float64() > r.opts.ResetThreshold {
		c.Y = 0
	}
}

// Frame veils the previous frame, then draws one fresh glyph per column.
func (r *Rain) Frame(ctx raster.Context) {
	w, h := ctx.Size()
	ctx.FillRect(0, 0, float64(w), float64(h), raster.Black, r.opts.Fade)

	font := r.font()
	for i := range r.columns {
		c := &r.columns[i]
		ctx.FillText(r.Glyph(), float64(i)*r.opts.FontSize, c.Y, font, r.opts.Color, 1)
		r.advance(c)
	}
}
