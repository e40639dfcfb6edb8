package raster

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is an opaque RGB color. Alpha is passed per draw call.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

// Hex parses "#rrggbb" or "rrggbb". Malformed input yields Black.
func Hex(s string) Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Black
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Black
	}
	return Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Lerp mixes c toward o by t in [0,1].
func (c Color) Lerp(o Color, t float64) Color {
	t = clamp01(t)
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return Color{mix(c.R, o.R), mix(c.G, o.G), mix(c.B, o.B)}
}

// Font describes the glyph size and family used by FillText.
type Font struct {
	Size   float64
	Family string
}

func (f Font) String() string {
	return fmt.Sprintf("%gpx %s", f.Size, f.Family)
}

// Context is the 2D drawing surface an engine paints into. Coordinates
// are surface pixels with the origin at the top-left corner.
type Context interface {
	Size() (w, h int)
	Resize(w, h int)

	// ClearRect resets the rectangle to fully transparent.
	ClearRect(x, y, w, h float64)
	// FillRect composites a color over the rectangle at the given alpha.
	FillRect(x, y, w, h float64, c Color, alpha float64)
	FillCircle(cx, cy, r float64, c Color, alpha float64)
	StrokeLine(x0, y0, x1, y1 float64, c Color, alpha, width float64)
	// FillText draws a single glyph with its baseline at y.
	FillText(glyph rune, x, y float64, font Font, c Color, alpha float64)
}

// Factory creates a context of the given size.
type Factory func(w, h int) Context

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
