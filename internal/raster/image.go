package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Image is a Context backed by an RGBA bitmap. It is used for offline
// recording where there is no terminal.
type Image struct {
	img *image.RGBA
}

func NewImage(w, h int) *Image {
	i := &Image{}
	i.Resize(w, h)
	return i
}

// ImageFactory adapts NewImage to a Factory.
func ImageFactory(w, h int) Context { return NewImage(w, h) }

func (i *Image) Size() (int, int) {
	b := i.img.Bounds()
	return b.Dx(), b.Dy()
}

func (i *Image) Resize(w, h int) {
	i.img = image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
}

// RGBA exposes the backing bitmap.
func (i *Image) RGBA() *image.RGBA { return i.img }

func (i *Image) rect(x, y, w, h float64) image.Rectangle {
	r := image.Rect(int(math.Floor(x)), int(math.Floor(y)), int(math.Ceil(x+w)), int(math.Ceil(y+h)))
	return r.Intersect(i.img.Bounds())
}

func (i *Image) ClearRect(x, y, w, h float64) {
	draw.Draw(i.img, i.rect(x, y, w, h), image.Transparent, image.Point{}, draw.Src)
}

func (i *Image) FillRect(x, y, w, h float64, c Color, alpha float64) {
	draw.Draw(i.img, i.rect(x, y, w, h), image.NewUniform(nrgba(c, alpha)), image.Point{}, draw.Over)
}

func (i *Image) blendPixel(x, y int, src color.NRGBA) {
	if !(image.Point{x, y}).In(i.img.Bounds()) {
		return
	}
	r := image.Rect(x, y, x+1, y+1)
	draw.Draw(i.img, r, image.NewUniform(src), image.Point{}, draw.Over)
}

func (i *Image) FillCircle(cx, cy, r float64, c Color, alpha float64) {
	src := nrgba(c, alpha)
	x0, x1 := int(math.Floor(cx-r)), int(math.Ceil(cx+r))
	y0, y1 := int(math.Floor(cy-r)), int(math.Ceil(cy+r))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) <= r {
				i.blendPixel(x, y, src)
			}
		}
	}
}

func (i *Image) StrokeLine(x0, y0, x1, y1 float64, c Color, alpha, width float64) {
	src := nrgba(c, alpha*math.Min(width, 1))
	ax, ay := int(math.Floor(x0)), int(math.Floor(y0))
	bx, by := int(math.Floor(x1)), int(math.Floor(y1))
	dx, dy := absInt(bx-ax), absInt(by-ay)
	sx, sy := -1, -1
	if ax < bx {
		sx = 1
	}
	if ay < by {
		sy = 1
	}
	err := dx - dy
	for {
		i.blendPixel(ax, ay, src)
		if ax == bx && ay == by {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			ax += sx
		}
		if e2 < dx {
			err += dx
			ay += sy
		}
	}
}

// glyphFace is the bitmap face FillText draws with. It covers ASCII only.
var glyphFace font.Face = basicfont.Face7x13

// FillText draws glyph with its baseline at y. The face is a fixed 7x13
// bitmap whatever the requested size; runes it lacks, the katakana block
// among them, are drawn as a stand-in ASCII glyph.
func (i *Image) FillText(glyph rune, x, y float64, _ Font, c Color, alpha float64) {
	d := font.Drawer{
		Dst:  i.img,
		Src:  image.NewUniform(nrgba(c, alpha)),
		Face: glyphFace,
		Dot:  fixed.P(int(math.Round(x)), int(math.Round(y))),
	}
	d.DrawString(string(Printable(glyph)))
}

// Printable returns glyph when the bitmap face can draw it, else a
// visible ASCII rune picked from its code point.
func Printable(glyph rune) rune {
	if glyph > ' ' && glyph < 0x7f {
		return glyph
	}
	if glyph < 0 {
		glyph = -glyph
	}
	return '!' + glyph%('~'-'!'+1)
}

func nrgba(c Color, alpha float64) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(clamp01(alpha)*255 + 0.5)}
}
