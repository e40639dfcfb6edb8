package raster

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Terminal cell geometry in surface pixels. A cell holds a 2x4 braille
// dot matrix, so one dot covers 4x4 pixels.
const (
	CellWidth  = 8
	CellHeight = 16

	dotWidth  = CellWidth / 2
	dotHeight = CellHeight / 4

	brailleBase = 0x2800
	// Cells dimmer than this lose their dots and glyph.
	visibleFloor = 0.02
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
var pixelMap = [4][2]uint8{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Cell is one terminal character. Color channels are premultiplied by
// coverage and range over [0,1].
type Cell struct {
	Dots    uint8
	Glyph   rune
	R, G, B float64
	Cover   float64
}

// Over returns the cell's color composited over bg at layer opacity.
func (c Cell) Over(bg Color, opacity float64) Color {
	return blend(c, bg, clamp01(opacity))
}

// DotMask reports whether dot (dx, dy) of the braille matrix is lit.
func (c Cell) DotMask(dx, dy int) bool {
	return c.Dots&pixelMap[dy][dx] != 0
}

func (c Cell) luminance() float64 {
	return math.Max(c.R, math.Max(c.G, c.B))
}

func (c *Cell) composite(col Color, alpha float64) {
	a := clamp01(alpha)
	c.R = float64(col.R)/255*a + c.R*(1-a)
	c.G = float64(col.G)/255*a + c.G*(1-a)
	c.B = float64(col.B)/255*a + c.B*(1-a)
	c.Cover = a + c.Cover*(1-a)
	if c.luminance() < visibleFloor {
		c.Dots, c.Glyph = 0, 0
	}
}

// Cells is a Context backed by a grid of terminal cells.
type Cells struct {
	w, h       int
	cols, rows int
	grid       []Cell
	stamp      []uint32
	gen        uint32
}

func NewCells(w, h int) *Cells {
	c := &Cells{}
	c.Resize(w, h)
	return c
}

// CellFactory adapts NewCells to a Factory.
func CellFactory(w, h int) Context { return NewCells(w, h) }

func (c *Cells) Size() (int, int) { return c.w, c.h }

// Dims returns the grid size in cells.
func (c *Cells) Dims() (cols, rows int) { return c.cols, c.rows }

func (c *Cells) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	c.w, c.h = w, h
	c.cols, c.rows = w/CellWidth, h/CellHeight
	c.grid = make([]Cell, c.cols*c.rows)
	c.stamp = make([]uint32, c.cols*c.rows)
	c.gen = 0
}

// Cell returns a copy of the cell at col,row.
func (c *Cells) Cell(col, row int) Cell {
	if !c.inGrid(col, row) {
		return Cell{}
	}
	return c.grid[row*c.cols+col]
}

func (c *Cells) inGrid(col, row int) bool {
	return col >= 0 && row >= 0 && col < c.cols && row < c.rows
}

func (c *Cells) cellRange(x, y, w, h float64) (c0, r0, c1, r1 int) {
	c0 = int(math.Floor(x / CellWidth))
	r0 = int(math.Floor(y / CellHeight))
	c1 = int(math.Ceil((x + w) / CellWidth))
	r1 = int(math.Ceil((y + h) / CellHeight))
	c0, r0 = max(c0, 0), max(r0, 0)
	c1, r1 = min(c1, c.cols), min(r1, c.rows)
	return
}

func (c *Cells) ClearRect(x, y, w, h float64) {
	c0, r0, c1, r1 := c.cellRange(x, y, w, h)
	for row := r0; row < r1; row++ {
		for col := c0; col < c1; col++ {
			c.grid[row*c.cols+col] = Cell{}
		}
	}
}

func (c *Cells) FillRect(x, y, w, h float64, col Color, alpha float64) {
	c0, r0, c1, r1 := c.cellRange(x, y, w, h)
	for row := r0; row < r1; row++ {
		for cc := c0; cc < c1; cc++ {
			c.grid[row*c.cols+cc].composite(col, alpha)
		}
	}
}

// nextGen starts a new draw operation so each cell is composited at most
// once per call.
func (c *Cells) nextGen() {
	c.gen++
	if c.gen == 0 {
		for i := range c.stamp {
			c.stamp[i] = 0
		}
		c.gen = 1
	}
}

func (c *Cells) setDot(dx, dy int, col Color, alpha float64) {
	if dx < 0 || dy < 0 {
		return
	}
	cc, row := dx/2, dy/4
	if !c.inGrid(cc, row) {
		return
	}
	i := row*c.cols + cc
	cell := &c.grid[i]
	if c.stamp[i] != c.gen {
		c.stamp[i] = c.gen
		cell.composite(col, alpha)
	}
	if cell.luminance() >= visibleFloor {
		cell.Glyph = 0
		cell.Dots |= pixelMap[dy%4][dx%2]
	}
}

func (c *Cells) FillCircle(cx, cy, r float64, col Color, alpha float64) {
	c.nextGen()
	x0, x1 := int(math.Floor((cx-r)/dotWidth)), int(math.Floor((cx+r)/dotWidth))
	y0, y1 := int(math.Floor((cy-r)/dotHeight)), int(math.Floor((cy+r)/dotHeight))
	hit := false
	for dy := y0; dy <= y1; dy++ {
		for dx := x0; dx <= x1; dx++ {
			px := (float64(dx) + 0.5) * dotWidth
			py := (float64(dy) + 0.5) * dotHeight
			if math.Hypot(px-cx, py-cy) <= r {
				c.setDot(dx, dy, col, alpha)
				hit = true
			}
		}
	}
	if !hit {
		c.setDot(int(math.Floor(cx/dotWidth)), int(math.Floor(cy/dotHeight)), col, alpha)
	}
}

// StrokeLine draws a line using Bresenham's algorithm over braille dots.
// Widths below one pixel scale the alpha down.
func (c *Cells) StrokeLine(x0, y0, x1, y1 float64, col Color, alpha, width float64) {
	c.nextGen()
	a := alpha * math.Min(width, 1)
	ax, ay := int(math.Floor(x0/dotWidth)), int(math.Floor(y0/dotHeight))
	bx, by := int(math.Floor(x1/dotWidth)), int(math.Floor(y1/dotHeight))

	dx := absInt(bx - ax)
	dy := absInt(by - ay)
	sx, sy := -1, -1
	if ax < bx {
		sx = 1
	}
	if ay < by {
		sy = 1
	}
	err := dx - dy

	for {
		c.setDot(ax, ay, col, a)
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

func (c *Cells) FillText(glyph rune, x, y float64, font Font, col Color, alpha float64) {
	cc := int(math.Floor(x / CellWidth))
	row := int(math.Floor((y - font.Size/2) / CellHeight))
	if !c.inGrid(cc, row) {
		return
	}
	cell := &c.grid[row*c.cols+cc]
	cell.composite(col, alpha)
	if cell.luminance() >= visibleFloor {
		cell.Dots = 0
		cell.Glyph = glyph
	}
}

// Render composites the grid over bg at the given layer opacity and
// returns one string per row.
func (c *Cells) Render(bg Color, opacity float64) []string {
	op := clamp01(opacity)
	lines := make([]string, c.rows)
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		b.Reset()
		var run strings.Builder
		runColor := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runColor)).Render(run.String()))
			}
			run.Reset()
		}
		for cc := 0; cc < c.cols; cc++ {
			cell := c.grid[row*c.cols+cc]
			ch, color := ' ', ""
			switch {
			case cell.Glyph != 0:
				ch = cell.Glyph
			case cell.Dots != 0:
				ch = rune(brailleBase) + rune(cell.Dots)
			}
			if ch != ' ' {
				color = blend(cell, bg, op).Hex()
			}
			if color != runColor {
				flush()
				runColor = color
			}
			run.WriteRune(ch)
		}
		flush()
		lines[row] = b.String()
	}
	return lines
}

func (c *Cells) String() string {
	return strings.Join(c.Render(Black, 1), "\n")
}

func blend(cell Cell, bg Color, op float64) Color {
	keep := 1 - cell.Cover*op
	ch := func(premul float64, base uint8) uint8 {
		v := premul*op*255 + float64(base)*keep
		return uint8(math.Min(255, math.Max(0, v+0.5)))
	}
	return Color{ch(cell.R, bg.R), ch(cell.G, bg.G), ch(cell.B, bg.B)}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
