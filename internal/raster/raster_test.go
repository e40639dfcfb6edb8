package raster

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#3b82f6", Color{0x3b, 0x82, 0xf6}},
		{"ff6b35", Color{0xff, 0x6b, 0x35}},
		{"#39ff14", Color{0x39, 0xff, 0x14}},
		{"#fff", Black},
		{"#zzzzzz", Black},
	}

	for _, tt := range tests {
		if got := Hex(tt.in); got != tt.want {
			t.Errorf("Hex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if got := Hex("#3b82f6").Hex(); got != "#3b82f6" {
		t.Errorf("round trip: got %s", got)
	}
}

func TestCellsResize(t *testing.T) {
	c := NewCells(80, 40)
	cols, rows := c.Dims()
	if cols != 10 || rows != 2 {
		t.Errorf("expected 10x2 cells, got %dx%d", cols, rows)
	}

	c.Resize(161, 15)
	cols, rows = c.Dims()
	if cols != 20 || rows != 0 {
		t.Errorf("expected 20x0 cells, got %dx%d", cols, rows)
	}
	w, h := c.Size()
	if w != 161 || h != 15 {
		t.Errorf("expected pixel size 161x15, got %dx%d", w, h)
	}
}

func TestCellsTextFadesUnderTranslucentFill(t *testing.T) {
	c := NewCells(CellWidth*4, CellHeight*2)
	green := Hex("#39ff14")
	font := Font{Size: 14, Family: "monospace"}

	c.FillText('ア', 0, 14, font, green, 1)
	cell := c.Cell(0, 0)
	if cell.Glyph != 'ア' {
		t.Fatalf("expected glyph to be set, got %q", cell.Glyph)
	}
	if math.Abs(cell.G-1) > 1e-9 {
		t.Fatalf("expected full green, got %f", cell.G)
	}

	w, h := c.Size()
	c.FillRect(0, 0, float64(w), float64(h), Black, 0.05)
	cell = c.Cell(0, 0)
	if math.Abs(cell.G-0.95) > 1e-9 {
		t.Errorf("expected green 0.95 after one fade, got %f", cell.G)
	}
	if cell.Glyph != 'ア' {
		t.Error("glyph should persist while visible")
	}

	for i := 0; i < 200; i++ {
		c.FillRect(0, 0, float64(w), float64(h), Black, 0.05)
	}
	if c.Cell(0, 0).Glyph != 0 {
		t.Error("glyph should vanish once the trail fades out")
	}
}

func TestCellsClearRect(t *testing.T) {
	c := NewCells(CellWidth*2, CellHeight)
	c.FillCircle(4, 4, 2, White, 1)
	if c.Cell(0, 0).Dots == 0 {
		t.Fatal("expected circle to set a dot")
	}

	c.ClearRect(0, 0, CellWidth*2, CellHeight)
	if got := c.Cell(0, 0); got != (Cell{}) {
		t.Errorf("expected empty cell after clear, got %+v", got)
	}
}

func TestCellsStrokeLine(t *testing.T) {
	c := NewCells(CellWidth*4, CellHeight)
	c.StrokeLine(0, 0, CellWidth*4-1, 0, White, 0.2, 1)

	cols, _ := c.Dims()
	for col := 0; col < cols; col++ {
		cell := c.Cell(col, 0)
		if cell.Dots&0x9 == 0 {
			t.Errorf("cell %d: expected top row dots, got %08b", col, cell.Dots)
		}
		if math.Abs(cell.Cover-0.2) > 1e-9 {
			t.Errorf("cell %d: expected coverage 0.2 (one composite per line), got %f", col, cell.Cover)
		}
	}
}

func TestCellsRenderBlank(t *testing.T) {
	c := NewCells(CellWidth*3, CellHeight*2)
	lines := c.Render(Black, 1)
	want := []string{"   ", "   "}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("blank render mismatch (-want +got):\n%s", diff)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(100, 50)
	red := Hex("#ff0000")

	r.ClearRect(0, 0, 100, 50)
	r.StrokeLine(1, 2, 3, 4, red, 0.1, 0.5)
	r.FillText('x', 14, 7, Font{Size: 14, Family: "monospace"}, red, 1)

	want := []Op{
		{Kind: OpClear, X1: 100, Y1: 50},
		{Kind: OpLine, X0: 1, Y0: 2, X1: 3, Y1: 4, Color: red, Alpha: 0.1, Width: 0.5},
		{Kind: OpText, X0: 14, Y0: 7, Glyph: 'x', Font: Font{Size: 14, Family: "monospace"}, Color: red, Alpha: 1},
	}
	if diff := cmp.Diff(want, r.Ops); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}

	if r.Count(OpLine) != 1 {
		t.Errorf("expected 1 line, got %d", r.Count(OpLine))
	}

	r.Reset()
	if len(r.Ops) != 0 {
		t.Error("expected no ops after reset")
	}
}

func TestImageFillAndClear(t *testing.T) {
	img := NewImage(4, 4)
	img.FillRect(0, 0, 4, 4, White, 1)

	px := img.RGBA().RGBAAt(1, 1)
	if px.R != 255 || px.A != 255 {
		t.Fatalf("expected opaque white, got %+v", px)
	}

	img.FillRect(0, 0, 4, 4, Black, 0.5)
	px = img.RGBA().RGBAAt(1, 1)
	if px.R < 120 || px.R > 135 {
		t.Errorf("expected half-faded white, got %+v", px)
	}

	img.ClearRect(0, 0, 4, 4)
	if px := img.RGBA().RGBAAt(1, 1); px.A != 0 {
		t.Errorf("expected transparent pixel after clear, got %+v", px)
	}
}

func litPixels(img *Image) int {
	n := 0
	b := img.RGBA().Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBA().RGBAAt(x, y).A != 0 {
				n++
			}
		}
	}
	return n
}

func TestImageFillTextDrawsGlyph(t *testing.T) {
	font := Font{Size: 14, Family: "monospace"}
	green := Hex("#39ff14")

	a := NewImage(16, 20)
	a.FillText('A', 2, 14, font, green, 1)
	b := NewImage(16, 20)
	b.FillText('B', 2, 14, font, green, 1)

	if litPixels(a) == 0 {
		t.Fatal("expected glyph pixels")
	}
	if cmp.Equal(a.RGBA().Pix, b.RGBA().Pix) {
		t.Error("expected different glyphs to draw differently")
	}

	kana := NewImage(16, 20)
	kana.FillText('ア', 2, 14, font, green, 1)
	if litPixels(kana) == 0 {
		t.Error("expected a stand-in glyph for katakana")
	}
}

func TestPrintable(t *testing.T) {
	tests := []struct {
		name  string
		glyph rune
	}{
		{"ascii", 'A'},
		{"katakana", 'ア'},
		{"last katakana", 0x30A0 + 95},
		{"space", ' '},
		{"control", '\n'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Printable(tt.glyph)
			if got < '!' || got > '~' {
				t.Errorf("Printable(%q) = %q, want a visible ascii rune", tt.glyph, got)
			}
		})
	}
	if Printable('A') != 'A' {
		t.Error("ascii glyphs must pass through")
	}
}
