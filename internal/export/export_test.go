package export

import (
	"bytes"
	"errors"
	"image/gif"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/backdrop/internal/raster"
)

func TestCellsToSVG(t *testing.T) {
	if CellsToSVG(nil, raster.Black, 1) != "" {
		t.Error("nil surface should export nothing")
	}

	cells := raster.NewCells(32, 32)
	cells.FillCircle(4, 8, 1, raster.White, 1)
	cells.FillText('ア', 16, 24, raster.Font{Size: 14, Family: "monospace"}, raster.Hex("#39ff14"), 1)

	svg := CellsToSVG(cells, raster.Black, 1)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("expected a complete svg document")
	}
	if strings.Count(svg, "<circle") != 1 {
		t.Errorf("expected 1 dot, got %d", strings.Count(svg, "<circle"))
	}
	if !strings.Contains(svg, ">ア</text>") {
		t.Error("expected the glyph as text")
	}
	if !strings.Contains(svg, `fill="#39ff14"`) {
		t.Error("expected glyph color at full opacity")
	}
}

func TestGIFRecorder(t *testing.T) {
	rec := NewGIFRecorder(30)
	img := raster.NewImage(32, 24)
	for i := 0; i < 3; i++ {
		img.FillRect(0, 0, 32, 24, raster.Black, 1)
		img.FillCircle(float64(8+i*4), 12, 3, raster.Hex("#3b82f6"), 1)
		rec.Capture(img.RGBA())
	}

	var buf bytes.Buffer
	if err := rec.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(anim.Image) != 3 {
		t.Errorf("expected 3 frames, got %d", len(anim.Image))
	}
	if anim.Delay[0] != 3 {
		t.Errorf("expected 3/100s delay at 30fps, got %d", anim.Delay[0])
	}
	if b := anim.Image[0].Bounds(); b.Dx() != 32 || b.Dy() != 24 {
		t.Errorf("unexpected frame size %v", b)
	}
}

func TestGIFRecorderEmpty(t *testing.T) {
	rec := NewGIFRecorder(0)
	if err := rec.Save(filepath.Join(t.TempDir(), "empty.gif")); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}
}
