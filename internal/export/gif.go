package export

import (
	"errors"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
)

var ErrNoFrames = errors.New("export: no frames captured")

// GIFRecorder quantizes captured frames to the web-safe palette and
// encodes them as a looping animation.
type GIFRecorder struct {
	frames []*image.Paletted
	// delay per frame in hundredths of a second
	delay int
}

func NewGIFRecorder(fps int) *GIFRecorder {
	delay := 2
	if fps > 0 && 100/fps > delay {
		delay = 100 / fps
	}
	return &GIFRecorder{delay: delay}
}

// Capture copies img as the next frame.
func (g *GIFRecorder) Capture(img image.Image) {
	bounds := img.Bounds()
	frame := image.NewPaletted(bounds, palette.WebSafe)
	draw.Draw(frame, bounds, img, bounds.Min, draw.Src)
	g.frames = append(g.frames, frame)
}

func (g *GIFRecorder) Frames() int { return len(g.frames) }

func (g *GIFRecorder) Encode(w io.Writer) error {
	if len(g.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range g.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, g.delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (g *GIFRecorder) Save(path string) error {
	if len(g.frames) == 0 {
		return ErrNoFrames
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return g.Encode(f)
}
