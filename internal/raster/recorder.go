package raster

// OpKind names a recorded draw call.
type OpKind string

const (
	OpClear  OpKind = "clear"
	OpRect   OpKind = "rect"
	OpCircle OpKind = "circle"
	OpLine   OpKind = "line"
	OpText   OpKind = "text"
)

// Op is one recorded draw call. Unused fields stay zero.
type Op struct {
	Kind           OpKind
	X0, Y0, X1, Y1 float64
	Radius         float64
	Width          float64
	Color          Color
	Alpha          float64
	Glyph          rune
	Font           Font
}

// Recorder is a Context that records draw calls instead of painting.
type Recorder struct {
	w, h int
	Ops  []Op
}

func NewRecorder(w, h int) *Recorder {
	return &Recorder{w: w, h: h}
}

func (r *Recorder) Size() (int, int) { return r.w, r.h }

func (r *Recorder) Resize(w, h int) { r.w, r.h = w, h }

// Reset drops recorded ops.
func (r *Recorder) Reset() { r.Ops = r.Ops[:0] }

// Count returns the number of recorded ops of the given kind.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Filter returns recorded ops of the given kind in order.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

func (r *Recorder) ClearRect(x, y, w, h float64) {
	r.Ops = append(r.Ops, Op{Kind: OpClear, X0: x, Y0: y, X1: x + w, Y1: y + h})
}

func (r *Recorder) FillRect(x, y, w, h float64, c Color, alpha float64) {
	r.Ops = append(r.Ops, Op{Kind: OpRect, X0: x, Y0: y, X1: x + w, Y1: y + h, Color: c, Alpha: alpha})
}

func (r *Recorder) FillCircle(cx, cy, radius float64, c Color, alpha float64) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, X0: cx, Y0: cy, Radius: radius, Color: c, Alpha: alpha})
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1 float64, c Color, alpha, width float64) {
	r.Ops = append(r.Ops, Op{Kind: OpLine, X0: x0, Y0: y0, X1: x1, Y1: y1, Color: c, Alpha: alpha, Width: width})
}

func (r *Recorder) FillText(glyph rune, x, y float64, font Font, c Color, alpha float64) {
	r.Ops = append(r.Ops, Op{Kind: OpText, X0: x, Y0: y, Glyph: glyph, Font: font, Color: c, Alpha: alpha})
}
