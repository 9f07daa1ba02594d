package canvas

import (
	"github.com/matzehuels/fibersld/pkg/fonts"
	"github.com/matzehuels/fibersld/pkg/layout"
)

type opKind int

const (
	opLine opKind = iota
	opCircle
	opRect
	opGlyphs
)

type op struct {
	kind   opKind
	a, b   layout.Point
	r      float64
	rect   layout.Rect
	stroke Stroke
	paint  Paint
	text   string
	h      layout.HAlign
	font   Font
}

// Scene records drawing operations and their bounding box. The zero value
// is an empty scene ready for use. A Scene is not safe for concurrent use.
type Scene struct {
	ops    []op
	bounds layout.Rect
}

// NewScene returns an empty scene.
func NewScene() *Scene { return &Scene{} }

// Bounds returns the bounding box of everything drawn so far.
func (s *Scene) Bounds() layout.Rect { return s.bounds }

// Len returns the number of recorded primitives.
func (s *Scene) Len() int { return len(s.ops) }

// Texts returns every recorded text line in draw order.
func (s *Scene) Texts() []string {
	var out []string
	for _, o := range s.ops {
		if o.kind == opGlyphs {
			out = append(out, o.text)
		}
	}
	return out
}

func (s *Scene) Line(from, to layout.Point, st Stroke) {
	if st.Width <= 0 || st.Color.A == 0 {
		return
	}
	s.ops = append(s.ops, op{kind: opLine, a: from, b: to, stroke: st})
	half := st.Width / 2 / PointsPerUnit
	s.extend(layout.Rect{
		Left:   min(from.X, to.X) - half,
		Right:  max(from.X, to.X) + half,
		Bottom: min(from.Y, to.Y) - half,
		Top:    max(from.Y, to.Y) + half,
	})
}

func (s *Scene) Circle(c layout.Point, r float64, p Paint) {
	if r <= 0 {
		return
	}
	s.ops = append(s.ops, op{kind: opCircle, a: c, r: r, paint: p})
	reach := r + p.Stroke.Width/2/PointsPerUnit
	s.extend(layout.Rect{Left: c.X - reach, Right: c.X + reach, Bottom: c.Y - reach, Top: c.Y + reach})
}

func (s *Scene) Rect(r layout.Rect, radius float64, p Paint) {
	if r.IsZero() {
		return
	}
	s.ops = append(s.ops, op{kind: opRect, rect: r, r: radius, paint: p})
	s.extend(r.Inset(p.Stroke.Width / 2 / PointsPerUnit))
}

func (s *Scene) Text(a layout.Anchor, lines []string, f Font) {
	if len(lines) == 0 || f.Size <= 0 {
		return
	}
	lh := f.LineHeight()
	ascent, descent := fonts.Metrics(f.Style, f.Size)
	ascent /= PointsPerUnit
	descent /= PointsPerUnit

	blockTop := a.At.Y
	height := ascent + descent + float64(len(lines)-1)*lh
	switch a.V {
	case layout.AlignBottom:
		blockTop = a.At.Y + height
	case layout.AlignMiddle:
		blockTop = a.At.Y + height/2
	}

	for i, line := range lines {
		baseline := blockTop - ascent - float64(i)*lh
		if line == "" {
			continue
		}
		at := layout.Point{X: a.At.X, Y: baseline}
		s.ops = append(s.ops, op{kind: opGlyphs, a: at, h: a.H, text: line, font: f})

		w := fonts.Measure(f.Style, f.Size, line) / PointsPerUnit
		left := at.X
		switch a.H {
		case layout.AlignCenter:
			left -= w / 2
		case layout.AlignRight:
			left -= w
		}
		s.extend(layout.Rect{Left: left, Right: left + w, Bottom: baseline - descent, Top: baseline + ascent})
	}
}

// Replay draws every recorded operation onto dst in order.
func (s *Scene) Replay(dst Surface) {
	for _, o := range s.ops {
		switch o.kind {
		case opLine:
			dst.Line(o.a, o.b, o.stroke)
		case opCircle:
			dst.Circle(o.a, o.r, o.paint)
		case opRect:
			dst.Rect(o.rect, o.r, o.paint)
		case opGlyphs:
			dst.Glyphs(o.a, o.h, o.text, o.font)
		}
	}
}

func (s *Scene) extend(r layout.Rect) {
	if len(s.ops) == 1 {
		s.bounds = r
		return
	}
	s.bounds = layout.Rect{
		Left:   min(s.bounds.Left, r.Left),
		Right:  max(s.bounds.Right, r.Right),
		Bottom: min(s.bounds.Bottom, r.Bottom),
		Top:    max(s.bounds.Top, r.Top),
	}
}
