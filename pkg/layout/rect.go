package layout

// Rect is an axis-aligned rectangle in diagram units, y growing upward.
type Rect struct {
	Left   float64 `json:"left" yaml:"left"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Top    float64 `json:"top" yaml:"top"`
}

func (r Rect) Width() float64   { return r.Right - r.Left }
func (r Rect) Height() float64  { return r.Top - r.Bottom }
func (r Rect) CenterX() float64 { return (r.Left + r.Right) / 2 }
func (r Rect) CenterY() float64 { return (r.Bottom + r.Top) / 2 }

// IsZero reports whether r has no area.
func (r Rect) IsZero() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Union returns the smallest rectangle containing both r and o.
// A zero rectangle is treated as empty.
func (r Rect) Union(o Rect) Rect {
	if r.IsZero() {
		return o
	}
	if o.IsZero() {
		return r
	}
	return Rect{
		Left:   min(r.Left, o.Left),
		Right:  max(r.Right, o.Right),
		Bottom: min(r.Bottom, o.Bottom),
		Top:    max(r.Top, o.Top),
	}
}

// Inset grows r by d on every side. Negative d shrinks it.
func (r Rect) Inset(d float64) Rect {
	return Rect{Left: r.Left - d, Right: r.Right + d, Bottom: r.Bottom - d, Top: r.Top + d}
}

// Contains reports whether p lies inside r or on its edge.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Bottom && p.Y <= r.Top
}

// Point is a position in diagram units.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }
