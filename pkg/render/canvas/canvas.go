package canvas

import (
	"image/color"

	"github.com/matzehuels/fibersld/pkg/fonts"
	"github.com/matzehuels/fibersld/pkg/layout"
)

// PointsPerUnit converts diagram units to PostScript points.
const PointsPerUnit = 72

// Stroke describes a line. Width is in points; zero means no stroke.
type Stroke struct {
	Color color.NRGBA
	Width float64
}

// Paint describes a closed shape. A fill with zero alpha is not painted.
type Paint struct {
	Fill   color.NRGBA
	Stroke Stroke
}

// Font describes text. Size is in points.
type Font struct {
	Style fonts.Style
	Size  float64
	Color color.NRGBA
}

// LineHeight is the distance between baselines of consecutive lines, in
// diagram units.
func (f Font) LineHeight() float64 { return f.Size * 1.2 / PointsPerUnit }

// Canvas is what symbols and decorations draw onto.
type Canvas interface {
	Line(from, to layout.Point, s Stroke)
	Circle(center layout.Point, r float64, p Paint)
	// Rect draws r with corner radius radius (zero for square corners).
	Rect(r layout.Rect, radius float64, p Paint)
	// Text draws lines as one block positioned by a. Empty lines still take
	// up a line of height; a nil or empty slice draws nothing.
	Text(a layout.Anchor, lines []string, f Font)
}

// Surface is an output backend. Coordinates are diagram units; the surface
// maps them onto its own page.
type Surface interface {
	Line(from, to layout.Point, s Stroke)
	Circle(center layout.Point, r float64, p Paint)
	Rect(r layout.Rect, radius float64, p Paint)
	// Glyphs draws a single line of text with its baseline at at.Y. h says
	// whether at.X is the left edge, center or right edge of the text.
	Glyphs(at layout.Point, h layout.HAlign, text string, f Font)
}

// frame maps diagram units onto a page with y growing downward.
type frame struct {
	crop  layout.Rect
	scale float64
}

func (f frame) x(v float64) float64 { return (v - f.crop.Left) * f.scale }
func (f frame) y(v float64) float64 { return (f.crop.Top - v) * f.scale }
func (f frame) d(v float64) float64 { return v * f.scale }

// pt converts a length in points into page units.
func (f frame) pt(v float64) float64 { return v / PointsPerUnit * f.scale }

func (f frame) width() float64  { return f.crop.Width() * f.scale }
func (f frame) height() float64 { return f.crop.Height() * f.scale }
