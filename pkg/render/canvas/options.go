package canvas

import (
	"image/color"
	"math"

	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/layout"
)

// Raster resolution limits, in dots per inch (one diagram unit).
const (
	DefaultDPI = 200
	MinDPI     = 150
	MaxDPI     = 600
)

// DefaultPadding is the white border around the cropped content, in
// diagram units.
const DefaultPadding = 0.25

// Option configures an exporter.
type Option func(*options)

type options struct {
	padding    float64
	background color.NRGBA
	dpi        float64
	title      string
	embedFonts bool
	coreFonts  bool
}

// WithPadding sets the border kept around the drawn content.
func WithPadding(p float64) Option {
	return func(o *options) { o.padding = max(p, 0) }
}

// WithBackground sets the page color. The default is white.
func WithBackground(c color.NRGBA) Option {
	return func(o *options) { o.background = c }
}

// WithDPI sets the raster resolution, clamped to [MinDPI, MaxDPI].
// Only [RenderPNG] uses it.
func WithDPI(dpi float64) Option {
	return func(o *options) { o.dpi = ClampDPI(dpi) }
}

// ClampDPI limits dpi to [MinDPI, MaxDPI].
func ClampDPI(dpi float64) float64 { return min(max(dpi, MinDPI), MaxDPI) }

// WithTitle sets the document title (SVG <title>, PDF metadata).
func WithTitle(t string) Option {
	return func(o *options) { o.title = t }
}

// WithEmbeddedFonts inlines the Go fonts into SVG output as @font-face rules
// so the drawing looks the same without the fonts installed.
func WithEmbeddedFonts() Option {
	return func(o *options) { o.embedFonts = true }
}

// WithCoreFonts makes PDF output use the built-in Helvetica and Courier
// instead of embedding the Go fonts. Characters outside cp1252 are lost.
func WithCoreFonts() Option {
	return func(o *options) { o.coreFonts = true }
}

func newOptions(opts []Option) options {
	o := options{
		padding:    DefaultPadding,
		background: White,
		dpi:        DefaultDPI,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) frame(s *Scene, scale float64) (frame, error) {
	if s == nil || s.Len() == 0 {
		return frame{}, errors.New(errors.ErrCodeEmptyDiagram, "nothing to draw")
	}
	crop := s.Bounds().Inset(o.padding)
	if crop.IsZero() || math.IsInf(crop.Width(), 0) || math.IsNaN(crop.Width()) {
		return frame{}, errors.New(errors.ErrCodeExport, "degenerate drawing bounds %+v", crop)
	}
	return frame{crop: crop, scale: scale}, nil
}

func anchorFactor(h layout.HAlign) float64 {
	switch h {
	case layout.AlignCenter:
		return 0.5
	case layout.AlignRight:
		return 1
	default:
		return 0
	}
}
