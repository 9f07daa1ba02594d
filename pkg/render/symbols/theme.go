package symbols

import (
	"image/color"
	"slices"

	"github.com/samber/lo"

	"github.com/matzehuels/fibersld/pkg/render/canvas"
)

// Theme holds everything about a diagram's look that is not geometry.
type Theme struct {
	Name string

	LCPColor   color.NRGBA
	NAPColor   color.NRGBA
	LineColor  color.NRGBA
	TextColor  color.NRGBA
	SpanColor  color.NRGBA
	MutedColor color.NRGBA
	NoteColor  color.NRGBA

	FeederWidth   float64
	BackboneWidth float64
	TickWidth     float64
	ClosureWidth  float64

	Sizes FontSizes

	// LCPLandmark and NAPLandmark bound the landmark text under a symbol.
	LCPLandmark WrapLimit
	NAPLandmark WrapLimit
	// MaxLabel truncates single-line labels such as ids and co-locators.
	MaxLabel int
	// Hatch draws the faint horizontal lines across NAP symbols.
	Hatch bool
}

// FontSizes are in points.
type FontSizes struct {
	LCPGlyph     float64
	NAPGlyph     float64
	LCPID        float64
	NAPID        float64
	LCPFibers    float64
	NAPFibers    float64
	LCPSpan      float64
	NAPSpan      float64
	LCPCoLocator float64
	NAPCoLocator float64
	LCPLandmark  float64
	NAPLandmark  float64
	Feeder       float64
	Annotation   float64
	Title        float64
	Coordinates  float64
	Legend       float64
	Footer       float64
}

// WrapLimit truncates text to Max runes and breaks it every Chunk runes.
type WrapLimit struct {
	Max   int
	Chunk int
}

// Wrap applies the limit to s.
func (w WrapLimit) Wrap(s string) []string { return Wrap(s, w.Max, w.Chunk) }

// PLDT is the standard PLDT fixed-access drawing style.
func PLDT() Theme {
	return Theme{
		Name:       "pldt",
		LCPColor:   canvas.Hex("#27ae60"),
		NAPColor:   canvas.Hex("#c0392b"),
		LineColor:  canvas.Black,
		TextColor:  canvas.Black,
		SpanColor:  canvas.Hex("#333333"),
		MutedColor: canvas.Hex("#555555"),
		NoteColor:  canvas.Hex("#888888"),

		FeederWidth:   1.5,
		BackboneWidth: 1.5,
		TickWidth:     1.2,
		ClosureWidth:  1.5,

		Sizes: FontSizes{
			LCPGlyph:     7,
			NAPGlyph:     6,
			LCPID:        7.5,
			NAPID:        6,
			LCPFibers:    5.5,
			NAPFibers:    5,
			LCPSpan:      7,
			NAPSpan:      6.5,
			LCPCoLocator: 7,
			NAPCoLocator: 6.5,
			LCPLandmark:  5,
			NAPLandmark:  4.5,
			Feeder:       9,
			Annotation:   6.5,
			Title:        16,
			Coordinates:  8,
			Legend:       8,
			Footer:       7,
		},

		LCPLandmark: WrapLimit{Max: 60, Chunk: 20},
		NAPLandmark: WrapLimit{Max: 54, Chunk: 18},
		MaxLabel:    40,
		Hatch:       true,
	}
}

// Compact shrinks text for dense plans and drops the NAP hatching.
func Compact() Theme {
	t := PLDT()
	t.Name = "compact"
	t.Sizes = t.Sizes.scaled(0.85)
	t.FeederWidth, t.BackboneWidth, t.TickWidth = 1.2, 1.2, 1.0
	t.LCPLandmark = WrapLimit{Max: 48, Chunk: 16}
	t.NAPLandmark = WrapLimit{Max: 42, Chunk: 14}
	t.MaxLabel = 28
	t.Hatch = false
	return t
}

// Wide enlarges text for plans printed on large sheets.
func Wide() Theme {
	t := PLDT()
	t.Name = "wide"
	t.Sizes = t.Sizes.scaled(1.2)
	t.LCPLandmark = WrapLimit{Max: 72, Chunk: 24}
	t.NAPLandmark = WrapLimit{Max: 66, Chunk: 22}
	t.MaxLabel = 48
	return t
}

var themes = map[string]func() Theme{
	"pldt":    PLDT,
	"compact": Compact,
	"wide":    Wide,
}

// ThemeByName returns the named preset.
func ThemeByName(name string) (Theme, bool) {
	fn, ok := themes[name]
	if !ok {
		return Theme{}, false
	}
	return fn(), true
}

// ThemeNames lists the presets in sorted order.
func ThemeNames() []string {
	names := lo.Keys(themes)
	slices.Sort(names)
	return names
}

func (s FontSizes) scaled(f float64) FontSizes {
	return FontSizes{
		LCPGlyph:     s.LCPGlyph * f,
		NAPGlyph:     s.NAPGlyph * f,
		LCPID:        s.LCPID * f,
		NAPID:        s.NAPID * f,
		LCPFibers:    s.LCPFibers * f,
		NAPFibers:    s.NAPFibers * f,
		LCPSpan:      s.LCPSpan * f,
		NAPSpan:      s.NAPSpan * f,
		LCPCoLocator: s.LCPCoLocator * f,
		NAPCoLocator: s.NAPCoLocator * f,
		LCPLandmark:  s.LCPLandmark * f,
		NAPLandmark:  s.NAPLandmark * f,
		Feeder:       s.Feeder * f,
		Annotation:   s.Annotation * f,
		Title:        s.Title * f,
		Coordinates:  s.Coordinates * f,
		Legend:       s.Legend * f,
		Footer:       s.Footer * f,
	}
}
