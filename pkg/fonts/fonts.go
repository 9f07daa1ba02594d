// Package fonts provides the embedded Go font family for diagram rendering.
//
// The fonts ship with golang.org/x/image, so every backend (SVG, PNG, PDF)
// draws with the same metrics and no system fonts are required.
package fonts

import (
	"encoding/base64"
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Style selects a face of the family.
type Style int

const (
	Regular Style = iota
	Bold
	Italic
	Mono
)

var styles = [...]Style{Regular, Bold, Italic, Mono}

func (s Style) String() string {
	switch s {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case Mono:
		return "mono"
	default:
		return "regular"
	}
}

// TTF returns the TrueType data for s.
func TTF(s Style) []byte {
	switch s {
	case Bold:
		return gobold.TTF
	case Italic:
		return goitalic.TTF
	case Mono:
		return gomono.TTF
	default:
		return goregular.TTF
	}
}

// Family is the CSS/PDF family name for s.
func Family(s Style) string {
	if s == Mono {
		return MonoFamily
	}
	return FontFamily
}

// FontFamily is the family name of the proportional faces.
const FontFamily = "Go"

// MonoFamily is the family name of the monospace face.
const MonoFamily = "Go Mono"

// FallbackFontFamily lists fallbacks for SVG viewers that ignore @font-face.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// FallbackMonoFamily lists monospace fallbacks.
const FallbackMonoFamily = `'Go Mono', Menlo, Consolas, monospace`

var (
	parsed     [len(styles)]*opentype.Font
	parseErr   [len(styles)]error
	parseOnces [len(styles)]sync.Once
)

func parse(s Style) (*opentype.Font, error) {
	parseOnces[s].Do(func() {
		parsed[s], parseErr[s] = opentype.Parse(TTF(s))
	})
	return parsed[s], parseErr[s]
}

// Face returns a new face for s at size points and 72 dpi.
// Faces are not safe for concurrent use; callers own the returned face.
func Face(s Style, size float64) (font.Face, error) {
	f, err := parse(s)
	if err != nil {
		return nil, fmt.Errorf("parse %s font: %w", s, err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

const measureSize = 100

var measurePools [len(styles)]sync.Pool

// Measure returns the advance width of text set in s at size points.
func Measure(s Style, size float64, text string) float64 {
	if text == "" {
		return 0
	}
	face, _ := measurePools[s].Get().(font.Face)
	if face == nil {
		var err error
		if face, err = Face(s, measureSize); err != nil {
			return float64(len([]rune(text))) * size * 0.55
		}
	}
	defer measurePools[s].Put(face)
	return fixedToFloat(font.MeasureString(face, text)) * size / measureSize
}

// Metrics returns the ascent and descent of s at size points. Both are
// positive distances from the baseline.
func Metrics(s Style, size float64) (ascent, descent float64) {
	face, _ := measurePools[s].Get().(font.Face)
	if face == nil {
		var err error
		if face, err = Face(s, measureSize); err != nil {
			return size * 0.8, size * 0.2
		}
	}
	defer measurePools[s].Put(face)
	m := face.Metrics()
	scale := size / measureSize
	return fixedToFloat(m.Ascent) * scale, fixedToFloat(m.Descent) * scale
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// Cache for base64-encoded fonts (computed once on first access).
var (
	ttfBase64     [len(styles)]string
	ttfBase64Once [len(styles)]sync.Once
)

// TTFBase64 returns the TTF data for s as a base64 string.
// The result is cached after first computation.
func TTFBase64(s Style) string {
	ttfBase64Once[s].Do(func() {
		ttfBase64[s] = base64.StdEncoding.EncodeToString(TTF(s))
	})
	return ttfBase64[s]
}
