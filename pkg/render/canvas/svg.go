package canvas

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/fibersld/pkg/fonts"
	"github.com/matzehuels/fibersld/pkg/layout"
)

// svgo works in integer user units; ten per point keeps 0.1pt precision.
const svgUnitsPerPoint = 10

// RenderSVG replays s as an SVG document.
func RenderSVG(s *Scene, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	f, err := o.frame(s, PointsPerUnit*svgUnitsPerPoint)
	if err != nil {
		return nil, err
	}

	vw, vh := int(math.Ceil(f.width())), int(math.Ceil(f.height()))
	var buf bytes.Buffer
	c := svg.New(&buf)
	c.Startview(int(math.Ceil(f.width()/svgUnitsPerPoint)), int(math.Ceil(f.height()/svgUnitsPerPoint)), 0, 0, vw, vh)
	if o.title != "" {
		c.Title(o.title)
	}
	if o.embedFonts {
		c.Style("text/css", fontFaceCSS())
	}
	c.Rect(0, 0, vw, vh, "fill:"+cssColor(o.background)+fillOpacity(o.background.A))

	s.Replay(&svgSurface{c: c, f: f})
	c.End()
	return buf.Bytes(), nil
}

type svgSurface struct {
	c *svg.SVG
	f frame
}

func (s *svgSurface) Line(from, to layout.Point, st Stroke) {
	s.c.Line(s.ix(from.X), s.iy(from.Y), s.ix(to.X), s.iy(to.Y),
		strokeStyle(st, s.f)+";stroke-linecap:round")
}

func (s *svgSurface) Circle(c layout.Point, r float64, p Paint) {
	s.c.Circle(s.ix(c.X), s.iy(c.Y), round(s.f.d(r)), paintStyle(p, s.f))
}

func (s *svgSurface) Rect(r layout.Rect, radius float64, p Paint) {
	x, y := s.ix(r.Left), s.iy(r.Top)
	w, h := round(s.f.d(r.Width())), round(s.f.d(r.Height()))
	if radius > 0 {
		rr := round(s.f.d(radius))
		s.c.Roundrect(x, y, w, h, rr, rr, paintStyle(p, s.f))
		return
	}
	s.c.Rect(x, y, w, h, paintStyle(p, s.f))
}

func (s *svgSurface) Glyphs(at layout.Point, h layout.HAlign, text string, f Font) {
	var style strings.Builder
	family := fonts.FallbackFontFamily
	if f.Style == fonts.Mono {
		family = fonts.FallbackMonoFamily
	}
	fmt.Fprintf(&style, "font-family:%s;font-size:%.0fpx;fill:%s", family, s.f.pt(f.Size), cssColor(f.Color))
	style.WriteString(fillOpacity(f.Color.A))
	switch f.Style {
	case fonts.Bold:
		style.WriteString(";font-weight:bold")
	case fonts.Italic:
		style.WriteString(";font-style:italic")
	}
	switch h {
	case layout.AlignCenter:
		style.WriteString(";text-anchor:middle")
	case layout.AlignRight:
		style.WriteString(";text-anchor:end")
	}
	s.c.Text(s.ix(at.X), s.iy(at.Y), text, style.String())
}

func (s *svgSurface) ix(v float64) int { return round(s.f.x(v)) }
func (s *svgSurface) iy(v float64) int { return round(s.f.y(v)) }

func strokeStyle(st Stroke, f frame) string {
	if st.Width <= 0 || st.Color.A == 0 {
		return "stroke:none"
	}
	out := fmt.Sprintf("stroke:%s;stroke-width:%.1f", cssColor(st.Color), f.pt(st.Width))
	if st.Color.A < 0xff {
		out += fmt.Sprintf(";stroke-opacity:%.2f", opacity(st.Color))
	}
	return out
}

func paintStyle(p Paint, f frame) string {
	fill := "fill:none"
	if p.Fill.A > 0 {
		fill = "fill:" + cssColor(p.Fill) + fillOpacity(p.Fill.A)
	}
	return fill + ";" + strokeStyle(p.Stroke, f)
}

func fillOpacity(a uint8) string {
	if a == 0xff {
		return ""
	}
	return fmt.Sprintf(";fill-opacity:%.2f", float64(a)/255)
}

func fontFaceCSS() string {
	var b strings.Builder
	face := func(family string, s fonts.Style, weight, style string) {
		fmt.Fprintf(&b, "@font-face{font-family:'%s';font-weight:%s;font-style:%s;src:url(data:font/ttf;base64,%s) format('truetype');}\n",
			family, weight, style, fonts.TTFBase64(s))
	}
	face(fonts.FontFamily, fonts.Regular, "normal", "normal")
	face(fonts.FontFamily, fonts.Bold, "bold", "normal")
	face(fonts.FontFamily, fonts.Italic, "normal", "italic")
	face(fonts.MonoFamily, fonts.Mono, "normal", "normal")
	return b.String()
}

func round(v float64) int { return int(math.Round(v)) }
