package canvas

import (
	"bytes"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/fonts"
	"github.com/matzehuels/fibersld/pkg/layout"
)

// gofpdf folds family names to lower case; these avoid spaces altogether.
const (
	pdfFamily     = "go"
	pdfMonoFamily = "gomono"
)

// RenderPDF replays s as a single-page vector PDF sized to the drawing.
func RenderPDF(s *Scene, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	f, err := o.frame(s, PointsPerUnit)
	if err != nil {
		return nil, err
	}

	size := gofpdf.SizeType{Wd: f.width(), Ht: f.height()}
	pdf := gofpdf.NewCustom(&gofpdf.InitType{OrientationStr: "P", UnitStr: "pt", Size: size})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("fibersld", true)
	if o.title != "" {
		pdf.SetTitle(o.title, true)
	}

	surf := &pdfSurface{pdf: pdf, f: f, core: o.coreFonts}
	if o.coreFonts {
		surf.tr = pdf.UnicodeTranslatorFromDescriptor("")
	} else {
		pdf.AddUTF8FontFromBytes(pdfFamily, "", fonts.TTF(fonts.Regular))
		pdf.AddUTF8FontFromBytes(pdfFamily, "B", fonts.TTF(fonts.Bold))
		pdf.AddUTF8FontFromBytes(pdfFamily, "I", fonts.TTF(fonts.Italic))
		pdf.AddUTF8FontFromBytes(pdfMonoFamily, "", fonts.TTF(fonts.Mono))
	}

	pdf.AddPage()
	pdf.SetFillColor(int(o.background.R), int(o.background.G), int(o.background.B))
	pdf.Rect(0, 0, size.Wd, size.Ht, "F")
	s.Replay(surf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExport, err, "write pdf")
	}
	return buf.Bytes(), nil
}

type pdfSurface struct {
	pdf  *gofpdf.Fpdf
	f    frame
	core bool
	tr   func(string) string
}

func (p *pdfSurface) Line(from, to layout.Point, st Stroke) {
	p.alpha(st.Color.A)
	p.pdf.SetDrawColor(int(st.Color.R), int(st.Color.G), int(st.Color.B))
	p.pdf.SetLineWidth(st.Width)
	p.pdf.SetLineCapStyle("round")
	p.pdf.Line(p.f.x(from.X), p.f.y(from.Y), p.f.x(to.X), p.f.y(to.Y))
	p.alpha(0xff)
}

func (p *pdfSurface) Circle(c layout.Point, r float64, paint Paint) {
	style := p.paint(paint)
	if style == "" {
		return
	}
	p.pdf.Circle(p.f.x(c.X), p.f.y(c.Y), p.f.d(r), style)
	p.alpha(0xff)
}

func (p *pdfSurface) Rect(r layout.Rect, radius float64, paint Paint) {
	style := p.paint(paint)
	if style == "" {
		return
	}
	x, y := p.f.x(r.Left), p.f.y(r.Top)
	w, h := p.f.d(r.Width()), p.f.d(r.Height())
	if radius > 0 {
		p.pdf.RoundedRect(x, y, w, h, p.f.d(radius), "1234", style)
	} else {
		p.pdf.Rect(x, y, w, h, style)
	}
	p.alpha(0xff)
}

func (p *pdfSurface) Glyphs(at layout.Point, h layout.HAlign, text string, f Font) {
	family, style := p.font(f.Style)
	if p.tr != nil {
		text = p.tr(text)
	}
	p.pdf.SetFont(family, style, f.Size)
	p.pdf.SetTextColor(int(f.Color.R), int(f.Color.G), int(f.Color.B))
	p.alpha(f.Color.A)
	x := p.f.x(at.X) - anchorFactor(h)*p.pdf.GetStringWidth(text)
	p.pdf.Text(x, p.f.y(at.Y), text)
	p.alpha(0xff)
}

// paint sets colors for a closed shape and returns the gofpdf style string,
// or "" when there is nothing to paint. Alpha follows the fill when present.
func (p *pdfSurface) paint(paint Paint) string {
	var style strings.Builder
	if paint.Fill.A > 0 {
		p.pdf.SetFillColor(int(paint.Fill.R), int(paint.Fill.G), int(paint.Fill.B))
		p.alpha(paint.Fill.A)
		style.WriteString("F")
	}
	if paint.Stroke.Width > 0 && paint.Stroke.Color.A > 0 {
		c := paint.Stroke.Color
		p.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
		p.pdf.SetLineWidth(paint.Stroke.Width)
		if paint.Fill.A == 0 {
			p.alpha(c.A)
		}
		style.WriteString("D")
	}
	return style.String()
}

func (p *pdfSurface) font(s fonts.Style) (family, style string) {
	if p.core {
		switch s {
		case fonts.Mono:
			return "Courier", ""
		case fonts.Bold:
			return "Helvetica", "B"
		case fonts.Italic:
			return "Helvetica", "I"
		default:
			return "Helvetica", ""
		}
	}
	switch s {
	case fonts.Mono:
		return pdfMonoFamily, ""
	case fonts.Bold:
		return pdfFamily, "B"
	case fonts.Italic:
		return pdfFamily, "I"
	default:
		return pdfFamily, ""
	}
}

func (p *pdfSurface) alpha(a uint8) {
	p.pdf.SetAlpha(float64(a)/255, "Normal")
}
