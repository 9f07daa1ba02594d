package canvas

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/fonts"
	"github.com/matzehuels/fibersld/pkg/layout"
)

// maxRasterPixels bounds the image size of a single PNG export.
const maxRasterPixels = 120_000_000

// RenderPNG rasterizes s at the configured resolution (see [WithDPI]).
func RenderPNG(s *Scene, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	f, err := o.frame(s, o.dpi)
	if err != nil {
		return nil, err
	}

	w, h := int(math.Ceil(f.width())), int(math.Ceil(f.height()))
	if w*h > maxRasterPixels {
		return nil, errors.New(errors.ErrCodeExport, "image of %dx%d pixels at %.0f dpi is too large", w, h, o.dpi)
	}

	dc := gg.NewContext(w, h)
	dc.SetColor(o.background)
	dc.Clear()

	surf := &rasterSurface{dc: dc, f: f, faces: make(map[faceKey]font.Face)}
	defer surf.close()
	s.Replay(surf)
	if surf.err != nil {
		return nil, errors.Wrap(errors.ErrCodeExport, surf.err, "load font")
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExport, err, "encode png")
	}
	return buf.Bytes(), nil
}

type faceKey struct {
	style fonts.Style
	size  float64
}

type rasterSurface struct {
	dc    *gg.Context
	f     frame
	faces map[faceKey]font.Face
	err   error
}

func (r *rasterSurface) Line(from, to layout.Point, st Stroke) {
	r.dc.SetLineCapRound()
	r.dc.DrawLine(r.f.x(from.X), r.f.y(from.Y), r.f.x(to.X), r.f.y(to.Y))
	r.dc.SetColor(st.Color)
	r.dc.SetLineWidth(r.f.pt(st.Width))
	r.dc.Stroke()
}

func (r *rasterSurface) Circle(c layout.Point, radius float64, p Paint) {
	r.dc.DrawCircle(r.f.x(c.X), r.f.y(c.Y), r.f.d(radius))
	r.paint(p)
}

func (r *rasterSurface) Rect(rect layout.Rect, radius float64, p Paint) {
	x, y := r.f.x(rect.Left), r.f.y(rect.Top)
	w, h := r.f.d(rect.Width()), r.f.d(rect.Height())
	if radius > 0 {
		r.dc.DrawRoundedRectangle(x, y, w, h, r.f.d(radius))
	} else {
		r.dc.DrawRectangle(x, y, w, h)
	}
	r.paint(p)
}

func (r *rasterSurface) Glyphs(at layout.Point, h layout.HAlign, text string, f Font) {
	face, err := r.face(f.Style, r.f.pt(f.Size))
	if err != nil {
		r.err = err
		return
	}
	r.dc.SetFontFace(face)
	r.dc.SetColor(f.Color)
	r.dc.DrawStringAnchored(text, r.f.x(at.X), r.f.y(at.Y), anchorFactor(h), 0)
}

func (r *rasterSurface) paint(p Paint) {
	fill := p.Fill.A > 0
	stroke := p.Stroke.Width > 0 && p.Stroke.Color.A > 0
	if fill {
		r.dc.SetColor(p.Fill)
		if stroke {
			r.dc.FillPreserve()
		} else {
			r.dc.Fill()
		}
	}
	if stroke {
		r.dc.SetColor(p.Stroke.Color)
		r.dc.SetLineWidth(r.f.pt(p.Stroke.Width))
		r.dc.Stroke()
	}
	if !fill && !stroke {
		r.dc.ClearPath()
	}
}

func (r *rasterSurface) face(s fonts.Style, px float64) (font.Face, error) {
	key := faceKey{style: s, size: px}
	if face, ok := r.faces[key]; ok {
		return face, nil
	}
	face, err := fonts.Face(s, px)
	if err != nil {
		return nil, err
	}
	r.faces[key] = face
	return face, nil
}

func (r *rasterSurface) close() {
	for _, face := range r.faces {
		face.Close()
	}
}
