package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/fibersld/pkg/fonts"
	"github.com/matzehuels/fibersld/pkg/layout"
)

type call struct {
	kind string
	text string
	at   layout.Point
	h    layout.HAlign
}

type recordingSurface struct{ calls []call }

func (r *recordingSurface) Line(from, _ layout.Point, _ Stroke) {
	r.calls = append(r.calls, call{kind: "line", at: from})
}
func (r *recordingSurface) Circle(c layout.Point, _ float64, _ Paint) {
	r.calls = append(r.calls, call{kind: "circle", at: c})
}
func (r *recordingSurface) Rect(rect layout.Rect, _ float64, _ Paint) {
	r.calls = append(r.calls, call{kind: "rect", at: layout.Point{X: rect.Left, Y: rect.Top}})
}
func (r *recordingSurface) Glyphs(at layout.Point, h layout.HAlign, text string, _ Font) {
	r.calls = append(r.calls, call{kind: "glyphs", text: text, at: at, h: h})
}

var black1 = Stroke{Color: Black, Width: 1}

func TestSceneBoundsTrackEveryPrimitive(t *testing.T) {
	s := NewScene()
	s.Line(layout.Point{X: 0, Y: 0}, layout.Point{X: 4, Y: 0}, black1)
	s.Circle(layout.Point{X: 6, Y: 1}, 0.5, Paint{Fill: Black})
	s.Rect(layout.Rect{Left: -2, Right: -1, Bottom: -3, Top: -2}, 0.1, Paint{Stroke: black1})

	b := s.Bounds()
	assert.InDelta(t, -2-0.5/72, b.Left, 1e-9)
	assert.InDelta(t, 6.5, b.Right, 1e-9)
	assert.InDelta(t, 1.5, b.Top, 1e-9)
	assert.InDelta(t, -3-0.5/72, b.Bottom, 1e-9)
	assert.Equal(t, 3, s.Len())
}

func TestSceneSkipsInvisiblePrimitives(t *testing.T) {
	s := NewScene()
	s.Line(layout.Point{}, layout.Point{X: 1}, Stroke{Color: Black})
	s.Circle(layout.Point{}, 0, Paint{Fill: Black})
	s.Rect(layout.Rect{}, 0, Paint{Fill: Black})
	s.Text(layout.Anchor{}, nil, Font{Size: 10})
	assert.Zero(t, s.Len())
	assert.True(t, s.Bounds().IsZero())
}

func TestSceneTextAnchors(t *testing.T) {
	f := Font{Style: fonts.Regular, Size: 10, Color: Black}
	ascent, _ := fonts.Metrics(fonts.Regular, 10)

	tests := []struct {
		name   string
		v      layout.VAlign
		lines  []string
		firstY float64
	}{
		{"top", layout.AlignTop, []string{"A"}, -ascent / 72},
		{"bottom single line", layout.AlignBottom, []string{"A"}, bottomBaseline(f, 1)},
		{"top multi line", layout.AlignTop, []string{"A", "B", "C"}, -ascent / 72},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScene()
			s.Text(layout.Anchor{V: tt.v}, tt.lines, f)

			var out recordingSurface
			s.Replay(&out)
			require.Len(t, out.calls, len(tt.lines))
			assert.InDelta(t, tt.firstY, out.calls[0].at.Y, 1e-9)
			for i := 1; i < len(out.calls); i++ {
				assert.InDelta(t, f.LineHeight(), out.calls[i-1].at.Y-out.calls[i].at.Y, 1e-9)
			}
		})
	}
}

func bottomBaseline(f Font, lines int) float64 {
	ascent, descent := fonts.Metrics(f.Style, f.Size)
	height := (ascent+descent)/72 + float64(lines-1)*f.LineHeight()
	return height - ascent/72
}

func TestSceneTextEmptyLinesKeepSpacing(t *testing.T) {
	f := Font{Size: 10, Color: Black}
	s := NewScene()
	s.Text(layout.Anchor{V: layout.AlignTop}, []string{"FIRST", "", "THIRD"}, f)

	var out recordingSurface
	s.Replay(&out)
	require.Len(t, out.calls, 2)
	assert.Equal(t, []string{"FIRST", "THIRD"}, s.Texts())
	assert.InDelta(t, 2*f.LineHeight(), out.calls[0].at.Y-out.calls[1].at.Y, 1e-9)
}

func TestSceneTextBoundsFollowAlignment(t *testing.T) {
	f := Font{Size: 12, Color: Black}
	left, center := NewScene(), NewScene()
	left.Text(layout.Anchor{H: layout.AlignLeft}, []string{"ALMLP157"}, f)
	center.Text(layout.Anchor{H: layout.AlignCenter}, []string{"ALMLP157"}, f)

	assert.InDelta(t, 0, left.Bounds().Left, 1e-9)
	assert.InDelta(t, 0, center.Bounds().CenterX(), 1e-9)
	assert.InDelta(t, left.Bounds().Width(), center.Bounds().Width(), 1e-9)
}

func TestReplayPreservesOrder(t *testing.T) {
	s := NewScene()
	s.Rect(layout.Rect{Left: 0, Right: 1, Bottom: 0, Top: 1}, 0, Paint{Fill: White})
	s.Line(layout.Point{}, layout.Point{X: 1, Y: 1}, black1)
	s.Circle(layout.Point{X: 2}, 0.3, Paint{Fill: Black})
	s.Text(layout.Anchor{}, []string{"X"}, Font{Size: 8, Color: Black})

	var out recordingSurface
	s.Replay(&out)
	kinds := make([]string, len(out.calls))
	for i, c := range out.calls {
		kinds[i] = c.kind
	}
	assert.Equal(t, []string{"rect", "line", "circle", "glyphs"}, kinds)
}

func TestHex(t *testing.T) {
	assert.Equal(t, uint8(0x27), Hex("#27ae60").R)
	assert.Equal(t, uint8(0xae), Hex("#27ae60").G)
	assert.Equal(t, uint8(0x60), Hex("#27ae60").B)
	assert.Equal(t, Hex("#333333"), Hex("#333"))
	assert.Equal(t, Black, Hex("not a color"))

	_, err := ParseHex("#12345")
	assert.Error(t, err)
	assert.Equal(t, uint8(102), WithAlpha(White, 0.4).A)
}
