package canvas

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"testing"

	ledpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/fonts"
	"github.com/matzehuels/fibersld/pkg/layout"
)

func sampleScene() *Scene {
	s := NewScene()
	green := Hex("#27ae60")
	s.Rect(layout.Rect{Left: 0.6, Right: 1.4, Bottom: 1.25, Top: 1.75}, 0.05, Paint{Fill: White, Stroke: Stroke{Color: Black, Width: 1.5}})
	s.Line(layout.Point{X: 1.4, Y: 1.5}, layout.Point{X: 2.65, Y: 0}, Stroke{Color: Black, Width: 1.5})
	s.Circle(layout.Point{X: 3, Y: 0}, 0.35, Paint{Fill: green})
	s.Line(layout.Point{X: 3, Y: -0.28}, layout.Point{X: 3, Y: 0.28}, Stroke{Color: WithAlpha(White, 0.4), Width: 1})
	s.Text(layout.Anchor{At: layout.Point{X: 3, Y: 0.55}, V: layout.AlignBottom}, []string{"ALMLP157"}, Font{Style: fonts.Bold, Size: 7.5, Color: Black})
	s.Text(layout.Anchor{At: layout.Point{X: 3, Y: -0.75}, V: layout.AlignTop}, []string{"NEAR CHAPEL", "PUROK 3"}, Font{Size: 5, Color: Hex("#555")})
	return s
}

func TestRenderSVGIsWellFormed(t *testing.T) {
	data, err := RenderSVG(sampleScene(), WithTitle("SLD"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
	assert.Contains(t, string(data), "ALMLP157")
	assert.Contains(t, string(data), "<title>SLD</title>")

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
	require.NoError(t, err)

	w, h := 200, 200
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	assert.True(t, hasInk(img), "rasterized SVG should not be blank")
}

func TestRenderSVGEscapesText(t *testing.T) {
	s := NewScene()
	s.Text(layout.Anchor{}, []string{`<script>&"`}, Font{Size: 8, Color: Black})
	data, err := RenderSVG(s)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "<script>")
	assert.Contains(t, string(data), "&lt;script&gt;&amp;")
}

func TestRenderSVGEmbeddedFonts(t *testing.T) {
	data, err := RenderSVG(sampleScene(), WithEmbeddedFonts())
	require.NoError(t, err)
	assert.Contains(t, string(data), "@font-face")
	assert.Contains(t, string(data), fonts.TTFBase64(fonts.Mono)[:32])
}

func TestRenderPNGSizeFollowsDPI(t *testing.T) {
	s := sampleScene()
	crop := s.Bounds().Inset(DefaultPadding)

	for _, dpi := range []float64{150, 200, 300} {
		data, err := RenderPNG(s, WithDPI(dpi))
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, int(math.Ceil(crop.Width()*dpi)), img.Bounds().Dx(), "dpi %v", dpi)
		assert.Equal(t, int(math.Ceil(crop.Height()*dpi)), img.Bounds().Dy(), "dpi %v", dpi)
		assert.True(t, hasInk(img))
		assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, color.NRGBAModel.Convert(img.At(0, 0)))
	}
}

func TestRenderPNGClampsDPI(t *testing.T) {
	s := sampleScene()
	low, err := RenderPNG(s, WithDPI(10))
	require.NoError(t, err)
	floor, err := RenderPNG(s, WithDPI(MinDPI))
	require.NoError(t, err)

	a, _ := png.Decode(bytes.NewReader(low))
	b, _ := png.Decode(bytes.NewReader(floor))
	assert.Equal(t, b.Bounds(), a.Bounds())
}

func TestRenderPDFIsValid(t *testing.T) {
	data, err := RenderPDF(sampleScene(), WithTitle("SLD"))
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, err = api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	require.NoError(t, err)
}

func TestRenderPDFCoreFontsText(t *testing.T) {
	data, err := RenderPDF(sampleScene(), WithCoreFonts())
	require.NoError(t, err)

	r, err := ledpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, 1, r.NumPage())

	text, err := r.GetPlainText()
	require.NoError(t, err)
	content, err := io.ReadAll(text)
	require.NoError(t, err)
	assert.Contains(t, string(content), "ALMLP157")
}

func TestRenderEmptyScene(t *testing.T) {
	renderers := map[string]func(*Scene, ...Option) ([]byte, error){
		"svg": RenderSVG,
		"png": RenderPNG,
		"pdf": RenderPDF,
	}
	for name, render := range renderers {
		t.Run(name, func(t *testing.T) {
			data, err := render(NewScene())
			assert.Nil(t, data)
			assert.True(t, errors.Is(err, errors.ErrCodeEmptyDiagram))

			data, err = render(nil)
			assert.Nil(t, data)
			assert.True(t, errors.Is(err, errors.ErrCodeEmptyDiagram))
		})
	}
}

func hasInk(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			if a > 0 && (r < 0xc000 || g < 0xc000 || bl < 0xc000) {
				return true
			}
		}
	}
	return false
}
