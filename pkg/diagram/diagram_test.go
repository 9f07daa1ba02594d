package diagram

import (
	"bytes"
	"image/png"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/layout"
	"github.com/matzehuels/fibersld/pkg/render/canvas"
	"github.com/matzehuels/fibersld/pkg/topology"
)

const sampleJSON = `{
  "project_name": "ALABANG FTTH",
  "lat": "14.4231",
  "long": "121.0437",
  "feeder_cable": "72F",
  "feeder_length": "1.2KM",
  "lcps": [{
    "id": "ALMLP157",
    "span_from_prev": "350m",
    "fibers_used": "F1-F8",
    "co_locator": "SMART",
    "landmark": "NEAR BRGY HALL",
    "naps": [
      {"id": "ALMLP157NP1", "span": "120m", "fibers_used": "F1", "co_locator": "PLDT", "landmark": "CHAPEL"},
      {"id": "ALMLP157NP2", "span": "85m", "fibers_used": "F2"}
    ]
  }]
}`

func sample(t *testing.T) *topology.Topology {
	t.Helper()
	topo, err := topology.Parse([]byte(sampleJSON))
	require.NoError(t, err)
	return topo
}

func TestComposeSingleLCP(t *testing.T) {
	d, err := Compose(sample(t), DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, d)

	np1, ok := d.Plan.Position(layout.Key{LCP: "ALMLP157", NAP: "ALMLP157NP1"})
	require.True(t, ok)
	np2, _ := d.Plan.Position(layout.Key{LCP: "ALMLP157", NAP: "ALMLP157NP2"})
	lcp, _ := d.Plan.Position(layout.Key{LCP: "ALMLP157"})
	assert.Greater(t, np1.X, lcp.X)
	assert.InDelta(t, layout.DefaultNAPSpacing, np2.X-np1.X, 1e-9)
	assert.Equal(t, lcp.Y, np1.Y)

	texts := d.Scene.Texts()
	for _, want := range append([]string{"ALABANG FTTH", "LAT: 14.4231", "LONG: 121.0437", DefaultFooter}, LegendEntries...) {
		assert.Contains(t, texts, want)
	}

	for _, f := range Formats {
		data, err := Export(d, f)
		require.NoError(t, err, f)
		assert.NotEmpty(t, data, f)
	}
}

func TestComposeMatchesLayoutSpacing(t *testing.T) {
	topo := &topology.Topology{LCPs: []topology.LCP{
		{ID: "A", NAPs: []topology.NAP{{ID: "A1"}}},
		{ID: "B", NAPs: []topology.NAP{{ID: "B1"}}},
	}}
	cfg := DefaultConfig()
	cfg.Layout.ColumnGutter = 0
	cfg.Layout.Margin = 0

	plan, err := layout.Compute(topo, cfg.Layout)
	require.NoError(t, err)
	d, err := Compose(topo, cfg)
	require.NoError(t, err)

	want, _ := plan.Position(layout.Key{LCP: "B"})
	got, _ := d.Plan.Position(layout.Key{LCP: "B"})
	assert.InDelta(t, 6.2, want.X, 1e-9)
	assert.Equal(t, want, got)
	assert.Equal(t, plan.Bounds, d.Plan.Bounds)
}

func TestComposeZeroConfig(t *testing.T) {
	d, err := Compose(sample(t), Config{})
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, DefaultFooter, d.Config.Footer)
	assert.Contains(t, d.Scene.Texts(), DefaultFooter)
	assert.Equal(t, layout.DefaultConfig(), d.Plan.Config)
}

func TestComposeRowWrap(t *testing.T) {
	topo := &topology.Topology{}
	for _, id := range []string{"L1", "L2", "L3", "L4"} {
		topo.LCPs = append(topo.LCPs, topology.LCP{ID: id, NAPs: []topology.NAP{{ID: id + "NP1"}}})
	}
	d, err := Compose(topo, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, d.Plan.Rows)
	l1, _ := d.Plan.Position(layout.Key{LCP: "L1"})
	l4, _ := d.Plan.Position(layout.Key{LCP: "L4"})
	assert.Equal(t, l1.X, l4.X)
	assert.InDelta(t, layout.DefaultRowHeight, l1.Y-l4.Y, 1e-9)
}

func TestComposeEmpty(t *testing.T) {
	topo, err := topology.Parse([]byte(`{"project_name": "EMPTY", "lcps": []}`))
	require.NoError(t, err)

	d, err := Compose(topo, DefaultConfig())
	require.NoError(t, err)
	assert.Nil(t, d)

	for _, f := range Formats {
		data, err := Export(d, f)
		assert.Nil(t, data)
		assert.True(t, errors.Is(err, errors.ErrCodeEmptyDiagram), "%s: %v", f, err)
	}
}

func TestComposeLCPWithoutNAPs(t *testing.T) {
	topo := &topology.Topology{LCPs: []topology.LCP{{ID: "L1"}}}
	d, err := Compose(topo, DefaultConfig())
	require.NoError(t, err)

	assert.Empty(t, d.Plan.ConnectorsOf(layout.Backbone))
	assert.Empty(t, d.Plan.LCPs[0].NAPs)
	_, err = Export(d, PNG)
	require.NoError(t, err)
}

func TestComposeLongLandmark(t *testing.T) {
	long := strings.Repeat("0123456789", 10)
	topo := &topology.Topology{LCPs: []topology.LCP{{ID: "L1", Landmark: long}}}
	d, err := Compose(topo, DefaultConfig())
	require.NoError(t, err)

	texts := d.Scene.Texts()
	for _, want := range []string{long[0:20], long[20:40], long[40:60]} {
		assert.Contains(t, texts, want)
	}
	for _, s := range texts {
		assert.NotContains(t, s, long[:21])
	}
	assert.Equal(t, long, topo.LCPs[0].Landmark, "input must not change")
}

func TestComposeMissingID(t *testing.T) {
	topo := &topology.Topology{LCPs: []topology.LCP{{ID: "L1", NAPs: []topology.NAP{{ID: ""}}}}}
	d, err := Compose(topo, DefaultConfig())
	assert.Nil(t, d)
	assert.True(t, errors.Is(err, errors.ErrCodeMissingID))
}

func TestComposeDefaultTitle(t *testing.T) {
	d, err := Compose(&topology.Topology{LCPs: []topology.LCP{{ID: "L1"}}}, Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultProjectName, d.Title())
	assert.Contains(t, d.Scene.Texts(), DefaultProjectName)
	assert.Equal(t, "pldt", d.Config.Theme.Name)
}

func TestExportUnknownFormat(t *testing.T) {
	d, err := Compose(sample(t), DefaultConfig())
	require.NoError(t, err)

	data, err := Export(d, Format("bmp"))
	assert.Nil(t, data)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestExportPNGIsTightlyCropped(t *testing.T) {
	d, err := Compose(sample(t), DefaultConfig())
	require.NoError(t, err)

	data, err := Export(d, PNG)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	crop := d.Scene.Bounds().Inset(canvas.DefaultPadding)
	assert.Equal(t, int(math.Ceil(crop.Width()*canvas.DefaultDPI)), img.Bounds().Dx())
	assert.Equal(t, int(math.Ceil(crop.Height()*canvas.DefaultDPI)), img.Bounds().Dy())
}

func TestExportPNGMinimumDPI(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DPI = 72
	d, err := Compose(sample(t), cfg)
	require.NoError(t, err)

	data, err := Export(d, PNG)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)

	crop := d.Scene.Bounds().Inset(canvas.DefaultPadding)
	assert.Equal(t, int(math.Ceil(crop.Width()*canvas.MinDPI)), img.Bounds().Dx())
}

func TestExportPDFIsReadable(t *testing.T) {
	d, err := Compose(sample(t), DefaultConfig())
	require.NoError(t, err)

	data, err := Export(d, PDF)
	require.NoError(t, err)
	_, err = api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	require.NoError(t, err)
}

func TestExportSVGMentionsEveryNode(t *testing.T) {
	d, err := Compose(sample(t), DefaultConfig())
	require.NoError(t, err)

	data, err := Export(d, SVG)
	require.NoError(t, err)
	for _, id := range []string{"ALMLP157", "ALMLP157NP1", "ALMLP157NP2", "ODN FOC SPAN"} {
		assert.Contains(t, string(data), id)
	}
}

func TestComposeConcurrent(t *testing.T) {
	topo := sample(t)
	want, err := Compose(topo, DefaultConfig())
	require.NoError(t, err)
	wantSVG, err := Export(want, SVG)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := Compose(topo, DefaultConfig())
			if !assert.NoError(t, err) {
				return
			}
			got, err := Export(d, SVG)
			assert.NoError(t, err)
			assert.Equal(t, wantSVG, got)
		}()
	}
	wg.Wait()
}

func TestVariants(t *testing.T) {
	for _, name := range Variants() {
		cfg, err := Variant(name)
		require.NoError(t, err)
		require.NoError(t, cfg.Layout.Validate())
		assert.Equal(t, name, cfg.Theme.Name)

		d, err := Compose(sample(t), cfg)
		require.NoError(t, err)
		_, err = Export(d, SVG)
		require.NoError(t, err)
	}

	compact, _ := Variant("compact")
	assert.Equal(t, 4, compact.Layout.LCPsPerRow)

	_, err := Variant("poster")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"png": PNG, "PDF": PDF, ".svg": SVG, " Png ": PNG} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("jpeg")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
	assert.Equal(t, "image/svg+xml", SVG.ContentType())
	assert.Equal(t, ".pdf", PDF.Ext())
}
