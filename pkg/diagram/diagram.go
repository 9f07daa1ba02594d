package diagram

import (
	"fmt"
	"strings"

	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/fonts"
	"github.com/matzehuels/fibersld/pkg/layout"
	"github.com/matzehuels/fibersld/pkg/render/canvas"
	"github.com/matzehuels/fibersld/pkg/render/symbols"
	"github.com/matzehuels/fibersld/pkg/topology"
)

// Diagram is a composed drawing ready for export.
type Diagram struct {
	Topology *topology.Topology
	Plan     *layout.Plan
	Config   Config
	Scene    *canvas.Scene
}

// Title returns the project name shown in the header.
func (d *Diagram) Title() string { return projectName(d.Topology) }

// Compose lays out t and draws the full diagram.
//
// A topology without LCPs has nothing to draw: Compose returns nil and no
// error. Layout errors (a node without an id, an invalid configuration) are
// returned unchanged.
func Compose(t *topology.Topology, cfg Config) (*Diagram, error) {
	if t.IsEmpty() {
		return nil, nil
	}
	cfg = cfg.withDefaults()

	plan, err := layout.Compute(t, cfg.Layout)
	if err != nil {
		return nil, err
	}
	return ComposePlan(t, plan, cfg), nil
}

// ComposePlan draws t using a plan computed earlier by [layout.Compute] for
// the same topology, such as one restored from a cache. It returns nil for
// an empty plan.
func ComposePlan(t *topology.Topology, plan *layout.Plan, cfg Config) *Diagram {
	if t.IsEmpty() || plan.IsEmpty() {
		return nil
	}
	cfg = cfg.withDefaults()

	s := canvas.NewScene()
	symbols.Draw(s, plan, t, cfg.Theme)
	content := s.Bounds()
	drawHeader(s, content, t, cfg.Theme)
	drawLegend(s, content, cfg.Theme)
	drawFooter(s, s.Bounds(), cfg.Footer, cfg.Theme)

	return &Diagram{Topology: t, Plan: plan, Config: cfg, Scene: s}
}

// Export serializes d in format f. Exporting a nil diagram is an
// [errors.ErrCodeEmptyDiagram] error and an unknown format is an
// [errors.ErrCodeInvalidFormat] error; neither produces output.
func Export(d *Diagram, f Format, opts ...canvas.Option) ([]byte, error) {
	if d == nil || d.Scene == nil || d.Scene.Len() == 0 {
		return nil, errors.New(errors.ErrCodeEmptyDiagram, "nothing to draw")
	}
	f, err := ParseFormat(string(f))
	if err != nil {
		return nil, err
	}

	base := []canvas.Option{canvas.WithTitle(d.Title())}
	opts = append(base, opts...)

	var data []byte
	switch f {
	case PNG:
		data, err = canvas.RenderPNG(d.Scene, append([]canvas.Option{canvas.WithDPI(d.Config.DPI)}, opts...)...)
	case PDF:
		data, err = canvas.RenderPDF(d.Scene, opts...)
	case SVG:
		data, err = canvas.RenderSVG(d.Scene, opts...)
	}
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeExport, err, "export %s", f)
		}
		return nil, err
	}
	return data, nil
}

// LegendEntries are the fixed legend labels, in order.
var LegendEntries = []string{"LCP (1:8)", "NAP (1:8)", "ODN FOC SPAN"}

const (
	headerGap   = 0.45
	legendGap   = 0.35
	footerGap   = 0.3
	swatchW     = 0.28
	swatchH     = 0.16
	legendPad   = 0.12
	maxTitleLen = 80
)

func projectName(t *topology.Topology) string {
	if t == nil || strings.TrimSpace(t.ProjectName) == "" {
		return DefaultProjectName
	}
	return symbols.Truncate(t.ProjectName, maxTitleLen)
}

func drawHeader(s *canvas.Scene, content layout.Rect, t *topology.Topology, th symbols.Theme) {
	base := content.Top + headerGap
	s.Text(layout.Anchor{At: layout.Point{X: content.CenterX(), Y: base}, V: layout.AlignBottom},
		[]string{projectName(t)},
		canvas.Font{Style: fonts.Bold, Size: th.Sizes.Title, Color: th.TextColor})

	coords := []string{
		"LAT: " + symbols.Truncate(t.Latitude, th.MaxLabel),
		"LONG: " + symbols.Truncate(t.Longitude, th.MaxLabel),
	}
	s.Text(layout.Anchor{At: layout.Point{X: content.Left, Y: base}, H: layout.AlignLeft, V: layout.AlignBottom},
		coords, canvas.Font{Style: fonts.Mono, Size: th.Sizes.Coordinates, Color: th.TextColor})
}

func drawLegend(s *canvas.Scene, content layout.Rect, th symbols.Theme) {
	f := canvas.Font{Size: th.Sizes.Legend, Color: th.TextColor}
	row := f.LineHeight() * 1.4

	widest := 0.0
	for _, e := range LegendEntries {
		widest = max(widest, measure(f, e))
	}
	box := layout.Rect{
		Right: content.Right,
		Top:   content.Bottom - legendGap,
	}
	box.Left = box.Right - (legendPad*3 + swatchW + widest)
	box.Bottom = box.Top - (legendPad*2 + row*float64(len(LegendEntries)))
	s.Rect(box, 0.05, canvas.Paint{
		Fill:   canvas.WithAlpha(canvas.White, 0.9),
		Stroke: canvas.Stroke{Color: canvas.Hex("#cccccc"), Width: 0.5},
	})

	colors := []canvas.Paint{
		{Fill: th.LCPColor},
		{Fill: th.NAPColor},
		{Fill: th.LineColor},
	}
	for i, e := range LegendEntries {
		cy := box.Top - legendPad - row*(float64(i)+0.5)
		sx := box.Left + legendPad
		s.Rect(layout.Rect{Left: sx, Right: sx + swatchW, Bottom: cy - swatchH/2, Top: cy + swatchH/2}, 0, colors[i])
		s.Text(layout.Anchor{At: layout.Point{X: sx + swatchW + legendPad, Y: cy}, H: layout.AlignLeft}, []string{e}, f)
	}
}

func drawFooter(s *canvas.Scene, all layout.Rect, footer string, th symbols.Theme) {
	if strings.TrimSpace(footer) == "" {
		return
	}
	s.Text(layout.Anchor{At: layout.Point{X: all.CenterX(), Y: all.Bottom - footerGap}, V: layout.AlignTop},
		[]string{footer},
		canvas.Font{Style: fonts.Italic, Size: th.Sizes.Footer, Color: th.NoteColor})
}

func measure(f canvas.Font, s string) float64 {
	return fonts.Measure(f.Style, f.Size, s) / canvas.PointsPerUnit
}

func (d *Diagram) String() string {
	if d == nil {
		return "diagram(empty)"
	}
	return fmt.Sprintf("diagram(%s: %d LCPs, %d rows)", d.Title(), len(d.Plan.LCPs), d.Plan.Rows)
}
