package symbols

import (
	"image/color"
	"strings"

	"github.com/matzehuels/fibersld/pkg/fonts"
	"github.com/matzehuels/fibersld/pkg/layout"
	"github.com/matzehuels/fibersld/pkg/render/canvas"
	"github.com/matzehuels/fibersld/pkg/topology"
)

// ClosureNote is the fixed annotation printed under the splice closure,
// followed by the feeder length.
var ClosureNote = []string{"TO BE PROVIDED", "BY FXATOP", "3 CORES"}

// DefaultFeederCable is shown when the topology names no feeder cable.
const DefaultFeederCable = "72F"

const closurePad = 0.05

// Draw renders every connector, symbol and label of p. The topology t must
// be the one p was computed from.
func Draw(c canvas.Canvas, p *layout.Plan, t *topology.Topology, th Theme) {
	if p.IsEmpty() || t.IsEmpty() {
		return
	}
	for _, conn := range p.Connectors {
		Connector(c, conn, th)
	}
	Closure(c, p.Closure, t.FeederCable, t.FeederLength, th)
	for _, lp := range p.LCPs {
		if lp.Index >= len(t.LCPs) {
			continue
		}
		lcp := t.LCPs[lp.Index]
		LCP(c, lp, lcp, th)
		for _, np := range lp.NAPs {
			if np.Index < len(lcp.NAPs) {
				NAP(c, np, lcp.NAPs[np.Index], th)
			}
		}
	}
}

// Connector draws one straight connector.
func Connector(c canvas.Canvas, conn layout.Connector, th Theme) {
	width := th.BackboneWidth
	switch conn.Kind {
	case layout.Feeder:
		width = th.FeederWidth
	case layout.Tick:
		width = th.TickWidth
	}
	c.Line(conn.From, conn.To, canvas.Stroke{Color: th.LineColor, Width: width})
}

// Closure draws the splice closure box, its feeder code and the fixed
// annotation block ending in the feeder length.
func Closure(c canvas.Canvas, cl *layout.Closure, feederCable, feederLength string, th Theme) {
	if cl == nil {
		return
	}
	stroke := canvas.Stroke{Color: th.LineColor, Width: th.ClosureWidth}
	c.Rect(cl.Box.Inset(closurePad), closurePad, canvas.Paint{Fill: canvas.White, Stroke: stroke})

	x, y := cl.Position.X, cl.Position.Y
	dx, dy := layout.ClosureWidth/2-closurePad, layout.ClosureHeight/2-closurePad
	c.Line(layout.Point{X: x - dx, Y: y - dy}, layout.Point{X: x + dx, Y: y + dy}, stroke)
	c.Line(layout.Point{X: x - dx, Y: y + dy}, layout.Point{X: x + dx, Y: y - dy}, stroke)

	feeder := Truncate(feederCable, th.MaxLabel)
	if strings.TrimSpace(feeder) == "" {
		feeder = DefaultFeederCable
	}
	c.Text(cl.Feeder, []string{feeder}, canvas.Font{Style: fonts.Bold, Size: th.Sizes.Feeder, Color: th.TextColor})

	note := append(append([]string(nil), ClosureNote...), Truncate(feederLength, th.MaxLabel))
	c.Text(cl.Annotation, note, canvas.Font{Size: th.Sizes.Annotation, Color: th.SpanColor})
}

// LCP draws an LCP symbol and its labels. Fiber and span labels appear only
// when the LCP has a span from the previous node.
func LCP(c canvas.Canvas, p layout.LCPPlacement, lcp topology.LCP, th Theme) {
	if strings.TrimSpace(lcp.SpanFromPrevious) != "" {
		c.Text(p.Labels.Fibers, label(lcp.FibersUsed, th.MaxLabel),
			canvas.Font{Size: th.Sizes.LCPFibers, Color: th.LCPColor})
		c.Text(p.Labels.Span, label(lcp.SpanFromPrevious, th.MaxLabel),
			canvas.Font{Size: th.Sizes.LCPSpan, Color: th.SpanColor})
	}

	splitterGlyph(c, p.Position, layout.LCPRadius, "L", th.LCPColor, th.Sizes.LCPGlyph, 0.8, 1, false)

	c.Text(p.Labels.ID, label(lcp.ID, th.MaxLabel),
		canvas.Font{Style: fonts.Bold, Size: th.Sizes.LCPID, Color: th.TextColor})
	c.Text(p.Labels.CoLocator, label(lcp.CoLocator, th.MaxLabel),
		canvas.Font{Style: fonts.Bold, Size: th.Sizes.LCPCoLocator, Color: th.TextColor})
	c.Text(p.Labels.Landmark, th.LCPLandmark.Wrap(lcp.Landmark),
		canvas.Font{Size: th.Sizes.LCPLandmark, Color: th.MutedColor})
}

// NAP draws a NAP symbol and its labels.
func NAP(c canvas.Canvas, p layout.NAPPlacement, nap topology.NAP, th Theme) {
	c.Text(p.Labels.Fibers, label(nap.FibersUsed, th.MaxLabel),
		canvas.Font{Size: th.Sizes.NAPFibers, Color: th.NAPColor})
	c.Text(p.Labels.Span, label(nap.Span, th.MaxLabel),
		canvas.Font{Size: th.Sizes.NAPSpan, Color: th.SpanColor})

	splitterGlyph(c, p.Position, layout.NAPRadius, "N", th.NAPColor, th.Sizes.NAPGlyph, 0.7, 0.8, th.Hatch)

	c.Text(p.Labels.ID, label(nap.ID, th.MaxLabel),
		canvas.Font{Style: fonts.Bold, Size: th.Sizes.NAPID, Color: th.NAPColor})
	c.Text(p.Labels.CoLocator, label(nap.CoLocator, th.MaxLabel),
		canvas.Font{Style: fonts.Bold, Size: th.Sizes.NAPCoLocator, Color: th.TextColor})
	c.Text(p.Labels.Landmark, th.NAPLandmark.Wrap(nap.Landmark),
		canvas.Font{Size: th.Sizes.NAPLandmark, Color: th.MutedColor})
}

// splitterGlyph draws a filled 1:8 splitter circle: the letter, a divider
// and the split ratio. divider is the divider's half length as a fraction
// of r.
func splitterGlyph(c canvas.Canvas, at layout.Point, r float64, letter string, fill color.NRGBA, size, divider, dividerWidth float64, hatch bool) {
	c.Circle(at, r, canvas.Paint{Fill: fill})

	if hatch {
		faint := canvas.Stroke{Color: canvas.WithAlpha(canvas.White, 0.4), Width: 0.5}
		for i := -2; i <= 2; i++ {
			y := at.Y + float64(i)*r*0.25
			c.Line(layout.Point{X: at.X - r*0.8, Y: y}, layout.Point{X: at.X + r*0.8, Y: y}, faint)
		}
	}

	glyph := canvas.Font{Style: fonts.Bold, Size: size, Color: canvas.White}
	c.Text(layout.Anchor{At: at.Add(-r*0.3, 0)}, []string{letter}, glyph)
	c.Line(at.Add(0, -r*divider), at.Add(0, r*divider), canvas.Stroke{Color: canvas.White, Width: dividerWidth})
	c.Text(layout.Anchor{At: at.Add(r*0.4, 0)}, []string{"8"}, glyph)
}
