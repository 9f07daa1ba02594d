package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/render"
	"github.com/matzehuels/fibersld/pkg/render/symbols"
	"github.com/matzehuels/fibersld/pkg/topology"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes fibers, co-locator and landmark in node labels.
	// When false, only the node ID is shown.
	Detailed bool
	// Theme supplies the node colors. The zero value uses symbols.PLDT.
	Theme symbols.Theme
}

const closureNode = "closure"

// ToDOT converts a topology to Graphviz DOT format: the closure at the top,
// one edge per LCP labeled with its span, and one edge per NAP below its LCP.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Node names are positional, so duplicate ids still produce distinct nodes.
func ToDOT(t *topology.Topology, opts Options) string {
	th := opts.Theme
	if th.Name == "" {
		th = symbols.PLDT()
	}

	var buf bytes.Buffer
	buf.WriteString("digraph SLD {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontcolor=white, fontsize=12, fixedsize=false];\n")
	buf.WriteString("  edge [arrowhead=none, fontsize=10];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	feeder := symbols.DefaultFeederCable
	if t != nil && strings.TrimSpace(t.FeederCable) != "" {
		feeder = symbols.Clean(t.FeederCable)
	}
	fmt.Fprintf(&buf, "  %q [shape=box, style=\"rounded\", fontcolor=black, label=%q];\n", closureNode, "CLOSURE\n"+feeder)

	if t == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	for i, l := range t.LCPs {
		id := lcpNode(i)
		fmt.Fprintf(&buf, "  %q [fillcolor=%q, label=%q];\n", id, hex(th.LCPColor.R, th.LCPColor.G, th.LCPColor.B),
			fmtLabel(l.ID, opts.Detailed, l.FibersUsed, l.CoLocator, l.Landmark))
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", closureNode, id, symbols.Clean(l.SpanFromPrevious))

		for j, n := range l.NAPs {
			nid := napNode(i, j)
			fmt.Fprintf(&buf, "  %q [fillcolor=%q, label=%q];\n", nid, hex(th.NAPColor.R, th.NAPColor.G, th.NAPColor.B),
				fmtLabel(n.ID, opts.Detailed, n.FibersUsed, n.CoLocator, n.Landmark))
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", id, nid, symbols.Clean(n.Span))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func lcpNode(i int) string    { return fmt.Sprintf("lcp%d", i) }
func napNode(i, j int) string { return fmt.Sprintf("lcp%d_nap%d", i, j) }

func fmtLabel(id string, detailed bool, fibers, coLocator, landmark string) string {
	id = symbols.Clean(id)
	if !detailed {
		return id
	}

	parts := []string{id}
	if s := strings.TrimSpace(fibers); s != "" {
		parts = append(parts, "fibers: "+symbols.Clean(s))
	}
	if s := strings.TrimSpace(coLocator); s != "" {
		parts = append(parts, symbols.Clean(s))
	}
	parts = append(parts, symbols.Wrap(landmark, 60, 20)...)
	return strings.Join(parts, "\n")
}

func hex(r, g, b uint8) string { return fmt.Sprintf("#%02x%02x%02x", r, g, b) }

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExport, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
