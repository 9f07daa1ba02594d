// Package nodelink renders a topology as a plain tree diagram with Graphviz.
//
// # Overview
//
// The single-line diagram places nodes on a fixed grid. The node-link view
// lets Graphviz arrange the same tree (closure, LCPs, NAPs) freely, which is
// handy for checking an extracted topology before drawing the SLD.
//
// # Usage
//
// Convert a topology to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(topo, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, node labels include fibers, co-locator and landmark
//   - Theme: node colors, shared with the single-line diagram
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
