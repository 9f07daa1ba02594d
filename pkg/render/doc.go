// Package render holds the diagram rendering stack and the external format
// converter.
//
// # Subpackages
//
//   - [canvas]: recording scene plus SVG, PNG and PDF backends
//   - [symbols]: closure, LCP, NAP and connector drawing, themes
//   - [nodelink]: Graphviz tree view of a topology
//
// # Format Conversion
//
// The native backends need nothing outside the Go toolchain. [ToPDF] and
// [ToPNG] convert any SVG with the external rsvg-convert tool (from librsvg)
// for users who prefer its rasterizer:
//
//	svg, _ := canvas.RenderSVG(scene)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 200.0/72)
//
// [canvas]: github.com/matzehuels/fibersld/pkg/render/canvas
// [symbols]: github.com/matzehuels/fibersld/pkg/render/symbols
// [nodelink]: github.com/matzehuels/fibersld/pkg/render/nodelink
package render
