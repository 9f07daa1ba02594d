// Package canvas is the drawing surface of the diagram renderer.
//
// Drawing code never talks to an output format directly. It draws onto a
// [Scene], which records every primitive in diagram units (y up, one unit per
// inch) and tracks the bounding box of everything drawn. A finished scene is
// then replayed onto a [Surface] by one of the exporters:
//
//   - [RenderSVG] writes SVG with github.com/ajstarks/svgo
//   - [RenderPNG] rasterizes with github.com/fogleman/gg
//   - [RenderPDF] writes a vector PDF with github.com/jung-kurt/gofpdf
//
// Every exporter crops to the scene bounds plus padding and paints a white
// background, so the three outputs show the same picture.
package canvas
