// Package diagram composes complete single-line diagrams and exports them.
//
// [Compose] runs the layout engine, draws the symbols onto a fresh
// [canvas.Scene], and frames the result with a header (project name and
// coordinates), a legend and a footer. [Export] serializes a composed
// diagram as PNG, PDF or SVG, cropped tightly around the drawing on a white
// background.
//
//	d, err := diagram.Compose(topo, diagram.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	if d == nil {
//		return nil // no LCPs, nothing to draw
//	}
//	png, err := diagram.Export(d, diagram.PNG)
//
// Every call builds its own scene, so diagrams may be composed and exported
// from many goroutines at once.
//
// [canvas.Scene]: github.com/matzehuels/fibersld/pkg/render/canvas.Scene
package diagram
