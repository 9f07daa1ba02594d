// Package symbols draws the standardized FTTH symbols of a single-line
// diagram onto a [canvas.Canvas].
//
// The renderer is pure presentation: it reads a [layout.Plan] for geometry,
// the [topology.Topology] for text, and a [Theme] for colors, stroke widths
// and font sizes. It never changes the plan or the topology; long or odd
// strings are cleaned, truncated and wrapped for display only.
//
// Draw order matches the conventional SLD stacking: connectors first, then
// the closure and node symbols, then their labels.
//
// [canvas.Canvas]: github.com/matzehuels/fibersld/pkg/render/canvas.Canvas
// [layout.Plan]: github.com/matzehuels/fibersld/pkg/layout.Plan
// [topology.Topology]: github.com/matzehuels/fibersld/pkg/topology.Topology
package symbols
