// Package layout computes the geometry of a single-line diagram.
//
// # Overview
//
// Given a [topology.Topology] and a [Config], [Compute] assigns a position to
// the splice closure, every LCP and every NAP, derives label anchors for each
// of them, and records the straight connectors that join them. The result is
// a [Plan]: a pure description of where things go, with no notion of colors,
// fonts or output formats.
//
// # Coordinate System
//
// Plans use diagram units with y growing upward. Row 0 sits at [Config.BaseY]
// and every following row is [Config.RowHeight] lower. One diagram unit maps
// to 72 points (one inch) in the rendering backends, which flip y as needed.
//
// # Grid
//
// LCPs wrap into rows of [Config.LCPsPerRow]. LCP i lands in row i/k and
// column i%k. A column is as wide as its LCP's NAPs need
// (max(naps, 1) * [Config.NAPSpacing]) and columns are separated by
// [Config.ColumnGutter], so row width depends on the data:
//
//	closure
//	   \
//	    LCP ── NAP ─ NAP      LCP ── NAP      LCP
//	   \
//	    LCP ── NAP ─ NAP ─ NAP
//
// The same topology and configuration always yield the same plan.
//
// [topology.Topology]: github.com/matzehuels/fibersld/pkg/topology.Topology
package layout
