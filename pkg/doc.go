// Package pkg provides the core libraries for fibersld, the FTTH
// single-line diagram renderer.
//
// # Overview
//
// fibersld turns an as-built fiber topology (one closure feeding LCPs, each
// LCP feeding NAPs) into a single-line diagram: a closure at the top, LCPs
// laid out in rows, and the NAPs of every LCP fanned out below it, with
// spans, fiber counts, co-locators and landmarks as labels.
//
// # Architecture
//
//	topology JSON (possibly fenced model output)
//	         ↓
//	    [topology] package (parse + validate)
//	         ↓
//	    [layout] package (grid placement, label anchors, connectors)
//	         ↓
//	    [diagram] package (header, legend, symbols, footer on a scene)
//	         ↓
//	    [render/canvas] package (SVG, PNG, PDF backends)
//
// [pipeline] runs these stages with [cache] lookups and [observability]
// hooks. [render/nodelink] draws the same topology as a Graphviz tree.
//
// # Quick Start
//
//	t, _ := topology.Parse(data)
//	d, _ := diagram.Compose(t, diagram.DefaultConfig())
//	png, _ := diagram.Export(d, diagram.PNG)
//
// # Package Organization
//
// [topology] - Input model and validation.
//
// [layout] - Pure geometry: where every element goes, in diagram units.
//
// [render/symbols] - Closure, LCP and NAP glyphs, text wrapping, themes.
//
// [render/canvas] - Scene recorder replayed onto svgo, gg or gofpdf.
//
// [diagram] - Composes a full page from a plan.
//
// [pipeline] - Orchestration with caching (parse → layout → render).
//
// [cache] - File, Redis, MongoDB and null backends keyed by content hash.
//
// [observability] - Prometheus metrics and OpenTelemetry span events.
//
// [io] - Reading topology files (JSON, YAML, stdin) and writing artifacts.
//
// [errors] - Error codes shared by the CLI, HTTP service and worker.
package pkg
