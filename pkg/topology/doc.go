// Package topology defines the FTTH network model rendered by fibersld.
//
// # Overview
//
// A [Topology] is a three-level tree: the OLT/closure at the root (carried
// implicitly by the feeder fields), an ordered list of [LCP] splitters fed by
// the feeder cable, and under each LCP an ordered list of [NAP] leaves facing
// subscribers. Order is significant everywhere: it is document order and it is
// draw order.
//
// # Parsing
//
// Topology documents come from an external extraction step and are
// schema-less in practice: fields may be missing, have the wrong JSON type,
// or carry extra keys. [Parse] maps such a document onto the model totally:
//
//   - Missing or null optional fields become ""
//   - Numbers and booleans become their literal text ("83" for 83)
//   - Objects and arrays in a string position become ""
//   - A missing or non-list "lcps"/"naps" becomes an empty list
//
// The only structural error is a node without an id, reported as a
// [*MissingIDError] naming the node's position.
//
//	topo, err := topology.Parse(data)
//	var missing *topology.MissingIDError
//	if errors.As(err, &missing) {
//	    fmt.Println("bad node at LCP", missing.LCP)
//	}
//
// [CleanModelOutput] strips the Markdown code fences language models tend to
// wrap their JSON in, before it is handed to [Parse].
package topology
