// Package io reads topology documents and writes rendered artifacts.
//
// # Import
//
// Use [ImportTopology] to read a topology from a file path ("-" reads
// stdin), or [ReadTopology] to read from any io.Reader:
//
//	t, err := io.ImportTopology("asbuilt.json")
//
// JSON documents may be wrapped in a Markdown code fence, which is how
// language models usually return them. Files ending in .yaml or .yml are
// decoded as YAML with the same field names.
//
// Input larger than [MaxInputSize] is rejected.
//
// # Export
//
// [WriteArtifacts] writes each rendered format next to a common base path,
// producing base.png, base.pdf and so on. [ExportTopology] writes the
// normalized topology back as JSON, which is useful for checking what the
// parser made of a model's output.
package io
