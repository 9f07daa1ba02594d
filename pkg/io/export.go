package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/topology"
)

// WriteTopology encodes t as indented JSON to w using the document field
// names, so the output can be read back with ReadTopology.
func WriteTopology(w io.Writer, t *topology.Topology) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode topology")
	}
	return nil
}

// ExportTopology writes t as JSON to path.
func ExportTopology(t *topology.Topology, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := WriteTopology(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteArtifacts writes artifacts[format] to base + "." + format for every
// format, creating the parent directory. It returns the written paths in
// format order.
func WriteArtifacts(base string, artifacts map[string][]byte) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
		}
	}

	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + f
		if err := os.WriteFile(path, artifacts[f], 0644); err != nil {
			return paths, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
