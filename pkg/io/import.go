package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/topology"
)

// MaxInputSize caps the size of a topology document.
const MaxInputSize = 8 << 20

// Stdin is the path that makes ImportTopology read standard input.
const Stdin = "-"

// ReadAll reads at most MaxInputSize bytes from r.
func ReadAll(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputSize+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read topology")
	}
	if len(data) > MaxInputSize {
		return nil, errors.New(errors.ErrCodeInvalidInput, "topology document exceeds %d bytes", MaxInputSize)
	}
	return data, nil
}

// ReadTopology decodes a JSON topology document from r. Markdown code
// fences around the JSON are ignored. ReadTopology does not close r.
func ReadTopology(r io.Reader) (*topology.Topology, error) {
	data, err := ReadAll(r)
	if err != nil {
		return nil, err
	}
	return topology.Parse(topology.CleanModelOutput(data))
}

// ImportTopology reads the topology document at path. Stdin ("-") reads
// standard input. YAML files are converted to JSON before parsing.
func ImportTopology(path string) (*topology.Topology, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return topology.Parse(topology.CleanModelOutput(data))
}

// ReadFile returns the JSON bytes of the document at path, converting YAML
// by extension. Stdin ("-") is read as-is.
func ReadFile(path string) ([]byte, error) {
	var r io.Reader
	if path == Stdin {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
		}
		defer f.Close()
		r = f
	}

	data, err := ReadAll(r)
	if err != nil {
		return nil, err
	}
	if isYAML(path) {
		return yamlToJSON(data)
	}
	return data, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.ErrCodeInvalidInput, "empty topology document")
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "convert yaml to json")
	}
	return out, nil
}
