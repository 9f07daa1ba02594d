package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/topology"
)

const fenced = "```json\n{\"project_name\": \"P\", \"lcps\": [{\"id\": \"L1\", \"naps\": [{\"id\": \"N1\"}]}]}\n```"

func TestReadTopologyStripsFences(t *testing.T) {
	topo, err := ReadTopology(strings.NewReader(fenced))
	if err != nil {
		t.Fatalf("ReadTopology: %v", err)
	}
	if topo.ProjectName != "P" || len(topo.LCPs) != 1 || topo.LCPs[0].NAPs[0].ID != "N1" {
		t.Errorf("ReadTopology = %+v", topo)
	}
}

func TestReadTopologyTooLarge(t *testing.T) {
	big := bytes.Repeat([]byte(" "), MaxInputSize+1)
	_, err := ReadTopology(bytes.NewReader(big))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("oversized input: err = %v", err)
	}
}

func TestImportTopologyJSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "t.json")
	yamlPath := filepath.Join(dir, "t.yaml")

	if err := os.WriteFile(jsonPath, []byte(fenced), 0644); err != nil {
		t.Fatal(err)
	}
	yamlDoc := "project_name: P\nlcps:\n  - id: L1\n    naps:\n      - id: N1\n"
	if err := os.WriteFile(yamlPath, []byte(yamlDoc), 0644); err != nil {
		t.Fatal(err)
	}

	fromJSON, err := ImportTopology(jsonPath)
	if err != nil {
		t.Fatalf("ImportTopology(json): %v", err)
	}
	fromYAML, err := ImportTopology(yamlPath)
	if err != nil {
		t.Fatalf("ImportTopology(yaml): %v", err)
	}
	if fromJSON.LCPs[0].ID != fromYAML.LCPs[0].ID || fromJSON.ProjectName != fromYAML.ProjectName {
		t.Errorf("json %+v != yaml %+v", fromJSON, fromYAML)
	}
}

func TestImportTopologyMissingFile(t *testing.T) {
	_, err := ImportTopology(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("missing file: err = %v", err)
	}
}

func TestImportTopologyEmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ImportTopology(path); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("empty yaml: err = %v", err)
	}
}

func TestTopologyRoundTrip(t *testing.T) {
	orig := &topology.Topology{
		ProjectName: "X", FeederCable: "48F",
		LCPs: []topology.LCP{{ID: "L1", Landmark: "CHAPEL", NAPs: []topology.NAP{{ID: "N1", Span: "5m"}}}},
	}
	path := filepath.Join(t.TempDir(), "out.json")
	if err := ExportTopology(orig, path); err != nil {
		t.Fatalf("ExportTopology: %v", err)
	}
	back, err := ImportTopology(path)
	if err != nil {
		t.Fatalf("ImportTopology: %v", err)
	}
	if back.LCPs[0].NAPs[0].Span != "5m" || back.FeederCable != "48F" || back.LCPs[0].Landmark != "CHAPEL" {
		t.Errorf("round trip = %+v", back)
	}
}

func TestWriteArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "out", "FTTH_SLD")
	paths, err := WriteArtifacts(base, map[string][]byte{"pdf": []byte("%PDF"), "png": []byte("png")})
	if err != nil {
		t.Fatalf("WriteArtifacts: %v", err)
	}
	want := []string{base + ".pdf", base + ".png"}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	data, _ := os.ReadFile(base + ".pdf")
	if string(data) != "%PDF" {
		t.Errorf("pdf content = %q", data)
	}
}

func TestImportExamples(t *testing.T) {
	tests := []struct {
		file string
		lcps int
		naps int
	}{
		{"alabang.json", 4, 10},
		{"minimal.yaml", 2, 2},
		{"fenced.txt", 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			topo, err := ImportTopology(filepath.Join("..", "..", "examples", "topology", tt.file))
			if err != nil {
				t.Fatalf("ImportTopology: %v", err)
			}
			if len(topo.LCPs) != tt.lcps || topo.NAPCount() != tt.naps {
				t.Errorf("got %d LCPs, %d NAPs; want %d, %d", len(topo.LCPs), topo.NAPCount(), tt.lcps, tt.naps)
			}
			if err := topo.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}
