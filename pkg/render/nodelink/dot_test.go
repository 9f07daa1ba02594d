package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/fibersld/pkg/topology"
)

func sample() *topology.Topology {
	return &topology.Topology{
		FeederCable: "48F",
		LCPs: []topology.LCP{{
			ID:               "ALMLP157",
			SpanFromPrevious: "350m",
			FibersUsed:       "F1-F8",
			CoLocator:        "SMART",
			NAPs: []topology.NAP{
				{ID: "ALMLP157NP1", Span: "120m"},
				{ID: "ALMLP157NP2", Span: "85m"},
			},
		}},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(sample(), Options{})

	if !strings.Contains(dot, "digraph SLD") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, want := range []string{`label="ALMLP157"`, `label="ALMLP157NP1"`, `label="CLOSURE\n48F"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s", want)
		}
	}
	if !strings.Contains(dot, `"closure" -> "lcp0" [label="350m"]`) {
		t.Error("ToDOT() output missing feeder edge")
	}
	if !strings.Contains(dot, `"lcp0" -> "lcp0_nap1" [label="85m"]`) {
		t.Error("ToDOT() output missing drop edge")
	}
	if !strings.Contains(dot, "#27ae60") || !strings.Contains(dot, "#c0392b") {
		t.Error("ToDOT() output missing theme colors")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(sample(), Options{Detailed: true})

	if !strings.Contains(dot, `fibers: F1-F8`) {
		t.Error("ToDOT() detailed output missing fibers")
	}
	if !strings.Contains(dot, "SMART") {
		t.Error("ToDOT() detailed output missing co-locator")
	}
}

func TestToDOT_DuplicateIDs(t *testing.T) {
	topo := &topology.Topology{LCPs: []topology.LCP{{ID: "X"}, {ID: "X"}}}
	dot := ToDOT(topo, Options{})
	if !strings.Contains(dot, `"lcp0"`) || !strings.Contains(dot, `"lcp1"`) {
		t.Error("ToDOT() should keep duplicate ids as separate nodes")
	}
}

func TestToDOT_QuotesHostileStrings(t *testing.T) {
	topo := &topology.Topology{LCPs: []topology.LCP{{ID: `A"B` + "\n}"}}}
	dot := ToDOT(topo, Options{})
	if !strings.Contains(dot, `label="A\"B }"`) {
		t.Errorf("ToDOT() did not quote the label:\n%s", dot)
	}
}

func TestToDOT_Empty(t *testing.T) {
	for _, topo := range []*topology.Topology{nil, {}} {
		dot := ToDOT(topo, Options{})
		if !strings.Contains(dot, `"closure"`) || strings.Contains(dot, "->") {
			t.Errorf("ToDOT() empty topology = %s", dot)
		}
	}
}

func TestFmtLabel_Simple(t *testing.T) {
	if got := fmtLabel("N1", false, "F1", "PLDT", "CHAPEL"); got != "N1" {
		t.Errorf("fmtLabel() simple mode = %q, want %q", got, "N1")
	}
}

func TestFmtLabel_Detailed(t *testing.T) {
	got := fmtLabel("N1", true, "F1", "", strings.Repeat("x", 25))
	want := "N1\nfibers: F1\n" + strings.Repeat("x", 20) + "\nxxxxx"
	if got != want {
		t.Errorf("fmtLabel() detailed = %q, want %q", got, want)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg/>")); string(got) != "<svg/>" {
		t.Errorf("normalizeViewBox() without viewBox changed input: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in short mode")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(sample(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "ALMLP157NP2") {
		t.Error("RenderSVG() output missing node label")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering in short mode")
	}
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("RenderSVG() with broken DOT should fail")
	}
}
