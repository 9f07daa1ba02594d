package symbols

import (
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/fibersld/pkg/layout"
	"github.com/matzehuels/fibersld/pkg/render/canvas"
	"github.com/matzehuels/fibersld/pkg/topology"
)

func sampleTopology() *topology.Topology {
	return &topology.Topology{
		ProjectName:  "SAMPLE",
		FeederCable:  "72F",
		FeederLength: "1.2KM",
		LCPs: []topology.LCP{{
			ID:               "ALMLP157",
			SpanFromPrevious: "350m",
			FibersUsed:       "F1-F8",
			CoLocator:        "SMART",
			Landmark:         strings.Repeat("ABCDEFGHIJ", 10),
			NAPs: []topology.NAP{
				{ID: "ALMLP157NP1", Span: "120m", FibersUsed: "F1", CoLocator: "PLDT", Landmark: "NEAR CHAPEL"},
				{ID: "ALMLP157NP2", Span: "85m", FibersUsed: "F2"},
			},
		}},
	}
}

func draw(t *testing.T, topo *topology.Topology, th Theme) *canvas.Scene {
	t.Helper()
	p, err := layout.Compute(topo, layout.DefaultConfig())
	require.NoError(t, err)
	s := canvas.NewScene()
	Draw(s, p, topo, th)
	return s
}

func TestDrawLabels(t *testing.T) {
	texts := draw(t, sampleTopology(), PLDT()).Texts()

	for _, want := range []string{
		"ALMLP157", "ALMLP157NP1", "ALMLP157NP2",
		"SMART", "PLDT", "NEAR CHAPEL",
		"F1-F8", "350m", "120m", "85m",
		"72F", "TO BE PROVIDED", "BY FXATOP", "3 CORES", "1.2KM",
		"L", "N", "8",
	} {
		assert.Contains(t, texts, want)
	}
}

func TestDrawLandmarkWrapsToThreeLines(t *testing.T) {
	texts := draw(t, sampleTopology(), PLDT()).Texts()
	long := strings.Repeat("ABCDEFGHIJ", 10)

	line := long[:20]
	count := 0
	for _, s := range texts {
		assert.NotContains(t, s, long[:21], "no landmark line may exceed 20 characters")
		if s == line {
			count++
		}
	}
	assert.Equal(t, 3, count, "first 60 characters in three lines of 20")
	for _, s := range texts {
		assert.LessOrEqual(t, len(s), PLDT().MaxLabel)
	}
}

func TestDrawOmitsLCPSpanLabelsWithoutSpan(t *testing.T) {
	topo := sampleTopology()
	topo.LCPs[0].SpanFromPrevious = ""
	texts := draw(t, topo, PLDT()).Texts()
	assert.NotContains(t, texts, "F1-F8")
	assert.Contains(t, texts, "F1", "NAP fiber labels do not depend on the LCP span")
}

func TestDrawDefaultsFeederCable(t *testing.T) {
	topo := sampleTopology()
	topo.FeederCable = "  "
	assert.Contains(t, draw(t, topo, PLDT()).Texts(), DefaultFeederCable)
}

func TestDrawLCPWithoutNAPs(t *testing.T) {
	topo := &topology.Topology{LCPs: []topology.LCP{{ID: "L1"}, {ID: "L2", NAPs: []topology.NAP{{ID: "L2NP1"}}}}}
	s := draw(t, topo, PLDT())
	texts := s.Texts()
	assert.Contains(t, texts, "L1")
	assert.Contains(t, texts, "L2NP1")
	assert.False(t, s.Bounds().IsZero())
}

func TestDrawDoesNotMutateInput(t *testing.T) {
	topo := sampleTopology()
	topo.LCPs[0].CoLocator = "LINE1\nLINE2"
	before := *topo
	before.LCPs = append([]topology.LCP(nil), topo.LCPs...)
	before.LCPs[0].NAPs = append([]topology.NAP(nil), topo.LCPs[0].NAPs...)

	p, err := layout.Compute(topo, layout.DefaultConfig())
	require.NoError(t, err)
	planBefore, err := layout.Compute(topo, layout.DefaultConfig())
	require.NoError(t, err)

	Draw(canvas.NewScene(), p, topo, Compact())

	assert.True(t, reflect.DeepEqual(&before, topo))
	assert.True(t, reflect.DeepEqual(planBefore, p))
}

func TestDrawEmpty(t *testing.T) {
	s := canvas.NewScene()
	Draw(s, &layout.Plan{}, &topology.Topology{}, PLDT())
	Draw(s, nil, nil, PLDT())
	assert.Zero(t, s.Len())
}

func TestHatchFollowsTheme(t *testing.T) {
	topo := &topology.Topology{LCPs: []topology.LCP{{ID: "L1", NAPs: []topology.NAP{{ID: "N1"}}}}}
	hatched := draw(t, topo, PLDT()).Len()
	plain := draw(t, topo, Compact()).Len()
	assert.Equal(t, 5, hatched-plain)
}

func TestThemes(t *testing.T) {
	assert.Equal(t, []string{"compact", "pldt", "wide"}, ThemeNames())
	for _, name := range ThemeNames() {
		th, ok := ThemeByName(name)
		require.True(t, ok)
		assert.Equal(t, name, th.Name)
		assert.Positive(t, th.Sizes.LCPID)
	}
	_, ok := ThemeByName("neon")
	assert.False(t, ok)

	assert.Equal(t, canvas.Hex("#27ae60"), PLDT().LCPColor)
	assert.Equal(t, canvas.Hex("#c0392b"), PLDT().NAPColor)
	assert.Less(t, Compact().Sizes.Title, PLDT().Sizes.Title)
	assert.Greater(t, Wide().Sizes.Title, PLDT().Sizes.Title)
}
