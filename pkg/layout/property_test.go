package layout

import (
	"math"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func napCounts() gopter.Gen {
	return gen.SliceOf(gen.IntRange(0, 8))
}

func TestLayoutProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("identical input yields identical plan", prop.ForAll(
		func(counts []int, k int) bool {
			cfg := DefaultConfig()
			cfg.LCPsPerRow = k
			a, errA := Compute(makeTopology(counts...), cfg)
			b, errB := Compute(makeTopology(counts...), cfg)
			return errA == nil && errB == nil && reflect.DeepEqual(a, b)
		},
		napCounts(),
		gen.IntRange(1, 6),
	))

	properties.Property("rows wrap every k LCPs", prop.ForAll(
		func(counts []int, k int) bool {
			cfg := DefaultConfig()
			cfg.LCPsPerRow = k
			p, err := Compute(makeTopology(counts...), cfg)
			if err != nil {
				return false
			}
			if want := (len(counts) + k - 1) / k; len(counts) > 0 && p.Rows != want {
				return false
			}
			for i, l := range p.LCPs {
				if l.Index != i || l.Row != i/k || l.Column != i%k {
					return false
				}
				if math.Abs(l.Position.Y-RowY(cfg, l.Row)) > eps {
					return false
				}
			}
			return true
		},
		napCounts(),
		gen.IntRange(1, 6),
	))

	properties.Property("NAPs step right by exactly NAPSpacing on their LCP's row", prop.ForAll(
		func(counts []int, spacing float64) bool {
			cfg := DefaultConfig()
			cfg.NAPSpacing = spacing
			p, err := Compute(makeTopology(counts...), cfg)
			if err != nil {
				return false
			}
			for _, l := range p.LCPs {
				prev := l.Position.X
				for j, n := range l.NAPs {
					if n.Position.Y != l.Position.Y || n.Position.X <= prev {
						return false
					}
					want := l.Position.X + spacing/2 + float64(j)*spacing
					if math.Abs(n.Position.X-want) > 1e-6 {
						return false
					}
					prev = n.Position.X
				}
			}
			return true
		},
		napCounts(),
		gen.Float64Range(0.5, 10),
	))

	properties.Property("adding a NAP never narrows the plan", prop.ForAll(
		func(counts []int, at int) bool {
			if len(counts) == 0 {
				return true
			}
			at %= len(counts)
			before, err := Compute(makeTopology(counts...), DefaultConfig())
			if err != nil {
				return false
			}
			grown := append([]int(nil), counts...)
			grown[at]++
			after, err := Compute(makeTopology(grown...), DefaultConfig())
			if err != nil {
				return false
			}
			return after.Width() >= before.Width()-eps
		},
		napCounts(),
		gen.IntRange(0, 100),
	))

	properties.Property("each column starts after the slots before it in the same row", prop.ForAll(
		func(counts []int, k int) bool {
			cfg := DefaultConfig()
			cfg.LCPsPerRow = k
			p, err := Compute(makeTopology(counts...), cfg)
			if err != nil {
				return false
			}
			for i, l := range p.LCPs {
				want := cfg.LCPStartX
				if l.Column > 0 {
					prev := p.LCPs[i-1]
					want = prev.Position.X + SlotWidth(cfg, counts[i-1]) + cfg.ColumnGutter
				}
				if math.Abs(l.Position.X-want) > 1e-6 {
					return false
				}
			}
			return true
		},
		napCounts(),
		gen.IntRange(1, 6),
	))

	properties.Property("a wider column shifts its row neighbours right", prop.ForAll(
		func(counts []int, extra int) bool {
			if len(counts) < 2 {
				return true
			}
			cfg := DefaultConfig()
			cfg.LCPsPerRow = len(counts)
			before, err := Compute(makeTopology(counts...), cfg)
			if err != nil {
				return false
			}
			grown := append([]int(nil), counts...)
			grown[0] = max(grown[0], 1) + extra
			after, err := Compute(makeTopology(grown...), cfg)
			if err != nil {
				return false
			}
			shift := float64(extra) * cfg.NAPSpacing
			for i := 1; i < len(counts); i++ {
				if math.Abs(after.LCPs[i].Position.X-before.LCPs[i].Position.X-shift) > 1e-6 {
					return false
				}
			}
			return true
		},
		napCounts(),
		gen.IntRange(1, 5),
	))

	properties.Property("single-row width grows by NAPSpacing per extra NAP", prop.ForAll(
		func(n int) bool {
			before, _ := Compute(makeTopology(n), DefaultConfig())
			after, _ := Compute(makeTopology(n+1), DefaultConfig())
			return math.Abs(after.Width()-before.Width()-DefaultNAPSpacing) < 1e-6
		},
		gen.IntRange(1, 16),
	))

	properties.Property("every element lies inside the bounds", prop.ForAll(
		func(counts []int, k int) bool {
			cfg := DefaultConfig()
			cfg.LCPsPerRow = k
			p, err := Compute(makeTopology(counts...), cfg)
			if err != nil {
				return false
			}
			for _, el := range p.Elements() {
				if !p.Bounds.Contains(el.Position) {
					return false
				}
			}
			return true
		},
		napCounts(),
		gen.IntRange(1, 6),
	))

	properties.TestingRun(t)
}
