package layout

import (
	"github.com/samber/lo"

	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/topology"
)

// Label offsets relative to a symbol's center.
const (
	idRise        = 0.55
	napIDRise     = 0.5
	coLocatorDrop = 0.5
	landmarkDrop  = 0.75

	lcpFibersDX = -1.0
	lcpSpanDX   = -0.6
	lcpLabelDY  = 0.15

	napLabelDX = 0.05
	napLabelDY = 0.22

	feederLabelDrop = 0.5
	annotationDrop  = 0.85
)

// Extra room reserved around the grid for labels that hang off symbols.
const (
	labelReach = 1.5
	labelRise  = 0.8
	labelDrop  = 2.0
)

// Compute lays out t using cfg.
//
// A topology without LCPs yields an empty plan and no error. A node without
// an id yields a *topology.MissingIDError carrying its grid slot. An invalid
// cfg yields an [errors.ErrCodeInvalidConfig] error.
func Compute(t *topology.Topology, cfg Config) (*Plan, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if t.IsEmpty() {
		return &Plan{Config: cfg}, nil
	}
	if err := t.Validate(); err != nil {
		var missing *topology.MissingIDError
		if errors.As(err, &missing) {
			return nil, missing.WithGrid(GridSlot(missing.LCP, cfg.LCPsPerRow))
		}
		return nil, err
	}

	k := cfg.LCPsPerRow
	rows := lo.Chunk(t.LCPs, k)

	closure := closureAt(Point{X: cfg.LCPStartX - cfg.ClosureOffsetX, Y: cfg.BaseY + cfg.ClosureRise})
	p := &Plan{
		Config:  cfg,
		Closure: closure,
		LCPs:    make([]LCPPlacement, 0, len(t.LCPs)),
		Rows:    len(rows),
	}

	right := cfg.LCPStartX
	for r, row := range rows {
		y := RowY(cfg, r)
		x := cfg.LCPStartX
		for c, lcp := range row {
			i := r*k + c
			placed := placeLCP(cfg, lcp, i, r, c, Point{X: x, Y: y})
			p.LCPs = append(p.LCPs, placed)
			p.Connectors = append(p.Connectors, connectors(placed)...)
			x = placed.Slot.Right + cfg.ColumnGutter
		}
		right = max(right, x-cfg.ColumnGutter)

		entry := p.LCPs[r*k].Position
		p.Connectors = append(p.Connectors, Connector{
			Kind: Feeder,
			From: Point{X: closure.Box.Right, Y: closure.Position.Y},
			To:   entry.Add(-LCPRadius, 0),
			LCP:  r * k,
			NAP:  -1,
		})
	}

	p.Bounds = Rect{
		Left:   min(closure.Position.X, cfg.LCPStartX) - labelReach,
		Right:  right,
		Bottom: RowY(cfg, p.Rows-1) - labelDrop,
		Top:    closure.Box.Top + labelRise,
	}.Inset(cfg.Margin)
	return p, nil
}

// GridSlot returns the row and column of the i-th LCP when k LCPs share a row.
func GridSlot(i, k int) (row, column int) {
	return i / k, i % k
}

// RowY returns the baseline of row r.
func RowY(cfg Config, r int) float64 {
	return cfg.BaseY - float64(r)*cfg.RowHeight
}

// SlotWidth returns the horizontal room an LCP with n NAPs occupies.
func SlotWidth(cfg Config, n int) float64 {
	return float64(max(n, 1)) * cfg.NAPSpacing
}

func closureAt(at Point) *Closure {
	return &Closure{
		Position: at,
		Box: Rect{
			Left:   at.X - ClosureWidth/2,
			Right:  at.X + ClosureWidth/2,
			Bottom: at.Y - ClosureHeight/2,
			Top:    at.Y + ClosureHeight/2,
		},
		Feeder:     Anchor{At: at.Add(0, -feederLabelDrop), V: AlignTop},
		Annotation: Anchor{At: at.Add(0, -annotationDrop), V: AlignTop},
	}
}

func placeLCP(cfg Config, lcp topology.LCP, index, row, col int, at Point) LCPPlacement {
	placed := LCPPlacement{
		ID:       lcp.ID,
		Index:    index,
		Row:      row,
		Column:   col,
		Position: at,
		Slot: Rect{
			Left:   at.X,
			Right:  at.X + SlotWidth(cfg, len(lcp.NAPs)),
			Bottom: at.Y,
			Top:    at.Y,
		},
		Labels: Labels{
			ID:        Anchor{At: at.Add(0, idRise), V: AlignBottom},
			Fibers:    Anchor{At: at.Add(lcpFibersDX, lcpLabelDY), V: AlignBottom},
			Span:      Anchor{At: at.Add(lcpSpanDX, -lcpLabelDY), V: AlignTop},
			CoLocator: Anchor{At: at.Add(0, -coLocatorDrop), V: AlignTop},
			Landmark:  Anchor{At: at.Add(0, -landmarkDrop), V: AlignTop},
		},
		NAPs: make([]NAPPlacement, len(lcp.NAPs)),
	}
	for j, nap := range lcp.NAPs {
		pos := Point{X: at.X + cfg.NAPSpacing/2 + float64(j)*cfg.NAPSpacing, Y: at.Y}
		placed.NAPs[j] = NAPPlacement{
			ID:       nap.ID,
			Index:    j,
			Position: pos,
			Labels: Labels{
				ID:        Anchor{At: pos.Add(0, napIDRise), V: AlignBottom},
				Fibers:    Anchor{At: pos.Add(napLabelDX, napLabelDY), H: AlignLeft, V: AlignBottom},
				Span:      Anchor{At: pos.Add(napLabelDX, -napLabelDY), H: AlignLeft, V: AlignTop},
				CoLocator: Anchor{At: pos.Add(0, -coLocatorDrop), V: AlignTop},
				Landmark:  Anchor{At: pos.Add(0, -landmarkDrop), V: AlignTop},
			},
		}
	}
	return placed
}

func connectors(l LCPPlacement) []Connector {
	if len(l.NAPs) == 0 {
		return nil
	}
	out := make([]Connector, 0, 1+len(l.NAPs))
	last := l.NAPs[len(l.NAPs)-1].Position
	out = append(out, Connector{
		Kind: Backbone,
		From: l.Position.Add(LCPRadius, 0),
		To:   last,
		LCP:  l.Index,
		NAP:  -1,
	})
	for _, n := range l.NAPs {
		out = append(out, Connector{
			Kind: Tick,
			From: n.Position,
			To:   n.Position.Add(0, TickLength),
			LCP:  l.Index,
			NAP:  n.Index,
		})
	}
	return out
}
