package pipeline

import (
	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/layout"
	"github.com/matzehuels/fibersld/pkg/topology"
)

// Parse returns the topology from opts: opts.Topology when set, otherwise
// opts.Input decoded after stripping Markdown code fences.
//
// A node without an id is reported as a *topology.MissingIDError carrying
// the grid slot the node's LCP would have occupied.
func Parse(opts Options) (*topology.Topology, error) {
	t := opts.Topology
	if t == nil {
		var err error
		t, err = topology.Parse(topology.CleanModelOutput(opts.Input))
		if err != nil {
			return nil, withGrid(err, opts.config.Layout)
		}
	}
	if err := t.Validate(); err != nil {
		return nil, withGrid(err, opts.config.Layout)
	}
	return t, nil
}

func withGrid(err error, cfg layout.Config) error {
	var missing *topology.MissingIDError
	if !errors.As(err, &missing) || cfg.LCPsPerRow < 1 {
		return err
	}
	row, col := layout.GridSlot(missing.LCP, cfg.LCPsPerRow)
	return missing.WithGrid(row, col)
}
