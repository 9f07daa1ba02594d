package pipeline

import (
	"github.com/matzehuels/fibersld/pkg/layout"
	"github.com/matzehuels/fibersld/pkg/topology"
)

// GenerateLayout computes the plan for t with the resolved options.
func GenerateLayout(t *topology.Topology, opts Options) (*layout.Plan, error) {
	if opts.Topology == nil {
		opts.Topology = t
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return layout.Compute(t, opts.config.Layout)
}
