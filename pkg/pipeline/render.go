package pipeline

import (
	"context"
	"encoding/json"

	"github.com/matzehuels/fibersld/pkg/diagram"
	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/layout"
	"github.com/matzehuels/fibersld/pkg/render"
	"github.com/matzehuels/fibersld/pkg/render/canvas"
	"github.com/matzehuels/fibersld/pkg/render/nodelink"
	"github.com/matzehuels/fibersld/pkg/topology"
)

// Render generates output artifacts for formats from a topology and its plan.
func Render(ctx context.Context, t *topology.Topology, plan *layout.Plan, formats []string, opts Options) (map[string][]byte, error) {
	if opts.Topology == nil {
		opts.Topology = t
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if plan.IsEmpty() {
		return nil, ErrNothingToDraw
	}

	var d *diagram.Diagram
	artifacts := make(map[string][]byte, len(formats))
	for _, format := range formats {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "render %s", format)
		}

		var data []byte
		var err error
		switch format {
		case FormatJSON:
			data, err = MarshalPlan(plan)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(t, nodelink.Options{Detailed: true, Theme: opts.config.Theme}))
		default:
			if d == nil {
				d = diagram.ComposePlan(t, plan, opts.config)
			}
			data, err = renderDiagram(ctx, d, format, opts)
		}
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderDiagram(ctx context.Context, d *diagram.Diagram, format string, opts Options) ([]byte, error) {
	if opts.Converter != ConverterRSVG || format == FormatSVG {
		return diagram.Export(d, diagram.Format(format))
	}

	svg, err := diagram.Export(d, diagram.SVG, canvas.WithEmbeddedFonts())
	if err != nil {
		return nil, err
	}
	if format == FormatPNG {
		return render.ToPNG(ctx, svg, d.Config.DPI/canvas.PointsPerUnit)
	}
	return render.ToPDF(ctx, svg)
}

// MarshalPlan encodes a plan as indented JSON.
func MarshalPlan(p *layout.Plan) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode plan")
	}
	return data, nil
}

// UnmarshalPlan decodes a plan written by MarshalPlan.
func UnmarshalPlan(data []byte) (*layout.Plan, error) {
	var p layout.Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode plan")
	}
	return &p, nil
}
