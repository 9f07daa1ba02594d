package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fibersld/pkg/diagram"
	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/io"
	"github.com/matzehuels/fibersld/pkg/render/nodelink"
)

// nodelinkFormats are the outputs of the nodelink command.
var nodelinkFormats = map[string]bool{"svg": true, "dot": true, "png": true, "pdf": true}

// nodelinkCommand creates the nodelink command, a Graphviz tree view of the
// topology for checking extracted data.
func (c *CLI) nodelinkCommand() *cobra.Command {
	var (
		output   string
		formats  string
		variant  string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "nodelink [topology.json]",
		Short: "Draw the topology as a Graphviz tree",
		Long: `Draw the topology as a node-link tree (closure → LCPs → NAPs) laid out by
Graphviz. Useful to check extracted data before rendering the diagram.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := parseFormats(formats, []string{"svg"})
			for _, f := range fs {
				if !nodelinkFormats[f] {
					return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be svg, dot, png or pdf)", f)
				}
			}
			if variant == "" {
				variant = c.settings().Variant
			}
			cfg, err := diagram.Variant(variant)
			if err != nil {
				return err
			}
			opts := nodelink.Options{Detailed: detailed, Theme: cfg.Theme}
			return c.runNodelink(cmd.Context(), args[0], output, fs, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input without extension)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), dot, png, pdf")
	cmd.Flags().StringVar(&variant, "variant", "", "color preset: pldt (default), compact, wide")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "show fibers, co-locator and landmark on nodes")

	return cmd
}

func (c *CLI) runNodelink(ctx context.Context, input, output string, formats []string, opts nodelink.Options) error {
	t, err := io.ImportTopology(input)
	if err != nil {
		return err
	}
	if t.IsEmpty() {
		return errors.New(errors.ErrCodeEmptyDiagram, "nothing to draw: the topology has no LCPs")
	}
	if err := t.Validate(); err != nil {
		return err
	}

	dot := nodelink.ToDOT(t, opts)
	loggerFromContext(ctx).Debug("generated DOT", "bytes", len(dot))

	artifacts := make(map[string][]byte, len(formats))
	for _, f := range formats {
		data, err := renderNodelink(ctx, dot, f)
		if err != nil {
			return fmt.Errorf("nodelink %s: %w", f, err)
		}
		artifacts[f] = data
	}

	base := basePath(output, input, func(s string) bool { return nodelinkFormats[s] })
	if output == "" {
		base += "_nodelink"
	}
	paths, err := io.WriteArtifacts(base, artifacts)
	if err != nil {
		return err
	}
	printSuccess("Node-link diagram complete")
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

func renderNodelink(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case "dot":
		return []byte(dot), nil
	case "svg":
		return nodelink.RenderSVG(ctx, dot)
	case "pdf":
		return nodelink.RenderPDF(ctx, dot)
	case "png":
		return nodelink.RenderPNG(ctx, dot, 2.0)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format: %s", format)
	}
}
