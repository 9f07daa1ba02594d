package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/io"
	"github.com/matzehuels/fibersld/pkg/layout"
	"github.com/matzehuels/fibersld/pkg/pipeline"
)

// layoutCommand creates the layout command for computing diagram plans.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		format  string
		opts    renderOpts
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "layout [topology.json]",
		Short: "Compute the diagram layout of a topology",
		Long: `Compute the diagram layout of a topology without drawing it.

The plan lists the position of the closure, every LCP and NAP, the anchor
of every label and the connectors between them, in diagram units. It is
written as JSON (default) or YAML to -o or stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be json or yaml)", format)
			}
			opts.noCache = noCache
			opts.formats = pipeline.FormatJSON
			po, err := c.renderOptions(cmd, &opts)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), args[0], po, noCache, output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "plan encoding: json, yaml")
	cmd.Flags().StringVar(&opts.variant, "variant", "", "drawing preset: pldt (default), compact, wide")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	opts.spacing.register(cmd)

	return cmd
}

// runLayout loads the topology, computes the plan and writes it.
func (c *CLI) runLayout(ctx context.Context, input string, po pipeline.Options, noCache bool, output, format string) error {
	data, err := io.ReadFile(input)
	if err != nil {
		return err
	}
	po.Input = data
	po.Logger = loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	t, err := runner.Parse(ctx, po)
	if err != nil {
		return err
	}
	if t.IsEmpty() {
		return pipeline.ErrNothingToDraw
	}

	plan, planJSON, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, t, po)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}

	out := planJSON
	if format == "yaml" {
		if out, err = marshalPlanYAML(plan); err != nil {
			return err
		}
	}

	if output == "" {
		_, err := os.Stdout.Write(out)
		return err
	}
	if err := os.WriteFile(output, out, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", output)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(len(t.LCPs), t.NAPCount(), plan.Rows, cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+input)
	return nil
}

func marshalPlanYAML(p *layout.Plan) ([]byte, error) {
	out, err := yaml.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode plan")
	}
	return out, nil
}
