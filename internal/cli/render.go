package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fibersld/pkg/io"
	"github.com/matzehuels/fibersld/pkg/layout"
	"github.com/matzehuels/fibersld/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file (single format) or base path
	formats   string // comma-separated: png, pdf, svg, json, dot
	variant   string // drawing preset: pldt, compact, wide
	dpi       float64
	footer    string
	converter string // native or rsvg
	noCache   bool
	refresh   bool
	spacing   spacingFlags
}

// spacingFlags override single layout parameters of the variant.
type spacingFlags struct {
	rowHeight    float64
	napSpacing   float64
	lcpsPerRow   int
	columnGutter float64
}

func (f *spacingFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.rowHeight, "row-height", 0, "vertical distance between LCP rows (units)")
	cmd.Flags().Float64Var(&f.napSpacing, "nap-spacing", 0, "horizontal distance between NAPs (units)")
	cmd.Flags().IntVar(&f.lcpsPerRow, "lcps-per-row", 0, "LCPs per row before wrapping")
	cmd.Flags().Float64Var(&f.columnGutter, "column-gutter", 0, "extra space between LCP columns (units)")
}

// apply merges the flags that were set on the command line into cfg.
func (f *spacingFlags) apply(cmd *cobra.Command, cfg layout.Config) layout.Config {
	flags := cmd.Flags()
	if flags.Changed("row-height") {
		cfg.RowHeight = f.rowHeight
	}
	if flags.Changed("nap-spacing") {
		cfg.NAPSpacing = f.napSpacing
	}
	if flags.Changed("lcps-per-row") {
		cfg.LCPsPerRow = f.lcpsPerRow
	}
	if flags.Changed("column-gutter") {
		cfg.ColumnGutter = f.columnGutter
	}
	return cfg
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [topology.json]",
		Short: "Render a topology to PNG, PDF or SVG",
		Long: `Render an FTTH topology to a single-line diagram.

The input is the topology JSON (or YAML) document. Output for each format
is written to <base>.<format>, where base is -o without extension or the
input path without extension. Use - to read the topology from stdin.

Results are cached; --no-cache disables the cache and --refresh recomputes
while still updating it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			po, err := c.renderOptions(cmd, &opts)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], po, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): png, pdf, svg, json, dot (comma-separated, default png,pdf)")
	cmd.Flags().StringVar(&opts.variant, "variant", "", "drawing preset: pldt (default), compact, wide")
	cmd.Flags().Float64Var(&opts.dpi, "dpi", 0, "PNG resolution (default 200)")
	cmd.Flags().StringVar(&opts.footer, "footer", "", "footer text")
	cmd.Flags().StringVar(&opts.converter, "converter", "", "PNG/PDF converter: native (default), rsvg")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute cached results")
	opts.spacing.register(cmd)

	return cmd
}

// renderOptions resolves flags over the config file into pipeline options.
func (c *CLI) renderOptions(cmd *cobra.Command, opts *renderOpts) (pipeline.Options, error) {
	cfg := c.settings()

	variant := opts.variant
	if variant == "" {
		variant = cfg.Variant
	}
	spacing, err := cfg.LayoutFor(variant)
	if err != nil {
		return pipeline.Options{}, err
	}
	spacing = opts.spacing.apply(cmd, spacing)

	po := pipeline.Options{
		Variant:   variant,
		Layout:    &spacing,
		Formats:   parseFormats(opts.formats, cfg.Formats),
		DPI:       firstNonZero(opts.dpi, cfg.DPI),
		Footer:    firstNonEmpty(opts.footer, cfg.Footer),
		Converter: firstNonEmpty(opts.converter, cfg.Converter),
		Refresh:   opts.refresh,
	}
	if err := pipeline.ValidateFormats(po.Formats); err != nil {
		return pipeline.Options{}, err
	}
	return po, nil
}

// runRender reads the topology, runs the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, input string, po pipeline.Options, opts renderOpts) error {
	data, err := io.ReadFile(input)
	if err != nil {
		return err
	}
	po.Input = data
	po.Logger = loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(po.Formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, po)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := io.WriteArtifacts(basePath(opts.output, input, isFormat), result.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.LCPCount, result.Stats.NAPCount, result.Stats.Rows, result.CacheInfo.RenderHit)
	return nil
}

func isFormat(s string) bool { return pipeline.ValidFormats[s] }

func firstNonZero(v ...float64) float64 {
	for _, x := range v {
		if x != 0 {
			return x
		}
	}
	return 0
}

func firstNonEmpty(v ...string) string {
	for _, s := range v {
		if s != "" {
			return s
		}
	}
	return ""
}
