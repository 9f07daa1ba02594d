package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/fibersld/internal/server"
	"github.com/matzehuels/fibersld/pkg/observability"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		cfg     server.Config
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve the render API over HTTP.

  POST /v1/render?format=png|pdf|svg|json|dot   topology JSON in, artifact out
  POST /v1/layout                               topology JSON in, plan JSON out
  GET  /v1/variants                             available presets
  GET  /healthz                                 liveness
  GET  /metrics                                 Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			merged := c.settings().Server
			flags := cmd.Flags()
			if flags.Changed("addr") {
				merged.Addr = cfg.Addr
			}
			if flags.Changed("rate-limit") {
				merged.RateLimit = cfg.RateLimit
			}
			if flags.Changed("burst") {
				merged.Burst = cfg.Burst
			}
			if flags.Changed("timeout") {
				merged.RequestTimeout = cfg.RequestTimeout
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			metrics := installMetrics()
			return server.New(runner, c.Logger, metrics, merged).ListenAndServe(ctx)
		},
	}

	d := server.DefaultConfig()
	cmd.Flags().StringVar(&cfg.Addr, "addr", d.Addr, "listen address")
	cmd.Flags().Float64Var(&cfg.RateLimit, "rate-limit", d.RateLimit, "requests per second (0 disables)")
	cmd.Flags().IntVar(&cfg.Burst, "burst", d.Burst, "rate limit burst")
	cmd.Flags().DurationVar(&cfg.RequestTimeout, "timeout", d.RequestTimeout, "per-request timeout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// installMetrics registers Prometheus and tracing hooks for long-running
// services and returns the Prometheus collector set.
func installMetrics() *observability.Prometheus {
	p := observability.NewPrometheus()
	observability.SetPipelineHooks(observability.MultiPipeline{p, observability.Tracing{}})
	observability.SetCacheHooks(p)
	observability.SetRequestHooks(p)
	return p
}
