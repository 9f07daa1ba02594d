package cli

import (
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fibersld/internal/worker"
	"github.com/matzehuels/fibersld/pkg/errors"
)

// workerCommand creates the worker command serving NATS render requests.
func (c *CLI) workerCommand() *cobra.Command {
	var (
		cfg     WorkerConfig
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Serve render requests from NATS",
		Long: `Serve render requests from NATS.

The worker joins a queue group on the render subject (default sld.render)
and answers each request {"id", "format", "topology"} with
{"id", "format", "data"} or {"id", "error", "code"}.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			merged := c.settings().Worker
			flags := cmd.Flags()
			if flags.Changed("url") {
				merged.URL = cfg.URL
			}
			if flags.Changed("subject") {
				merged.Subject = cfg.Subject
			}
			if flags.Changed("queue") {
				merged.Queue = cfg.Queue
			}

			nc, err := nats.Connect(merged.URL, nats.Name(appName+"-worker"))
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "connect %s", merged.URL)
			}
			defer nc.Close()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			installMetrics()
			return worker.New(nc, runner, c.Logger, merged.Config).Run(ctx)
		},
	}

	d := worker.DefaultConfig()
	cmd.Flags().StringVar(&cfg.URL, "url", nats.DefaultURL, "NATS server URL")
	cmd.Flags().StringVar(&cfg.Subject, "subject", d.Subject, "render subject")
	cmd.Flags().StringVar(&cfg.Queue, "queue", d.Queue, "queue group")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
