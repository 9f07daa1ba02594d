// Package cli implements the fibersld command-line interface.
package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fibersld/pkg/buildinfo"
	"github.com/matzehuels/fibersld/pkg/cache"
	"github.com/matzehuels/fibersld/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "fibersld"

	// defaultBase is the output base name when reading from stdin.
	defaultBase = "FTTH_SLD"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath    string
	cacheLocation string
	config        *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "fibersld draws FTTH single-line diagrams",
		Long: `fibersld turns an as-built FTTH topology (closure, LCPs, NAPs) into a
single-line diagram and exports it as PNG, PDF or SVG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (.toml, .yaml)")
	root.PersistentFlags().StringVar(&c.cacheLocation, "cache", "", "cache location: directory, redis://, mongodb:// or none")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.nodelinkCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.workerCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	if c.config != nil {
		return nil
	}
	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	c.config = cfg
	if c.cacheLocation == "" {
		c.cacheLocation = cfg.Cache
	}
	c.Logger.Debug("config loaded", "path", cfg.Path, "variant", cfg.Variant, "cache", c.cacheLocation)
	return nil
}

// settings returns the loaded configuration, or the defaults when no
// command has loaded one yet.
func (c *CLI) settings() *Config {
	if c.config == nil {
		return DefaultConfig()
	}
	return c.config
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// openCache opens the configured cache. A cache that cannot be reached is
// replaced by a NullCache with a warning, so rendering never depends on it.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.cacheLocation == "none" {
		return cache.NewNullCache(), nil
	}
	ch, err := cache.Open(ctx, c.cacheLocation)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "location", c.cacheLocation, "error", err)
		return cache.NewNullCache(), nil
	}
	return ch, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice,
// falling back to def when s is empty.
func parseFormats(s string, def []string) []string {
	if f := pipeline.ParseFormats(s); len(f) > 0 {
		return f
	}
	return def
}

// basePath derives the output base path (without extension) from the
// output flag and the input path. Stdin input without -o yields FTTH_SLD.
func basePath(output, input string, known func(string) bool) string {
	if output == "" {
		if input == "-" {
			return defaultBase
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	if ext := filepath.Ext(output); known(strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
