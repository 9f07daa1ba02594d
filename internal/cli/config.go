package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/nats-io/nats.go"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/fibersld/internal/server"
	"github.com/matzehuels/fibersld/internal/worker"
	"github.com/matzehuels/fibersld/pkg/diagram"
	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/layout"
	"github.com/matzehuels/fibersld/pkg/pipeline"
)

// Config is the optional config file. Command-line flags override it.
//
//	variant = "compact"
//	formats = ["png", "pdf"]
//	cache   = "redis://localhost:6379/0"
//
//	[layout]
//	lcps_per_row = 4
//
//	[server]
//	addr = ":9090"
//
//	[worker]
//	url = "nats://localhost:4222"
type Config struct {
	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-" yaml:"-"`

	Variant   string   `toml:"variant" yaml:"variant"`
	Formats   []string `toml:"formats" yaml:"formats"`
	DPI       float64  `toml:"dpi" yaml:"dpi"`
	Footer    string   `toml:"footer" yaml:"footer"`
	Converter string   `toml:"converter" yaml:"converter"`
	Cache     string   `toml:"cache" yaml:"cache"`

	// Layout overrides the variant's spacing; zero fields keep the variant value.
	Layout layout.Config `toml:"layout" yaml:"layout"`

	Server server.Config `toml:"server" yaml:"server"`
	Worker WorkerConfig  `toml:"worker" yaml:"worker"`
}

// WorkerConfig adds the NATS server address to the worker settings.
type WorkerConfig struct {
	URL           string `toml:"url" yaml:"url"`
	worker.Config `yaml:",inline"`
}

// DefaultConfig returns the settings used without a config file.
func DefaultConfig() *Config {
	return &Config{
		Variant: pipeline.DefaultVariant,
		Formats: slices.Clone(pipeline.DefaultFormats),
		Server:  server.DefaultConfig(),
		Worker:  WorkerConfig{URL: nats.DefaultURL, Config: worker.DefaultConfig()},
	}
}

// configNames are looked up in the user config directory when no
// --config flag is given.
var configNames = []string{"config.toml", "config.yaml", "config.yml"}

// LoadConfig reads the config file at path over the defaults. An empty path
// tries the user config directory and falls back to the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = findConfig()
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "config %s: unsupported extension (use .toml or .yaml)", path)
	}

	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

func findConfig() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range configNames {
		p := filepath.Join(dir, appName, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate checks the variant, formats, converter and merged layout.
func (c *Config) Validate() error {
	if _, err := c.LayoutFor(c.Variant); err != nil {
		return err
	}
	if err := pipeline.ValidateFormats(c.Formats); err != nil {
		return err
	}
	if c.Converter != "" {
		return pipeline.ValidateConverter(c.Converter)
	}
	return nil
}

// LayoutFor returns the spacing of the named variant with the file's
// layout overrides applied.
func (c *Config) LayoutFor(variant string) (layout.Config, error) {
	if variant == "" {
		variant = pipeline.DefaultVariant
	}
	v, err := diagram.Variant(variant)
	if err != nil {
		return layout.Config{}, err
	}
	merged := mergeLayout(v.Layout, c.Layout)
	return merged, merged.Validate()
}

// mergeLayout returns base with every non-zero field of over applied.
func mergeLayout(base, over layout.Config) layout.Config {
	set := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	set(&base.RowHeight, over.RowHeight)
	set(&base.NAPSpacing, over.NAPSpacing)
	set(&base.LCPStartX, over.LCPStartX)
	set(&base.ColumnGutter, over.ColumnGutter)
	set(&base.ClosureOffsetX, over.ClosureOffsetX)
	set(&base.ClosureRise, over.ClosureRise)
	set(&base.Margin, over.Margin)
	set(&base.BaseY, over.BaseY)
	if over.LCPsPerRow != 0 {
		base.LCPsPerRow = over.LCPsPerRow
	}
	return base
}
