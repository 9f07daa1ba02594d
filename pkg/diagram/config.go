package diagram

import (
	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/layout"
	"github.com/matzehuels/fibersld/pkg/render/canvas"
	"github.com/matzehuels/fibersld/pkg/render/symbols"
)

// DefaultFooter is the attribution line printed under every diagram.
const DefaultFooter = "PLDT FIXED ACCESS ENGINEERING TEAM | Huawei Technologies Phils., Inc."

// DefaultProjectName is shown when the topology has no project name.
const DefaultProjectName = "FTTH PLAN"

// Config controls composition and raster export.
type Config struct {
	Layout layout.Config
	Theme  symbols.Theme
	// DPI is the PNG resolution; values below canvas.MinDPI are raised.
	DPI    float64
	Footer string
}

// DefaultConfig returns the standard PLDT variant.
func DefaultConfig() Config {
	return Config{
		Layout: layout.DefaultConfig(),
		Theme:  symbols.PLDT(),
		DPI:    canvas.DefaultDPI,
		Footer: DefaultFooter,
	}
}

// Variant returns the named preset: "pldt", "compact" or "wide".
func Variant(name string) (Config, error) {
	th, ok := symbols.ThemeByName(name)
	if !ok {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig,
			"unknown variant %q (want one of %v)", name, symbols.ThemeNames())
	}
	cfg := DefaultConfig()
	cfg.Theme = th
	switch name {
	case "compact":
		cfg.Layout.RowHeight = 4.0
		cfg.Layout.NAPSpacing = 2.6
		cfg.Layout.LCPsPerRow = 4
		cfg.Layout.ColumnGutter = 1.0
	case "wide":
		cfg.Layout.RowHeight = 5.0
		cfg.Layout.NAPSpacing = 3.6
		cfg.Layout.LCPsPerRow = 2
	}
	return cfg, nil
}

// Variants lists the preset names.
func Variants() []string { return symbols.ThemeNames() }

func (c Config) withDefaults() Config {
	c.Layout = c.Layout.WithDefaults()
	if c.Theme.Name == "" {
		c.Theme = symbols.PLDT()
	}
	if c.DPI == 0 {
		c.DPI = canvas.DefaultDPI
	}
	if c.Footer == "" {
		c.Footer = DefaultFooter
	}
	return c
}
