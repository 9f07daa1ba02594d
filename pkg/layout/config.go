package layout

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/fibersld/pkg/errors"
)

// Default spacing, in diagram units.
const (
	DefaultRowHeight      = 4.5
	DefaultNAPSpacing     = 3.2
	DefaultLCPStartX      = 3.0
	DefaultLCPsPerRow     = 3
	DefaultColumnGutter   = 1.5
	DefaultClosureOffsetX = 2.0
	DefaultClosureRise    = 1.5
	DefaultMargin         = 1.0
)

var validate = validator.New()

// Config holds the spacing parameters of a layout.
type Config struct {
	RowHeight      float64 `json:"row_height" yaml:"row_height" toml:"row_height" validate:"gt=0"`
	NAPSpacing     float64 `json:"nap_spacing" yaml:"nap_spacing" toml:"nap_spacing" validate:"gt=0"`
	LCPStartX      float64 `json:"lcp_start_x" yaml:"lcp_start_x" toml:"lcp_start_x" validate:"gt=0"`
	LCPsPerRow     int     `json:"lcps_per_row" yaml:"lcps_per_row" toml:"lcps_per_row" validate:"min=1"`
	ColumnGutter   float64 `json:"column_gutter" yaml:"column_gutter" toml:"column_gutter" validate:"gte=0"`
	ClosureOffsetX float64 `json:"closure_offset_x" yaml:"closure_offset_x" toml:"closure_offset_x" validate:"gte=0"`
	ClosureRise    float64 `json:"closure_rise" yaml:"closure_rise" toml:"closure_rise" validate:"gte=0"`
	Margin         float64 `json:"margin" yaml:"margin" toml:"margin" validate:"gte=0"`
	BaseY          float64 `json:"base_y" yaml:"base_y" toml:"base_y"`
}

// DefaultConfig returns the spacing used by the standard PLDT diagram.
func DefaultConfig() Config {
	return Config{
		RowHeight:      DefaultRowHeight,
		NAPSpacing:     DefaultNAPSpacing,
		LCPStartX:      DefaultLCPStartX,
		LCPsPerRow:     DefaultLCPsPerRow,
		ColumnGutter:   DefaultColumnGutter,
		ClosureOffsetX: DefaultClosureOffsetX,
		ClosureRise:    DefaultClosureRise,
		Margin:         DefaultMargin,
	}
}

// WithDefaults fills zero-valued fields from [DefaultConfig].
// Zero is invalid for the row, spacing and start fields, so each is filled on
// its own. ColumnGutter, ClosureOffsetX, ClosureRise and Margin may be zero and
// are filled together, only when all four are unset. BaseY is left untouched
// since zero is a meaningful baseline.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.RowHeight == 0 {
		c.RowHeight = d.RowHeight
	}
	if c.NAPSpacing == 0 {
		c.NAPSpacing = d.NAPSpacing
	}
	if c.LCPStartX == 0 {
		c.LCPStartX = d.LCPStartX
	}
	if c.LCPsPerRow == 0 {
		c.LCPsPerRow = d.LCPsPerRow
	}
	if c.ColumnGutter == 0 && c.ClosureOffsetX == 0 && c.ClosureRise == 0 && c.Margin == 0 {
		c.ColumnGutter = d.ColumnGutter
		c.ClosureOffsetX = d.ClosureOffsetX
		c.ClosureRise = d.ClosureRise
		c.Margin = d.Margin
	}
	return c
}

// Validate checks that every spacing parameter is usable.
// The returned error carries [errors.ErrCodeInvalidConfig].
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, formatValidationError(err), "invalid layout config")
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	e := verrs[0]
	switch e.Tag() {
	case "gt":
		return fmt.Errorf("%s: must be greater than %s, got %v", e.Field(), e.Param(), e.Value())
	case "gte":
		return fmt.Errorf("%s: must not be negative, got %v", e.Field(), e.Value())
	case "min":
		return fmt.Errorf("%s: must be at least %s, got %v", e.Field(), e.Param(), e.Value())
	default:
		return fmt.Errorf("%s: failed %q validation", e.Field(), e.Tag())
	}
}
