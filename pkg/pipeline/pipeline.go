// Package pipeline provides the core diagram pipeline for fibersld.
//
// This package implements the complete parse → layout → render pipeline that
// the CLI, the HTTP service and the queue worker share. By centralizing this
// logic, every entry point validates, caches and renders the same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: decode the topology document (raw model output is accepted)
//  2. Layout: compute the diagram plan from the topology and spacing config
//  3. Render: compose the diagram and export each requested format
//
// Plans and artifacts are cached by content hash, so re-rendering an
// unchanged topology with unchanged options is a cache lookup.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   data,
//	    Formats: []string{"png", "pdf"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fibersld/pkg/cache"
	"github.com/matzehuels/fibersld/pkg/diagram"
	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/layout"
	"github.com/matzehuels/fibersld/pkg/render/canvas"
	"github.com/matzehuels/fibersld/pkg/topology"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

// DefaultVariant is the default drawing preset.
const DefaultVariant = "pldt"

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json" // the layout plan
	FormatDOT  = "dot"  // Graphviz tree view source
)

// Converter names for PNG and PDF production.
const (
	ConverterNative = "native" // gg and gofpdf, in process
	ConverterRSVG   = "rsvg"   // native SVG piped through rsvg-convert
)

// DefaultFormats matches the two downloads the diagram is usually shared as.
var DefaultFormats = []string{FormatPNG, FormatPDF}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatDOT:  true,
}

// ErrNothingToDraw is returned when the topology has no LCPs.
var ErrNothingToDraw = errors.New(errors.ErrCodeEmptyDiagram, "nothing to draw: the topology has no LCPs")

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the diagram pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input is the raw topology document. It may be wrapped in a Markdown
	// code fence as language models tend to return it.
	Input []byte `json:"-"`
	// Topology is used instead of Input when set.
	Topology *topology.Topology `json:"topology,omitempty"`

	// Layout options
	Variant string         `json:"variant,omitempty"`
	Layout  *layout.Config `json:"layout,omitempty"` // overrides the variant's spacing

	// Render options
	Formats   []string `json:"formats,omitempty"`
	DPI       float64  `json:"dpi,omitempty"`
	Footer    string   `json:"footer,omitempty"`
	Converter string   `json:"converter,omitempty"`

	// Refresh skips cache lookups; results are still written back.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// config is the resolved diagram configuration.
	config diagram.Config
	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Topology is the parsed topology.
	Topology *topology.Topology

	// TopologyHash is the content hash of the normalized topology.
	TopologyHash string

	// Plan is the computed layout.
	Plan *layout.Plan

	// PlanHash is the content hash of the plan's JSON encoding.
	PlanHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LCPCount   int
	NAPCount   int
	Rows       int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	PlanHit   bool // Whether the plan came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateConverter checks that a converter name is valid.
func ValidateConverter(name string) error {
	switch name {
	case ConverterNative, ConverterRSVG:
		return nil
	}
	return errors.New(errors.ErrCodeInvalidConfig,
		"invalid converter: %q (must be one of: native, rsvg)", name)
}

// ParseFormats splits a comma-separated list, trimming blanks and
// lowercasing, and drops duplicates while keeping order.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and resolves the diagram
// configuration. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Topology == nil && len(o.Input) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "topology input is required")
	}

	if o.Variant == "" {
		o.Variant = DefaultVariant
	}
	cfg, err := diagram.Variant(o.Variant)
	if err != nil {
		return err
	}
	if o.Layout != nil {
		cfg.Layout = o.Layout.WithDefaults()
	}
	if err := cfg.Layout.Validate(); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = slices.Clone(DefaultFormats)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.Converter == "" {
		o.Converter = ConverterNative
	}
	if err := ValidateConverter(o.Converter); err != nil {
		return err
	}

	if o.DPI == 0 {
		o.DPI = canvas.DefaultDPI
	}
	cfg.DPI = canvas.ClampDPI(o.DPI)
	o.DPI = cfg.DPI
	if o.Footer != "" {
		cfg.Footer = o.Footer
	}

	o.config = cfg
	o.validated = true
	return nil
}

// Config returns the resolved diagram configuration.
// Only valid after ValidateAndSetDefaults.
func (o *Options) Config() diagram.Config { return o.config }

// PlanKeyOpts returns cache key options for layout computation.
func (o *Options) PlanKeyOpts() cache.PlanKeyOpts {
	l := o.config.Layout
	return cache.PlanKeyOpts{
		RowHeight:      l.RowHeight,
		NAPSpacing:     l.NAPSpacing,
		LCPStartX:      l.LCPStartX,
		LCPsPerRow:     l.LCPsPerRow,
		ColumnGutter:   l.ColumnGutter,
		ClosureOffsetX: l.ClosureOffsetX,
		ClosureRise:    l.ClosureRise,
		Margin:         l.Margin,
		BaseY:          l.BaseY,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format: format,
		Theme:  o.config.Theme.Name,
		Footer: o.config.Footer,
	}
	if format == FormatPNG {
		k.DPI = int(o.config.DPI)
	}
	if format == FormatPNG || format == FormatPDF {
		k.Converter = o.Converter
	}
	return k
}

func (o *Options) String() string {
	return fmt.Sprintf("variant=%s formats=%v dpi=%.0f converter=%s", o.Variant, o.Formats, o.DPI, o.Converter)
}
