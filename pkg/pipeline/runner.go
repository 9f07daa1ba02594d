package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/matzehuels/fibersld/pkg/cache"
	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/layout"
	"github.com/matzehuels/fibersld/pkg/observability"
	"github.com/matzehuels/fibersld/pkg/topology"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the HTTP service and the worker all use it.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
// A topology without LCPs yields [ErrNothingToDraw] and no result.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	ctx, end := observability.StartSpan(ctx, "pipeline.execute",
		attribute.String("variant", opts.Variant),
		attribute.StringSlice("formats", opts.Formats))
	result, err := r.execute(ctx, opts)
	end(err)
	return result, err
}

func (r *Runner) execute(ctx context.Context, opts Options) (*Result, error) {
	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	t, err := r.Parse(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Topology = t
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.LCPCount = len(t.LCPs)
	result.Stats.NAPCount = t.NAPCount()

	opts.Logger.Info("parsed topology",
		"lcps", result.Stats.LCPCount,
		"naps", result.Stats.NAPCount,
		"duration", result.Stats.ParseTime)

	if t.IsEmpty() {
		opts.Logger.Warn("nothing to draw")
		return nil, ErrNothingToDraw
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	plan, planData, planHit, err := r.GenerateLayoutWithCacheInfo(ctx, t, opts)
	if err != nil {
		return nil, err
	}
	result.Plan = plan
	result.TopologyHash = topologyHash(t)
	result.PlanHash = cache.Hash(planData)
	result.Stats.Rows = plan.Rows
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.PlanHit = planHit

	opts.Logger.Info("computed layout",
		"rows", plan.Rows,
		"width", plan.Width(),
		"height", plan.Height(),
		"cached", planHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, t, plan, result.TopologyHash, result.PlanHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Parse decodes the topology, reporting to the pipeline hooks.
func (r *Runner) Parse(ctx context.Context, opts Options) (*topology.Topology, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, len(opts.Input))

	start := time.Now()
	t, err := Parse(opts)
	if err != nil {
		hooks.OnParseComplete(ctx, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnParseComplete(ctx, len(t.LCPs), t.NAPCount(), time.Since(start), nil)
	return t, nil
}

// GenerateLayoutWithCacheInfo computes the plan with caching. It also
// returns the plan's JSON encoding, whose hash keys the rendered artifacts.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, t *topology.Topology, opts Options) (*layout.Plan, []byte, bool, error) {
	if opts.Topology == nil {
		opts.Topology = t
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, false, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(t.LCPs))
	start := time.Now()

	cacheKey := r.Keyer.PlanKey(topologyHash(t), opts.PlanKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if plan, err := UnmarshalPlan(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "plan")
				hooks.OnLayoutComplete(ctx, plan.Rows, time.Since(start), nil)
				return plan, data, true, nil
			}
			opts.Logger.Debug("discarding unreadable cached plan", "key", cacheKey)
		} else if err != nil {
			opts.Logger.Warn("plan cache lookup failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "plan")
	}

	plan, err := layout.Compute(t, opts.config.Layout)
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, time.Since(start), err)
		return nil, nil, false, err
	}
	data, err := MarshalPlan(plan)
	if err != nil {
		hooks.OnLayoutComplete(ctx, 0, time.Since(start), err)
		return nil, nil, false, err
	}

	if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLPlan); err != nil {
		opts.Logger.Warn("plan cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "plan", len(data))
	}

	hooks.OnLayoutComplete(ctx, plan.Rows, time.Since(start), nil)
	return plan, data, false, nil
}

// GenerateLayout is a convenience wrapper that calls GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, t *topology.Topology, opts Options) (*layout.Plan, error) {
	plan, _, _, err := r.GenerateLayoutWithCacheInfo(ctx, t, opts)
	return plan, err
}

// RenderWithCacheInfo produces every requested format, rendering only the
// ones missing from the cache. The bool reports whether all came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, t *topology.Topology, plan *layout.Plan, topoHash, planHash string, opts Options) (map[string][]byte, bool, error) {
	if opts.Topology == nil {
		opts.Topology = t
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	// Labels are not part of the plan, so artifacts key on both hashes.
	base := cache.Hash([]byte(topoHash + ":" + planHash))

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(base, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, t, plan, missing, opts)
	if err != nil {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, err
	}

	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(base, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("artifact cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// topologyHash hashes the normalized topology, so whitespace, fences and
// key order in the source document do not split the cache.
func topologyHash(t *topology.Topology) string {
	data, err := json.Marshal(t)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// IsNothingToDraw reports whether err means the topology had no LCPs.
func IsNothingToDraw(err error) bool {
	return errors.Is(err, errors.ErrCodeEmptyDiagram)
}
