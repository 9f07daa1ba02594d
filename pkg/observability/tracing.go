package observability

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope for fibersld spans.
const TracerName = "github.com/matzehuels/fibersld"

// StartSpan starts a span on the global tracer provider. The returned
// function ends it, recording err when non-nil.
//
//	ctx, end := observability.StartSpan(ctx, "pipeline.layout")
//	plan, err := layout.Compute(topo, cfg)
//	end(err)
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := otel.Tracer(TracerName).Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

// Tracing adds pipeline and cache events to the span carried by ctx.
// Without an active span the events are dropped.
type Tracing struct{}

func (Tracing) OnParseStart(ctx context.Context, size int) {
	trace.SpanFromContext(ctx).AddEvent("parse.start", trace.WithAttributes(attribute.Int("bytes", size)))
}

func (Tracing) OnParseComplete(ctx context.Context, lcps, naps int, d time.Duration, err error) {
	event(ctx, "parse.complete", d, err, attribute.Int("lcps", lcps), attribute.Int("naps", naps))
}

func (Tracing) OnLayoutStart(ctx context.Context, lcps int) {
	trace.SpanFromContext(ctx).AddEvent("layout.start", trace.WithAttributes(attribute.Int("lcps", lcps)))
}

func (Tracing) OnLayoutComplete(ctx context.Context, rows int, d time.Duration, err error) {
	event(ctx, "layout.complete", d, err, attribute.Int("rows", rows))
}

func (Tracing) OnRenderStart(ctx context.Context, formats []string) {
	trace.SpanFromContext(ctx).AddEvent("render.start", trace.WithAttributes(attribute.StringSlice("formats", formats)))
}

func (Tracing) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	event(ctx, "render.complete", d, err, attribute.String("formats", strings.Join(formats, ",")))
}

func (Tracing) OnCacheHit(ctx context.Context, keyType string) {
	trace.SpanFromContext(ctx).AddEvent("cache.hit", trace.WithAttributes(attribute.String("key_type", keyType)))
}

func (Tracing) OnCacheMiss(ctx context.Context, keyType string) {
	trace.SpanFromContext(ctx).AddEvent("cache.miss", trace.WithAttributes(attribute.String("key_type", keyType)))
}

func (Tracing) OnCacheSet(ctx context.Context, keyType string, size int) {
	trace.SpanFromContext(ctx).AddEvent("cache.set", trace.WithAttributes(
		attribute.String("key_type", keyType), attribute.Int("bytes", size)))
}

func event(ctx context.Context, name string, d time.Duration, err error, attrs ...attribute.KeyValue) {
	attrs = append(attrs, attribute.Int64("duration_ms", d.Milliseconds()))
	if err != nil {
		attrs = append(attrs, attribute.String("error", err.Error()))
	}
	trace.SpanFromContext(ctx).AddEvent(name, trace.WithAttributes(attrs...))
}

var (
	_ PipelineHooks = Tracing{}
	_ CacheHooks    = Tracing{}
)
