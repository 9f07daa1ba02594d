package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Prometheus records pipeline, cache and request events as Prometheus
// metrics. It implements PipelineHooks, CacheHooks and RequestHooks.
type Prometheus struct {
	registry *prometheus.Registry

	StageDuration   *prometheus.HistogramVec
	StageErrors     *prometheus.CounterVec
	TopologyLCPs    prometheus.Histogram
	TopologyNAPs    prometheus.Histogram
	LayoutRows      prometheus.Histogram
	CacheEvents     *prometheus.CounterVec
	CacheBytes      *prometheus.CounterVec
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlight        prometheus.Gauge
}

// NewPrometheus registers the fibersld metrics on a fresh registry together
// with the Go and process collectors.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		StageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fibersld_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"stage"}, // parse, layout, render
		),
		StageErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fibersld_stage_errors_total",
				Help: "Total number of failed pipeline stages",
			},
			[]string{"stage"},
		),
		TopologyLCPs: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fibersld_topology_lcps",
				Help:    "Number of LCPs per parsed topology",
				Buckets: prometheus.LinearBuckets(0, 3, 10),
			},
		),
		TopologyNAPs: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fibersld_topology_naps",
				Help:    "Number of NAPs per parsed topology",
				Buckets: prometheus.ExponentialBuckets(1, 2, 8),
			},
		),
		LayoutRows: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "fibersld_layout_rows",
				Help:    "Number of rows per computed layout",
				Buckets: prometheus.LinearBuckets(1, 1, 8),
			},
		),
		CacheEvents: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fibersld_cache_events_total",
				Help: "Cache lookups and writes",
			},
			[]string{"key_type", "event"}, // hit, miss, set
		),
		CacheBytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fibersld_cache_written_bytes_total",
				Help: "Bytes written to the cache",
			},
			[]string{"key_type"},
		),
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fibersld_requests_total",
				Help: "Total number of served requests",
			},
			[]string{"route", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fibersld_request_duration_seconds",
				Help:    "Request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		InFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "fibersld_requests_in_flight",
				Help: "Requests currently being served",
			},
		),
	}
}

// Registry returns the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func (p *Prometheus) stage(name string, d time.Duration, err error) {
	p.StageDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		p.StageErrors.WithLabelValues(name).Inc()
	}
}

func (p *Prometheus) OnParseStart(context.Context, int) {}

func (p *Prometheus) OnParseComplete(_ context.Context, lcps, naps int, d time.Duration, err error) {
	p.stage("parse", d, err)
	if err == nil {
		p.TopologyLCPs.Observe(float64(lcps))
		p.TopologyNAPs.Observe(float64(naps))
	}
}

func (p *Prometheus) OnLayoutStart(context.Context, int) {}

func (p *Prometheus) OnLayoutComplete(_ context.Context, rows int, d time.Duration, err error) {
	p.stage("layout", d, err)
	if err == nil && rows > 0 {
		p.LayoutRows.Observe(float64(rows))
	}
}

func (p *Prometheus) OnRenderStart(context.Context, []string) {}

func (p *Prometheus) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	p.stage("render", d, err)
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.CacheEvents.WithLabelValues(keyType, "set").Inc()
	p.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *Prometheus) OnRequest(context.Context, string) {
	p.InFlight.Inc()
}

func (p *Prometheus) OnResponse(_ context.Context, route string, status int, d time.Duration) {
	p.InFlight.Dec()
	p.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	p.RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ RequestHooks  = (*Prometheus)(nil)
)
