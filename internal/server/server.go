// Package server exposes the diagram pipeline over HTTP.
//
// Routes:
//
//	POST /v1/render?format=png|pdf|svg|json|dot  topology JSON in, artifact out
//	POST /v1/layout                              topology JSON in, plan JSON out
//	GET  /v1/variants                            preset names
//	GET  /healthz                                liveness
//	GET  /metrics                                Prometheus exposition
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/matzehuels/fibersld/pkg/observability"
	"github.com/matzehuels/fibersld/pkg/pipeline"
)

// Defaults for Config.
const (
	DefaultAddr           = ":8080"
	DefaultRateLimit      = 10.0
	DefaultBurst          = 20
	DefaultMaxBody        = 4 << 20
	DefaultRequestTimeout = 30 * time.Second
	ServiceName           = "fibersld"
)

// Config configures the HTTP service.
type Config struct {
	Addr string `toml:"addr" yaml:"addr"`
	// RateLimit is the sustained requests per second across all clients.
	// Zero disables limiting.
	RateLimit      float64       `toml:"rate_limit" yaml:"rate_limit"`
	Burst          int           `toml:"burst" yaml:"burst"`
	MaxBody        int64         `toml:"max_body" yaml:"max_body"`
	RequestTimeout time.Duration `toml:"request_timeout" yaml:"request_timeout"`
}

// DefaultConfig returns the standard service settings.
func DefaultConfig() Config {
	return Config{
		Addr:           DefaultAddr,
		RateLimit:      DefaultRateLimit,
		Burst:          DefaultBurst,
		MaxBody:        DefaultMaxBody,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Server serves the pipeline over HTTP.
type Server struct {
	runner  *pipeline.Runner
	logger  *log.Logger
	metrics *observability.Prometheus
	limiter *rate.Limiter
	cfg     Config
}

// New creates a server. metrics may be nil, which disables /metrics.
func New(runner *pipeline.Runner, logger *log.Logger, metrics *observability.Prometheus, cfg Config) *Server {
	d := DefaultConfig()
	if cfg.Addr == "" {
		cfg.Addr = d.Addr
	}
	if cfg.MaxBody <= 0 {
		cfg.MaxBody = d.MaxBody
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = d.RequestTimeout
	}
	if cfg.Burst <= 0 {
		cfg.Burst = d.Burst
	}
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{runner: runner, logger: logger, metrics: metrics, cfg: cfg}
	if cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst)
	}
	return s
}

// Handler returns the instrumented router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Use(s.timeout)
		r.Get("/variants", s.handleVariants)
		r.Post("/render", s.handleRender)
		r.Post("/layout", s.handleLayout)
	})

	return otelhttp.NewHandler(r, ServiceName)
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
