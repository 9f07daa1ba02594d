// Package worker renders diagrams for NATS request/reply clients.
//
// A client publishes a [Request] on the render subject and receives a
// [Response] carrying the artifact bytes (base64 in JSON) or an error code.
// Workers join a queue group, so any number of them share the load.
package worker

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/observability"
	"github.com/matzehuels/fibersld/pkg/pipeline"
)

// Defaults for Config.
const (
	DefaultSubject = "sld.render"
	DefaultQueue   = "fibersld"
	DefaultTimeout = 30 * time.Second
)

// Request asks for one rendering of a topology.
type Request struct {
	ID       string          `json:"id"`
	Format   string          `json:"format"`
	Variant  string          `json:"variant,omitempty"`
	Topology json.RawMessage `json:"topology"`
}

// Response answers a Request. Exactly one of Data and Error is set.
type Response struct {
	ID       string `json:"id"`
	Format   string `json:"format"`
	Data     []byte `json:"data,omitempty"`
	PlanHash string `json:"plan_hash,omitempty"`
	Error    string `json:"error,omitempty"`
	Code     string `json:"code,omitempty"`
}

// Err returns the response's failure as an *errors.Error, or nil.
func (r *Response) Err() error {
	if r.Error == "" {
		return nil
	}
	code := errors.Code(r.Code)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.New(code, "%s", r.Error)
}

// Config configures a Worker.
type Config struct {
	Subject string        `toml:"subject" yaml:"subject"`
	Queue   string        `toml:"queue" yaml:"queue"`
	Timeout time.Duration `toml:"timeout" yaml:"timeout"`
}

// DefaultConfig returns the standard worker settings.
func DefaultConfig() Config {
	return Config{Subject: DefaultSubject, Queue: DefaultQueue, Timeout: DefaultTimeout}
}

// Worker serves render requests from a NATS connection.
type Worker struct {
	nc     *nats.Conn
	runner *pipeline.Runner
	logger *log.Logger
	cfg    Config
}

// New creates a worker. Zero Config fields take their defaults.
func New(nc *nats.Conn, runner *pipeline.Runner, logger *log.Logger, cfg Config) *Worker {
	d := DefaultConfig()
	if cfg.Subject == "" {
		cfg.Subject = d.Subject
	}
	if cfg.Queue == "" {
		cfg.Queue = d.Queue
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = d.Timeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Worker{nc: nc, runner: runner, logger: logger, cfg: cfg}
}

// Start subscribes the worker to its subject within its queue group.
func (w *Worker) Start() (*nats.Subscription, error) {
	sub, err := w.nc.QueueSubscribe(w.cfg.Subject, w.cfg.Queue, w.handle)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "subscribe %s", w.cfg.Subject)
	}
	w.logger.Info("worker subscribed", "subject", w.cfg.Subject, "queue", w.cfg.Queue)
	return sub, nil
}

// Run serves requests until ctx is canceled, then drains the subscription.
func (w *Worker) Run(ctx context.Context) error {
	sub, err := w.Start()
	if err != nil {
		return err
	}
	<-ctx.Done()
	w.logger.Info("worker draining")
	return sub.Drain()
}

func (w *Worker) handle(msg *nats.Msg) {
	start := time.Now()
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), (*headerCarrier)(msg))
	ctx, cancel := context.WithTimeout(ctx, w.cfg.Timeout)
	defer cancel()

	hooks := observability.Request()
	hooks.OnRequest(ctx, w.cfg.Subject)

	resp := w.serve(ctx, msg.Data)

	status := http.StatusOK
	if resp.Error != "" {
		status = http.StatusInternalServerError
		w.logger.Warn("render failed", "id", resp.ID, "code", resp.Code, "error", resp.Error)
	} else {
		w.logger.Debug("rendered", "id", resp.ID, "format", resp.Format, "bytes", len(resp.Data), "duration", time.Since(start))
	}
	hooks.OnResponse(ctx, w.cfg.Subject, status, time.Since(start))

	data, err := json.Marshal(resp)
	if err != nil {
		w.logger.Error("encode reply", "id", resp.ID, "error", err)
		return
	}
	if err := msg.Respond(data); err != nil {
		w.logger.Error("reply", "id", resp.ID, "error", err)
	}
}

func (w *Worker) serve(ctx context.Context, data []byte) Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return failure(Response{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
	}
	resp := Response{ID: req.ID, Format: req.Format}
	if resp.Format == "" {
		resp.Format = pipeline.FormatPNG
	}

	ctx, end := observability.StartSpan(ctx, "worker.render",
		attribute.String("request.id", req.ID),
		attribute.String("format", resp.Format))

	res, err := w.runner.Execute(ctx, pipeline.Options{
		Input:   req.Topology,
		Formats: []string{resp.Format},
		Variant: req.Variant,
	})
	end(err)
	if err != nil {
		return failure(resp, err)
	}
	resp.Data = res.Artifacts[resp.Format]
	resp.PlanHash = res.PlanHash
	return resp
}

func failure(resp Response, err error) Response {
	resp.Error = errors.UserMessage(err)
	resp.Code = string(errors.GetCode(err))
	if resp.Code == "" {
		resp.Code = string(errors.ErrCodeInternal)
	}
	return resp
}

// Render sends req to the workers on subject and waits for the reply.
// A reply carrying an error is returned as that error.
func Render(ctx context.Context, nc *nats.Conn, subject string, req Request) (*Response, error) {
	if subject == "" {
		subject = DefaultSubject
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encode request")
	}
	msg := &nats.Msg{Subject: subject, Data: data}
	otel.GetTextMapPropagator().Inject(ctx, (*headerCarrier)(msg))

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}
	reply, err := nc.RequestMsgWithContext(ctx, msg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(errors.ErrCodeTimeout, err, "waiting for %s", subject)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "request %s", subject)
	}

	var resp Response
	if err := json.Unmarshal(reply.Data, &resp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode reply")
	}
	return &resp, resp.Err()
}

// headerCarrier adapts nats.Msg headers for the OTel TextMapCarrier.
type headerCarrier nats.Msg

func (c *headerCarrier) Get(key string) string {
	if c.Header == nil {
		return ""
	}
	return c.Header.Get(key)
}

func (c *headerCarrier) Set(key, val string) {
	if c.Header == nil {
		c.Header = make(nats.Header)
	}
	c.Header.Set(key, val)
}

func (c *headerCarrier) Keys() []string {
	if c.Header == nil {
		return nil
	}
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}
