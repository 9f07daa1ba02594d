package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/matzehuels/fibersld/pkg/diagram"
	"github.com/matzehuels/fibersld/pkg/errors"
	"github.com/matzehuels/fibersld/pkg/pipeline"
	"github.com/matzehuels/fibersld/pkg/topology"
)

// DownloadName is the base file name of served artifacts.
const DownloadName = "FTTH_SLD"

var contentTypes = map[string]string{
	pipeline.FormatPNG:  diagram.PNG.ContentType(),
	pipeline.FormatPDF:  diagram.PDF.ContentType(),
	pipeline.FormatSVG:  diagram.SVG.ContentType(),
	pipeline.FormatJSON: "application/json",
	pipeline.FormatDOT:  "text/vnd.graphviz; charset=utf-8",
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
	// Path locates the node without an id, e.g. "lcps[2].naps[0]".
	Path   string `json:"path,omitempty"`
	Row    *int   `json:"row,omitempty"`
	Column *int   `json:"column,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVariants(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"variants": diagram.Variants(),
		"default":  pipeline.DefaultVariant,
	})
}

// handleRender renders the posted topology in one format (default png).
// Query parameters: format, variant, dpi, converter, footer.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatPNG
	}

	opts, err := s.options(w, r, []string{format})
	if err != nil {
		writeError(w, r, err)
		return
	}
	if v := q.Get("dpi"); v != "" {
		dpi, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid dpi %q", v))
			return
		}
		opts.DPI = dpi
	}
	opts.Converter = q.Get("converter")
	opts.Footer = q.Get("footer")

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	if format != pipeline.FormatJSON {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, DownloadName, format))
	}
	w.Header().Set("X-Plan-Hash", res.PlanHash)
	w.Header().Set("X-Cache", cacheStatus(res.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

// handleLayout returns the plan of the posted topology as JSON.
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(w, r, []string{pipeline.FormatJSON})
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", cacheStatus(res.CacheInfo.PlanHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[pipeline.FormatJSON])
}

func (s *Server) options(w http.ResponseWriter, r *http.Request, formats []string) (pipeline.Options, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBody))
	if err != nil {
		return pipeline.Options{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	if len(body) == 0 {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidInput, "request body must be a topology document")
	}
	return pipeline.Options{
		Input:   body,
		Formats: formats,
		Variant: r.URL.Query().Get("variant"),
	}, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

// StatusCode maps an error to its HTTP status: bad input 400, nothing to
// draw 422, rate limiting 429, timeouts 504, everything else 500.
func StatusCode(err error) int {
	var rl *errors.RateLimitedError
	if errors.As(err, &rl) {
		return http.StatusTooManyRequests
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeMissingID, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeEmptyDiagram:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	resp := ErrorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: RequestID(r.Context()),
	}

	var rl *errors.RateLimitedError
	if errors.As(err, &rl) {
		resp.Code = string(rl.Code())
		resp.Error = rl.Error()
	}

	var missing *topology.MissingIDError
	if errors.As(err, &missing) {
		resp.Error = missing.Error()
		resp.Path = missing.Path()
		if missing.Row >= 0 {
			resp.Row, resp.Column = &missing.Row, &missing.Column
		}
	}

	if status >= http.StatusInternalServerError && resp.Code == "" {
		resp.Code = string(errors.ErrCodeInternal)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
