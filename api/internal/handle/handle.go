package handle

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"reuse-api/api/internal/listing"
	"reuse-api/api/internal/vision"
)

// Analyzer runs the model pipeline for an uploaded photo.
type Analyzer interface {
	CheckReusability(ctx context.Context, img vision.Image) (listing.Verdict, error)
	Generate(ctx context.Context, img vision.Image) (listing.Response, error)
}

type Options struct {
	MaxImageBytes  int64
	RequestTimeout time.Duration
	Engine         string
	Model          string
}

type Handle struct {
	svc  Analyzer
	opts Options
}

func New(svc Analyzer, opts Options) *Handle {
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = 5 << 20
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 120 * time.Second
	}
	return &Handle{
		svc:  svc,
		opts: opts,
	}
}

// Limit wraps the handler registered under scope, e.g. with a rate limiter.
type Limit func(scope string) func(http.Handler) http.Handler

// Register mounts the routes on mux. limits run outermost first.
func (h *Handle) Register(mux *http.ServeMux, limits ...Limit) {
	wrap := func(scope string, fn http.HandlerFunc) http.Handler {
		var hh http.Handler = fn
		for i := len(limits) - 1; i >= 0; i-- {
			hh = limits[i](scope)(hh)
		}
		return hh
	}
	mux.Handle("POST /generate-content", wrap("generate-content", h.GenerateContent))
	mux.Handle("POST /check-reusability", wrap("check-reusability", h.CheckReusability))
	mux.HandleFunc("GET /health", h.Health)
}

// requestContext applies the per-request deadline. Callers may shorten or
// extend it with the X-Request-Timeout header or timeoutSec query (seconds).
func (h *Handle) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	deadline := h.opts.RequestTimeout
	if ts := r.Header.Get("X-Request-Timeout"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	} else if ts := r.URL.Query().Get("timeoutSec"); ts != "" {
		if v, _ := strconv.Atoi(ts); v > 0 {
			deadline = time.Duration(v) * time.Second
		}
	}
	return context.WithTimeout(r.Context(), deadline)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
