package api

import (
	"context"
	"net/http"

	"github.com/prometheus/common/expfmt"
)

// Scraper produces the /metrics payload. Each call is an independent scrape.
type Scraper interface {
	Scrape(ctx context.Context) []byte
}

// Handler is the HTTP handler for all exporter endpoints.
type Handler struct {
	scraper Scraper
	mux     *http.ServeMux
}

// New creates a Handler serving s on /metrics and selfMetrics on
// /exporter/metrics. selfMetrics may be nil, in which case that route is
// not registered.
func New(s Scraper, selfMetrics http.Handler) http.Handler {
	h := &Handler{scraper: s, mux: http.NewServeMux()}

	h.mux.HandleFunc("/metrics", h.metrics)
	h.mux.HandleFunc("/health", h.health)
	if selfMetrics != nil {
		h.mux.Handle("/exporter/metrics", readOnly(selfMetrics))
	}

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// --- route handlers ---------------------------------------------------------

// metrics returns GET /metrics, a fresh scrape of every configured target.
func (h *Handler) metrics(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r) {
		return
	}
	payload := h.scraper.Scrape(r.Context())
	w.Header().Set("Content-Type", string(expfmt.NewFormat(expfmt.TypeTextPlain)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(payload)
}

// health returns GET /health. Liveness only, no upstream calls.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if !allowed(w, r) {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write([]byte("ok\n"))
}

// --- helpers ----------------------------------------------------------------

// allowed writes a 405 and returns false for anything but GET and HEAD.
func allowed(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}

func readOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !allowed(w, r) {
			return
		}
		next.ServeHTTP(w, r)
	})
}
