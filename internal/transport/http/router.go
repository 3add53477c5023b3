// Package httptransport is the thin HTTP layer over the sync engine. It
// exposes the invocation trigger, health, and metrics; the public directory
// UI lives in a separate system.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"benchwatch/pkg/platform/middleware/requesttime"
	"benchwatch/pkg/requestcontext"
)

// NewRouter wires the sync daemon's endpoints.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(requestIDContext)
	r.Use(requesttime.Middleware)
	r.Use(chimw.Recoverer)

	r.Post("/sync", h.handleSync)
	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// requestIDContext copies chi's request id into the transport-independent
// context slot services read from.
func requestIDContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := chimw.GetReqID(r.Context()); reqID != "" {
			r = r.WithContext(requestcontext.WithRequestID(r.Context(), reqID))
		}
		next.ServeHTTP(w, r)
	})
}
