package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"benchwatch/internal/sync"
)

// Syncer is the engine surface the transport depends on.
type Syncer interface {
	Sync(ctx context.Context, opts sync.Options) *sync.Result
}

// Pinger reports backing-store health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthChecker reports optional backing-service health, matching the
// platform redis client.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler delegates to the sync service without embedding engine logic.
type Handler struct {
	syncer Syncer
	db     Pinger
	cache  HealthChecker
	logger *slog.Logger
}

// NewHandler builds the HTTP handler set. db and cache may be nil when
// health checks should not touch them.
func NewHandler(syncer Syncer, db Pinger, cache HealthChecker, logger *slog.Logger) *Handler {
	return &Handler{syncer: syncer, db: db, cache: cache, logger: logger}
}

// handleSync runs one invocation synchronously and returns its result. The
// run itself never errors; failures ride inside the result payload.
func (h *Handler) handleSync(w http.ResponseWriter, r *http.Request) {
	var opts sync.Options
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid options payload"})
			return
		}
	}

	result := h.syncer.Sync(r.Context(), opts)
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.PingContext(r.Context()); err != nil {
			h.logger.WarnContext(r.Context(), "health check failed", "dependency", "postgres", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	if h.cache != nil {
		if err := h.cache.Health(r.Context()); err != nil {
			h.logger.WarnContext(r.Context(), "health check failed", "dependency", "redis", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
