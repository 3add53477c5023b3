// Package requesttime provides middleware for request-scoped time. Every
// operation within a single request observes the same "now", so staleness
// comparisons and audit timestamps stay consistent across a run.
package requesttime

import (
	"net/http"
	"time"

	"benchwatch/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request and
// stores it in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
