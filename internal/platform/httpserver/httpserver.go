package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server with sane defaults for the sync daemon. No read
// timeout: /sync runs a full invocation before responding.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
