package httpserver

import (
	"net/http"
	"time"
)

// New returns the server the binary listens on. Header reads are bounded so
// a stalled client cannot hold a connection open before routing.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
