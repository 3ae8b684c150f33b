// Package adminhttp serves the server's diagnostic surface: a liveness
// probe and a Prometheus scrape endpoint, alongside the UDP datagram
// loop. It never touches the reservation protocol itself.
package adminhttp

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arvindgk/facilityresv/internal/logger"
)

// Status reports the facts /healthz publishes about the running server:
// whether its UDP socket is currently bound, and which invocation
// semantics it was started under.
type Status struct {
	SocketBound bool
	Semantics   string
}

// healthResponse is the /healthz JSON body.
type healthResponse struct {
	Status      string `json:"status"`
	SocketBound bool   `json:"socket_bound"`
	Semantics   string `json:"semantics"`
}

// NewHandler builds the chi mux for the admin HTTP surface. statusFunc is
// polled on every /healthz request so the reported socket-bound state
// reflects the server's current condition rather than a value captured
// once at startup.
func NewHandler(statusFunc func() Status) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := statusFunc()

		resp := healthResponse{
			Status:      "ok",
			SocketBound: status.SocketBound,
			Semantics:   status.Semantics,
		}
		w.Header().Set("Content-Type", "application/json")
		if !status.SocketBound {
			resp.Status = "unhealthy"
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debug("admin http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).String(),
		)
	})
}
