package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// healthChecker is anything that can report its own health
type healthChecker interface {
	Health(ctx context.Context) error
}

// poolStatter is a destination that reports connection pool statistics
type poolStatter interface {
	PoolStats() map[string]interface{}
}

// cacheHealthFunc adapts a ping function to healthChecker
type cacheHealthFunc func(ctx context.Context) error

func (f cacheHealthFunc) Health(ctx context.Context) error { return f(ctx) }

// newMetricsServer serves Prometheus metrics and a health check. cache may be
// nil when no run-status cache is configured.
func newMetricsServer(port int, store, cache healthChecker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler(store, cache))

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// healthHandler reports 503 only when the destination is down; cache state
// is informational.
func healthHandler(store, cache healthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		body := map[string]interface{}{"status": "healthy"}
		code := http.StatusOK

		if err := store.Health(r.Context()); err != nil {
			body["status"] = "unhealthy"
			body["error"] = err.Error()
			code = http.StatusServiceUnavailable
		}

		if ps, ok := store.(poolStatter); ok {
			body["pool"] = ps.PoolStats()
		}

		if cache != nil {
			body["cache"] = "healthy"
			if err := cache.Health(r.Context()); err != nil {
				body["cache"] = "unhealthy: " + err.Error()
			}
		}

		w.WriteHeader(code)
		json.NewEncoder(w).Encode(body)
	}
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("Metrics server shutdown failed")
	}
}
