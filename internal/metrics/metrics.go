// Package metrics provides Prometheus instrumentation for the planner.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OptimizationsTotal counts optimizer runs by set and result.
	OptimizationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wildcard_planner_optimizations_total",
		Help: "Total optimizer runs",
	}, []string{"set", "result"})

	// OptimizeDuration tracks wall time of one plan, widening included.
	OptimizeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wildcard_planner_optimize_duration_seconds",
		Help:    "Optimizer run duration in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"set"})

	// HorizonWidenings counts horizon doublings after a boundary minimum.
	HorizonWidenings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wildcard_planner_horizon_widenings_total",
		Help: "Horizon doublings triggered by a minimum at the sweep bound",
	}, []string{"set"})

	// OptimalPacks records the recommended number of packs.
	OptimalPacks = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wildcard_planner_optimal_packs",
		Help:    "Recommended packs to open",
		Buckets: []float64{0, 10, 25, 50, 100, 200, 400, 800, 1600},
	}, []string{"set"})

	// CatalogReloads counts set files seen changing on disk.
	CatalogReloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wildcard_planner_catalog_reloads_total",
		Help: "Set file changes picked up by the watcher",
	})

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wildcard_planner_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wildcard_planner_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request metrics labelled by chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			path = rc.RoutePattern()
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
