// Package metrics exposes Prometheus instrumentation for the simulation
// platform. Metrics register with the default registry at package init and
// are served at GET /metrics via Handler.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SSEClients is the number of connected stream clients.
var SSEClients = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "gridblitz_sse_clients",
	Help: "Number of connected SSE stream clients.",
})

// GamesSimulated counts completed game simulations by game type.
var GamesSimulated = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gridblitz_games_simulated_total",
	Help: "Games simulated, by game type.",
}, []string{"type"})

// EventsPersisted counts play events written to the event store.
var EventsPersisted = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gridblitz_events_persisted_total",
	Help: "Game events appended to the event store.",
}, []string{"type"})

// EventsStreamed counts events delivered to SSE clients.
var EventsStreamed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "gridblitz_events_streamed_total",
	Help: "Events delivered to stream clients.",
})

// TickRuns counts season ticks by outcome.
var TickRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gridblitz_tick_runs_total",
	Help: "Season tick invocations by result.",
}, []string{"result"})

// Verifications counts seed verification requests by outcome.
var Verifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gridblitz_verifications_total",
	Help: "Seed verification requests by result.",
}, []string{"result"})

// TickDuration tracks how long one season tick takes.
var TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "gridblitz_tick_duration_seconds",
	Help:    "Wall time of one season tick.",
	Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
})

// SimulationDuration tracks how long a single game simulation takes.
var SimulationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "gridblitz_simulation_duration_seconds",
	Help:    "Wall time of one game simulation.",
	Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
})

// HTTPRequests counts HTTP requests by method, path, and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gridblitz_http_requests_total",
	Help: "Total HTTP requests handled.",
}, []string{"method", "path", "status"})

// HTTPDuration tracks HTTP request latency.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "gridblitz_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "path"})

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware wraps a handler to record request counts and latency. path
// should be the templated route, not the raw URL, to keep cardinality low.
func Middleware(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(rw.status)).Inc()
		HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush passes through so SSE responses still stream when wrapped.
func (rw *statusRecorder) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
