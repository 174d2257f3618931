// Package metrics exposes Prometheus collectors for the price service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	fetchAttemptsTotal         *prometheus.CounterVec
	fallbackTotal              prometheus.Counter
	recordsDroppedTotal        prometheus.Counter
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		fetchAttemptsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mandi_fetch_attempts_total",
				Help: "Total provider fetch attempts, labeled by source and outcome.",
			},
			[]string{"source", "outcome"},
		)

		fallbackTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mandi_fallback_total",
				Help: "Total responses served from the synthetic fallback provider.",
			},
		)

		recordsDroppedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "mandi_records_dropped_total",
				Help: "Total raw records rejected by validation.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetchAttempt records one provider attempt with its outcome
// ("success", "error", or "timeout").
func ObserveFetchAttempt(source, outcome string) {
	Init()
	fetchAttemptsTotal.WithLabelValues(source, outcome).Inc()
}

// ObserveFallback counts one response served from synthetic fallback.
func ObserveFallback() {
	Init()
	fallbackTotal.Inc()
}

// ObserveDroppedRecords counts records rejected by validation.
func ObserveDroppedRecords(n int) {
	if n <= 0 {
		return
	}
	Init()
	recordsDroppedTotal.Add(float64(n))
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, codeLabel(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

func codeLabel(code int) string {
	return strconv.Itoa(code)
}
