// Package metrics exposes Prometheus collectors for the citation service.
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
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	extractionsTotal           *prometheus.CounterVec
	fetchesTotal               *prometheus.CounterVec
	fetchDurationSeconds       prometheus.Histogram
	politenessDelaySeconds     prometheus.Histogram

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
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
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15},
			},
			[]string{"method", "route"},
		)

		extractionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webcite_extractions_total",
				Help: "Total number of metadata extractions, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		fetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webcite_fetches_total",
				Help: "Total number of completed page fetches, labeled by status class.",
			},
			[]string{"class"},
		)

		fetchDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "webcite_fetch_duration_seconds",
				Help:    "Histogram of page fetch latencies.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
			},
		)

		politenessDelaySeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "webcite_politeness_delay_seconds",
				Help:    "Histogram of politeness pauses applied after successful extractions.",
				Buckets: []float64{0, 0.5, 1, 1.5, 2, 3, 5},
			},
		)
	})
}

// StatusClass buckets an HTTP status code into 1xx..5xx, or "other".
func StatusClass(code int) string {
	if code < 100 || code > 599 {
		return "other"
	}
	return strconv.Itoa(code/100) + "xx"
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveExtraction increments the extraction counter for the given outcome.
func ObserveExtraction(outcome string) {
	Init()
	extractionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveFetch records a completed page fetch. Target hosts come from callers,
// so they are not used as a label.
func ObserveFetch(code int, duration time.Duration) {
	Init()
	fetchesTotal.WithLabelValues(StatusClass(code)).Inc()
	fetchDurationSeconds.Observe(duration.Seconds())
}

// ObservePolitenessDelay records the pause applied after an extraction.
func ObservePolitenessDelay(delay time.Duration) {
	Init()
	politenessDelaySeconds.Observe(delay.Seconds())
}
