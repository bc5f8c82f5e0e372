package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for place mutations.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// Registry holds the service-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "places",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "places",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "places",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	placeMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "places",
			Subsystem: "coordinator",
			Name:      "mutations_total",
			Help:      "Place mutations by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	geocodeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "places",
			Subsystem: "geocoder",
			Name:      "request_duration_seconds",
			Help:      "Duration of geocoding lookups.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"outcome"},
	)

	authFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "places",
			Subsystem: "auth",
			Name:      "failures_total",
			Help:      "Rejected authentication attempts by reason.",
		},
		[]string{"reason"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "places",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Place cache lookups by result.",
		},
		[]string{"result"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		placeMutations,
		geocodeDuration,
		authFailures,
		cacheLookups,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted increments the in-flight gauge and returns the matching decrement.
func RequestStarted() func() {
	httpInFlight.Inc()
	return httpInFlight.Dec
}

// ObserveRequest records a finished HTTP request. Unmatched routes are
// grouped under a single label to bound cardinality.
func ObserveRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	method = strings.ToUpper(method)
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObservePlaceMutation counts a create, update or delete of a place.
func ObservePlaceMutation(operation, outcome string) {
	placeMutations.WithLabelValues(operation, outcome).Inc()
}

// ObserveGeocode records one geocoding lookup.
func ObserveGeocode(outcome string, duration time.Duration) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	geocodeDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveAuthFailure counts a rejected token.
func ObserveAuthFailure(reason string) {
	authFailures.WithLabelValues(reason).Inc()
}

// ObserveCacheLookup counts a cache hit or miss.
func ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}
