package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK    = "ok"
	OutcomeNoop  = "noop"
	OutcomeError = "error"
)

var (
	Mutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_mutations_total",
		Help: "Count of engagement mutations by operation and outcome",
	}, []string{"operation", "outcome"})

	NotificationsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pulse_notifications_created_total",
		Help: "Count of notifications written by type",
	}, []string{"type"})

	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Count of all HTTP requests",
	}, []string{"method", "status_code"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of all HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status_code"})
)

// ObserveMutation records the outcome of one mutation. A nil error with
// applied false counts as a no-op.
func ObserveMutation(operation string, applied bool, err error) {
	outcome := OutcomeOK
	switch {
	case err != nil:
		outcome = OutcomeError
	case !applied:
		outcome = OutcomeNoop
	}
	Mutations.WithLabelValues(operation, outcome).Inc()
}

func ObserveHTTP(method string, status int, seconds float64) {
	code := strconv.Itoa(status)
	HTTPRequests.WithLabelValues(method, code).Inc()
	HTTPRequestDuration.WithLabelValues(method, code).Observe(seconds)
}

// NewHandler serves the process collectors and every pulse metric from a private registry.
func NewHandler() http.Handler {
	registry := prometheus.NewRegistry()

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(Mutations, NotificationsCreated, HTTPRequests, HTTPRequestDuration)

	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
