package api

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "glovebox",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "glovebox",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "glovebox",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "glovebox",
			Subsystem: "notifier",
			Name:      "notifications_total",
			Help:      "Expiration notifications by days remaining and outcome.",
		},
		[]string{"days", "result"},
	)

	notifierRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "glovebox",
			Subsystem: "notifier",
			Name:      "runs_total",
			Help:      "Expiration notifier runs by outcome.",
		},
		[]string{"success"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		notifications,
		notifierRuns,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// MetricsHandler returns an HTTP handler exposing the registered Prometheus metrics
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordNotification counts one expiration notification attempt
func RecordNotification(daysLeft int, sent bool) {
	result := "failed"
	if sent {
		result = "sent"
	}
	notifications.WithLabelValues(strconv.Itoa(daysLeft), result).Inc()
}

// RecordNotifierRun counts one completed or aborted notifier run
func RecordNotifierRun(success bool) {
	notifierRuns.WithLabelValues(strconv.FormatBool(success)).Inc()
}
