// Package metrics provides Prometheus metrics for the waypoint application.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Registry is the Prometheus registry for this metrics instance
	Registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Realtime poller metrics
	RealtimePollsTotal  *prometheus.CounterVec
	RealtimeDelaysKnown prometheus.Gauge

	// Crowd report metrics
	ReportsAppendedTotal prometheus.Counter

	// Planner metrics
	PlansTotal *prometheus.CounterVec
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// New creates and registers all application metrics with a new registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waypoint_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "waypoint_http_request_duration_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	realtimePollsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waypoint_realtime_polls_total",
			Help: "Total number of TripUpdates poll cycles by outcome",
		},
		[]string{"outcome"},
	)

	realtimeDelaysKnown := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "waypoint_realtime_trip_delays_known",
		Help: "Number of trips with a known delay in the current snapshot",
	})

	reportsAppendedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "waypoint_reports_appended_total",
		Help: "Total number of crowd reports appended to the store",
	})

	plansTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waypoint_plans_total",
			Help: "Total number of plan queries by outcome",
		},
		[]string{"outcome"},
	)

	// Register all metrics with the custom registry
	registry.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		realtimePollsTotal,
		realtimeDelaysKnown,
		reportsAppendedTotal,
		plansTotal,
	)

	return &Metrics{
		Registry:             registry,
		HTTPRequestsTotal:    httpRequestsTotal,
		HTTPRequestDuration:  httpRequestDuration,
		RealtimePollsTotal:   realtimePollsTotal,
		RealtimeDelaysKnown:  realtimeDelaysKnown,
		ReportsAppendedTotal: reportsAppendedTotal,
		PlansTotal:           plansTotal,
	}
}
