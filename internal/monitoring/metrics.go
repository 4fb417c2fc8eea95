package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector exports server metrics to Prometheus and mirrors the
// latest values into a Monitor
type MetricsCollector struct {
	registry *prometheus.Registry
	monitor  *Monitor

	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	weeklyPlans      *prometheus.CounterVec
	planDuration     prometheus.Histogram
	documents        *prometheus.CounterVec
	documentBytes    prometheus.Histogram
}

// NewMetricsCollector creates a collector on a private registry
func NewMetricsCollector(monitor *Monitor) *MetricsCollector {
	if monitor == nil {
		monitor = NewMonitor()
	}
	registry := prometheus.NewRegistry()

	mc := &MetricsCollector{
		registry: registry,
		monitor:  monitor,
		upstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forecast_upstream_requests_total",
				Help: "Requests sent to the forecasting service",
			},
			[]string{"endpoint", "status"},
		),
		upstreamLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forecast_upstream_request_duration_seconds",
				Help:    "Latency of requests to the forecasting service",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		weeklyPlans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weekly_plans_total",
				Help: "Weekly plan runs by outcome",
			},
			[]string{"outcome"},
		),
		planDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "weekly_plan_duration_seconds",
				Help:    "Time taken to build a weekly plan",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
		),
		documents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "documents_exported_total",
				Help: "Weekly plan documents by outcome",
			},
			[]string{"outcome"},
		),
		documentBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "document_size_bytes",
				Help:    "Size of exported documents",
				Buckets: prometheus.ExponentialBuckets(16*1024, 2, 8),
			},
		),
	}

	registry.MustRegister(
		mc.upstreamRequests,
		mc.upstreamLatency,
		mc.weeklyPlans,
		mc.planDuration,
		mc.documents,
		mc.documentBytes,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return mc
}

// Monitor returns the mirrored in-process monitor
func (mc *MetricsCollector) Monitor() *Monitor {
	return mc.monitor
}

// Registry exposes the registry for gathering
func (mc *MetricsCollector) Registry() *prometheus.Registry {
	return mc.registry
}

// Handler serves the registry in the Prometheus exposition format
func (mc *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(mc.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one upstream request. Status 0 means no response.
func (mc *MetricsCollector) ObserveRequest(endpoint string, status int, elapsed time.Duration) {
	label := strconv.Itoa(status)
	if status == 0 {
		label = "error"
	}
	mc.upstreamRequests.WithLabelValues(endpoint, label).Inc()
	mc.upstreamLatency.WithLabelValues(endpoint).Observe(elapsed.Seconds())

	mc.monitor.RecordOperation("upstream_"+endpoint, map[string]interface{}{
		"status":     status,
		"latency_ms": elapsed.Milliseconds(),
	})
}

// RecordWeeklyPlan records a weekly plan run
func (mc *MetricsCollector) RecordWeeklyPlan(outcome string, weeks, days int, elapsed time.Duration) {
	mc.weeklyPlans.WithLabelValues(outcome).Inc()
	mc.planDuration.Observe(elapsed.Seconds())

	mc.monitor.IncrementCounter("weekly_plans_" + outcome)
	mc.monitor.RecordOperation("weekly_plan", map[string]interface{}{
		"outcome":     outcome,
		"weeks":       weeks,
		"days":        days,
		"duration_ms": elapsed.Milliseconds(),
	})
}

// RecordDocument records an export attempt
func (mc *MetricsCollector) RecordDocument(outcome string, size int) {
	mc.documents.WithLabelValues(outcome).Inc()
	if size > 0 {
		mc.documentBytes.Observe(float64(size))
	}
	mc.monitor.IncrementCounter("documents_" + outcome)
}
