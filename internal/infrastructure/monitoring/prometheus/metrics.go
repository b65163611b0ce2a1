package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric the platform emits.
type AppMetrics struct {
	// HTTP layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec

	// Pipeline
	AssessmentsTotal        CounterVec
	ReportsGeneratedTotal   CounterVec
	ReportGenerationSeconds HistogramVec
	SafeguardFlagsTotal     CounterVec

	// Infrastructure
	CacheHitsTotal       CounterVec
	CacheMissesTotal     CounterVec
	EventsPublishedTotal CounterVec
	ArchiveWritesTotal   CounterVec
	DBQueryDuration      HistogramVec
	HealthCheckStatus    GaugeVec
}

var (
	httpDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}
	reportDurationBuckets = []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10}
	dbDurationBuckets     = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1}
)

// NewAppMetrics registers the platform metric set on the collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", httpDurationBuckets, "method", "path")

	m.AssessmentsTotal = collector.RegisterCounter("assessments_total", "Mission assessments by safeguard outcome", "outcome")
	m.ReportsGeneratedTotal = collector.RegisterCounter("reports_generated_total", "Reports generated", "mode", "source")
	m.ReportGenerationSeconds = collector.RegisterHistogram("report_generation_seconds", "Report generation duration", reportDurationBuckets, "mode")
	m.SafeguardFlagsTotal = collector.RegisterCounter("safeguard_flags_total", "Safeguard flags raised", "rule", "severity")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.EventsPublishedTotal = collector.RegisterCounter("events_published_total", "Events published to the bus", "topic", "status")
	m.ArchiveWritesTotal = collector.RegisterCounter("archive_writes_total", "Report archive writes", "status")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", dbDurationBuckets, "operation")
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Component health (1=up, 0=down)", "component")

	return m
}

// RecordHTTPRequest updates the HTTP counters for one completed request.
func (m *AppMetrics) RecordHTTPRequest(method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordReport updates pipeline counters for one generated report.
func (m *AppMetrics) RecordReport(mode string, fromCache bool, duration time.Duration) {
	source := "fresh"
	if fromCache {
		source = "cache"
	}
	m.ReportsGeneratedTotal.WithLabelValues(mode, source).Inc()
	m.ReportGenerationSeconds.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordSafeguardFlag counts one raised safeguard flag.
func (m *AppMetrics) RecordSafeguardFlag(rule, severity string) {
	m.SafeguardFlagsTotal.WithLabelValues(rule, severity).Inc()
}

// RecordCacheAccess counts a cache hit or miss.
func (m *AppMetrics) RecordCacheAccess(cache string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

// SetComponentHealth publishes a component health gauge.
func (m *AppMetrics) SetComponentHealth(component string, up bool) {
	v := 0.0
	if up {
		v = 1.0
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}
