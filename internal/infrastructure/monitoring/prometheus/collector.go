// Package prometheus provides the metrics registry abstraction and the
// platform's metric set.  Components depend on MetricsCollector rather than
// the prometheus client directly, mirroring the logging package split.
package prometheus

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector registers metrics and serves the scrape endpoint.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec
	Handler() http.Handler
}

// CounterVec wraps prometheus.CounterVec.
type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

// Counter wraps prometheus.Counter.
type Counter interface {
	Inc()
	Add(delta float64)
}

// GaugeVec wraps prometheus.GaugeVec.
type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
}

// Gauge wraps prometheus.Gauge.
type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
}

// HistogramVec wraps prometheus.HistogramVec.
type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
}

// Histogram wraps prometheus.Histogram.
type Histogram interface {
	Observe(value float64)
}

// CollectorConfig holds collector construction parameters.
type CollectorConfig struct {
	Namespace            string
	EnableProcessMetrics bool
	EnableGoMetrics      bool
}

type prometheusCollector struct {
	registry *prometheus.Registry
	cfg      CollectorConfig

	mu         sync.Mutex
	registered map[string]prometheus.Collector
}

// NewMetricsCollector builds a collector with its own registry.
func NewMetricsCollector(cfg CollectorConfig) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("prometheus: namespace is required")
	}

	registry := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{
			Namespace: cfg.Namespace,
		}))
	}
	if cfg.EnableGoMetrics {
		registry.MustRegister(prometheus.NewGoCollector())
	}

	return &prometheusCollector{
		registry:   registry,
		cfg:        cfg,
		registered: map[string]prometheus.Collector{},
	}, nil
}

func (c *prometheusCollector) RegisterCounter(name, help string, labels ...string) CounterVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.registered[name]; ok {
		return counterVec{existing.(*prometheus.CounterVec)}
	}
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: c.cfg.Namespace,
		Name:      name,
		Help:      help,
	}, labels)
	c.registry.MustRegister(vec)
	c.registered[name] = vec
	return counterVec{vec}
}

func (c *prometheusCollector) RegisterGauge(name, help string, labels ...string) GaugeVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.registered[name]; ok {
		return gaugeVec{existing.(*prometheus.GaugeVec)}
	}
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: c.cfg.Namespace,
		Name:      name,
		Help:      help,
	}, labels)
	c.registry.MustRegister(vec)
	c.registered[name] = vec
	return gaugeVec{vec}
}

func (c *prometheusCollector) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.registered[name]; ok {
		return histogramVec{existing.(*prometheus.HistogramVec)}
	}
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: c.cfg.Namespace,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
	c.registry.MustRegister(vec)
	c.registered[name] = vec
	return histogramVec{vec}
}

func (c *prometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

type counterVec struct{ v *prometheus.CounterVec }

func (c counterVec) WithLabelValues(lvs ...string) Counter { return c.v.WithLabelValues(lvs...) }

type gaugeVec struct{ v *prometheus.GaugeVec }

func (g gaugeVec) WithLabelValues(lvs ...string) Gauge { return g.v.WithLabelValues(lvs...) }

type histogramVec struct{ v *prometheus.HistogramVec }

func (h histogramVec) WithLabelValues(lvs ...string) Histogram {
	return h.v.WithLabelValues(lvs...)
}
