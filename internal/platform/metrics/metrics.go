// Package metrics owns the Prometheus registry and the collectors the
// engine and the HTTP layer report into
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name
const Namespace = "liferec"

// Collector groups the service metrics on one registry
type Collector struct {
	registry *prometheus.Registry

	analyses    prometheus.Counter
	degraded    prometheus.Counter
	hits        *prometheus.CounterVec
	analyzeTime prometheus.Histogram
	requests    *prometheus.CounterVec
	reqDuration *prometheus.HistogramVec
}

// New registers the collectors on registry, or on a fresh registry when nil.
// A fresh registry also carries the Go runtime and process collectors
func New(registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	c := &Collector{
		registry: registry,
		analyses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "engine",
			Name:      "analyses_total",
			Help:      "Texts analyzed",
		}),
		degraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "engine",
			Name:      "semantic_degraded_total",
			Help:      "Analyses that ran without the semantic pass because the embedder failed",
		}),
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "engine",
			Name:      "hits_total",
			Help:      "Hits reported after conflict resolution, by producing pass",
		}, []string{"pass"}),
		analyzeTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "engine",
			Name:      "analyze_duration_seconds",
			Help:      "Wall time of one analysis",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 16), // 100µs to ~3s
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern, method and status",
		}, []string{"route", "method", "status"}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	registry.MustRegister(c.analyses, c.degraded, c.hits, c.analyzeTime, c.requests, c.reqDuration)
	return c
}

// ObserveAnalyze records one analysis: final hit counts per pass, latency,
// and whether the semantic pass was skipped after an embedder failure
func (c *Collector) ObserveAnalyze(passCounts map[string]int, latency time.Duration, degraded bool) {
	c.analyses.Inc()
	if degraded {
		c.degraded.Inc()
	}
	for pass, n := range passCounts {
		if n > 0 {
			c.hits.WithLabelValues(pass).Add(float64(n))
		}
	}
	c.analyzeTime.Observe(latency.Seconds())
}

// ObserveRequest records one served HTTP request
func (c *Collector) ObserveRequest(route, method string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.reqDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
