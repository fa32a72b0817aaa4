// Package metrics exposes Prometheus metrics for the org chart service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application. Each
// collector owns its registry so tests can build as many as they like.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Chart metrics
	ChartNodesCreated prometheus.Counter
	ChartNodesDeleted prometheus.Counter
	MutationsRejected *prometheus.CounterVec

	// Feed metrics
	FeedLoads *prometheus.CounterVec
	PoolSize  prometheus.Gauge
}

// NewCollector creates a collector with the given namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ChartNodesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_nodes_created_total",
			Help:      "Total number of chart nodes created",
		}),
		ChartNodesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chart_nodes_deleted_total",
			Help:      "Total number of chart nodes deleted",
		}),
		MutationsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "chart_mutations_rejected_total",
				Help:      "Chart mutations refused without change",
			},
			[]string{"operation"},
		),
		FeedLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feed_loads_total",
				Help:      "Employee feed loads by outcome",
			},
			[]string{"outcome"},
		),
		PoolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pool_employees",
			Help:      "Employees currently in the pool",
		}),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.ChartNodesCreated,
		c.ChartNodesDeleted,
		c.MutationsRejected,
		c.FeedLoads,
		c.PoolSize,
	)
	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// NodesCreated implements domain.ChartRecorder.
func (c *Collector) NodesCreated(n int) {
	c.ChartNodesCreated.Add(float64(n))
}

// NodesDeleted implements domain.ChartRecorder.
func (c *Collector) NodesDeleted(n int) {
	c.ChartNodesDeleted.Add(float64(n))
}

// MutationRejected implements domain.ChartRecorder.
func (c *Collector) MutationRejected(op string) {
	c.MutationsRejected.WithLabelValues(op).Inc()
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordFeedLoad counts a feed load and, on success, sets the pool size.
func (c *Collector) RecordFeedLoad(err error, poolSize int) {
	if err != nil {
		c.FeedLoads.WithLabelValues("error").Inc()
		return
	}
	c.FeedLoads.WithLabelValues("success").Inc()
	c.PoolSize.Set(float64(poolSize))
}

// Middleware records request counts and latency by route template.
func (c *Collector) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)

			status := ctx.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			route := ctx.Path()
			if route == "" {
				route = "unknown"
			}
			c.RecordHTTPRequest(ctx.Request().Method, route, status, time.Since(start))
			return err
		}
	}
}
