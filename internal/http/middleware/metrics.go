// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation. Besides the generic HTTP
// traffic collectors, it carries domain counters for the operations worth
// alerting on: publish outcomes and optimistic-lock conflicts. Label sets are
// kept small and bounded:
//
//   - method: HTTP method verb
//   - path:   the registered Gin route (e.g. /api/v1/pages/:pageType), falling
//     back to the raw URL path when no route matched
//   - status: numeric status code as a string
//   - page_type: one of the registered page types (bounded by the catalog)
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legal_pages_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// Latency omits status to keep histogram cardinality low.
	httpLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "legal_pages_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "legal_pages_http_requests_inflight",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// publishOutcomes tracks publish attempts per page type and outcome
	// ("ok", "validation", "conflict", "upstream", "error"). Publishing is the
	// operation that touches Shopify, so its failure modes get first-class
	// series.
	publishOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legal_pages_publish_total",
			Help: "Publish attempts by page type and outcome.",
		},
		[]string{"page_type", "outcome"},
	)

	// lockConflicts counts optimistic-lock rejections across all write paths.
	// A sustained rate points at a client holding stale version tokens.
	lockConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legal_pages_lock_conflicts_total",
			Help: "Optimistic-lock conflicts by page type.",
		},
		[]string{"page_type"},
	)
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, publishOutcomes, lockConflicts)
}

// ObservePublish records one publish attempt. Outcome values are a small
// fixed vocabulary; callers must not pass free-form strings.
func ObservePublish(pageType, outcome string) {
	publishOutcomes.WithLabelValues(pageType, outcome).Inc()
}

// ObserveLockConflict records one optimistic-lock rejection.
func ObserveLockConflict(pageType string) {
	lockConflicts.WithLabelValues(pageType).Inc()
}

// Metrics returns a Gin middleware that instruments requests with Prometheus.
//
//	r := gin.New()
//	r.Use(middleware.Metrics())
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
//
// The "path" label uses the registered route (c.FullPath()) so raw URLs never
// inflate cardinality; unmatched requests fall back to the URL path.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpReqs.WithLabelValues(method, path, status).Inc()
		httpLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
