package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes application-level instruments.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	documentsSaved         *prometheus.CounterVec
	reconciliations        prometheus.Counter
	reconciliationFailures prometheus.Counter
	rendersTotal           *prometheus.CounterVec
}

// New configures the application instruments on a dedicated registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facturio_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "facturio_http_request_duration_seconds",
			Help:    "HTTP request duration by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		documentsSaved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facturio_documents_saved_total",
			Help: "Documents persisted, by status.",
		}, []string{"status"}),
		reconciliations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "facturio_stock_reconciliations_total",
			Help: "Stock reconciliations applied to the ledger.",
		}),
		reconciliationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "facturio_stock_reconciliation_failures_total",
			Help: "Stock reconciliations rejected before applying.",
		}),
		rendersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "facturio_document_renders_total",
			Help: "Rendered documents, by status.",
		}, []string{"status"}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.documentsSaved,
		m.reconciliations,
		m.reconciliationFailures,
		m.rendersTotal,
	)

	return m
}

// Registry returns the registry backing the /metrics endpoint.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) DocumentSaved(status string)    { m.documentsSaved.WithLabelValues(status).Inc() }
func (m *Metrics) ReconciliationApplied()         { m.reconciliations.Inc() }
func (m *Metrics) ReconciliationRejected()        { m.reconciliationFailures.Inc() }
func (m *Metrics) DocumentRendered(status string) { m.rendersTotal.WithLabelValues(status).Inc() }

// GinMiddleware records request counts and latencies.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		m.requestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
