// Package metrics collects Prometheus metrics for HTTP traffic and the booking domain.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a registry and the collectors registered on it.
// All recording methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge
	cacheHitsTotal       *prometheus.CounterVec
	cacheMissesTotal     *prometheus.CounterVec
	eventsPublishedTotal *prometheus.CounterVec
	bookingsTotal        *prometheus.CounterVec
	bookingTransitions   *prometheus.CounterVec
	commissionsTotal     *prometheus.CounterVec
	paymentsTotal        *prometheus.CounterVec
	degradedReadsTotal   *prometheus.CounterVec
	pendingBookings      prometheus.Gauge
	pendingAgents        prometheus.Gauge
	activeAgents         prometheus.Gauge
}

// New creates a Metrics with its own registry.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "rental_marketplace"
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "path"}),
		httpRequestsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Current number of HTTP requests being processed",
		}),
		cacheHitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		}, []string{"cache"}),
		cacheMissesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		}, []string{"cache"}),
		eventsPublishedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total number of lifecycle events published",
		}, []string{"event", "result"}),
		bookingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Total number of bookings created",
		}, []string{"booking_type"}),
		bookingTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_status_transitions_total",
			Help:      "Total number of booking status changes",
		}, []string{"from", "to"}),
		commissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commission_status_changes_total",
			Help:      "Total number of commission status changes",
		}, []string{"status"}),
		paymentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_total",
			Help:      "Total number of payment status changes",
		}, []string{"method", "status"}),
		degradedReadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degraded_reads_total",
			Help:      "Reads answered with an empty default because the store failed",
		}, []string{"operation"}),
		pendingBookings: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_bookings",
			Help:      "Number of bookings awaiting approval",
		}),
		pendingAgents: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pending_agents",
			Help:      "Number of agents awaiting approval",
		}),
		activeAgents: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_agents",
			Help:      "Number of approved agents",
		}),
	}
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request counts and latency.
func (m *Metrics) Middleware(skipPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == skipPath {
			c.Next()
			return
		}

		start := time.Now()
		m.httpRequestsInFlight.Inc()

		c.Next()

		m.httpRequestsInFlight.Dec()
		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordCacheHit increments the hit counter for cache.
func (m *Metrics) RecordCacheHit(cache string) {
	if m == nil {
		return
	}
	m.cacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss increments the miss counter for cache.
func (m *Metrics) RecordCacheMiss(cache string) {
	if m == nil {
		return
	}
	m.cacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordEvent counts a publish attempt.
func (m *Metrics) RecordEvent(event string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.eventsPublishedTotal.WithLabelValues(event, result).Inc()
}

// RecordBookingCreated counts a new booking.
func (m *Metrics) RecordBookingCreated(bookingType string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(bookingType).Inc()
}

// RecordBookingTransition counts a booking status change.
func (m *Metrics) RecordBookingTransition(from, to string) {
	if m == nil {
		return
	}
	m.bookingTransitions.WithLabelValues(from, to).Inc()
}

// RecordCommissionStatus counts a commission status change.
func (m *Metrics) RecordCommissionStatus(status string) {
	if m == nil {
		return
	}
	m.commissionsTotal.WithLabelValues(status).Inc()
}

// RecordPayment counts a payment status change.
func (m *Metrics) RecordPayment(method, status string) {
	if m == nil {
		return
	}
	m.paymentsTotal.WithLabelValues(method, status).Inc()
}

// RecordDegradedRead counts a read that fell back to an empty default.
func (m *Metrics) RecordDegradedRead(operation string) {
	if m == nil {
		return
	}
	m.degradedReadsTotal.WithLabelValues(operation).Inc()
}

// SetPendingBookings sets the pending bookings gauge.
func (m *Metrics) SetPendingBookings(n int64) {
	if m == nil {
		return
	}
	m.pendingBookings.Set(float64(n))
}

// SetPendingAgents sets the pending agents gauge.
func (m *Metrics) SetPendingAgents(n int64) {
	if m == nil {
		return
	}
	m.pendingAgents.Set(float64(n))
}

// SetActiveAgents sets the active agents gauge.
func (m *Metrics) SetActiveAgents(n int64) {
	if m == nil {
		return
	}
	m.activeAgents.Set(float64(n))
}
