package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "strongx",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "strongx",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "strongx",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	paymentsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "strongx",
			Subsystem: "billing",
			Name:      "payments_recorded_total",
			Help:      "Payments recorded, by payment method.",
		},
		[]string{"method"},
	)

	paymentsRefunded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "strongx",
			Subsystem: "billing",
			Name:      "payments_refunded_total",
			Help:      "Payments moved to REFUNDED.",
		},
	)

	membershipsActivated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "strongx",
			Subsystem: "membership",
			Name:      "memberships_activated_total",
			Help:      "Memberships activated, by source (payment or manual).",
		},
		[]string{"source"},
	)

	membershipsExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "strongx",
			Subsystem: "membership",
			Name:      "memberships_expired_total",
			Help:      "Membership rows marked EXPIRED by the sweeper.",
		},
	)

	aiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "strongx",
			Subsystem: "ai",
			Name:      "requests_total",
			Help:      "Generative AI calls, by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpInFlight,
		httpRequests,
		httpDuration,
		paymentsRecorded,
		paymentsRefunded,
		membershipsActivated,
		membershipsExpired,
		aiRequests,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request count, latency and in-flight requests.
// The route template (c.FullPath) is used as the path label so ids do not
// explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordPayment counts a recorded payment.
func RecordPayment(method string) {
	paymentsRecorded.WithLabelValues(method).Inc()
}

// RecordRefund counts a refunded payment.
func RecordRefund() {
	paymentsRefunded.Inc()
}

// RecordActivation counts a new ACTIVE membership.
func RecordActivation(source string) {
	membershipsActivated.WithLabelValues(source).Inc()
}

// RecordExpired adds n expired memberships.
func RecordExpired(n int64) {
	if n > 0 {
		membershipsExpired.Add(float64(n))
	}
}

// RecordAIRequest counts an AI call.
func RecordAIRequest(kind, outcome string) {
	aiRequests.WithLabelValues(kind, outcome).Inc()
}
