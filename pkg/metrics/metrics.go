// Package metrics exposes Prometheus instrumentation for Lidosole.
//
// Wire once at kernel setup:
//
//	r.Use(metrics.Middleware())
//	r.Get("/metrics", "metrics", metrics.Handler().ServeHTTP)
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks HTTP latency by method, path and status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lidosole",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lidosole",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks currently served requests.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "lidosole",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// CacheHits / CacheMisses track cache effectiveness.
	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lidosole",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Total cache hits.",
		},
		[]string{"driver"},
	)
	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lidosole",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Total cache misses.",
		},
		[]string{"driver"},
	)

	// OrdersConfirmed counts carts turned into orders.
	OrdersConfirmed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lidosole",
		Subsystem: "shop",
		Name:      "orders_confirmed_total",
		Help:      "Total orders created from cart confirmation.",
	})

	// ReservationsCreated counts successful umbrella reservations.
	ReservationsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lidosole",
		Subsystem: "beach",
		Name:      "reservations_created_total",
		Help:      "Total umbrella reservations created.",
	})

	// ReservationsRejected counts rejected reservation attempts by reason.
	ReservationsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lidosole",
			Subsystem: "beach",
			Name:      "reservations_rejected_total",
			Help:      "Reservation attempts rejected, by reason.",
		},
		[]string{"reason"}, // "busy" | "duplicate" | "missing"
	)

	// JobRuns counts background housekeeping runs by job and outcome.
	JobRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lidosole",
			Subsystem: "jobs",
			Name:      "runs_total",
			Help:      "Background job runs by job name and outcome.",
		},
		[]string{"job", "outcome"},
	)
)

// DefaultRegistry is the Prometheus registry used by Lidosole.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		CacheHits,
		CacheMisses,
		OrdersConfirmed,
		ReservationsCreated,
		ReservationsRejected,
		JobRuns,
	)
}

// MustRegister adds collectors to the Lidosole registry.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// Handler serves the /metrics scrape endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records request count, latency and in-flight gauge.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			status := strconv.Itoa(sw.status)
			RequestTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
			RequestDuration.WithLabelValues(r.Method, r.URL.Path, status).
				Observe(time.Since(start).Seconds())
		})
	}
}
