// Package metrics provides Prometheus instrumentation.
//
// It pre-defines the standard HTTP metrics plus the catalogue's domain
// counters, and exposes helpers to register custom collectors.
//
// Wired once in internal/server:
//
//	r.Use(metrics.Middleware())
//	r.Handle("/metrics", metrics.Handler())
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
	// RequestDuration tracks how long each HTTP request takes,
	// broken down by method, path, and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "stockpile",
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
			Namespace: "stockpile",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks how many requests are currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "stockpile",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// PurchaseTotal counts successful single-unit purchases.
	PurchaseTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stockpile",
		Subsystem: "catalog",
		Name:      "purchases_total",
		Help:      "Total successful purchases.",
	})

	// OutOfStockTotal counts purchases rejected for lack of stock.
	OutOfStockTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stockpile",
		Subsystem: "catalog",
		Name:      "out_of_stock_total",
		Help:      "Total purchases rejected because nothing was available.",
	})
)

// DefaultRegistry is the Prometheus registry used by the application.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	// Go runtime metrics (GC, goroutines, memory)
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	// OS process metrics (CPU, open FDs)
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		PurchaseTotal,
		OutOfStockTotal,
	)
}

// Register adds a prometheus.Collector to the registry.
func Register(c prometheus.Collector) error {
	return DefaultRegistry.Register(c)
}

// MustRegister panics if registration fails.
func MustRegister(c ...prometheus.Collector) {
	DefaultRegistry.MustRegister(c...)
}

// statusRecorder captures the response code for labelling.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Middleware instruments every request with duration, count and
// in-flight gauges.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sr, r)

			status := strconv.Itoa(sr.status)
			RequestDuration.WithLabelValues(r.Method, r.URL.Path, status).
				Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		})
	}
}

// Handler returns the /metrics scrape endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{})
}
