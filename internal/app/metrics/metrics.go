package metrics

import (
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		},
		[]string{"method", "path"},
	)

	registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "registrations_total",
			Help:      "Records created, by kind.",
		},
		[]string{"kind"},
	)

	rejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "rejected_writes_total",
			Help:      "Registrations refused, by kind and error code.",
		},
		[]string{"kind", "code"},
	)

	paidPurchases = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "paid_purchases",
			Help:      "Purchases currently marked paid.",
		},
		func() float64 { return paidStat(func(count int, _ float64) float64 { return float64(count) }) },
	)

	paidAmount = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "paid_amount",
			Help:      "Sum of prices of purchases currently marked paid.",
		},
		func() float64 { return paidStat(func(_ int, total float64) float64 { return total }) },
	)

	paidSourceMu sync.RWMutex
	paidSource   PaidStatsFunc
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		registrations,
		rejections,
		paidPurchases,
		paidAmount,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// TrackInFlight increments the in-flight gauge and returns the matching
// decrement.
func TrackInFlight() func() {
	httpInFlight.Inc()
	return httpInFlight.Dec
}

// RecordHTTPRequest records a completed request. path should be a route
// template, not the raw URL, to keep label cardinality bounded.
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	method = strings.ToUpper(method)
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordRegistration counts a created record of kind (user, purchase, payment).
func RecordRegistration(kind string) {
	registrations.WithLabelValues(kind).Inc()
}

// RecordRejection counts a refused registration.
func RecordRejection(kind, code string) {
	if code == "" {
		code = "unknown"
	}
	rejections.WithLabelValues(kind, code).Inc()
}

// PaidStatsFunc reports the number and total price of paid purchases.
type PaidStatsFunc func() (count int, total float64, err error)

// SetPaidStatsSource installs the function the paid-purchase gauges read on
// every scrape. A nil fn reports zero.
func SetPaidStatsSource(fn PaidStatsFunc) {
	paidSourceMu.Lock()
	defer paidSourceMu.Unlock()
	paidSource = fn
}

// paidStat reads the source and projects one value. A failing source yields
// NaN.
func paidStat(pick func(count int, total float64) float64) float64 {
	paidSourceMu.RLock()
	fn := paidSource
	paidSourceMu.RUnlock()
	if fn == nil {
		return 0
	}
	count, total, err := fn()
	if err != nil {
		return math.NaN()
	}
	return pick(count, total)
}
