// Package metrics exposes the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "innospark"

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
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	intents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "intents_total",
			Help:      "Intents dispatched, by type and notice level.",
		},
		[]string{"type", "result"},
	)

	activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "active",
			Help:      "App sessions currently held in memory.",
		},
	)

	sweptSessions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "swept_total",
			Help:      "Idle app sessions dropped by the sweeper.",
		},
	)

	donations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "donations_total",
			Help:      "Donations recorded across all sessions.",
		},
	)

	donatedRupiah = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "donated_rupiah_total",
			Help:      "Sum of recorded donation amounts in IDR.",
		},
	)

	storeCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projectstore",
			Name:      "calls_total",
			Help:      "Remote project store calls by operation and result.",
		},
		[]string{"op", "result"},
	)

	suggestFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "suggest",
			Name:      "fallbacks_total",
			Help:      "Suggestion requests answered by the fallback, by reason.",
		},
		[]string{"reason"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		intents,
		activeSessions,
		sweptSessions,
		donations,
		donatedRupiah,
		storeCalls,
		suggestFallbacks,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
// Requests are labelled by chi route pattern so ids never become labels.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	})
}

// RecordIntent counts one dispatched intent. result is the notice level, or
// "ok" when the intent produced no notice.
func RecordIntent(kind, result string) {
	if result == "" {
		result = "ok"
	}
	intents.WithLabelValues(kind, result).Inc()
}

// RecordDonation counts one recorded donation.
func RecordDonation(amount int64) {
	donations.Inc()
	if amount > 0 {
		donatedRupiah.Add(float64(amount))
	}
}

func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

func AddSweptSessions(n int) {
	if n > 0 {
		sweptSessions.Add(float64(n))
	}
}

// RecordStoreCall counts a project store call; err decides the result label.
func RecordStoreCall(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	storeCalls.WithLabelValues(op, result).Inc()
}

func RecordSuggestFallback(reason string) {
	suggestFallbacks.WithLabelValues(reason).Inc()
}
