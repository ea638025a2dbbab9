// Package obs exposes Prometheus metrics for the HTTP surface and the
// authentication flows.
package obs

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP-level metrics
var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Authentication flow metrics
var (
	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by principal kind and result.",
		},
		[]string{"kind", "result"},
	)

	tokenPairsIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_token_pairs_issued_total",
		Help: "Access/refresh token pairs issued across all flows.",
	})

	oneTimeTokensIssued = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_one_time_tokens_issued_total",
			Help: "One-time tokens issued, by flow (verify, reset).",
		},
		[]string{"flow"},
	)

	permissionChecks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_permission_checks_total",
			Help: "Permission guard decisions by result.",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// Init registers all metrics with the default registry. Safe to call more
// than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpInFlight, httpRequestsTotal, httpRequestDuration,
			loginsTotal, tokenPairsIssued, oneTimeTokensIssued, permissionChecks,
		)
	})
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordLogin counts a login attempt. kind is "user" or "admin"; result is
// "ok" or "denied".
func RecordLogin(kind, result string) {
	loginsTotal.WithLabelValues(kind, result).Inc()
}

// RecordTokenPair counts an issued access/refresh pair.
func RecordTokenPair() {
	tokenPairsIssued.Inc()
}

// RecordOneTimeToken counts an issued one-time token. flow is "verify" or
// "reset".
func RecordOneTimeToken(flow string) {
	oneTimeTokensIssued.WithLabelValues(flow).Inc()
}

// RecordPermissionCheck counts a guard decision. result is "allowed" or
// "denied".
func RecordPermissionCheck(result string) {
	permissionChecks.WithLabelValues(result).Inc()
}

// Instrument wraps a handler to record request counts, latency and
// in-flight gauge.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		method := r.Method

		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: 200}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(sw.code)

		httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpInFlight.Dec()
	})
}

// statusWriter captures the response code for labelling.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
