package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Metrics middleware records HTTP metrics.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		// Wrap response writer to capture status code
		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// normalizePath collapses path parameters to keep label cardinality low.
// /api/v1/transfers/01ABC/dispatch -> /api/v1/transfers/:id/dispatch
func normalizePath(path string) string {
	// Balance keys carry two parameters: warehouse then product.
	for _, prefix := range []string{
		"/api/v1/inventory/balances/",
		"/api/v1/reconciliation/balances/",
	} {
		if strings.HasPrefix(path, prefix) && len(path) > len(prefix) {
			return prefix + ":warehouse/:product" + actionSuffix(path[len(prefix):], 2)
		}
	}

	for _, prefix := range []string{
		"/api/v1/transfers/",
		"/api/v1/inventory/movements/",
	} {
		if strings.HasPrefix(path, prefix) && len(path) > len(prefix) {
			return prefix + ":id" + actionSuffix(path[len(prefix):], 1)
		}
	}

	return path
}

// actionSuffix returns whatever follows the first n path segments, e.g.
// "/history" or "/dispatch".
func actionSuffix(rest string, n int) string {
	for ; n > 0; n-- {
		i := strings.IndexByte(rest, '/')
		if i < 0 {
			return ""
		}
		rest = rest[i+1:]
	}

	if rest == "" {
		return ""
	}

	return "/" + rest
}
