package middleware

import (
	"net/http"
	"strconv"
	"time"

	"conversion-roast-api/pkg/metrics"
)

// MetricsMiddleware counts requests by method and status and times them
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrap(w)

		next.ServeHTTP(wrapped, r)

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}
