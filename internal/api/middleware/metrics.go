package middleware

import (
	"net/http"
	"sync/atomic"
)

// MetricsCollector counts requests and error responses served by the app.
// Counters are owned here so the /metrics handler reads a single source.
type MetricsCollector struct {
	requests atomic.Int64
	errors   atomic.Int64
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{}
}

// Requests returns the total number of requests observed.
func (mc *MetricsCollector) Requests() int64 {
	return mc.requests.Load()
}

// Errors returns the number of 4xx and 5xx responses observed.
func (mc *MetricsCollector) Errors() int64 {
	return mc.errors.Load()
}

// Middleware counts each request and records error responses by status.
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mc.requests.Add(1)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		if rw.statusCode >= 400 {
			mc.errors.Add(1)
		}
	})
}
