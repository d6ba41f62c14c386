package main

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
)

// loggingMiddleware logs requests and records Prometheus metrics. It runs
// outside requestContextMiddleware, so it sees the final status.
func loggingMiddleware(server *ServerState) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			elapsed := time.Since(start)
			if server.config.LogRequests {
				log.Printf("request_id=%s %s %s %s - %d %dB %v",
					rw.Header().Get("X-Request-ID"), r.RemoteAddr, r.Method, r.URL.Path, rw.statusCode, rw.bytes, elapsed)
			}
			server.metrics.requestLatency.Observe(elapsed.Seconds())
			server.metrics.requestTotal.WithLabelValues(r.Method, routeLabel(r), strconv.Itoa(rw.statusCode)).Inc()
		})
	}
}

// routeLabel keeps metric cardinality bounded by using the route template
// instead of the raw path.
func routeLabel(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unmatched"
	}
	if tpl, err := route.GetPathTemplate(); err == nil {
		return tpl
	}
	return "unknown"
}
