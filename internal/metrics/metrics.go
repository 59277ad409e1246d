// Package metrics exposes prometheus instrumentation for the organizer.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hearthhub_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hearthhub_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	familyJoins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hearthhub_family_joins_total",
		Help: "Count of family join attempts by result",
	}, []string{"result"})

	codeCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hearthhub_family_code_collisions_total",
		Help: "Count of generated family codes that collided",
	})

	todoOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hearthhub_todo_operations_total",
		Help: "Count of todo workflow operations by kind and result",
	}, []string{"operation", "result"})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, path, code).Inc()
	httpRequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

// ObserveJoin increments the family join counter for the given result.
func ObserveJoin(result string) {
	familyJoins.WithLabelValues(result).Inc()
}

// ObserveCodeCollision counts one join-code collision.
func ObserveCodeCollision() {
	codeCollisions.Inc()
}

// ObserveTodoOperation counts one workflow operation outcome.
func ObserveTodoOperation(operation, result string) {
	todoOperations.WithLabelValues(operation, result).Inc()
}
