// Package metrics holds the Prometheus collectors shared by the DMS services.
//
//   - dms_http_requests_total: requests by service, route, method and status
//   - dms_http_request_duration_seconds: request latency by service, route and method
//   - dms_gateway_upstream_requests_total: proxied calls by target service and outcome
//   - dms_job_runs_total: scheduled job runs by job and outcome
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "dms_http_requests_total", Help: "HTTP requests by service, route, method and status."},
		[]string{"service", "path", "method", "status"},
	)
	HTTPLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dms_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "path", "method"},
	)
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "dms_gateway_upstream_requests_total", Help: "Requests proxied by the gateway."},
		[]string{"target", "outcome"},
	)
	JobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{Name: "dms_job_runs_total", Help: "Scheduled job runs."},
		[]string{"job", "outcome"},
	)
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

// Middleware records request count and latency of service. The route pattern
// is used as path label to keep the cardinality bounded.
func Middleware(service string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		if path == "" || path == "/" && c.Path() != "/" {
			path = "unmatched"
		}

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok { //nolint:errorlint
				status = fe.Code
			} else if status < fiber.StatusBadRequest {
				status = fiber.StatusInternalServerError
			}
		}

		HTTPLatency.WithLabelValues(service, path, c.Method()).Observe(time.Since(start).Seconds())
		HTTPRequests.WithLabelValues(service, path, c.Method(), strconv.Itoa(status)).Inc()

		return err
	}
}

// Handler exposes the default registry.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
