// Package metrics holds the Prometheus collectors exported on /metrics.
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
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coworkhub_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coworkhub_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	bookingOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coworkhub_booking_attempts_total",
			Help: "Booking create attempts by outcome",
		},
		[]string{"outcome"},
	)

	conflictChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coworkhub_booking_conflict_checks_total",
			Help: "Availability checks by result",
		},
		[]string{"result"},
	)

	paymentsInitiated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coworkhub_payments_initiated_total",
			Help: "Payment initiations by type and outcome",
		},
		[]string{"payment_type", "outcome"},
	)

	webhooks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coworkhub_payment_webhooks_total",
			Help: "Gateway notifications by order status and outcome",
		},
		[]string{"order_status", "outcome"},
	)

	gatewayLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coworkhub_gateway_request_duration_seconds",
			Help:    "Latency of payment gateway calls",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"operation"},
	)

	cacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coworkhub_catalog_cache_requests_total",
			Help: "Catalog cache lookups by key kind and result",
		},
		[]string{"kind", "result"},
	)
)

func BookingOutcome(outcome string) { bookingOutcomes.WithLabelValues(outcome).Inc() }

func ConflictCheck(result string) { conflictChecks.WithLabelValues(result).Inc() }

func PaymentInitiated(paymentType, outcome string) {
	paymentsInitiated.WithLabelValues(paymentType, outcome).Inc()
}

func Webhook(orderStatus, outcome string) { webhooks.WithLabelValues(orderStatus, outcome).Inc() }

func ObserveGateway(operation string, d time.Duration) {
	gatewayLatency.WithLabelValues(operation).Observe(d.Seconds())
}

func CacheLookup(kind, result string) { cacheRequests.WithLabelValues(kind, result).Inc() }

// Middleware records request counts and latency keyed by the matched route
// pattern, so path parameters do not explode label cardinality.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		httpRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the default registry in the Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
