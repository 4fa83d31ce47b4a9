package monitoring

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route and status code",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ticketTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_transitions_total",
			Help: "Committed ticket lifecycle transitions",
		},
		[]string{"transition", "payment_status"},
	)

	messagesHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messages_handled_total",
			Help: "Lifecycle events handled by the message router",
		},
		[]string{"handler", "outcome"},
	)
)

func RecordTicketTransition(transition, paymentStatus string) {
	ticketTransitions.WithLabelValues(transition, paymentStatus).Inc()
}

// RecordMessageHandled counts one handler attempt. Retried messages are
// counted once per attempt.
func RecordMessageHandled(handler string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	messagesHandled.WithLabelValues(handler, outcome).Inc()
}

// HTTPMiddleware records request counts and latency labelled with the
// matched route pattern, not the raw path.
func HTTPMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		status := c.Response().Status
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
		} else if err != nil {
			status = http.StatusInternalServerError
		}

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}

		httpRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Request().Method, route).Observe(time.Since(start).Seconds())

		return err
	}
}

func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
