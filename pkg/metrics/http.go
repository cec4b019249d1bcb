package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Latency of the recommendation HTTP handlers, per route
	HandlerLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "recommendation_http_latency_seconds",
		Help:    "Latency of recommendation HTTP handlers",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	HandlerRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "recommendation_http_requests_total",
		Help: "Total recommendation HTTP requests by route and status",
	}, []string{"route", "status"})
)

func Init() {
	prometheus.MustRegister(
		HandlerLatency,
		HandlerRequests,
	)
}

// Instrument records latency and status for the wrapped route.
func Instrument(route string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			HandlerLatency.WithLabelValues(route).Observe(time.Since(start).Seconds())
			HandlerRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
			return err
		}
	}
}
