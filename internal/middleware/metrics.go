package middleware

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics bundles the request-level Prometheus collectors.  The
// counters label by route template (echo's c.Path()), not the raw URL,
// to keep cardinality bounded.
type HTTPMetrics struct {
    requests *prometheus.CounterVec
    duration *prometheus.HistogramVec
    inFlight prometheus.Gauge
}

// NewHTTPMetrics registers the collectors on the default registry under
// the given service namespace.
func NewHTTPMetrics(service string) *HTTPMetrics {
    return &HTTPMetrics{
        requests: promauto.NewCounterVec(prometheus.CounterOpts{
            Namespace: service,
            Name:      "http_requests_total",
            Help:      "HTTP requests by method, route and status code.",
        }, []string{"method", "route", "status"}),
        duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
            Namespace: service,
            Name:      "http_request_duration_seconds",
            Help:      "HTTP request latency by method and route.",
            Buckets:   prometheus.DefBuckets,
        }, []string{"method", "route"}),
        inFlight: promauto.NewGauge(prometheus.GaugeOpts{
            Namespace: service,
            Name:      "http_requests_in_flight",
            Help:      "Number of HTTP requests currently being served.",
        }),
    }
}

// Middleware returns the echo middleware recording one observation per
// request.
func (m *HTTPMetrics) Middleware() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            m.inFlight.Inc()
            start := time.Now()
            err := next(c)
            m.inFlight.Dec()

            status := c.Response().Status
            if err != nil {
                // Let echo's error handler decide the final status, but
                // record what we know about it.
                if he, ok := err.(*echo.HTTPError); ok {
                    status = he.Code
                }
            }
            route := c.Path()
            if route == "" {
                route = "unmatched"
            }
            method := c.Request().Method
            m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
            m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
            return err
        }
    }
}
