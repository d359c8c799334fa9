package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 业务指标
	Logins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "peiban_logins_total",
			Help: "Successful logins by channel",
		},
		[]string{"channel"},
	)

	Checkins = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "peiban_checkins_total",
			Help: "Check-in attempts by result",
		},
		[]string{"result"},
	)

	LogsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "peiban_logs_created_total",
		Help: "Logs created",
	})

	ImageReencodeFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "peiban_image_reencode_failures_total",
		Help: "Uploaded images kept as-is because re-encoding failed",
	})
)

func init() {
	prometheus.MustRegister(
		RequestCounter,
		RequestDuration,
		Logins,
		Checkins,
		LogsCreated,
		ImageReencodeFailures,
	)
}

// MetricsMiddleware 记录请求数与耗时
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

// PrometheusHandler 暴露 /metrics
func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
