package prometheus

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"outreach-service/pkg/config"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Auth metrics
	RegisterCounter  prometheus.Counter
	LoginCounter     prometheus.Counter
	AuthErrorCounter *prometheus.CounterVec

	// Domain metrics
	ListCreatedCounter      prometheus.Counter
	CampaignCreatedCounter  prometheus.Counter
	ActivityStatusCounter   *prometheus.CounterVec
	WebhookEventCounter     *prometheus.CounterVec
	GenerationCounter       *prometheus.CounterVec
	GenerationTokenCounter  prometheus.Counter
	QuotaExceededCounter    *prometheus.CounterVec
	TelemetryFailureCounter *prometheus.CounterVec

	// Database operation metrics
	DBOperationHistogram *prometheus.HistogramVec

	// Request metrics
	RequestCounter            *prometheus.CounterVec
	RequestDurationHistogram  *prometheus.HistogramVec
	StatusCodeCategoryCounter *prometheus.CounterVec

	// Namespace prefix for metrics
	namespace string

	initOnce sync.Once
)

// InitMetrics initializes all Prometheus metrics. promauto panics on double
// registration, so repeated calls are collapsed to the first.
func InitMetrics(cfg *config.Config) {
	initOnce.Do(func() { initMetrics(cfg) })
}

func initMetrics(cfg *config.Config) {
	namespace = cfg.Metrics.Prefix

	RegisterCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "register_total",
		Help:      "Total number of user registrations",
	})

	LoginCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_total",
		Help:      "Total number of login attempts",
	})

	AuthErrorCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_error_total",
			Help:      "Total number of authentication errors",
		},
		[]string{"error_type"},
	)

	ListCreatedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "company_lists_created_total",
		Help:      "Total number of company lists created",
	})

	CampaignCreatedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "campaigns_created_total",
		Help:      "Total number of campaigns created",
	})

	ActivityStatusCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_status_total",
			Help:      "Total number of sales activity status updates",
		},
		[]string{"status"},
	)

	WebhookEventCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_event_total",
			Help:      "Total number of billing webhook deliveries",
		},
		[]string{"outcome"},
	)

	GenerationCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_generation_total",
			Help:      "Total number of AI generation requests",
		},
		[]string{"outcome"},
	)

	GenerationTokenCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ai_generation_tokens_total",
		Help:      "Total number of tokens consumed by AI generations",
	})

	QuotaExceededCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_exceeded_total",
			Help:      "Total number of requests rejected by usage quota",
		},
		[]string{"metric_type"},
	)

	TelemetryFailureCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "telemetry_failure_total",
			Help:      "Total number of failed telemetry sink deliveries",
		},
		[]string{"sink"},
	)

	DBOperationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_operation_duration_seconds",
			Help:      "Duration of database operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	RequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	StatusCodeCategoryCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_status_category_total",
			Help:      "Total number of responses by status category (2xx, 4xx, 5xx)",
		},
		[]string{"category", "method", "path"},
	)
}

// RecordAuthError increments the auth error counter for the given type
func RecordAuthError(errorType string) {
	if AuthErrorCounter != nil {
		AuthErrorCounter.WithLabelValues(errorType).Inc()
	}
}

// TrackDBOperation returns a function that records the duration of a database
// operation when called. Use with defer:
//
//	defer prometheus.TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		if DBOperationHistogram != nil {
			DBOperationHistogram.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		}
	}
}

// Middleware creates an Echo middleware function that records HTTP request metrics
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			method := c.Request().Method
			path := c.Path()
			statusStr := strconv.Itoa(status)

			RequestCounter.WithLabelValues(method, path, statusStr).Inc()

			category := ""
			if status >= 200 && status < 300 {
				category = "2xx"
			} else if status >= 400 && status < 500 {
				category = "4xx"
			} else if status >= 500 && status < 600 {
				category = "5xx"
			}
			if category != "" {
				StatusCodeCategoryCounter.WithLabelValues(category, method, path).Inc()
			}

			duration := time.Since(start).Seconds()
			RequestDurationHistogram.WithLabelValues(method, path, statusStr).Observe(duration)

			return err
		}
	}
}

// GetPrometheusHandler returns an HTTP handler for exposing Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}
