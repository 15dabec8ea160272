package monitoring

import (
	"strconv"
	"sync"
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

	EnrollmentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lms_enrollments_created_total",
			Help: "Number of enrollments created",
		},
	)

	EnrollmentsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lms_enrollments_rejected_total",
			Help: "Number of rejected enrollment requests by reason",
		},
		[]string{"reason"},
	)

	QuizSubmissions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lms_quiz_submissions_total",
			Help: "Number of scored quiz submissions",
		},
	)

	AssignmentSubmissions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lms_assignment_submissions_total",
			Help: "Number of assignment submissions received",
		},
	)

	SubmissionsGraded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lms_submissions_graded_total",
			Help: "Number of manual grading attempts by result",
		},
		[]string{"result"},
	)

	OrphansRemoved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lms_orphan_enrollments_removed_total",
			Help: "Enrollments removed by the reconciliation job",
		},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			EnrollmentsCreated,
			EnrollmentsRejected,
			QuizSubmissions,
			AssignmentSubmissions,
			SubmissionsGraded,
			OrphansRemoved,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
