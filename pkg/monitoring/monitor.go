package monitoring

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
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	AnswersSaved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_answers_saved_total",
			Help: "Total number of answer upserts",
		},
	)

	AnswersDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_answers_deleted_total",
			Help: "Total number of answer rows deleted by deselection",
		},
	)

	AnswersReset = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_resets_total",
			Help: "Total number of reset-all operations",
		},
	)

	QuestionsFlagged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "quiz_questions_flagged_total",
			Help: "Total number of hard/wrong flags recorded",
		},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(AnswersSaved)
	prometheus.MustRegister(AnswersDeleted)
	prometheus.MustRegister(AnswersReset)
	prometheus.MustRegister(QuestionsFlagged)
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
