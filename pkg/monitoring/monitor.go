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
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// QuizAttempts counts scored attempts by kind (game|module) and outcome.
	QuizAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iaprender_quiz_attempts_total",
			Help: "Scored quiz attempts",
		},
		[]string{"kind", "passed"},
	)

	// TutorReplies counts tutor answers by source (provider|fallback).
	TutorReplies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iaprender_tutor_replies_total",
			Help: "Tutor chat replies by source",
		},
		[]string{"source"},
	)

	ProgressConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "iaprender_progress_conflicts_total",
			Help: "Game completions that exhausted their optimistic retries",
		},
	)

	TriageEmergencies = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "iaprender_triage_emergencies_total",
			Help: "Triage responses replaced by the emergency payload",
		},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(QuizAttempts)
		prometheus.MustRegister(TutorReplies)
		prometheus.MustRegister(ProgressConflicts)
		prometheus.MustRegister(TriageEmergencies)
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
