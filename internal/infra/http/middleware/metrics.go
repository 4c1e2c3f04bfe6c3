package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	messagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outreach_messages_sent_total",
			Help: "Total number of messages confirmed sent",
		},
		[]string{"channel", "purpose"},
	)

	sendFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outreach_send_failures_total",
			Help: "Total number of failed delivery attempts",
		},
		[]string{"channel"},
	)

	followupsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outreach_followups_created_total",
			Help: "Total number of followups scheduled",
		},
	)

	followupsCompleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outreach_followups_completed_total",
			Help: "Total number of followups completed",
		},
	)

	followupsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "outreach_followups_cancelled_total",
			Help: "Total number of followups cancelled after a reply",
		},
	)

	leadsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outreach_leads_ingested_total",
			Help: "Total number of scraped posts consumed from the queue",
		},
		[]string{"result"}, // accepted, discarded, invalid
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordMessageSent(channel, purpose string) {
	messagesSent.WithLabelValues(channel, purpose).Inc()
}

func RecordSendFailure(channel string) {
	sendFailures.WithLabelValues(channel).Inc()
}

func RecordFollowupCreated() {
	followupsCreated.Inc()
}

func RecordFollowupCompleted() {
	followupsCompleted.Inc()
}

func RecordFollowupCancelled() {
	followupsCancelled.Inc()
}

func RecordLeadIngested(result string) {
	leadsIngested.WithLabelValues(result).Inc()
}
