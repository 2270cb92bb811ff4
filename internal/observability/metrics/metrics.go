package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "claimledger_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "claimledger_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "claimledger_auth_attempts_total",
		Help: "Registration and login attempts by result",
	}, []string{"operation", "result"})

	recordsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "claimledger_records_created_total",
		Help: "Expense claims and bills persisted",
	}, []string{"collection"})

	uploadedBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "claimledger_uploaded_bytes_total",
		Help: "Bytes written to the blob store",
	})

	uploads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "claimledger_uploads_total",
		Help: "Files written to the blob store",
	})

	throttled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "claimledger_throttled_requests_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"route"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// ObserveAuth counts a register or login attempt.
func ObserveAuth(operation, result string) {
	authAttempts.WithLabelValues(operation, result).Inc()
}

// ObserveRecordCreated counts a persisted record in the named collection.
func ObserveRecordCreated(collection string) {
	recordsCreated.WithLabelValues(collection).Inc()
}

// ObserveUpload records one stored blob of n bytes.
func ObserveUpload(n int64) {
	uploads.Inc()
	if n > 0 {
		uploadedBytes.Add(float64(n))
	}
}

// ObserveThrottled counts a request rejected by the rate limiter.
func ObserveThrottled(route string) {
	throttled.WithLabelValues(route).Inc()
}
