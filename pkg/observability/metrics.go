// Package observability exposes Prometheus metrics and health endpoints for
// the host agent process.
package observability

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	bookingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jamhost_bookings_total",
			Help: "Total number of jam-spot booking attempts",
		},
		[]string{"status"},
	)

	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jamhost_turns_total",
			Help: "Total number of orchestration turns",
		},
		[]string{"status"},
	)

	remoteRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jamhost_remote_requests_total",
			Help: "Total number of messages sent to friend agents",
		},
		[]string{"friend", "status"},
	)

	remoteRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jamhost_remote_request_duration_seconds",
			Help:    "Friend agent round-trip duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"friend"},
	)

	friendsRegistered = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "jamhost_friends_registered",
			Help: "Number of friend agents currently in the directory",
		},
	)

	initOnce sync.Once
)

// InitMetrics registers all metrics with the default registry. Safe to call
// more than once.
func InitMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			bookingsTotal,
			turnsTotal,
			remoteRequestsTotal,
			remoteRequestDuration,
			friendsRegistered,
		)
	})
}

// MetricsHandler returns the Prometheus scrape handler.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RecordBooking counts one booking attempt with its outcome status
// ("success", "conflict", "invalid", ...).
func RecordBooking(status string) {
	bookingsTotal.WithLabelValues(status).Inc()
}

// RecordTurn counts one completed orchestration turn.
func RecordTurn(status string) {
	turnsTotal.WithLabelValues(status).Inc()
}

// RecordRemoteRequest counts one friend message round trip.
func RecordRemoteRequest(friend, status string, duration time.Duration) {
	remoteRequestsTotal.WithLabelValues(friend, status).Inc()
	remoteRequestDuration.WithLabelValues(friend).Observe(duration.Seconds())
}

// SetFriendsRegistered records the current directory size.
func SetFriendsRegistered(n int) {
	friendsRegistered.Set(float64(n))
}
