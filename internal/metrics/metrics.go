// Package metrics exposes Prometheus collectors for the declutter engine
// and the HTTP API.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/blackwell-systems/closetprune/internal/analyzer"
)

var (
	// Declutter engine
	CandidatesEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "closetprune_candidates_emitted_total",
			Help: "Total number of declutter candidates emitted, by tier",
		},
		[]string{"tier"},
	)

	ItemsExcluded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "closetprune_items_excluded_total",
			Help: "Total number of items excluded by the eligibility filter, by reason",
		},
		[]string{"reason"},
	)

	StatusActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "closetprune_status_actions_total",
			Help: "Total number of status actions, by action and result",
		},
		[]string{"action", "result"}, // result: "changed", "noop", "rejected", "error"
	)

	UsageRecorded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "closetprune_usage_recorded_total",
			Help: "Total number of usage events recorded",
		},
		[]string{"reactivated"},
	)

	ConfigReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "closetprune_config_reloads_total",
			Help: "Total number of declutter rule reloads",
		},
		[]string{"result"},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "closetprune_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "closetprune_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "closetprune_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordAction records the result of a status action.
func RecordAction(action, result string) {
	StatusActions.WithLabelValues(action, result).Inc()
}

// RecordUsage records a stored usage event.
func RecordUsage(reactivated bool) {
	UsageRecorded.WithLabelValues(strconv.FormatBool(reactivated)).Inc()
}

// RecordConfigReload records a hot reload attempt of the declutter rules.
func RecordConfigReload(err error) {
	if err != nil {
		ConfigReloads.WithLabelValues("error").Inc()
		return
	}
	ConfigReloads.WithLabelValues("ok").Inc()
}

// Observer feeds analyzer decisions into the collectors above.
type Observer struct{}

var _ analyzer.Observer = Observer{}

// Excluded counts an item dropped by the eligibility filter.
func (Observer) Excluded(reason analyzer.Exclusion) {
	ItemsExcluded.WithLabelValues(string(reason)).Inc()
}

// Emitted counts a candidate that reached a tier.
func (Observer) Emitted(tier analyzer.Tier) {
	CandidatesEmitted.WithLabelValues(string(tier)).Inc()
}
