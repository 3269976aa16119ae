package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the attribution service
type Metrics struct {
	// Funnel metrics
	VisitsRecorded       *prometheus.CounterVec
	SubscriptionOutcomes *prometheus.CounterVec
	IngestDrops          *prometheus.CounterVec
	AuthFailures         *prometheus.CounterVec
	MatchDuration        prometheus.Histogram

	// Link cache metrics
	LinkCacheHits   prometheus.Counter
	LinkCacheMisses prometheus.Counter

	// Outbound metrics
	OutboundRetries *prometheus.CounterVec

	// Kafka metrics
	EventsPublished     prometheus.Counter
	EventPublishErrors  *prometheus.CounterVec
	EventPublishLatency prometheus.Histogram
}

var (
	// DefaultMetrics is the default metrics instance
	DefaultMetrics *Metrics
	once           sync.Once
)

// GetDefaultMetrics returns the singleton metrics instance
func GetDefaultMetrics() *Metrics {
	once.Do(func() {
		DefaultMetrics = NewMetrics()
	})
	return DefaultMetrics
}

// NewMetrics registers all collectors on the default registry
func NewMetrics() *Metrics {
	return &Metrics{
		VisitsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "attribution_service_visits_recorded_total",
				Help: "Total number of visits recorded",
			},
			[]string{"platform"},
		),
		SubscriptionOutcomes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "attribution_service_subscription_outcomes_total",
				Help: "Subscription events by matcher outcome",
			},
			[]string{"platform", "outcome"},
		),
		IngestDrops: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "attribution_service_ingest_drops_total",
				Help: "Platform events dropped during ingestion",
			},
			[]string{"platform", "reason"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "attribution_service_auth_failures_total",
				Help: "Rejected sessions and webhooks",
			},
			[]string{"platform", "reason"},
		),
		MatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "attribution_service_match_duration_seconds",
			Help:    "Duration of attribution matching in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),

		LinkCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attribution_service_link_cache_hits_total",
			Help: "Link resolutions served from cache",
		}),
		LinkCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attribution_service_link_cache_misses_total",
			Help: "Link resolutions that went to the database",
		}),

		OutboundRetries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "attribution_service_outbound_retries_total",
				Help: "Retried calls to platform APIs",
			},
			[]string{"target"},
		),

		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "attribution_service_events_published_total",
			Help: "Subscription events published to Kafka",
		}),
		EventPublishErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "attribution_service_event_publish_errors_total",
				Help: "Subscription events that could not be published",
			},
			[]string{"error_type"},
		),
		EventPublishLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "attribution_service_event_publish_duration_seconds",
			Help:    "Duration of Kafka produce operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// RecordVisit records a stored visit
func (m *Metrics) RecordVisit(platform string) {
	m.VisitsRecorded.WithLabelValues(platform).Inc()
}

// RecordOutcome records a matcher outcome with its duration
func (m *Metrics) RecordOutcome(platform, outcome string, duration float64) {
	m.SubscriptionOutcomes.WithLabelValues(platform, outcome).Inc()
	m.MatchDuration.Observe(duration)
}

// RecordDrop records a dropped platform event
func (m *Metrics) RecordDrop(platform, reason string) {
	if reason == "" {
		reason = "unknown"
	}
	m.IngestDrops.WithLabelValues(platform, reason).Inc()
}

// RecordAuthFailure records a rejected session or webhook
func (m *Metrics) RecordAuthFailure(platform, reason string) {
	if reason == "" {
		reason = "unknown"
	}
	m.AuthFailures.WithLabelValues(platform, reason).Inc()
}

// RecordLinkCache records a link cache lookup
func (m *Metrics) RecordLinkCache(hit bool) {
	if hit {
		m.LinkCacheHits.Inc()
		return
	}
	m.LinkCacheMisses.Inc()
}

// RecordRetry records a retried outbound call
func (m *Metrics) RecordRetry(target string) {
	m.OutboundRetries.WithLabelValues(target).Inc()
}

// RecordPublish records a successful Kafka publish with duration
func (m *Metrics) RecordPublish(duration float64) {
	m.EventsPublished.Inc()
	m.EventPublishLatency.Observe(duration)
}

// RecordPublishError records a failed or discarded publish
func (m *Metrics) RecordPublishError(errorType string) {
	if errorType == "" {
		errorType = "unknown"
	}
	m.EventPublishErrors.WithLabelValues(errorType).Inc()
}
