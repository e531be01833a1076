// Package metrics registers the Prometheus collectors exposed on /metrics.
//
// Collectors live on the default registry so the HTTP handler from promhttp
// serves them without extra wiring. Record* helpers keep label values in one
// place.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recommendation outcomes.
const (
	OutcomeHit   = "hit"
	OutcomeEmpty = "empty"
)

// Enrichment outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
	OutcomeRejected = "rejected"
)

var (
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_recommendations_total",
			Help: "Recommendation requests by outcome (hit or empty)",
		},
		[]string{"outcome"},
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelmatch_recommend_duration_seconds",
			Help:    "Time spent ranking a similarity row",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	EnrichmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelmatch_enrichments_total",
			Help: "Metadata lookups by outcome (ok, fallback, rejected by breaker or limiter)",
		},
		[]string{"outcome"},
	)

	EnrichDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reelmatch_enrich_duration_seconds",
			Help:    "Duration of a single metadata lookup in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	BreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_omdb_breaker_state",
			Help: "OMDb circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
	)

	CatalogItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_catalog_items",
			Help: "Number of titles in the loaded catalog",
		},
	)

	SimilarityNonFinite = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelmatch_similarity_non_finite",
			Help: "Number of NaN or infinite scores in the loaded similarity matrix",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelmatch_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordRecommendation tracks one ranking request.
func RecordRecommendation(results int, duration time.Duration) {
	outcome := OutcomeHit
	if results == 0 {
		outcome = OutcomeEmpty
	}
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendDuration.Observe(duration.Seconds())
}

// RecordEnrichment tracks one metadata lookup.
func RecordEnrichment(outcome string, duration time.Duration) {
	EnrichmentsTotal.WithLabelValues(outcome).Inc()
	EnrichDuration.Observe(duration.Seconds())
}

// RecordArtifacts publishes the loaded artifact shape.
func RecordArtifacts(items, nonFinite int) {
	CatalogItems.Set(float64(items))
	SimilarityNonFinite.Set(float64(nonFinite))
}

// RecordHTTPRequest tracks one served HTTP request by route pattern.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
