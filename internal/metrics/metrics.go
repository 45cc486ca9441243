// Package metrics exposes Prometheus collectors for the recommendation engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insurance_recommendations_served_total",
			Help: "Total number of recommendation requests served",
		},
		[]string{"surface", "outcome"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insurance_recommendation_duration_seconds",
			Help:    "Duration of a full advice request in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"narrative_mode"},
	)

	RecommendationResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "insurance_recommendation_results",
			Help:    "Number of products returned per request",
			Buckets: []float64{0, 1, 2, 3, 5, 7, 10, 20},
		},
	)

	NarrativeCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insurance_narrative_calls_total",
			Help: "Narrative operations by operation and the path that produced the text",
		},
		[]string{"operation", "path"},
	)

	NarrativeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insurance_narrative_failures_total",
			Help: "External narrative calls that failed and fell back",
		},
		[]string{"operation"},
	)

	NarrativeCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insurance_narrative_cache_lookups_total",
			Help: "Narrative cache lookups by result",
		},
		[]string{"result"},
	)

	NarrativeExternalUsable = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "insurance_narrative_external_usable",
			Help: "1 while the external narrative service is in use, 0 after downgrade",
		},
	)

	CatalogProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "insurance_catalog_products",
			Help: "Number of products in the loaded catalog",
		},
	)
)

// Narrative paths.
const (
	PathExternal = "external"
	PathCache    = "cache"
	PathFallback = "fallback"
)
