// Package metrics
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	AnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dermalens_analyses_total",
			Help: "Total number of product analyses, labeled by outcome.",
		},
		[]string{"outcome"},
	)
	ProductCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dermalens_product_cache_hits_total",
			Help: "Total number of analyses served from the product cache.",
		},
	)
	ScrapeRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dermalens_scrape_requests_total",
			Help: "Total number of requests to the ingredient source, labeled by status code.",
		},
		[]string{"status_code"},
	)
	ResolutionsBySource = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dermalens_ingredient_resolutions_total",
			Help: "Total number of ingredient resolutions, labeled by data tier.",
		},
		[]string{"source"},
	)
	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dermalens_analysis_duration_seconds",
			Help:    "Duration of full product analyses in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	prometheus.MustRegister(AnalysesTotal)
	prometheus.MustRegister(ProductCacheHits)
	prometheus.MustRegister(ScrapeRequests)
	prometheus.MustRegister(ResolutionsBySource)
	prometheus.MustRegister(AnalysisDuration)
}
