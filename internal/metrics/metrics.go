// Package metrics provides Prometheus metrics for the FoodBuddy backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysisTotal counts analyses by where the model output came from and how it ended.
	AnalysisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodbuddy",
			Name:      "analysis_total",
			Help:      "Total number of ingredient analyses",
		},
		[]string{"source", "outcome"},
	)

	// LLMRequestDuration measures analysis service round trips.
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "foodbuddy",
			Name:      "llm_request_duration_seconds",
			Help:      "Duration of analysis service requests in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
		[]string{"status"},
	)

	// HealthScore observes the health score of every valid analysis.
	HealthScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "foodbuddy",
			Name:      "health_score",
			Help:      "Distribution of computed health scores",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	// CompareTotal counts two-product comparisons.
	CompareTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodbuddy",
			Name:      "compare_total",
			Help:      "Total number of product comparisons",
		},
		[]string{"outcome"},
	)

	// HTTPRequestsTotal counts HTTP requests by route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "foodbuddy",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
)

// RecordAnalysis records a finished analysis.
func RecordAnalysis(source, outcome string) {
	AnalysisTotal.WithLabelValues(source, outcome).Inc()
}

// RecordLLMRequest records one analysis service round trip.
func RecordLLMRequest(status string, seconds float64) {
	LLMRequestDuration.WithLabelValues(status).Observe(seconds)
}

// RecordHealthScore records the score of a valid analysis.
func RecordHealthScore(score int) {
	HealthScore.Observe(float64(score))
}

// RecordCompare records a finished comparison.
func RecordCompare(outcome string) {
	CompareTotal.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records a served HTTP request.
func RecordHTTPRequest(method, route, status string) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
}
