// Package metrics provides Prometheus metrics for topicserve.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchTotal counts search requests by outcome (hit, miss, empty).
	SearchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topicserve",
			Name:      "search_total",
			Help:      "Total number of search requests",
		},
		[]string{"outcome"},
	)

	// SearchResults observes the number of results per search.
	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "topicserve",
			Name:      "search_results",
			Help:      "Distribution of result counts per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	// ReplaceTotal counts document replacements by status.
	ReplaceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topicserve",
			Name:      "replace_total",
			Help:      "Total number of document replacement attempts",
		},
		[]string{"status"},
	)

	// ReloadTotal counts reloads from the backing file.
	ReloadTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "topicserve",
			Name:      "reload_total",
			Help:      "Total number of reloads from the data file",
		},
	)

	// ImportTotal counts imports by file format and status.
	ImportTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "topicserve",
			Name:      "import_total",
			Help:      "Total number of import attempts",
		},
		[]string{"format", "status"},
	)

	// DocumentTopics tracks the topic count of the served document.
	DocumentTopics = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "topicserve",
			Name:      "document_topics",
			Help:      "Number of topics in the current document",
		},
	)
)

// RecordSearch records one search and its result count.
func RecordSearch(query string, results int) {
	outcome := "hit"
	switch {
	case query == "":
		outcome = "empty"
	case results == 0:
		outcome = "miss"
	}
	SearchTotal.WithLabelValues(outcome).Inc()
	SearchResults.Observe(float64(results))
}

// RecordReplace records a replacement attempt and, on success, the new size.
func RecordReplace(status string, topics int) {
	ReplaceTotal.WithLabelValues(status).Inc()
	if status == "ok" {
		DocumentTopics.Set(float64(topics))
	}
}

// RecordReload records a reload and the resulting size.
func RecordReload(topics int) {
	ReloadTotal.Inc()
	DocumentTopics.Set(float64(topics))
}

// RecordImport records an import attempt.
func RecordImport(format, status string) {
	ImportTotal.WithLabelValues(format, status).Inc()
}
