package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// IncrementRequests counts one finished batch request.
func (m *Metrics) IncrementRequests(operation, status string) {
	m.requestsTotal.WithLabelValues(operation, status).Inc()
}

// RecordRequestDuration observes the time elapsed since start for operation.
func (m *Metrics) RecordRequestDuration(start time.Time, operation string) {
	m.requestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// IncrementImages counts one image that went through the whole pipeline.
func (m *Metrics) IncrementImages(operation, database string) {
	m.imagesProcessed.WithLabelValues(operation, database).Inc()
}

// ObserveRetrieval records the quality scores of one find result.
func (m *Metrics) ObserveRetrieval(database string, precision, recall float64) {
	m.precision.WithLabelValues(database).Observe(precision)
	m.recall.WithLabelValues(database).Observe(recall)
}

func createCounterVec(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func createHistogramVec(namespace, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}
