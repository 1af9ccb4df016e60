package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus registry, the HTTP server exposing it and the
// collectors recorded by the facesearch pipeline.
type Metrics struct {
	Server   *http.Server
	Registry *prometheus.Registry

	enabled bool

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	imagesProcessed *prometheus.CounterVec
	precision       *prometheus.HistogramVec
	recall          *prometheus.HistogramVec
}

// scoreBuckets spans [0, 1] for precision/recall observations.
var scoreBuckets = []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1}

// NewMetrics creates a registry labelled with the service name and registers
// the pipeline collectors on it.
func NewMetrics(cfg Config) *Metrics {
	registry := prometheus.NewRegistry()

	wrappedRegistry := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	address := cfg.Address
	if address == "" {
		address = DefaultMetricsAddress
	}

	m := &Metrics{
		Registry: registry,
		enabled:  cfg.Enabled,
	}

	m.requestsTotal = createCounterVec(cfg.Namespace, "requests_total", "Total number of processed batch requests", []string{"operation", "status"})
	m.requestDuration = createHistogramVec(cfg.Namespace, "request_duration_seconds", "Duration of batch requests in seconds", []string{"operation"}, prometheus.DefBuckets)
	m.imagesProcessed = createCounterVec(cfg.Namespace, "images_processed_total", "Total number of images embedded and indexed or searched", []string{"operation", "database"})
	m.precision = createHistogramVec(cfg.Namespace, "retrieval_precision", "Precision of find results per image", []string{"database"}, scoreBuckets)
	m.recall = createHistogramVec(cfg.Namespace, "retrieval_recall", "Recall of find results per image", []string{"database"}, scoreBuckets)

	wrappedRegistry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.imagesProcessed,
		m.precision,
		m.recall,
	)

	if cfg.EnableDefaultCollectors {
		wrappedRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	m.Server = &http.Server{
		Addr:    address,
		Handler: handler,
	}

	return m
}
