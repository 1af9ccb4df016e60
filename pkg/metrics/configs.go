package metrics

const DefaultMetricsAddress = ":9090"

// Config defines the configuration for the Prometheus metrics server.
type Config struct {
	// Enabled starts the /metrics listener. Collectors are always registered.
	Enabled bool `mapstructure:"enabled"`

	// Address is the listen address of the metrics server, e.g. ":9090".
	Address string `mapstructure:"address"`

	// EnableDefaultCollectors registers Go runtime, process and build info collectors.
	EnableDefaultCollectors bool `mapstructure:"enable_default_collectors"`

	// Namespace prefixes every metric name, e.g. "facesearch".
	Namespace string `mapstructure:"namespace"`

	// ServiceName is attached to every metric as the "service" label.
	ServiceName string `mapstructure:"service_name"`
}
