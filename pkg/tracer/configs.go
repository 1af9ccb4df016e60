package tracer

// Config defines the configuration for the OpenTelemetry tracer.
type Config struct {
	// ServiceName identifies the service in traces.
	ServiceName string `mapstructure:"service_name"`

	// ServiceVersion is recorded as service.version.
	ServiceVersion string `mapstructure:"service_version"`

	// AppEnv is the deployment environment, e.g. "production".
	AppEnv string `mapstructure:"app_env"`

	// EnableExport ships spans with the OTLP HTTP exporter.
	EnableExport bool `mapstructure:"enable_export"`

	// Endpoint is the collector host:port. Empty falls back to the standard
	// OTEL_EXPORTER_OTLP_* variables.
	Endpoint string `mapstructure:"endpoint"`

	// Insecure disables TLS towards the collector.
	Insecure bool `mapstructure:"insecure"`

	// SampleRatio is the fraction of root traces recorded. Values outside
	// (0, 1) record everything.
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

func (c Config) sampler() float64 {
	if c.SampleRatio <= 0 || c.SampleRatio >= 1 {
		return 1
	}
	return c.SampleRatio
}
