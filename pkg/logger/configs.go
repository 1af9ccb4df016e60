package logger

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

type Config struct {
	// 1. production -> INFO
	// 2. development -> DEBUG
	// else -> INFO
	Level string `mapstructure:"level"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `mapstructure:"service_name"`

	// EnableTracing adds trace_id and span_id to entries logged via the
	// *WithContext methods.
	EnableTracing bool `mapstructure:"enable_tracing"`
}
