package qdrant

import "time"

// Config holds the gRPC connection settings.
type Config struct {
	// Enabled registers the Qdrant backend.
	Enabled bool `mapstructure:"enabled"`

	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	APIKey string `mapstructure:"api_key"`
	UseTLS bool   `mapstructure:"use_tls"`

	// Timeout bounds the start-up health check.
	Timeout time.Duration `mapstructure:"timeout"`
}

const (
	defaultPort    = 6334
	defaultTimeout = 5 * time.Second
)
