package server

import "time"

const (
	DefaultAddress        = ":8080"
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 5 * time.Minute
	DefaultMaxUploadBytes = 20 * 1024 * 1024
)

// Config holds the HTTP listener settings.
type Config struct {
	Address      string        `mapstructure:"address"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// MaxUploadBytes caps the body of POST /v1/images.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

func (c Config) withDefaults() Config {
	if c.Address == "" {
		c.Address = DefaultAddress
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return c
}
