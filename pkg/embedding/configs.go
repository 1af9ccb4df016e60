package embedding

import (
	"fmt"
	"time"
)

const defaultHTTPTimeoutSeconds = 30

// Config holds the embedding service settings.
type Config struct {
	// Endpoint is the base URL of the service, e.g. http://deepface:5000.
	Endpoint string `mapstructure:"endpoint"`

	// Token is sent as a bearer token when set.
	Token string `mapstructure:"token"`

	HTTPTimeoutS int `mapstructure:"http_timeout_seconds"`
}

// Timeout returns the HTTP client timeout, defaulting to 30 seconds.
func (c Config) Timeout() time.Duration {
	if c.HTTPTimeoutS <= 0 {
		return defaultHTTPTimeoutSeconds * time.Second
	}
	return time.Duration(c.HTTPTimeoutS) * time.Second
}

func (c Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("embedding endpoint is required")
	}
	return nil
}
