package redis

import "time"

// Config defines the connection settings for a standalone Redis Stack server.
type Config struct {
	// Enabled registers the Redis backend.
	Enabled bool `mapstructure:"enabled"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	PoolSize     int           `mapstructure:"pool_size"`
	MaxRetries   int           `mapstructure:"max_retries"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	TLS TLSConfig `mapstructure:"tls"`
}

// TLSConfig contains TLS/SSL configuration parameters.
type TLSConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	CACertPath         string `mapstructure:"ca_cert_path"`
	ClientCertPath     string `mapstructure:"client_cert_path"`
	ClientKeyPath      string `mapstructure:"client_key_path"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
	ServerName         string `mapstructure:"server_name"`
}

const (
	DefaultHost        = "localhost"
	DefaultPort        = 6379
	DefaultMaxRetries  = 3
	DefaultDialTimeout = 5 * time.Second
	DefaultReadTimeout = 3 * time.Second
)
