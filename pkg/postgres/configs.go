package postgres

import "time"

// Config holds the connection and pool settings.
type Config struct {
	// Enabled registers the PostgreSQL backend.
	Enabled bool `mapstructure:"enabled"`

	Connection        Connection        `mapstructure:"connection"`
	ConnectionDetails ConnectionDetails `mapstructure:"connection_details"`
}

type Connection struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DbName   string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type ConnectionDetails struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

const (
	defaultMaxOpenConns    = 50
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = time.Minute
)
