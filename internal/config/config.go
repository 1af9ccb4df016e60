// Package config loads the facesearch configuration with viper.
//
// Precedence is flag > environment > file > defaults. Environment variables
// use the FACESEARCH_ prefix with dots replaced by underscores, e.g.
// FACESEARCH_QDRANT_HOST or FACESEARCH_POSTGRES_CONNECTION_PASSWORD.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Aleph-Alpha/facesearch/pkg/embedding"
	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
	"github.com/Aleph-Alpha/facesearch/pkg/facesearch"
	"github.com/Aleph-Alpha/facesearch/pkg/images"
	"github.com/Aleph-Alpha/facesearch/pkg/logger"
	"github.com/Aleph-Alpha/facesearch/pkg/metrics"
	"github.com/Aleph-Alpha/facesearch/pkg/minio"
	"github.com/Aleph-Alpha/facesearch/pkg/postgres"
	"github.com/Aleph-Alpha/facesearch/pkg/qdrant"
	"github.com/Aleph-Alpha/facesearch/pkg/redis"
	"github.com/Aleph-Alpha/facesearch/pkg/server"
	"github.com/Aleph-Alpha/facesearch/pkg/tracer"
	"github.com/Aleph-Alpha/facesearch/pkg/vectordb"
)

const (
	EnvPrefix  = "FACESEARCH"
	ConfigName = "facesearch"
)

// Config is the top-level facesearch configuration.
type Config struct {
	Logger     logger.Config     `mapstructure:"logger"`
	Metrics    metrics.Config    `mapstructure:"metrics"`
	Tracer     tracer.Config     `mapstructure:"tracer"`
	Server     server.Config     `mapstructure:"server"`
	Embedding  embedding.Config  `mapstructure:"embedding"`
	Images     images.Config     `mapstructure:"images"`
	Postgres   postgres.Config   `mapstructure:"postgres"`
	Qdrant     qdrant.Config     `mapstructure:"qdrant"`
	Redis      redis.Config      `mapstructure:"redis"`
	Minio      minio.Config      `mapstructure:"minio"`
	VectorDB   vectordb.Config   `mapstructure:"vectordb"`
	FaceSearch facesearch.Config `mapstructure:"facesearch"`
}

// SetDefaults registers every key with its default. Keys without a
// meaningful default are registered empty so environment overrides reach
// them during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", logger.Info)
	v.SetDefault("logger.service_name", "facesearch")
	v.SetDefault("logger.enable_tracing", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.address", metrics.DefaultMetricsAddress)
	v.SetDefault("metrics.enable_default_collectors", true)
	v.SetDefault("metrics.namespace", "facesearch")
	v.SetDefault("metrics.service_name", "facesearch")

	v.SetDefault("tracer.service_name", "facesearch")
	v.SetDefault("tracer.app_env", "development")
	v.SetDefault("tracer.enable_export", false)
	v.SetDefault("tracer.endpoint", "")
	v.SetDefault("tracer.insecure", false)
	v.SetDefault("tracer.sample_ratio", 1.0)

	v.SetDefault("server.address", server.DefaultAddress)
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("server.read_timeout", server.DefaultReadTimeout)
	v.SetDefault("server.write_timeout", server.DefaultWriteTimeout)
	v.SetDefault("server.max_upload_bytes", server.DefaultMaxUploadBytes)

	v.SetDefault("embedding.endpoint", "http://localhost:5000")
	v.SetDefault("embedding.token", "")
	v.SetDefault("embedding.http_timeout_seconds", 30)

	v.SetDefault("images.timeout_seconds", 30)
	v.SetDefault("images.max_bytes", images.DefaultMaxBytes)

	v.SetDefault("postgres.enabled", true)
	v.SetDefault("postgres.connection.host", "localhost")
	v.SetDefault("postgres.connection.port", "5432")
	v.SetDefault("postgres.connection.user", "postgres")
	v.SetDefault("postgres.connection.password", "")
	v.SetDefault("postgres.connection.db_name", "facesearch")
	v.SetDefault("postgres.connection.ssl_mode", "disable")
	v.SetDefault("postgres.connection_details.max_open_conns", 50)
	v.SetDefault("postgres.connection_details.max_idle_conns", 25)
	v.SetDefault("postgres.connection_details.conn_max_lifetime", time.Minute)

	v.SetDefault("qdrant.enabled", true)
	v.SetDefault("qdrant.host", "localhost")
	v.SetDefault("qdrant.port", 6334)
	v.SetDefault("qdrant.api_key", "")
	v.SetDefault("qdrant.use_tls", false)
	v.SetDefault("qdrant.timeout", 5*time.Second)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", redis.DefaultHost)
	v.SetDefault("redis.port", redis.DefaultPort)
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.max_retries", redis.DefaultMaxRetries)
	v.SetDefault("redis.dial_timeout", redis.DefaultDialTimeout)
	v.SetDefault("redis.read_timeout", redis.DefaultReadTimeout)
	v.SetDefault("redis.write_timeout", redis.DefaultReadTimeout)
	v.SetDefault("redis.tls.enabled", false)

	v.SetDefault("minio.enabled", false)
	v.SetDefault("minio.connection.endpoint", "localhost:9000")
	v.SetDefault("minio.connection.access_key_id", "")
	v.SetDefault("minio.connection.secret_access_key", "")
	v.SetDefault("minio.connection.use_ssl", false)
	v.SetDefault("minio.connection.bucket_name", "faces")
	v.SetDefault("minio.connection.region", "")
	v.SetDefault("minio.upload.max_object_size", minio.MaxObjectSize)
	v.SetDefault("minio.upload.key_prefix", "uploads/")
	v.SetDefault("minio.presigned.expiry", time.Hour)
	v.SetDefault("minio.presigned.base_url", "")

	v.SetDefault("vectordb.search_limit", vectordb.DefaultSearchLimit)

	v.SetDefault("facesearch.concurrency", 1)
}

// SetupEnv binds FACESEARCH_* environment variables.
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads configuration from path, or from facesearch.yaml in the working
// directory when path is empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	SetupEnv(v)

	if err := ReadFile(v, path); err != nil {
		return nil, err
	}
	return FromViper(v)
}

// ReadFile reads path into v, or discovers facesearch.yaml when path is empty.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return faceerr.Wrapf(err, faceerr.CodeConfiguration, "reading config %s", path)
		}
		return nil
	}

	v.SetConfigName(ConfigName)
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/facesearch")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return faceerr.Wrap(err, faceerr.CodeConfiguration, "reading config")
		}
	}
	return nil
}

// FromViper unmarshals and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, faceerr.Wrap(err, faceerr.CodeConfiguration, "unmarshalling config")
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, faceerr.Join(faceerr.CodeConfiguration, "validating config", errs...)
	}
	return &cfg, nil
}

// Validate returns every problem found in the configuration.
func (c *Config) Validate() []error {
	var errs []error

	if c.Embedding.Endpoint == "" {
		errs = append(errs, fmt.Errorf("embedding.endpoint is required"))
	}
	if !c.Postgres.Enabled && !c.Qdrant.Enabled && !c.Redis.Enabled {
		errs = append(errs, fmt.Errorf("at least one of postgres, qdrant or redis must be enabled"))
	}
	if c.Postgres.Enabled {
		if c.Postgres.Connection.Host == "" {
			errs = append(errs, fmt.Errorf("postgres.connection.host is required"))
		}
		if c.Postgres.Connection.DbName == "" {
			errs = append(errs, fmt.Errorf("postgres.connection.db_name is required"))
		}
	}
	if c.Qdrant.Enabled && c.Qdrant.Host == "" {
		errs = append(errs, fmt.Errorf("qdrant.host is required"))
	}
	if c.Redis.Enabled && c.Redis.Host == "" {
		errs = append(errs, fmt.Errorf("redis.host is required"))
	}
	if c.Minio.Enabled {
		if c.Minio.Connection.Endpoint == "" {
			errs = append(errs, fmt.Errorf("minio.connection.endpoint is required"))
		}
		if c.Minio.Connection.BucketName == "" {
			errs = append(errs, fmt.Errorf("minio.connection.bucket_name is required"))
		}
	}
	if c.FaceSearch.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("facesearch.concurrency must be at least 1, got %d", c.FaceSearch.Concurrency))
	}
	if c.VectorDB.SearchLimit < 1 {
		errs = append(errs, fmt.Errorf("vectordb.search_limit must be at least 1, got %d", c.VectorDB.SearchLimit))
	}
	if err := vectordb.ValidateThresholds(); err != nil {
		errs = append(errs, err)
	}

	return errs
}
