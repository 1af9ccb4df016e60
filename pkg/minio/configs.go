package minio

import "time"

const (
	unknownSize                   int64 = -1
	connectionHealthCheckInterval       = 30 * time.Second
	defaultPresignedExpiry              = time.Hour
	// MaxObjectSize caps a single upload.
	MaxObjectSize int64 = 20 * 1024 * 1024
)

// Config defines the top-level configuration for MinIO.
type Config struct {
	// Enabled turns on image uploads.
	Enabled bool `mapstructure:"enabled"`

	Connection      ConnectionConfig `mapstructure:"connection"`
	UploadConfig    UploadConfig     `mapstructure:"upload"`
	PresignedConfig PresignedConfig  `mapstructure:"presigned"`
}

// ConnectionConfig contains MinIO server connection details.
type ConnectionConfig struct {
	Endpoint        string `mapstructure:"endpoint"` // e.g. "localhost:9000"
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
	Region          string `mapstructure:"region"`
}

// UploadConfig defines the configuration for upload constraints.
type UploadConfig struct {
	MaxObjectSize int64  `mapstructure:"max_object_size"`
	MinPartSize   uint64 `mapstructure:"min_part_size"`
	// KeyPrefix is prepended to every generated object key.
	KeyPrefix string `mapstructure:"key_prefix"`
}

// PresignedConfig contains configuration options for presigned URLs.
type PresignedConfig struct {
	ExpiryDuration time.Duration `mapstructure:"expiry"`
	// BaseURL replaces scheme and host of generated links, e.g. a CDN.
	BaseURL string `mapstructure:"base_url"`
}
