package redis

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
)

// Logger defines the logging methods used by the redis package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// RedisClient wraps a go-redis client.
type RedisClient struct {
	client *redis.Client
	cfg    Config
	logger Logger

	mu                sync.RWMutex
	closeShutdownOnce sync.Once
}

// NewClient creates a client for cfg. It does not dial; use Ping to verify
// connectivity.
func NewClient(cfg Config, logger Logger) (*RedisClient, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = DefaultDialTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}

	var tlsConfig *tls.Config
	if cfg.TLS.Enabled {
		var err error
		tlsConfig, err = createTLSConfig(cfg.TLS, cfg.Host)
		if err != nil {
			return nil, faceerr.Wrap(err, faceerr.CodeConfiguration, "redis tls config")
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Protocol:     2, // FT.SEARCH replies are parsed from RESP2 arrays
		PoolSize:     cfg.PoolSize,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		TLSConfig:    tlsConfig,
	})

	logger.Info("redis client initialized", nil, map[string]interface{}{
		"addr": fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		"db":   cfg.DB,
	})

	return &RedisClient{client: client, cfg: cfg, logger: logger}, nil
}

func createTLSConfig(cfg TLSConfig, defaultServerName string) (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		ServerName:         defaultServerName,
	}
	if cfg.ServerName != "" {
		tlsConfig.ServerName = cfg.ServerName
	}

	if cfg.CACertPath != "" {
		caCert, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, faceerr.Wrap(err, faceerr.CodeConfiguration, "read redis ca cert", faceerr.Field("path", cfg.CACertPath))
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, faceerr.New(faceerr.CodeConfiguration, "redis ca cert contains no PEM certificates", faceerr.Field("path", cfg.CACertPath))
		}
		tlsConfig.RootCAs = caCertPool
	}

	if cfg.ClientCertPath != "" && cfg.ClientKeyPath != "" {
		cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
		if err != nil {
			return nil, faceerr.Wrap(err, faceerr.CodeConfiguration, "load redis client certificate")
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// Client returns the underlying go-redis client.
func (r *RedisClient) Client() *redis.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.client
}

// Close closes the client and releases all pooled connections.
func (r *RedisClient) Close() error {
	var err error
	r.closeShutdownOnce.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		if r.client != nil {
			err = r.client.Close()
		}
		r.logger.Info("redis client closed", err, nil)
	})
	return err
}
