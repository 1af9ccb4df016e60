package qdrant

import (
	"context"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"
)

// Logger defines the logging methods used by the qdrant package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Client wraps *qdrant.Client together with its configuration.
type Client struct {
	api    *qdrant.Client
	cfg    Config
	logger Logger
}

// NewQdrantClient connects to Qdrant and runs a health check.
func NewQdrantClient(cfg Config, logger Logger) (*Client, error) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	logger.Info("connecting to qdrant", nil, map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
	})

	api, err := qdrant.NewClient(&qdrant.Config{
		Host:                   cfg.Host,
		Port:                   cfg.Port,
		APIKey:                 cfg.APIKey,
		UseTLS:                 cfg.UseTLS,
		SkipCompatibilityCheck: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize qdrant client: %w", err)
	}

	c := &Client{api: api, cfg: cfg, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if err := c.HealthCheck(ctx); err != nil {
		_ = api.Close()
		return nil, fmt.Errorf("qdrant health check failed: %w", err)
	}

	logger.Info("qdrant client connected", nil, nil)
	return c, nil
}

// HealthCheck calls the gRPC health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	reply, err := c.api.HealthCheck(ctx)
	if err != nil {
		return err
	}
	c.logger.Debug("qdrant health check passed", nil, map[string]interface{}{
		"version": reply.GetVersion(),
	})
	return nil
}

// API exposes the underlying SDK client.
func (c *Client) API() *qdrant.Client {
	return c.api
}

// Close closes the gRPC connection.
func (c *Client) Close() error {
	if c.api == nil {
		return nil
	}
	return c.api.Close()
}
