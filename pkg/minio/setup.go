package minio

import (
	"context"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
)

// Logger defines the logging methods used by the minio package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Minio wraps *minio.Client with reconnection handling.
type Minio struct {
	Client *minio.Client

	cfg    Config
	logger Logger
	mu     sync.RWMutex

	shutdownSignal  chan struct{}
	reconnectSignal chan error
	shutdownOnce    sync.Once
}

// NewClient connects, validates credentials and ensures the bucket exists.
func NewClient(cfg Config, logger Logger) (*Minio, error) {
	if cfg.PresignedConfig.ExpiryDuration <= 0 {
		cfg.PresignedConfig.ExpiryDuration = defaultPresignedExpiry
	}
	if cfg.UploadConfig.MaxObjectSize <= 0 {
		cfg.UploadConfig.MaxObjectSize = MaxObjectSize
	}

	fields := map[string]interface{}{
		"endpoint": cfg.Connection.Endpoint,
		"region":   cfg.Connection.Region,
		"secure":   cfg.Connection.UseSSL,
		"bucket":   cfg.Connection.BucketName,
	}

	client, err := connectToMinio(cfg, logger)
	if err != nil {
		logger.Error("failed to connect to minio", err, fields)
		return nil, err
	}

	m := &Minio{
		Client:          client,
		cfg:             cfg,
		logger:          logger,
		shutdownSignal:  make(chan struct{}),
		reconnectSignal: make(chan error, 1),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := m.validateConnection(ctx); err != nil {
		logger.Error("failed to validate minio connection", err, fields)
		return nil, err
	}
	if err := m.ensureBucketExists(ctx); err != nil {
		logger.Error("failed to verify bucket", err, fields)
		return nil, err
	}

	return m, nil
}

func connectToMinio(cfg Config, logger Logger) (*minio.Client, error) {
	if cfg.Connection.Endpoint == "" {
		return nil, faceerr.New(faceerr.CodeConfiguration, "minio endpoint is required")
	}

	logger.Info("connecting to minio", nil, map[string]interface{}{
		"endpoint": cfg.Connection.Endpoint,
		"secure":   cfg.Connection.UseSSL,
	})

	return minio.New(cfg.Connection.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Connection.AccessKeyID, cfg.Connection.SecretAccessKey, ""),
		Secure: cfg.Connection.UseSSL,
		Region: cfg.Connection.Region,
	})
}

func (m *Minio) client() *minio.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Client
}

// monitorConnection checks the connection periodically and signals
// retryConnection when it fails.
func (m *Minio) monitorConnection(ctx context.Context) {
	ticker := time.NewTicker(connectionHealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := m.validateConnection(ctx); err != nil {
				m.logger.Error("minio connection health check failed", err, map[string]interface{}{
					"endpoint": m.cfg.Connection.Endpoint,
				})
				select {
				case m.reconnectSignal <- err:
				default:
				}
			}
		case <-m.shutdownSignal:
			return
		case <-ctx.Done():
			return
		}
	}
}

// retryConnection rebuilds the client after a failed health check.
func (m *Minio) retryConnection(ctx context.Context) {
outerLoop:
	for {
		select {
		case <-m.shutdownSignal:
			return
		case <-ctx.Done():
			return
		case err := <-m.reconnectSignal:
			m.logger.Warn("minio connection issue detected, attempting reconnection", err, nil)

		reconnectLoop:
			for {
				select {
				case <-m.shutdownSignal:
					return
				case <-ctx.Done():
					return
				default:
					newClient, err := connectToMinio(m.cfg, m.logger)
					if err != nil {
						m.logger.Error("minio reconnection failed", err, nil)
						time.Sleep(time.Second)
						continue reconnectLoop
					}

					m.mu.Lock()
					m.Client = newClient
					m.mu.Unlock()

					checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
					err = m.validateConnection(checkCtx)
					cancel()
					if err != nil {
						m.logger.Error("minio connection validation failed", err, nil)
						time.Sleep(time.Second)
						continue reconnectLoop
					}

					m.logger.Info("successfully reconnected to minio", nil, nil)
					continue outerLoop
				}
			}
		}
	}
}

// validateConnection lists buckets to verify connectivity and credentials.
func (m *Minio) validateConnection(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := m.client().ListBuckets(ctx)
	return err
}

func (m *Minio) ensureBucketExists(ctx context.Context) error {
	bucketName := m.cfg.Connection.BucketName
	if bucketName == "" {
		return faceerr.New(faceerr.CodeConfiguration, "minio bucket is required")
	}

	exists, err := m.client().BucketExists(ctx, bucketName)
	if err != nil {
		return faceerr.Wrap(err, faceerr.CodeBackend, "check upload bucket", faceerr.Field("bucket", bucketName))
	}
	if exists {
		return nil
	}

	m.logger.Info("bucket does not exist, creating it", nil, map[string]interface{}{
		"bucket": bucketName,
	})

	err = m.client().MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: m.cfg.Connection.Region})
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "BucketAlreadyOwnedByYou" {
			return nil
		}
		return err
	}
	return nil
}

// Close stops the background loops.
func (m *Minio) Close() {
	m.shutdownOnce.Do(func() {
		close(m.shutdownSignal)
	})
}
