package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
)

// Logger defines the logging methods used by the postgres package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
	Fatal(msg string, err error, fields ...map[string]interface{})
}

// Postgres is a thread-safe wrapper around gorm.DB with connection monitoring
// and automatic reconnection.
type Postgres struct {
	Client          *gorm.DB
	cfg             Config
	logger          Logger
	mu              *sync.RWMutex
	shutdownSignal  chan struct{}
	retryChanSignal chan error

	closeRetryChanOnce sync.Once
	closeShutdownOnce  sync.Once
}

// NewPostgres connects with cfg. A failed initial connection is fatal.
func NewPostgres(cfg Config, logger Logger) *Postgres {
	conn, err := connectToPostgres(logger, cfg)
	if err != nil {
		logger.Fatal("error in connecting to postgres", err, nil)
	}

	return &Postgres{
		Client:          conn,
		cfg:             cfg,
		logger:          logger,
		mu:              &sync.RWMutex{},
		shutdownSignal:  make(chan struct{}),
		retryChanSignal: make(chan error, 1),
	}
}

// DSN renders the key/value connection string for cfg.
func (c Connection) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DbName, sslMode)
}

func connectToPostgres(logger Logger, cfg Config) (*gorm.DB, error) {
	database, err := gorm.Open(
		postgres.Open(cfg.Connection.DSN()),
		&gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
	if err != nil {
		return nil, faceerr.Wrap(err, faceerr.CodeBackend, "connect to postgres", faceerr.Field("host", cfg.Connection.Host))
	}

	databaseInstance, err := database.DB()
	if err != nil {
		return nil, faceerr.Wrap(err, faceerr.CodeBackend, "postgres connection pool")
	}

	details := cfg.ConnectionDetails
	if details.MaxOpenConns <= 0 {
		details.MaxOpenConns = defaultMaxOpenConns
	}
	if details.MaxIdleConns <= 0 {
		details.MaxIdleConns = defaultMaxIdleConns
	}
	if details.ConnMaxLifetime <= 0 {
		details.ConnMaxLifetime = defaultConnMaxLifetime
	}
	databaseInstance.SetMaxOpenConns(details.MaxOpenConns)
	databaseInstance.SetMaxIdleConns(details.MaxIdleConns)
	databaseInstance.SetConnMaxLifetime(details.ConnMaxLifetime)

	logger.Info("successfully connected to PostgreSQL database", nil, map[string]interface{}{
		"host":     cfg.Connection.Host,
		"database": cfg.Connection.DbName,
	})

	return database, nil
}

// RetryConnection waits for failure signals from MonitorConnection and
// reconnects until it succeeds, the context ends or Close is called.
func (p *Postgres) RetryConnection(ctx context.Context) {
outerLoop:
	for {
		select {
		case <-p.shutdownSignal:
			p.logger.Info("stopping RetryConnection loop due to shutdown signal", nil, nil)
			return
		case <-ctx.Done():
			return
		case _, ok := <-p.retryChanSignal:
			if !ok {
				return
			}
		innerLoop:
			for {
				select {
				case <-p.shutdownSignal:
					return
				case <-ctx.Done():
					return
				default:
					newConn, err := connectToPostgres(p.logger, p.cfg)
					if err != nil {
						p.logger.Error("reconnection failed", err, nil)
						time.Sleep(time.Second)
						continue innerLoop
					}
					p.mu.Lock()
					old := p.Client
					p.Client = newConn
					p.mu.Unlock()
					if old != nil {
						if sqlDB, err := old.DB(); err == nil {
							_ = sqlDB.Close()
						}
					}
					p.logger.Info("reconnected to PostgreSQL database", nil, nil)
					continue outerLoop
				}
			}
		}
	}
}

// MonitorConnection pings the database every ten seconds and signals
// RetryConnection on failure.
func (p *Postgres) MonitorConnection(ctx context.Context) {
	defer p.closeRetryChanOnce.Do(func() {
		close(p.retryChanSignal)
	})

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.shutdownSignal:
			p.logger.Info("stopping MonitorConnection loop due to shutdown signal", nil, nil)
			return
		case <-ticker.C:
			if err := p.HealthCheck(ctx); err != nil {
				p.logger.Warn("postgres health check failed", err, nil)
				select {
				case p.retryChanSignal <- err:
				default:
				}
			}
		case <-ctx.Done():
			return
		}
	}
}

// HealthCheck pings the database with a five second timeout.
func (p *Postgres) HealthCheck(ctx context.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.Client == nil {
		return faceerr.New(faceerr.CodeBackend, "postgres client is not connected")
	}

	db, err := p.Client.DB()
	if err != nil {
		return faceerr.Wrap(err, faceerr.CodeBackend, "postgres health check")
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return faceerr.Wrap(err, faceerr.CodeBackend, "postgres ping")
	}

	return nil
}

// Close stops the background loops and closes the pool.
func (p *Postgres) Close() error {
	p.closeShutdownOnce.Do(func() {
		close(p.shutdownSignal)
	})

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Client == nil {
		return nil
	}
	db, err := p.Client.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
