package postgres

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/facesearch/pkg/logger"
)

var FXModule = fx.Module("postgres",
	fx.Provide(
		NewPostgresWithDI,
	),
	fx.Invoke(RegisterPostgresLifecycle),
)

// NewPostgresWithDI adapts NewPostgres to the concrete logger provided by logger.FXModule.
func NewPostgresWithDI(cfg Config, log *logger.Logger) *Postgres {
	return NewPostgres(cfg, log)
}

// RegisterPostgresLifecycle starts the monitor and retry loops and closes the
// pool when the application stops.
func RegisterPostgresLifecycle(lifecycle fx.Lifecycle, postgres *Postgres) {
	wg := &sync.WaitGroup{}
	loopCtx, cancel := context.WithCancel(context.Background())

	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(2)
			go func() {
				defer wg.Done()
				postgres.MonitorConnection(loopCtx)
			}()
			go func() {
				defer wg.Done()
				postgres.RetryConnection(loopCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			err := postgres.Close()
			wg.Wait()
			return err
		},
	})
}
