package minio

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/facesearch/pkg/logger"
)

var FXModule = fx.Module("minio",
	fx.Provide(
		NewClientWithDI,
	),
	fx.Invoke(RegisterLifecycle),
)

// NewClientWithDI adapts NewClient to the concrete logger provided by logger.FXModule.
func NewClientWithDI(cfg Config, log *logger.Logger) (*Minio, error) {
	return NewClient(cfg, log)
}

// RegisterLifecycle runs the health monitor while the application is up.
func RegisterLifecycle(lc fx.Lifecycle, mi *Minio) {
	wg := &sync.WaitGroup{}
	loopCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			wg.Add(2)
			go func() {
				defer wg.Done()
				mi.monitorConnection(loopCtx)
			}()
			go func() {
				defer wg.Done()
				mi.retryConnection(loopCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			mi.logger.Info("closing minio client...", nil, nil)
			cancel()
			mi.Close()
			wg.Wait()
			return nil
		},
	})
}
