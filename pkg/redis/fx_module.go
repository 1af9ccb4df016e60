package redis

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/facesearch/pkg/logger"
)

// FXModule provides *RedisClient, pings it on start and closes it on stop.
var FXModule = fx.Module("redis",
	fx.Provide(
		NewClientWithDI,
	),
	fx.Invoke(RegisterRedisLifecycle),
)

// RedisParams groups the dependencies needed to create a Redis client.
type RedisParams struct {
	fx.In

	Config Config
	Logger *logger.Logger
}

// NewClientWithDI creates a client from injected dependencies.
func NewClientWithDI(params RedisParams) (*RedisClient, error) {
	return NewClient(params.Config, params.Logger)
}

// RedisLifecycleParams groups the dependencies needed for lifecycle management.
type RedisLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Client    *RedisClient
}

// RegisterRedisLifecycle pings on start and closes the client on stop.
func RegisterRedisLifecycle(params RedisLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := params.Client.Ping(ctx); err != nil {
				params.Client.logger.Error("failed to ping redis on startup", err, nil)
				return err
			}
			params.Client.logger.Info("redis client started and healthy", nil, nil)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return params.Client.Close()
		},
	})
}
