package qdrant

import (
	"context"
	"sync"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/facesearch/pkg/logger"
)

// FXModule provides *Client and closes it on shutdown. A qdrant.Config must be
// supplied to the container.
var FXModule = fx.Module("qdrant",
	fx.Provide(
		NewQdrantClientWithDI,
	),
	fx.Invoke(RegisterQdrantLifecycle),
)

// NewQdrantClientWithDI adapts NewQdrantClient to the concrete logger provided by logger.FXModule.
func NewQdrantClientWithDI(cfg Config, log *logger.Logger) (*Client, error) {
	return NewQdrantClient(cfg, log)
}

// RegisterQdrantLifecycle closes the client once when the application stops.
func RegisterQdrantLifecycle(lc fx.Lifecycle, client *Client) {
	var once sync.Once

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			var err error
			once.Do(func() {
				err = client.Close()
				client.logger.Info("qdrant client connection closed", err, nil)
			})
			return err
		},
	})
}
