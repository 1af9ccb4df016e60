package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/facesearch/pkg/logger"
)

// FXModule provides *Tracer. A tracer.Config must be supplied.
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewTracerWithDI,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// NewTracerWithDI adapts NewClient to the concrete logger provided by logger.FXModule.
func NewTracerWithDI(cfg Config, log *logger.Logger) *Tracer {
	return NewClient(cfg, log)
}

// RegisterTracerLifecycle flushes pending spans on stop.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			tracer.logger.Info("flushing traces", nil, nil)
			return tracer.Shutdown(ctx)
		},
	})
}
