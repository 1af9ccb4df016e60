package server

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/facesearch/pkg/facesearch"
	"github.com/Aleph-Alpha/facesearch/pkg/images"
	"github.com/Aleph-Alpha/facesearch/pkg/logger"
)

// FXModule provides *Server and runs it with the application. A server.Config
// must be supplied; an *images.Uploader is picked up when present.
var FXModule = fx.Module("server",
	fx.Provide(NewServerWithDI),
	fx.Invoke(RegisterServerLifecycle),
)

// ServerParams groups the Server dependencies.
type ServerParams struct {
	fx.In

	Config   Config
	Service  *facesearch.Service
	Uploader *images.Uploader `optional:"true"`
	Logger   *logger.Logger
}

// NewServerWithDI builds the Server from the fx container.
func NewServerWithDI(p ServerParams) *Server {
	var uploader Uploader
	if p.Uploader != nil {
		uploader = p.Uploader
	}
	return New(p.Config, p.Service, uploader, p.Logger.Named("server"))
}

// RegisterServerLifecycle starts listening on application start and shuts
// down gracefully on stop.
func RegisterServerLifecycle(lc fx.Lifecycle, s *Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.Start()
		},
		OnStop: func(ctx context.Context) error {
			return s.Shutdown(ctx)
		},
	})
}
