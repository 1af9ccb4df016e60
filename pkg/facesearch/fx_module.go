package facesearch

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/facesearch/pkg/embedding"
	"github.com/Aleph-Alpha/facesearch/pkg/images"
	"github.com/Aleph-Alpha/facesearch/pkg/logger"
	"github.com/Aleph-Alpha/facesearch/pkg/metrics"
	"github.com/Aleph-Alpha/facesearch/pkg/tracer"
	"github.com/Aleph-Alpha/facesearch/pkg/vectordb"
)

// FXModule provides *Service. A facesearch.Config must be supplied.
var FXModule = fx.Module("facesearch",
	fx.Provide(NewServiceWithDI),
)

// ServiceParams groups the Service dependencies.
type ServiceParams struct {
	fx.In

	Config   Config
	Fetcher  *images.Fetcher
	Embedder *embedding.Client
	Index    *vectordb.Index
	Metrics  *metrics.Metrics
	Tracer   *tracer.Tracer
	Logger   *logger.Logger
}

// NewServiceWithDI builds the Service from the fx container.
func NewServiceWithDI(p ServiceParams) *Service {
	return NewService(p.Config, p.Fetcher, p.Embedder, p.Index, p.Index.Registry(), p.Metrics, p.Tracer, p.Logger.Named("facesearch"))
}
