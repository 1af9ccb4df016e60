package vectordb

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/facesearch/pkg/logger"
	"github.com/Aleph-Alpha/facesearch/pkg/postgres"
	"github.com/Aleph-Alpha/facesearch/pkg/qdrant"
	"github.com/Aleph-Alpha/facesearch/pkg/redis"
)

// FXModule provides the Registry and Index. Each storage client is optional;
// only the ones present in the container are registered. A vectordb.Config
// must be supplied.
var FXModule = fx.Module("vectordb",
	fx.Provide(
		NewRegistryWithDI,
		NewIndexWithDI,
	),
)

// RegistryParams groups the optional storage clients.
type RegistryParams struct {
	fx.In

	Config   Config
	Logger   *logger.Logger
	Postgres *postgres.Postgres `optional:"true"`
	Qdrant   *qdrant.Client     `optional:"true"`
	Redis    *redis.RedisClient `optional:"true"`
}

// NewRegistryWithDI registers an adapter for every storage client provided.
func NewRegistryWithDI(p RegistryParams) *Registry {
	var adapters []Adapter
	if p.Postgres != nil {
		adapters = append(adapters, NewPostgresAdapter(p.Postgres))
	}
	if p.Qdrant != nil {
		adapters = append(adapters, NewQdrantAdapter(p.Qdrant, p.Config))
	}
	if p.Redis != nil {
		adapters = append(adapters, NewRedisAdapter(p.Redis, p.Config))
	}

	registry := NewRegistry(adapters...)

	backends := make([]string, 0, len(adapters))
	for _, b := range registry.Backends() {
		backends = append(backends, string(b))
	}
	p.Logger.Info("vector backends registered", nil, map[string]interface{}{
		"databases": backends,
	})
	return registry
}

// NewIndexWithDI adapts NewIndex to the concrete logger provided by logger.FXModule.
func NewIndexWithDI(registry *Registry, log *logger.Logger) (*Index, error) {
	return NewIndex(registry, log.Named("vectordb"))
}
