package vectordb

import (
	"context"
	"sort"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
)

// Logger defines the logging methods used by the vectordb package.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
}

// Index resolves adapters, bootstraps collections and applies the calibrated
// thresholds.
type Index struct {
	registry *Registry
	logger   Logger
}

// NewIndex validates the threshold table and returns an Index over registry.
func NewIndex(registry *Registry, logger Logger) (*Index, error) {
	if err := ValidateThresholds(); err != nil {
		return nil, err
	}
	return &Index{registry: registry, logger: logger}, nil
}

// Registry returns the backing registry.
func (x *Index) Registry() *Registry {
	return x.registry
}

// Index stores item in backend under the collection for its model, detector
// and metric, creating the collection on first use.
func (x *Index) Index(ctx context.Context, backend Backend, item IndexedItem, metric Metric) error {
	adapter, err := x.registry.Get(backend)
	if err != nil {
		return err
	}
	if len(item.Vector) == 0 {
		return faceerr.New(faceerr.CodeUpstream, "cannot index an empty embedding", faceerr.Field("label", item.Label))
	}

	key := CollectionKey{Model: item.Model, Detector: item.Detector, Metric: metric}

	if err := adapter.EnsureCollection(ctx, key, len(item.Vector)); err != nil {
		return asBackendError(err, "ensure collection", backend, key)
	}
	if err := adapter.Index(ctx, key, item); err != nil {
		return asBackendError(err, "index", backend, key)
	}

	x.logger.Debug("embedding indexed", nil, map[string]interface{}{
		"database":   string(backend),
		"collection": key.Name(),
		"label":      item.Label,
	})
	return nil
}

// Search returns the items of key within the calibrated threshold of query,
// nearest first, together with the number of stored items labelled label.
func (x *Index) Search(ctx context.Context, backend Backend, key CollectionKey, query Vector, label string) (Outcome, error) {
	threshold, ok := Threshold(key.Model, key.Metric)
	if !ok {
		return Outcome{}, faceerr.New(faceerr.CodeConfiguration, "missing distance threshold",
			faceerr.Field("model", key.Model),
			faceerr.Field("metric", key.Metric),
		)
	}

	adapter, err := x.registry.Get(backend)
	if err != nil {
		return Outcome{}, err
	}
	if len(query) == 0 {
		return Outcome{}, faceerr.New(faceerr.CodeUpstream, "cannot search with an empty embedding")
	}

	if err := adapter.EnsureCollection(ctx, key, len(query)); err != nil {
		return Outcome{}, asBackendError(err, "ensure collection", backend, key)
	}

	matches, err := adapter.Search(ctx, key, query, threshold)
	if err != nil {
		return Outcome{}, asBackendError(err, "search", backend, key)
	}
	if matches == nil {
		matches = []Match{}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	total, err := adapter.CountLabel(ctx, key, label)
	if err != nil {
		return Outcome{}, asBackendError(err, "count label", backend, key)
	}

	x.logger.Debug("embedding searched", nil, map[string]interface{}{
		"database":   string(backend),
		"collection": key.Name(),
		"threshold":  threshold,
		"matches":    len(matches),
		"total":      total,
	})

	return Outcome{Matches: matches, TotalWithLabel: total, Threshold: threshold}, nil
}

// asBackendError keeps an already classified error and marks anything else
// as a backend failure.
func asBackendError(err error, op string, backend Backend, key CollectionKey) error {
	if faceerr.CodeOf(err) != "" {
		return err
	}
	return faceerr.Wrap(err, faceerr.CodeBackend, op+" failed",
		faceerr.Field("database", string(backend)),
		faceerr.Field("collection", key.Name()),
	)
}
