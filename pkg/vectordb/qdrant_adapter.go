package vectordb

import (
	"context"

	"github.com/google/uuid"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
	"github.com/Aleph-Alpha/facesearch/pkg/qdrant"
)

// QdrantStore is the subset of *qdrant.Client the adapter uses.
type QdrantStore interface {
	EnsureCollection(ctx context.Context, name string, dimension int, distance qdrant.Distance, keywordFields ...string) error
	Upsert(ctx context.Context, collection string, points ...qdrant.Point) error
	QueryWithin(ctx context.Context, collection string, vector []float32, scoreThreshold float32, limit uint64) ([]qdrant.ScoredPoint, error)
	CountMatching(ctx context.Context, collection, field, value string) (uint64, error)
}

const labelField = "label"

// QdrantAdapter keeps one collection per CollectionKey.
type QdrantAdapter struct {
	store QdrantStore
	limit int
}

// NewQdrantAdapter returns an adapter over store.
func NewQdrantAdapter(store QdrantStore, cfg Config) *QdrantAdapter {
	return &QdrantAdapter{store: store, limit: cfg.searchLimit()}
}

func (a *QdrantAdapter) Backend() Backend { return BackendQdrant }

func qdrantDistance(m Metric) qdrant.Distance {
	if m == MetricCosine {
		return qdrant.Distance_Cosine
	}
	return qdrant.Distance_Euclid
}

// qdrantScoreThreshold converts a distance threshold into Qdrant's score
// space. Cosine collections score by similarity, which is 1 - distance.
func qdrantScoreThreshold(m Metric, threshold float64) float32 {
	if m == MetricCosine {
		return float32(1 - threshold)
	}
	return float32(threshold)
}

// qdrantDistanceFromScore is the inverse of qdrantScoreThreshold.
func qdrantDistanceFromScore(m Metric, score float32) float64 {
	if m == MetricCosine {
		return 1 - float64(score)
	}
	return float64(score)
}

func (a *QdrantAdapter) EnsureCollection(ctx context.Context, key CollectionKey, dimension int) error {
	if err := a.store.EnsureCollection(ctx, key.Name(), dimension, qdrantDistance(key.Metric), labelField); err != nil {
		return faceerr.Wrap(err, faceerr.CodeBackend, "ensure qdrant collection failed", faceerr.Field("collection", key.Name()))
	}
	return nil
}

func (a *QdrantAdapter) Index(ctx context.Context, key CollectionKey, item IndexedItem) error {
	point := qdrant.Point{
		ID:     uuid.NewString(),
		Vector: item.Vector,
		Payload: map[string]any{
			"label":    item.Label,
			"url":      item.URL,
			"model":    string(item.Model),
			"detector": string(item.Detector),
		},
	}
	if err := a.store.Upsert(ctx, key.Name(), point); err != nil {
		return faceerr.Wrap(err, faceerr.CodeBackend, "qdrant upsert failed", faceerr.Field("collection", key.Name()))
	}
	return nil
}

func (a *QdrantAdapter) Search(ctx context.Context, key CollectionKey, query Vector, threshold float64) ([]Match, error) {
	hits, err := a.store.QueryWithin(ctx, key.Name(), query, qdrantScoreThreshold(key.Metric, threshold), uint64(a.limit))
	if err != nil {
		if qdrant.IsNotFound(err) {
			return []Match{}, nil
		}
		return nil, faceerr.Wrap(err, faceerr.CodeBackend, "qdrant query failed", faceerr.Field("collection", key.Name()))
	}

	matches := make([]Match, 0, len(hits))
	for _, h := range hits {
		matches = append(matches, Match{
			Label:    h.Payload["label"],
			URL:      h.Payload["url"],
			Distance: qdrantDistanceFromScore(key.Metric, h.Score),
		})
	}
	return matches, nil
}

func (a *QdrantAdapter) CountLabel(ctx context.Context, key CollectionKey, label string) (int, error) {
	n, err := a.store.CountMatching(ctx, key.Name(), labelField, label)
	if err != nil {
		if qdrant.IsNotFound(err) {
			return 0, nil
		}
		return 0, faceerr.Wrap(err, faceerr.CodeBackend, "qdrant count failed", faceerr.Field("collection", key.Name()))
	}
	return int(n), nil
}
