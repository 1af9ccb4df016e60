package vectordb

import (
	"context"
	"math"

	"github.com/google/uuid"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
	"github.com/Aleph-Alpha/facesearch/pkg/redis"
)

// RedisStore is the subset of *redis.RedisClient the adapter uses.
type RedisStore interface {
	EnsureVectorIndex(ctx context.Context, idx redis.VectorIndex) error
	HSet(ctx context.Context, key string, fields map[string]interface{}) error
	RangeSearch(ctx context.Context, idx redis.VectorIndex, vector []float32, radius float64, limit int, returnFields ...string) ([]redis.RangeHit, error)
	CountTag(ctx context.Context, idx redis.VectorIndex, value string) (int, error)
}

// RedisAdapter keeps one RediSearch index per CollectionKey over hashes
// sharing the key's prefix.
type RedisAdapter struct {
	store RedisStore
	limit int
}

// NewRedisAdapter returns an adapter over store.
func NewRedisAdapter(store RedisStore, cfg Config) *RedisAdapter {
	return &RedisAdapter{store: store, limit: cfg.searchLimit()}
}

func (a *RedisAdapter) Backend() Backend { return BackendRedis }

func redisIndex(key CollectionKey, dimension int) redis.VectorIndex {
	metric := "L2"
	if key.Metric == MetricCosine {
		metric = "COSINE"
	}
	return redis.VectorIndex{
		Name:        "idx:faces:" + key.Name(),
		Prefix:      "faces:" + key.Name() + ":",
		VectorField: "embedding",
		TagField:    labelField,
		StoredOnly:  []string{"url"},
		Dimension:   dimension,
		Metric:      metric,
	}
}

// RediSearch reports squared L2 distances, so Euclidean thresholds are squared
// on the way in and distances rooted on the way out. Cosine distance is
// reported as is.
func redisRadius(m Metric, threshold float64) float64 {
	if m == MetricEuclidean {
		return threshold * threshold
	}
	return threshold
}

func redisDistance(m Metric, raw float64) float64 {
	if m == MetricEuclidean {
		return math.Sqrt(math.Max(raw, 0))
	}
	return raw
}

func (a *RedisAdapter) EnsureCollection(ctx context.Context, key CollectionKey, dimension int) error {
	if err := a.store.EnsureVectorIndex(ctx, redisIndex(key, dimension)); err != nil {
		return faceerr.Wrap(err, faceerr.CodeBackend, "ensure redis index failed", faceerr.Field("collection", key.Name()))
	}
	return nil
}

func (a *RedisAdapter) Index(ctx context.Context, key CollectionKey, item IndexedItem) error {
	idx := redisIndex(key, len(item.Vector))
	err := a.store.HSet(ctx, idx.Prefix+uuid.NewString(), map[string]interface{}{
		"label":     item.Label,
		"url":       item.URL,
		"model":     string(item.Model),
		"detector":  string(item.Detector),
		"embedding": redis.PackFloat32(item.Vector),
	})
	if err != nil {
		return faceerr.Wrap(err, faceerr.CodeBackend, "redis hset failed", faceerr.Field("collection", key.Name()))
	}
	return nil
}

func (a *RedisAdapter) Search(ctx context.Context, key CollectionKey, query Vector, threshold float64) ([]Match, error) {
	idx := redisIndex(key, len(query))
	hits, err := a.store.RangeSearch(ctx, idx, query, redisRadius(key.Metric, threshold), a.limit, "label", "url")
	if err != nil {
		if redis.IsUnknownIndex(err) {
			return []Match{}, nil
		}
		return nil, faceerr.Wrap(err, faceerr.CodeBackend, "redis vector range query failed", faceerr.Field("collection", key.Name()))
	}

	matches := make([]Match, 0, len(hits))
	for _, h := range hits {
		matches = append(matches, Match{
			Label:    h.Fields["label"],
			URL:      h.Fields["url"],
			Distance: redisDistance(key.Metric, h.Distance),
		})
	}
	return matches, nil
}

func (a *RedisAdapter) CountLabel(ctx context.Context, key CollectionKey, label string) (int, error) {
	n, err := a.store.CountTag(ctx, redisIndex(key, 0), label)
	if err != nil {
		if redis.IsUnknownIndex(err) {
			return 0, nil
		}
		return 0, faceerr.Wrap(err, faceerr.CodeBackend, "redis count failed", faceerr.Field("collection", key.Name()))
	}
	return n, nil
}
