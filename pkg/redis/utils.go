package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

// VectorIndex describes a RediSearch index over hashes holding one FLOAT32
// vector field, one TAG field and any number of non-indexed text fields.
type VectorIndex struct {
	Name        string
	Prefix      string
	VectorField string
	TagField    string
	StoredOnly  []string
	Dimension   int
	// Metric is the RediSearch DISTANCE_METRIC, e.g. COSINE or L2.
	Metric string
}

// RangeHit is one document returned by a vector range query.
type RangeHit struct {
	Key      string
	Distance float64
	Fields   map[string]string
}

// Ping checks if the Redis server is reachable and responsive.
func (r *RedisClient) Ping(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.client.Ping(ctx).Err()
}

// IndexExists reports whether name is listed by FT._LIST.
func (r *RedisClient) IndexExists(ctx context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names, err := r.client.FT_List(ctx).Result()
	if err != nil {
		return false, err
	}
	return slices.Contains(names, name), nil
}

// EnsureVectorIndex creates idx unless it exists. "Index already exists" from a
// concurrent creator is swallowed.
func (r *RedisClient) EnsureVectorIndex(ctx context.Context, idx VectorIndex) error {
	if idx.Dimension <= 0 {
		return fmt.Errorf("index %q needs a positive dimension, got %d", idx.Name, idx.Dimension)
	}

	exists, err := r.IndexExists(ctx, idx.Name)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}
	if exists {
		return nil
	}

	schema := indexSchema(idx)

	r.logger.Info("creating redis vector index", nil, map[string]interface{}{
		"index":     idx.Name,
		"prefix":    idx.Prefix,
		"dimension": idx.Dimension,
		"metric":    idx.Metric,
	})

	r.mu.RLock()
	defer r.mu.RUnlock()

	err = r.client.FTCreate(ctx, idx.Name, &redis.FTCreateOptions{
		OnHash: true,
		Prefix: []interface{}{idx.Prefix},
	}, schema...).Err()
	if err != nil && !IsIndexExists(err) {
		return fmt.Errorf("failed to create index %q: %w", idx.Name, err)
	}
	return nil
}

// indexSchema lays out idx as a FT.CREATE schema. The tag field is case
// sensitive so that tag queries match values exactly.
func indexSchema(idx VectorIndex) []*redis.FieldSchema {
	schema := []*redis.FieldSchema{
		{FieldName: idx.TagField, FieldType: redis.SearchFieldTypeTag, CaseSensitive: true},
	}
	for _, f := range idx.StoredOnly {
		schema = append(schema, &redis.FieldSchema{FieldName: f, FieldType: redis.SearchFieldTypeText, NoIndex: true})
	}
	return append(schema, &redis.FieldSchema{
		FieldName: idx.VectorField,
		FieldType: redis.SearchFieldTypeVector,
		VectorArgs: &redis.FTVectorArgs{
			FlatOptions: &redis.FTFlatOptions{
				Type:           "FLOAT32",
				Dim:            idx.Dimension,
				DistanceMetric: idx.Metric,
			},
		},
	})
}

// HSet writes fields into the hash at key.
func (r *RedisClient) HSet(ctx context.Context, key string, fields map[string]interface{}) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.client.HSet(ctx, key, fields).Err()
}

// RangeSearch returns up to limit documents whose vectorField lies within
// radius of vector, nearest first. The distance is the raw value RediSearch
// reports for the index metric.
func (r *RedisClient) RangeSearch(ctx context.Context, idx VectorIndex, vector []float32, radius float64, limit int, returnFields ...string) ([]RangeHit, error) {
	query := fmt.Sprintf("@%s:[VECTOR_RANGE $radius $vec]=>{$YIELD_DISTANCE_AS: distance}", idx.VectorField)

	ret := make([]redis.FTSearchReturn, 0, len(returnFields)+1)
	for _, f := range returnFields {
		ret = append(ret, redis.FTSearchReturn{FieldName: f})
	}
	ret = append(ret, redis.FTSearchReturn{FieldName: "distance"})

	r.mu.RLock()
	defer r.mu.RUnlock()

	res, err := r.client.FTSearchWithArgs(ctx, idx.Name, query, &redis.FTSearchOptions{
		Params: map[string]interface{}{
			"radius": radius,
			"vec":    PackFloat32(vector),
		},
		Return:         ret,
		SortBy:         []redis.FTSearchSortBy{{FieldName: "distance", Asc: true}},
		Limit:          limit,
		DialectVersion: 2,
	}).Result()
	if err != nil {
		return nil, err
	}

	hits := make([]RangeHit, 0, len(res.Docs))
	for _, doc := range res.Docs {
		d, err := strconv.ParseFloat(doc.Fields["distance"], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed distance %q for %s: %w", doc.Fields["distance"], doc.ID, err)
		}
		hits = append(hits, RangeHit{Key: doc.ID, Distance: d, Fields: doc.Fields})
	}
	return hits, nil
}

// CountTag counts documents whose tagField equals value exactly.
func (r *RedisClient) CountTag(ctx context.Context, idx VectorIndex, value string) (int, error) {
	query := fmt.Sprintf("@%s:{%s}", idx.TagField, EscapeTag(value))

	r.mu.RLock()
	defer r.mu.RUnlock()

	res, err := r.client.FTSearchWithArgs(ctx, idx.Name, query, &redis.FTSearchOptions{
		NoContent:      true,
		Limit:          1,
		DialectVersion: 2,
	}).Result()
	if err != nil {
		return 0, err
	}
	return res.Total, nil
}

// PackFloat32 encodes v as little-endian float32 bytes, the blob layout
// RediSearch expects for FLOAT32 vectors.
func PackFloat32(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// EscapeTag escapes the characters RediSearch treats as syntax inside a
// TAG query.
func EscapeTag(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`,.<>{}[]"':;!@#$%^&*()-+=~|/\ `, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
