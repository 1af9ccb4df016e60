package qdrant

import (
	"context"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"
)

// Distance re-exports the SDK distance enum so callers need not import the SDK.
type Distance = qdrant.Distance

const (
	Distance_Cosine = qdrant.Distance_Cosine
	Distance_Euclid = qdrant.Distance_Euclid
)

// Point is a vector plus a flat string payload.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// ScoredPoint is a query hit with its payload flattened to strings.
type ScoredPoint struct {
	ID      string
	Score   float32
	Payload map[string]string
}

// EnsureCollection creates name with the given dimension and distance unless
// it exists, then adds a keyword payload index on each of keywordFields.
// Losing a creation race to another caller is not an error.
func (c *Client) EnsureCollection(ctx context.Context, name string, dimension int, distance Distance, keywordFields ...string) error {
	if name == "" {
		return fmt.Errorf("collection name cannot be empty")
	}
	if dimension <= 0 {
		return fmt.Errorf("collection %q needs a positive dimension, got %d", name, dimension)
	}

	exists, err := c.api.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to check collection %q: %w", name, err)
	}
	if exists {
		return nil
	}

	c.logger.Info("creating qdrant collection", nil, map[string]interface{}{
		"collection": name,
		"dimension":  dimension,
		"distance":   distance.String(),
	})

	err = c.api.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(dimension),
			Distance: distance,
		}),
	})
	if err != nil && !IsAlreadyExists(err) {
		return fmt.Errorf("failed to create collection %q: %w", name, err)
	}

	for _, field := range keywordFields {
		_, err := c.api.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: name,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil && !IsAlreadyExists(err) {
			return fmt.Errorf("failed to index payload field %q on %q: %w", field, name, err)
		}
	}

	return nil
}

// Upsert writes points and waits for the write to be applied.
func (c *Client) Upsert(ctx context.Context, collection string, points ...Point) error {
	if len(points) == 0 {
		return nil
	}

	structs := make([]*qdrant.PointStruct, 0, len(points))
	for _, p := range points {
		structs = append(structs, &qdrant.PointStruct{
			Id:      qdrant.NewID(p.ID),
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: qdrant.NewValueMap(p.Payload),
		})
	}

	_, err := c.api.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points:         structs,
	})
	if err != nil {
		return fmt.Errorf("upsert into %q failed: %w", collection, err)
	}
	return nil
}

// QueryWithin returns up to limit nearest points whose score passes
// scoreThreshold. For similarity distances that means score >= threshold,
// for Euclid it means score <= threshold.
func (c *Client) QueryWithin(ctx context.Context, collection string, vector []float32, scoreThreshold float32, limit uint64) ([]ScoredPoint, error) {
	hits, err := c.api.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		ScoreThreshold: qdrant.PtrOf(scoreThreshold),
		Limit:          qdrant.PtrOf(limit),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("query on %q failed: %w", collection, err)
	}

	out := make([]ScoredPoint, 0, len(hits))
	for _, hit := range hits {
		payload := make(map[string]string, len(hit.GetPayload()))
		for k, v := range hit.GetPayload() {
			payload[k] = v.GetStringValue()
		}
		out = append(out, ScoredPoint{
			ID:      hit.GetId().GetUuid(),
			Score:   hit.GetScore(),
			Payload: payload,
		})
	}
	return out, nil
}

// CountMatching counts points whose keyword field equals value exactly.
func (c *Client) CountMatching(ctx context.Context, collection, field, value string) (uint64, error) {
	count, err := c.api.Count(ctx, &qdrant.CountPoints{
		CollectionName: collection,
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatch(field, value)},
		},
		Exact: qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("count on %q failed: %w", collection, err)
	}
	return count, nil
}
