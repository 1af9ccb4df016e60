package vectordb

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
	"github.com/Aleph-Alpha/facesearch/pkg/postgres"
)

// PostgresStore is the subset of *postgres.Postgres the adapter uses.
type PostgresStore interface {
	Exec(ctx context.Context, sql string, values ...interface{}) error
	Raw(ctx context.Context, dest interface{}, sql string, values ...interface{}) error
	Create(ctx context.Context, value interface{}) error
	Count(ctx context.Context, model interface{}, count *int64, condition string, args ...interface{}) error
	Migrate(ctx context.Context, models ...interface{}) error
}

// faceEmbedding is the single table every model and detector shares.
type faceEmbedding struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Label     string          `gorm:"not null"`
	URL       string          `gorm:"column:url;not null"`
	Model     string          `gorm:"not null;index:idx_face_embeddings_model_detector"`
	Detector  string          `gorm:"not null;index:idx_face_embeddings_model_detector"`
	Embedding pgvector.Vector `gorm:"type:vector;not null"`
	CreatedAt time.Time
}

func (faceEmbedding) TableName() string { return "face_embeddings" }

// pgOperators maps metrics to pgvector distance operators.
var pgOperators = map[Metric]string{
	MetricCosine:    "<=>",
	MetricEuclidean: "<->",
}

// PostgresAdapter stores embeddings in the face_embeddings table. The metric
// is a query-time choice, so one row serves both metrics.
type PostgresAdapter struct {
	store        PostgresStore
	bootstrapped atomic.Bool
}

// NewPostgresAdapter returns an adapter over store.
func NewPostgresAdapter(store PostgresStore) *PostgresAdapter {
	return &PostgresAdapter{store: store}
}

func (a *PostgresAdapter) Backend() Backend { return BackendPostgreSQL }

// EnsureCollection installs the vector extension and the shared table once
// per process. Duplicate-object errors from concurrent bootstraps are benign.
func (a *PostgresAdapter) EnsureCollection(ctx context.Context, _ CollectionKey, _ int) error {
	if a.bootstrapped.Load() {
		return nil
	}

	if err := a.store.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil && !postgres.IsDuplicateObject(err) {
		return faceerr.Wrap(err, faceerr.CodeBackend, "create vector extension failed")
	}
	if err := a.store.Migrate(ctx, &faceEmbedding{}); err != nil && !postgres.IsDuplicateObject(err) {
		return faceerr.Wrap(err, faceerr.CodeBackend, "create face_embeddings table failed")
	}

	a.bootstrapped.Store(true)
	return nil
}

func (a *PostgresAdapter) Index(ctx context.Context, _ CollectionKey, item IndexedItem) error {
	row := &faceEmbedding{
		ID:        uuid.New(),
		Label:     item.Label,
		URL:       item.URL,
		Model:     string(item.Model),
		Detector:  string(item.Detector),
		Embedding: pgvector.NewVector(item.Vector),
	}
	if err := a.store.Create(ctx, row); err != nil {
		return faceerr.Wrap(err, faceerr.CodeBackend, "insert embedding failed", faceerr.Field("label", item.Label))
	}
	return nil
}

// searchSQL materializes the rows of one model and detector before any
// distance is computed, so vectors of other dimensions are never compared.
const searchSQL = `
WITH candidates AS MATERIALIZED (
	SELECT label, url, embedding FROM face_embeddings WHERE model = ? AND detector = ?
)
SELECT label, url, distance FROM (
	SELECT label, url, embedding %s ?::vector AS distance FROM candidates
) AS scored
WHERE distance <= ?
ORDER BY distance ASC`

type pgMatch struct {
	Label    string  `gorm:"column:label"`
	URL      string  `gorm:"column:url"`
	Distance float64 `gorm:"column:distance"`
}

func (a *PostgresAdapter) Search(ctx context.Context, key CollectionKey, query Vector, threshold float64) ([]Match, error) {
	op, ok := pgOperators[key.Metric]
	if !ok {
		return nil, faceerr.New(faceerr.CodeValidation, "unsupported distance metric", faceerr.Field("metric", key.Metric))
	}

	var rows []pgMatch
	err := a.store.Raw(ctx, &rows, fmt.Sprintf(searchSQL, op),
		string(key.Model), string(key.Detector), pgvector.NewVector(query), threshold)
	if err != nil {
		if postgres.IsUndefinedTable(err) {
			return []Match{}, nil
		}
		return nil, faceerr.Wrap(err, faceerr.CodeBackend, "vector search failed", faceerr.Field("collection", key.Name()))
	}

	matches := make([]Match, 0, len(rows))
	for _, r := range rows {
		matches = append(matches, Match{Label: r.Label, URL: r.URL, Distance: r.Distance})
	}
	return matches, nil
}

func (a *PostgresAdapter) CountLabel(ctx context.Context, key CollectionKey, label string) (int, error) {
	var count int64
	err := a.store.Count(ctx, &faceEmbedding{}, &count, "model = ? AND detector = ? AND label = ?",
		string(key.Model), string(key.Detector), label)
	if err != nil {
		if postgres.IsUndefinedTable(err) {
			return 0, nil
		}
		return 0, faceerr.Wrap(err, faceerr.CodeBackend, "count label failed", faceerr.Field("label", label))
	}
	return int(count), nil
}
