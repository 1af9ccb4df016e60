package vectordb

import (
	"context"
	"database/sql/driver"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
	"github.com/Aleph-Alpha/facesearch/pkg/qdrant"
	"github.com/Aleph-Alpha/facesearch/pkg/redis"
)

type fakeQdrant struct {
	ensuredName     string
	ensuredDistance qdrant.Distance
	queriedScore    float32
	queriedLimit    uint64
	hits            []qdrant.ScoredPoint
	upserted        []qdrant.Point
	err             error
}

func (f *fakeQdrant) EnsureCollection(ctx context.Context, name string, dimension int, distance qdrant.Distance, keywordFields ...string) error {
	f.ensuredName, f.ensuredDistance = name, distance
	return f.err
}

func (f *fakeQdrant) Upsert(ctx context.Context, collection string, points ...qdrant.Point) error {
	f.upserted = append(f.upserted, points...)
	return f.err
}

func (f *fakeQdrant) QueryWithin(ctx context.Context, collection string, vector []float32, scoreThreshold float32, limit uint64) ([]qdrant.ScoredPoint, error) {
	f.queriedScore, f.queriedLimit = scoreThreshold, limit
	return f.hits, f.err
}

func (f *fakeQdrant) CountMatching(ctx context.Context, collection, field, value string) (uint64, error) {
	return 7, f.err
}

func TestQdrantAdapterCosineNormalization(t *testing.T) {
	store := &fakeQdrant{hits: []qdrant.ScoredPoint{
		{Score: 0.9, Payload: map[string]string{"label": "alice", "url": "a"}},
	}}
	a := NewQdrantAdapter(store, Config{})
	key := CollectionKey{Model: ModelArcFace, Detector: DetectorOpenCV, Metric: MetricCosine}

	require.NoError(t, a.EnsureCollection(context.Background(), key, 512))
	assert.Equal(t, "arcface_opencv_cosine", store.ensuredName)
	assert.Equal(t, qdrant.Distance_Cosine, store.ensuredDistance)

	matches, err := a.Search(context.Background(), key, Vector{1}, 0.68)
	require.NoError(t, err)
	assert.InDelta(t, 0.32, store.queriedScore, 1e-6)
	assert.Equal(t, uint64(DefaultSearchLimit), store.queriedLimit)
	require.Len(t, matches, 1)
	assert.InDelta(t, 0.1, matches[0].Distance, 1e-6)
	assert.Equal(t, "alice", matches[0].Label)
}

func TestQdrantAdapterEuclidIsIdentity(t *testing.T) {
	store := &fakeQdrant{hits: []qdrant.ScoredPoint{{Score: 3.5, Payload: map[string]string{"label": "bob"}}}}
	a := NewQdrantAdapter(store, Config{SearchLimit: 10})
	key := CollectionKey{Model: ModelArcFace, Detector: DetectorOpenCV, Metric: MetricEuclidean}

	require.NoError(t, a.EnsureCollection(context.Background(), key, 512))
	assert.Equal(t, qdrant.Distance_Euclid, store.ensuredDistance)

	matches, err := a.Search(context.Background(), key, Vector{1}, 4.15)
	require.NoError(t, err)
	assert.InDelta(t, 4.15, store.queriedScore, 1e-5)
	assert.Equal(t, uint64(10), store.queriedLimit)
	assert.InDelta(t, 3.5, matches[0].Distance, 1e-6)
}

func TestQdrantAdapterIndexPayload(t *testing.T) {
	store := &fakeQdrant{}
	a := NewQdrantAdapter(store, Config{})
	item := IndexedItem{Label: "alice", URL: "u", Model: ModelVGGFace, Detector: DetectorSSD, Vector: Vector{1, 2}}

	require.NoError(t, a.Index(context.Background(), CollectionKey{Model: ModelVGGFace, Detector: DetectorSSD, Metric: MetricCosine}, item))
	require.Len(t, store.upserted, 1)
	assert.Equal(t, "alice", store.upserted[0].Payload["label"])
	assert.Equal(t, "VGG-Face", store.upserted[0].Payload["model"])
	assert.Len(t, store.upserted[0].ID, 36)
}

func TestQdrantAdapterMissingCollection(t *testing.T) {
	store := &fakeQdrant{err: status.Error(codes.NotFound, "Collection `x` doesn't exist!")}
	a := NewQdrantAdapter(store, Config{})
	key := CollectionKey{Model: ModelDlib, Detector: DetectorDlib, Metric: MetricCosine}

	matches, err := a.Search(context.Background(), key, Vector{1}, 0.07)
	require.NoError(t, err)
	assert.Empty(t, matches)

	n, err := a.CountLabel(context.Background(), key, "x")
	require.NoError(t, err)
	assert.Zero(t, n)

	err = a.EnsureCollection(context.Background(), key, 128)
	assert.True(t, faceerr.IsBackend(err))
}

func TestQdrantAdapterUnrelatedNotFoundSurfaces(t *testing.T) {
	store := &fakeQdrant{err: status.Error(codes.Internal, "payload index for field `label` not found")}
	a := NewQdrantAdapter(store, Config{})
	key := CollectionKey{Model: ModelDlib, Detector: DetectorDlib, Metric: MetricCosine}

	_, err := a.Search(context.Background(), key, Vector{1}, 0.07)
	assert.True(t, faceerr.IsBackend(err))

	_, err = a.CountLabel(context.Background(), key, "x")
	assert.True(t, faceerr.IsBackend(err))
}

type fakeRedis struct {
	idx    redis.VectorIndex
	radius float64
	fields map[string]interface{}
	key    string
	hits   []redis.RangeHit
}

func (f *fakeRedis) EnsureVectorIndex(ctx context.Context, idx redis.VectorIndex) error {
	f.idx = idx
	return nil
}

func (f *fakeRedis) HSet(ctx context.Context, key string, fields map[string]interface{}) error {
	f.key, f.fields = key, fields
	return nil
}

func (f *fakeRedis) RangeSearch(ctx context.Context, idx redis.VectorIndex, vector []float32, radius float64, limit int, returnFields ...string) ([]redis.RangeHit, error) {
	f.radius = radius
	return f.hits, nil
}

func (f *fakeRedis) CountTag(ctx context.Context, idx redis.VectorIndex, value string) (int, error) {
	return 2, nil
}

func TestRedisAdapterEuclideanSquaresRadius(t *testing.T) {
	store := &fakeRedis{hits: []redis.RangeHit{{Distance: 0.25, Fields: map[string]string{"label": "alice", "url": "a"}}}}
	a := NewRedisAdapter(store, Config{})
	key := CollectionKey{Model: ModelVGGFace, Detector: DetectorOpenCV, Metric: MetricEuclidean}

	require.NoError(t, a.EnsureCollection(context.Background(), key, 4096))
	assert.Equal(t, "idx:faces:vgg-face_opencv_euclidean", store.idx.Name)
	assert.Equal(t, "faces:vgg-face_opencv_euclidean:", store.idx.Prefix)
	assert.Equal(t, "L2", store.idx.Metric)
	assert.Equal(t, 4096, store.idx.Dimension)

	matches, err := a.Search(context.Background(), key, Vector{1}, 0.6)
	require.NoError(t, err)
	assert.InDelta(t, 0.36, store.radius, 1e-9)
	assert.InDelta(t, 0.5, matches[0].Distance, 1e-9)

	n, err := a.CountLabel(context.Background(), key, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRedisAdapterCosineIsIdentity(t *testing.T) {
	store := &fakeRedis{hits: []redis.RangeHit{{Distance: 0.2, Fields: map[string]string{"label": "bob"}}}}
	a := NewRedisAdapter(store, Config{})
	key := CollectionKey{Model: ModelVGGFace, Detector: DetectorOpenCV, Metric: MetricCosine}

	require.NoError(t, a.EnsureCollection(context.Background(), key, 3))
	assert.Equal(t, "COSINE", store.idx.Metric)

	matches, err := a.Search(context.Background(), key, Vector{1}, 0.4)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, store.radius, 1e-9)
	assert.InDelta(t, 0.2, matches[0].Distance, 1e-9)

	require.NoError(t, a.Index(context.Background(), key, IndexedItem{Label: "bob", Vector: Vector{1, 0, 0}}))
	assert.True(t, strings.HasPrefix(store.key, "faces:vgg-face_opencv_cosine:"))
	assert.Equal(t, redis.PackFloat32([]float32{1, 0, 0}), store.fields["embedding"])
}

type fakePostgres struct {
	execErr    error
	migrateErr error
	migrations int
	sql        string
	args       []interface{}
	rawErr     error
	created    []interface{}
}

func (f *fakePostgres) Exec(ctx context.Context, sql string, values ...interface{}) error {
	return f.execErr
}

func (f *fakePostgres) Raw(ctx context.Context, dest interface{}, sql string, values ...interface{}) error {
	f.sql, f.args = sql, values
	if f.rawErr != nil {
		return f.rawErr
	}
	rows := dest.(*[]pgMatch)
	*rows = append(*rows, pgMatch{Label: "alice", URL: "a", Distance: 0.2})
	return nil
}

func (f *fakePostgres) Create(ctx context.Context, value interface{}) error {
	f.created = append(f.created, value)
	return nil
}

func (f *fakePostgres) Count(ctx context.Context, model interface{}, count *int64, condition string, args ...interface{}) error {
	*count = 3
	return nil
}

func (f *fakePostgres) Migrate(ctx context.Context, models ...interface{}) error {
	f.migrations++
	return f.migrateErr
}

func TestPostgresAdapterBootstrap(t *testing.T) {
	t.Run("duplicate objects are benign and bootstrap runs once", func(t *testing.T) {
		store := &fakePostgres{
			execErr:    &pgconn.PgError{Code: "23505"},
			migrateErr: &pgconn.PgError{Code: "42P07"},
		}
		a := NewPostgresAdapter(store)
		key := CollectionKey{Model: ModelVGGFace, Detector: DetectorOpenCV, Metric: MetricCosine}

		require.NoError(t, a.EnsureCollection(context.Background(), key, 3))
		require.NoError(t, a.EnsureCollection(context.Background(), key, 3))
		assert.Equal(t, 1, store.migrations)
	})

	t.Run("other errors surface", func(t *testing.T) {
		a := NewPostgresAdapter(&fakePostgres{execErr: &pgconn.PgError{Code: "42501"}})
		err := a.EnsureCollection(context.Background(), CollectionKey{}, 3)
		assert.True(t, faceerr.IsBackend(err))
	})
}

func TestPostgresAdapterSearchOperator(t *testing.T) {
	store := &fakePostgres{}
	a := NewPostgresAdapter(store)

	_, err := a.Search(context.Background(), CollectionKey{Model: ModelVGGFace, Detector: DetectorOpenCV, Metric: MetricEuclidean}, Vector{1, 2}, 0.6)
	require.NoError(t, err)
	assert.Contains(t, store.sql, "embedding <-> ?::vector")
	assert.Contains(t, store.sql, "AS MATERIALIZED")
	require.Len(t, store.args, 4)
	assert.Equal(t, []interface{}{"VGG-Face", "OpenCV"}, store.args[:2])
	assert.Equal(t, 0.6, store.args[3])
	param, ok := store.args[2].(driver.Valuer)
	require.True(t, ok)
	text, err := param.Value()
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", text)

	matches, err := a.Search(context.Background(), CollectionKey{Model: ModelVGGFace, Detector: DetectorOpenCV, Metric: MetricCosine}, Vector{1, 2}, 0.4)
	require.NoError(t, err)
	assert.Contains(t, store.sql, "embedding <=> ?::vector")
	assert.Equal(t, []Match{{Label: "alice", URL: "a", Distance: 0.2}}, matches)

	n, err := a.CountLabel(context.Background(), CollectionKey{}, "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestPostgresAdapterMissingTable(t *testing.T) {
	a := NewPostgresAdapter(&fakePostgres{rawErr: &pgconn.PgError{Code: "42P01"}})
	matches, err := a.Search(context.Background(), CollectionKey{Metric: MetricCosine}, Vector{1}, 0.4)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestPostgresAdapterIndexRow(t *testing.T) {
	store := &fakePostgres{}
	a := NewPostgresAdapter(store)

	item := IndexedItem{Label: "alice", URL: "a1", Model: ModelFaceNet, Detector: DetectorMTCNN, Vector: Vector{0.5, -1.25}}
	require.NoError(t, a.Index(context.Background(), CollectionKey{}, item))

	require.Len(t, store.created, 1)
	row := store.created[0].(*faceEmbedding)
	assert.Equal(t, "alice", row.Label)
	assert.Equal(t, "FaceNet", row.Model)
	assert.Equal(t, "[0.5,-1.25]", row.Embedding.String())
	assert.Equal(t, []float32{0.5, -1.25}, row.Embedding.Slice())
}
