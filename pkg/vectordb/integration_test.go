package vectordb

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Aleph-Alpha/facesearch/pkg/logger"
	"github.com/Aleph-Alpha/facesearch/pkg/postgres"
	"github.com/Aleph-Alpha/facesearch/pkg/qdrant"
	"github.com/Aleph-Alpha/facesearch/pkg/redis"
)

func startContainer(ctx context.Context, t *testing.T, req testcontainers.ContainerRequest, port string) (string, int) {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, nat.Port(port))
	require.NoError(t, err)
	return host, mapped.Int()
}

// setupBackends starts one container per backend. The returned function
// builds a new adapter over the same client, with no per-process state.
func setupBackends(ctx context.Context, t *testing.T) (*Registry, func(Backend) Adapter) {
	t.Helper()
	log := logger.NewNop()

	pgHost, pgPort := startContainer(ctx, t, testcontainers.ContainerRequest{
		Image:        "pgvector/pgvector:pg16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "facesearch",
			"POSTGRES_PASSWORD": "facesearch",
			"POSTGRES_DB":       "facesearch",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).WithStartupTimeout(90 * time.Second),
	}, "5432")

	pg := postgres.NewPostgres(postgres.Config{
		Connection: postgres.Connection{
			Host:     pgHost,
			Port:     strconv.Itoa(pgPort),
			User:     "facesearch",
			Password: "facesearch",
			DbName:   "facesearch",
		},
	}, log)
	t.Cleanup(func() { _ = pg.Close() })

	qdHost, qdPort := startContainer(ctx, t, testcontainers.ContainerRequest{
		Image:        "qdrant/qdrant:v1.11.0",
		ExposedPorts: []string{"6334/tcp"},
		WaitingFor:   wait.ForListeningPort("6334/tcp").WithStartupTimeout(60 * time.Second),
	}, "6334")

	qd, err := qdrant.NewQdrantClient(qdrant.Config{Host: qdHost, Port: qdPort, Timeout: 30 * time.Second}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = qd.Close() })

	rdHost, rdPort := startContainer(ctx, t, testcontainers.ContainerRequest{
		Image:        "redis/redis-stack-server:7.4.0-v1",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}, "6379")

	rd, err := redis.NewClient(redis.Config{Host: rdHost, Port: rdPort}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rd.Close() })

	fresh := func(backend Backend) Adapter {
		switch backend {
		case BackendPostgreSQL:
			return NewPostgresAdapter(pg)
		case BackendQdrant:
			return NewQdrantAdapter(qd, Config{})
		default:
			return NewRedisAdapter(rd, Config{})
		}
	}
	return NewRegistry(fresh(BackendPostgreSQL), fresh(BackendQdrant), fresh(BackendRedis)), fresh
}

func TestVectorBackendsIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	registry, fresh := setupBackends(ctx, t)
	idx, err := NewIndex(registry, logger.NewNop())
	require.NoError(t, err)

	alice := Vector{0.12, 0.87, 0.33, 0.41}
	aliceAgain := Vector{0.13, 0.86, 0.34, 0.40}
	bob := Vector{0.91, 0.05, 0.72, 0.10}

	for _, backend := range Backends {
		backend := backend
		t.Run(string(backend), func(t *testing.T) {
			t.Run("same vector is found at distance zero", func(t *testing.T) {
				for _, metric := range Metrics {
					label := "carol-" + string(metric)
					item := IndexedItem{Label: label, URL: "c1", Model: ModelArcFace, Detector: DetectorMTCNN, Vector: alice}
					require.NoError(t, idx.Index(ctx, backend, item, metric))

					key := CollectionKey{Model: ModelArcFace, Detector: DetectorMTCNN, Metric: metric}
					out, err := idx.Search(ctx, backend, key, alice, label)
					require.NoError(t, err)
					require.NotEmpty(t, out.Matches)
					assert.Equal(t, "c1", out.Matches[0].URL)
					assert.InDelta(t, 0, out.Matches[0].Distance, 1e-3)
					assert.Equal(t, 1, out.TotalWithLabel)
				}
			})

			t.Run("concurrent first use of a key", func(t *testing.T) {
				key := CollectionKey{Model: ModelSFace, Detector: DetectorSSD, Metric: MetricCosine}
				adapter := fresh(backend)

				var wg sync.WaitGroup
				errs := make([]error, 5)
				for i := range errs {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						errs[i] = adapter.EnsureCollection(ctx, key, len(alice))
					}(i)
				}
				wg.Wait()
				for _, err := range errs {
					assert.NoError(t, err)
				}
			})

			t.Run("label totals are case sensitive", func(t *testing.T) {
				key := CollectionKey{Model: ModelOpenFace, Detector: DetectorDlib, Metric: MetricCosine}
				for _, label := range []string{"dana", "Dana"} {
					item := IndexedItem{Label: label, URL: label + ".jpg", Model: key.Model, Detector: key.Detector, Vector: bob}
					require.NoError(t, idx.Index(ctx, backend, item, key.Metric))
				}

				out, err := idx.Search(ctx, backend, key, bob, "dana")
				require.NoError(t, err)
				assert.Equal(t, 1, out.TotalWithLabel)
			})

			t.Run("never indexed key is empty", func(t *testing.T) {
				key := CollectionKey{Model: ModelDeepID, Detector: DetectorRetinaFace, Metric: MetricEuclidean}
				out, err := idx.Search(ctx, backend, key, alice, "nobody")
				require.NoError(t, err)
				assert.Empty(t, out.Matches)
				assert.Zero(t, out.TotalWithLabel)
			})
		})
	}

	t.Run("nearest label first with its total", func(t *testing.T) {
		items := []IndexedItem{
			{Label: "alice", URL: "a1", Vector: alice},
			{Label: "alice", URL: "a2", Vector: aliceAgain},
			{Label: "bob", URL: "b1", Vector: bob},
		}
		for _, item := range items {
			item.Model, item.Detector = ModelVGGFace, DetectorOpenCV
			require.NoError(t, idx.Index(ctx, BackendPostgreSQL, item, MetricEuclidean))
		}

		key := CollectionKey{Model: ModelVGGFace, Detector: DetectorOpenCV, Metric: MetricEuclidean}
		out, err := idx.Search(ctx, BackendPostgreSQL, key, alice, "alice")
		require.NoError(t, err)
		require.NotEmpty(t, out.Matches)
		assert.Equal(t, "alice", out.Matches[0].Label)
		assert.Equal(t, 2, out.TotalWithLabel)
		for _, m := range out.Matches {
			assert.NotEqual(t, "bob", m.Label)
		}
	})
}
