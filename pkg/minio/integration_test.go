package minio

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Aleph-Alpha/facesearch/pkg/logger"
)

func setupMinioContainer(ctx context.Context, t *testing.T) ConnectionConfig {
	t.Helper()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "minioadmin",
				"MINIO_ROOT_PASSWORD": "minioadmin",
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	endpoint, err := container.PortEndpoint(ctx, "9000/tcp", "")
	require.NoError(t, err)

	return ConnectionConfig{
		Endpoint:        endpoint,
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		BucketName:      "faces",
		Region:          "us-east-1",
	}
}

func TestMinioUploadAndPresign(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	m, err := NewClient(Config{Connection: setupMinioContainer(ctx, t)}, logger.NewNop())
	require.NoError(t, err)
	defer m.Close()

	body := []byte("not really a jpeg")
	key := m.NewObjectKey(".jpg")

	n, err := m.Put(ctx, key, bytes.NewReader(body), int64(len(body)), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, int64(len(body)), n)

	got, err := m.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, body, got)

	link, err := m.PreSignedGet(ctx, key)
	require.NoError(t, err)

	resp, err := http.Get(link)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/jpeg", resp.Header.Get("Content-Type"))
	fetched, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, body, fetched)

	_, err = m.Put(ctx, "too-big", bytes.NewReader(nil), MaxObjectSize+1, "image/jpeg")
	assert.ErrorIs(t, err, ErrObjectTooLarge)

	require.NoError(t, m.Delete(ctx, key))
}
