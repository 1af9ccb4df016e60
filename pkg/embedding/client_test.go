package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewDeepFaceProvider(Config{Endpoint: srv.URL + "/", Token: "secret"})
	require.NoError(t, err)
	return NewClient(p)
}

func TestRepresent(t *testing.T) {
	var got representRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/represent", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"embedding":[0.5,-1,2]},{"embedding":[9]}]}`))
	})

	vec, err := client.Represent(context.Background(), "data:image/png;base64,AAAA", "FaceNet512", "RetinaFace")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -1, 2}, vec)

	assert.Equal(t, "data:image/png;base64,AAAA", got.Img)
	assert.Equal(t, "Facenet512", got.ModelName)
	assert.Equal(t, "retinaface", got.DetectorBackend)
}

func TestRepresentUpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "Face could not be detected", http.StatusBadRequest)
			},
		},
		{
			name: "empty results",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"results":[]}`))
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"results":`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.Represent(context.Background(), "https://example.com/a.jpg", "VGG-Face", "OpenCV")
			require.Error(t, err)
			assert.True(t, faceerr.IsUpstream(err))
		})
	}
}

func TestServiceModelName(t *testing.T) {
	assert.Equal(t, "Facenet", ServiceModelName("FaceNet"))
	assert.Equal(t, "Facenet512", ServiceModelName("FaceNet512"))
	assert.Equal(t, "VGG-Face", ServiceModelName("VGG-Face"))
	assert.Equal(t, "ArcFace", ServiceModelName("ArcFace"))
}

func TestNewDeepFaceProviderRequiresEndpoint(t *testing.T) {
	_, err := NewDeepFaceProvider(Config{})
	require.Error(t, err)
	assert.True(t, faceerr.IsConfiguration(err))
}
