package images

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/alice.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write([]byte{0x01, 0x02, 0x03})
		case "/big":
			_, _ = w.Write(bytes.Repeat([]byte{'x'}, 32))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(Config{MaxBytes: 16})
	ctx := context.Background()

	t.Run("encodes body as data uri", func(t *testing.T) {
		got, err := f.Fetch(ctx, srv.URL+"/alice.png")
		require.NoError(t, err)
		assert.Equal(t, "data:image/png;base64,AQID", got)
	})

	t.Run("data uri passes through", func(t *testing.T) {
		in := "data:image/jpeg;base64,/9j/"
		got, err := f.Fetch(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, in, got)
	})

	t.Run("non 2xx is upstream error", func(t *testing.T) {
		_, err := f.Fetch(ctx, srv.URL+"/missing.jpg")
		require.Error(t, err)
		assert.True(t, faceerr.IsUpstream(err))
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		_, err := f.Fetch(ctx, srv.URL+"/big")
		require.Error(t, err)
		assert.True(t, faceerr.IsUpstream(err))
	})
}

type fakeStore struct {
	putKey     string
	putType    string
	putBody    []byte
	putErr     error
	presignErr error
}

func (s *fakeStore) Put(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (int64, error) {
	if s.putErr != nil {
		return 0, s.putErr
	}
	s.putKey, s.putType = objectKey, contentType
	s.putBody, _ = io.ReadAll(reader)
	return int64(len(s.putBody)), nil
}

func (s *fakeStore) PreSignedGet(ctx context.Context, objectKey string) (string, error) {
	if s.presignErr != nil {
		return "", s.presignErr
	}
	return "https://minio.local/faces/" + objectKey + "?sig=1", nil
}

func (s *fakeStore) NewObjectKey(ext string) string { return "key" + ext }

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and presigns", func(t *testing.T) {
		store := &fakeStore{}
		url, err := NewUploader(store).Upload(ctx, bytes.NewReader([]byte("img")), 3, "image/jpeg")
		require.NoError(t, err)
		assert.Equal(t, "https://minio.local/faces/key.jpg?sig=1", url)
		assert.Equal(t, "image/jpeg", store.putType)
		assert.Equal(t, []byte("img"), store.putBody)
	})

	t.Run("rejects non images", func(t *testing.T) {
		_, err := NewUploader(&fakeStore{}).Upload(ctx, bytes.NewReader(nil), 0, "text/plain")
		assert.True(t, faceerr.IsValidation(err))
	})

	t.Run("storage failure is backend error", func(t *testing.T) {
		_, err := NewUploader(&fakeStore{putErr: errors.New("disk full")}).Upload(ctx, bytes.NewReader(nil), 0, "image/png")
		assert.True(t, faceerr.IsBackend(err))
	})
}
