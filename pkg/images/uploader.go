package images

import (
	"context"
	"io"
	"mime"
	"strings"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
)

// ObjectStore is the subset of the minio client the uploader needs.
type ObjectStore interface {
	Put(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (int64, error)
	PreSignedGet(ctx context.Context, objectKey string) (string, error)
	NewObjectKey(ext string) string
}

// Uploader stores images and hands back fetchable URLs.
type Uploader struct {
	store ObjectStore
}

// NewUploader wraps store.
func NewUploader(store ObjectStore) *Uploader {
	return &Uploader{store: store}
}

// Upload stores the image read from r and returns a presigned GET URL.
// contentType must be an image media type.
func (u *Uploader) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return "", faceerr.New(faceerr.CodeValidation, "content type must be an image/* media type",
			faceerr.Field("content_type", contentType),
		)
	}

	key := u.store.NewObjectKey(extensionFor(mediaType))
	if _, err := u.store.Put(ctx, key, r, size, mediaType); err != nil {
		return "", faceerr.Wrap(err, faceerr.CodeBackend, "image upload failed", faceerr.Field("key", key))
	}

	url, err := u.store.PreSignedGet(ctx, key)
	if err != nil {
		return "", faceerr.Wrap(err, faceerr.CodeBackend, "presigning image url failed", faceerr.Field("key", key))
	}
	return url, nil
}

func extensionFor(mediaType string) string {
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	if exts, err := mime.ExtensionsByType(mediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}
