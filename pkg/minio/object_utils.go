package minio

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
)

// ErrObjectTooLarge is returned when an upload exceeds UploadConfig.MaxObjectSize.
var ErrObjectTooLarge = fmt.Errorf("object exceeds maximum size")

// Put uploads reader under objectKey. size may be -1 when unknown.
func (m *Minio) Put(ctx context.Context, objectKey string, reader io.Reader, size int64, contentType string) (int64, error) {
	if size == 0 {
		size = unknownSize
	}
	if size > m.cfg.UploadConfig.MaxObjectSize {
		return 0, ErrObjectTooLarge
	}

	info, err := m.client().PutObject(ctx, m.cfg.Connection.BucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
		PartSize:    m.cfg.UploadConfig.MinPartSize,
	})
	if err != nil {
		return 0, faceerr.Wrap(err, faceerr.CodeBackend, "store uploaded image", faceerr.Field("key", objectKey))
	}

	m.logger.Debug("object uploaded", nil, map[string]interface{}{
		"key":  objectKey,
		"size": info.Size,
	})
	return info.Size, nil
}

// Get reads a whole object.
func (m *Minio) Get(ctx context.Context, objectKey string) ([]byte, error) {
	reader, err := m.client().GetObject(ctx, m.cfg.Connection.BucketName, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, faceerr.Wrap(err, faceerr.CodeBackend, "get uploaded image", faceerr.Field("key", objectKey))
	}
	defer func() {
		if err := reader.Close(); err != nil {
			m.logger.Error("failed to close object reader", err, nil)
		}
	}()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, faceerr.Wrap(err, faceerr.CodeBackend, "read uploaded image", faceerr.Field("key", objectKey))
	}
	return data, nil
}

// Delete removes an object.
func (m *Minio) Delete(ctx context.Context, objectKey string) error {
	return m.client().RemoveObject(ctx, m.cfg.Connection.BucketName, objectKey, minio.RemoveObjectOptions{})
}

// NewObjectKey returns a random key under the configured prefix, keeping ext.
func (m *Minio) NewObjectKey(ext string) string {
	return path.Join(m.cfg.UploadConfig.KeyPrefix, uuid.NewString()+ext)
}
