// Package minio stores uploaded face images in an S3 compatible bucket.
//
// The Minio type wraps minio-go with a health monitor that rebuilds the
// client when the server stops answering, creates the configured bucket on
// start-up and hands out presigned GET URLs. Those URLs are what the indexing
// pipeline later fetches, so an uploaded image can be indexed by URL like
// any other.
//
//	m, err := minio.NewClient(cfg, log)
//	if err != nil {
//		return err
//	}
//	if _, err := m.Put(ctx, "faces/alice.jpg", r, size, "image/jpeg"); err != nil {
//		return err
//	}
//	url, err := m.PreSignedGet(ctx, "faces/alice.jpg")
package minio
