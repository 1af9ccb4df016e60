package minio

import (
	"context"
	"net/url"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
)

// PreSignedGet generates a pre-signed URL for GetObject operations.
func (m *Minio) PreSignedGet(ctx context.Context, objectKey string) (string, error) {
	signed, err := m.client().PresignedGetObject(ctx, m.cfg.Connection.BucketName, objectKey, m.cfg.PresignedConfig.ExpiryDuration, nil)
	if err != nil {
		return "", faceerr.Wrap(err, faceerr.CodeBackend, "presign uploaded image", faceerr.Field("key", objectKey))
	}

	if m.cfg.PresignedConfig.BaseURL == "" {
		return signed.String(), nil
	}
	return rebase(signed, m.cfg.PresignedConfig.BaseURL)
}

// rebase points a presigned URL at the public base URL the embedding service
// can reach. The signature query is kept as is.
func rebase(signed *url.URL, baseURL string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", faceerr.Wrap(err, faceerr.CodeConfiguration, "parse minio public base url")
	}

	public := *signed
	public.Scheme = base.Scheme
	public.Host = base.Host
	if base.Path != "" && base.Path != "/" {
		public.Path = base.ResolveReference(&url.URL{Path: public.Path}).Path
	}
	return public.String(), nil
}
