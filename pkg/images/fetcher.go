package images

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
)

const (
	defaultFetchTimeout = 30 * time.Second
	// DefaultMaxBytes caps a downloaded image.
	DefaultMaxBytes int64 = 20 * 1024 * 1024
)

// Config holds the image fetch settings.
type Config struct {
	TimeoutS int   `mapstructure:"timeout_seconds"`
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// Fetcher downloads images and renders them as data URIs.
type Fetcher struct {
	httpClient *http.Client
	maxBytes   int64
}

// NewFetcher returns a Fetcher for cfg.
func NewFetcher(cfg Config) *Fetcher {
	timeout := defaultFetchTimeout
	if cfg.TimeoutS > 0 {
		timeout = time.Duration(cfg.TimeoutS) * time.Second
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBytes,
	}
}

// Fetch returns url as "data:<content-type>;base64,<payload>". A url that is
// already a data URI is returned untouched.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if strings.HasPrefix(url, "data:") {
		return url, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", faceerr.Wrap(err, faceerr.CodeValidation, "invalid image url", faceerr.Field("url", url))
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", faceerr.Wrap(err, faceerr.CodeUpstream, "image download failed", faceerr.Field("url", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", faceerr.New(faceerr.CodeUpstream,
			fmt.Sprintf("image download returned http %d", resp.StatusCode),
			faceerr.Field("url", url),
		)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", faceerr.Wrap(err, faceerr.CodeUpstream, "image download interrupted", faceerr.Field("url", url))
	}
	if int64(len(data)) > f.maxBytes {
		return "", faceerr.New(faceerr.CodeUpstream,
			fmt.Sprintf("image exceeds %d bytes", f.maxBytes),
			faceerr.Field("url", url),
		)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return DataURI(contentType, data), nil
}

// DataURI encodes data as a base64 data URI.
func DataURI(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
