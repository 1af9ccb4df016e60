package embedding

import (
	"context"
	"net/http"
	"strings"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
)

// Client is a thin facade that delegates requests to a Provider.
type Client struct {
	provider Provider
}

// NewClient constructs a Client from an already-instantiated Provider.
func NewClient(p Provider) *Client {
	return &Client{provider: p}
}

// Represent embeds one image.
func (c *Client) Represent(ctx context.Context, image, model, detector string) ([]float32, error) {
	return c.provider.Represent(ctx, image, model, detector)
}

// DeepFaceProvider calls POST {endpoint}/represent.
type DeepFaceProvider struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewDeepFaceProvider builds a provider for cfg.
func NewDeepFaceProvider(cfg Config) (*DeepFaceProvider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, faceerr.Wrap(err, faceerr.CodeConfiguration, "invalid embedding configuration")
	}
	return &DeepFaceProvider{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}, nil
}

// Represent sends the image to the service and returns the first embedding.
// Any failure, including an empty result list, is an upstream error. No
// retries are attempted.
func (p *DeepFaceProvider) Represent(ctx context.Context, image, model, detector string) ([]float32, error) {
	body := representRequest{
		Img:             image,
		ModelName:       ServiceModelName(model),
		DetectorBackend: strings.ToLower(detector),
	}

	var out representResponse
	if err := p.postJSON(ctx, p.endpoint+"/represent", body, &out); err != nil {
		return nil, faceerr.Wrap(err, faceerr.CodeUpstream, "embedding request failed",
			faceerr.Field("model", model),
			faceerr.Field("detector", detector),
		)
	}

	if len(out.Results) == 0 || len(out.Results[0].Embedding) == 0 {
		return nil, faceerr.New(faceerr.CodeUpstream, "embedding service returned no face",
			faceerr.Field("model", model),
			faceerr.Field("detector", detector),
		)
	}

	return out.Results[0].Embedding, nil
}

// Close releases idle connections.
func (p *DeepFaceProvider) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}
