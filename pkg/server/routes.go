package server

import (
	"bytes"
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
	"github.com/Aleph-Alpha/facesearch/pkg/facesearch"
)

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"system"},
	}, s.handleHealth)

	huma.Register(s.api, huma.Operation{
		OperationID:   "index-images",
		Method:        http.MethodPost,
		Path:          "/v1/index",
		Summary:       "Embed and store a batch of labelled images",
		Tags:          []string{"faces"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleIndex)

	huma.Register(s.api, huma.Operation{
		OperationID: "find-images",
		Method:      http.MethodPost,
		Path:        "/v1/find",
		Summary:     "Search for a batch of labelled images and score the matches",
		Tags:        []string{"faces"},
	}, s.handleFind)

	if s.uploader != nil {
		huma.Register(s.api, huma.Operation{
			OperationID:  "upload-image",
			Method:       http.MethodPost,
			Path:         "/v1/images",
			Summary:      "Upload an image and receive a URL usable in index and find requests",
			Tags:         []string{"images"},
			MaxBodyBytes: s.cfg.MaxUploadBytes,
		}, s.handleUpload)
	}
}

// HealthBody is the JSON body of the health endpoint response.
type HealthBody struct {
	Status string `json:"status" example:"ok" doc:"Health status"`
}

// HealthResponse wraps the health check response.
type HealthResponse struct {
	Body HealthBody
}

type batchInput struct {
	Body facesearch.Request
}

type findOutput struct {
	Body struct {
		Results []facesearch.Result `json:"results"`
	}
}

type uploadInput struct {
	ContentType string `header:"Content-Type"`
	RawBody     []byte `contentType:"image/*"`
}

type uploadOutput struct {
	Body struct {
		URL string `json:"url" doc:"Presigned URL of the stored image"`
	}
}

func (s *Server) handleHealth(_ context.Context, _ *struct{}) (*HealthResponse, error) {
	return &HealthResponse{Body: HealthBody{Status: "ok"}}, nil
}

func (s *Server) handleIndex(ctx context.Context, input *batchInput) (*struct{}, error) {
	if err := s.searcher.Index(ctx, input.Body); err != nil {
		return nil, s.httpError(err)
	}
	return &struct{}{}, nil
}

func (s *Server) handleFind(ctx context.Context, input *batchInput) (*findOutput, error) {
	results, err := s.searcher.Find(ctx, input.Body)
	if err != nil {
		return nil, s.httpError(err)
	}

	out := &findOutput{}
	out.Body.Results = results
	if out.Body.Results == nil {
		out.Body.Results = []facesearch.Result{}
	}
	return out, nil
}

func (s *Server) handleUpload(ctx context.Context, input *uploadInput) (*uploadOutput, error) {
	if len(input.RawBody) == 0 {
		return nil, huma.Error400BadRequest("empty image body")
	}

	url, err := s.uploader.Upload(ctx, bytes.NewReader(input.RawBody), int64(len(input.RawBody)), input.ContentType)
	if err != nil {
		return nil, s.httpError(err)
	}

	out := &uploadOutput{}
	out.Body.URL = url
	return out, nil
}

// httpError converts a coded error into a huma status error. Internal
// failures are logged and hidden from the caller.
func (s *Server) httpError(err error) error {
	status := faceerr.HTTPStatus(err)
	fields := map[string]interface{}{
		"code":   string(faceerr.CodeOf(err)),
		"status": status,
	}

	switch status {
	case http.StatusBadRequest:
		return huma.NewError(status, faceerr.Message(err))
	case http.StatusBadGateway:
		s.logger.Warn("dependency failure", err, fields)
		return huma.NewError(status, faceerr.Message(err))
	default:
		s.logger.Error("internal failure", err, fields)
		return huma.Error500InternalServerError("internal server error")
	}
}
