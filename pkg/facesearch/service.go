package facesearch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
	"github.com/Aleph-Alpha/facesearch/pkg/evaluation"
	"github.com/Aleph-Alpha/facesearch/pkg/metrics"
	"github.com/Aleph-Alpha/facesearch/pkg/tracer"
	"github.com/Aleph-Alpha/facesearch/pkg/vectordb"
)

const (
	operationIndex = "index"
	operationFind  = "find"
)

// Logger defines the logging methods used by the facesearch package.
type Logger interface {
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

// Fetcher turns an image URL into something the embedder accepts.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Embedder produces the embedding of one image.
type Embedder interface {
	Represent(ctx context.Context, image, model, detector string) ([]float32, error)
}

// VectorStore indexes and searches embeddings.
type VectorStore interface {
	Index(ctx context.Context, backend vectordb.Backend, item vectordb.IndexedItem, metric vectordb.Metric) error
	Search(ctx context.Context, backend vectordb.Backend, key vectordb.CollectionKey, query vectordb.Vector, label string) (vectordb.Outcome, error)
}

// BackendSet reports which databases are enabled.
type BackendSet interface {
	Has(b vectordb.Backend) bool
}

// Service runs index and find batches.
type Service struct {
	fetcher     Fetcher
	embedder    Embedder
	store       VectorStore
	backends    BackendSet
	metrics     *metrics.Metrics
	tracer      *tracer.Tracer
	logger      Logger
	concurrency int
}

// NewService wires a Service.
func NewService(
	cfg Config,
	fetcher Fetcher,
	embedder Embedder,
	store VectorStore,
	backends BackendSet,
	m *metrics.Metrics,
	t *tracer.Tracer,
	logger Logger,
) *Service {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		fetcher:     fetcher,
		embedder:    embedder,
		store:       store,
		backends:    backends,
		metrics:     m,
		tracer:      t,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Index embeds every image of req and stores it under its label. The whole
// request is validated first. Processing stops at the first failing image;
// images stored before it remain stored.
func (s *Service) Index(ctx context.Context, req Request) (err error) {
	ctx, finish := s.begin(ctx, operationIndex, req)
	defer func() { finish(err) }()

	if err = s.validate(req); err != nil {
		return err
	}

	return s.forEach(ctx, len(req.Images), func(ctx context.Context, i int) error {
		img := req.Images[i]

		vector, err := s.embed(ctx, img, req)
		if err != nil {
			return err
		}

		item := vectordb.IndexedItem{
			Label:    img.Label,
			URL:      img.URL,
			Model:    req.Model,
			Detector: req.Detector,
			Vector:   vector,
		}
		if err := s.store.Index(ctx, req.Database, item, req.DistanceMetric); err != nil {
			return err
		}

		s.metrics.IncrementImages(operationIndex, string(req.Database))
		return nil
	})
}

// Find searches for every image of req and scores the matches against the
// image's label. Results are in input order. On failure no results are
// returned.
func (s *Service) Find(ctx context.Context, req Request) (_ []Result, err error) {
	ctx, finish := s.begin(ctx, operationFind, req)
	defer func() { finish(err) }()

	if err = s.validate(req); err != nil {
		return nil, err
	}

	key := vectordb.CollectionKey{Model: req.Model, Detector: req.Detector, Metric: req.DistanceMetric}
	results := make([]Result, len(req.Images))

	err = s.forEach(ctx, len(req.Images), func(ctx context.Context, i int) error {
		img := req.Images[i]
		start := time.Now()

		vector, err := s.embed(ctx, img, req)
		if err != nil {
			return err
		}

		outcome, err := s.store.Search(ctx, req.Database, key, vector, img.Label)
		if err != nil {
			return err
		}

		score := evaluation.Evaluate(outcome.Matches, img.Label, outcome.TotalWithLabel)

		results[i] = Result{
			Label:          img.Label,
			URL:            img.URL,
			Time:           float64(time.Since(start).Microseconds()) / 1000,
			Precision:      score.Precision,
			Recall:         score.Recall,
			F1:             score.F1,
			Model:          req.Model,
			Detector:       req.Detector,
			DistanceMetric: req.DistanceMetric,
			Database:       req.Database,
			Matches:        outcome.Matches,
		}

		s.metrics.IncrementImages(operationFind, string(req.Database))
		s.metrics.ObserveRetrieval(string(req.Database), score.Precision, score.Recall)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// embed fetches and embeds one image.
func (s *Service) embed(ctx context.Context, img Image, req Request) (vectordb.Vector, error) {
	ctx, span := s.tracer.StartSpan(ctx, "facesearch.embed")
	defer span.End()
	s.tracer.SetAttributes(span, map[string]interface{}{
		"label":    img.Label,
		"model":    string(req.Model),
		"detector": string(req.Detector),
	})

	image, err := s.fetcher.Fetch(ctx, img.URL)
	if err != nil {
		s.tracer.RecordErrorOnSpan(span, err)
		return nil, err
	}

	vector, err := s.embedder.Represent(ctx, image, string(req.Model), string(req.Detector))
	if err != nil {
		s.tracer.RecordErrorOnSpan(span, err)
		return nil, err
	}
	if len(vector) == 0 {
		err = faceerr.New(faceerr.CodeUpstream, "embedding service returned an empty embedding", faceerr.Field("label", img.Label))
		s.tracer.RecordErrorOnSpan(span, err)
		return nil, err
	}
	return vector, nil
}

// forEach runs fn for indices 0..n-1. With a concurrency of 1 the calls are
// strictly sequential; otherwise up to s.concurrency run at once and the
// first error cancels the rest.
func (s *Service) forEach(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if s.concurrency == 1 || n < 2 {
		for i := 0; i < n; i++ {
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, i)
		})
	}
	return g.Wait()
}

// begin opens the batch span and returns the function that closes it and
// records the outcome.
func (s *Service) begin(ctx context.Context, operation string, req Request) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := s.tracer.StartSpan(ctx, "facesearch."+operation)
	fields := map[string]interface{}{
		"operation": operation,
		"images":    len(req.Images),
		"model":     string(req.Model),
		"detector":  string(req.Detector),
		"metric":    string(req.DistanceMetric),
		"database":  string(req.Database),
	}
	s.tracer.SetAttributes(span, fields)

	return ctx, func(err error) {
		defer span.End()
		s.metrics.RecordRequestDuration(start, operation)

		if err != nil {
			s.tracer.RecordErrorOnSpan(span, err)
			s.metrics.IncrementRequests(operation, "error")
			s.logger.ErrorWithContext(ctx, "batch failed", err, fields)
			return
		}
		s.metrics.IncrementRequests(operation, "success")
		s.logger.InfoWithContext(ctx, "batch completed", nil, fields)
	}
}
