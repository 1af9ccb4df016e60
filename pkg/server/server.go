package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Aleph-Alpha/facesearch/pkg/facesearch"
)

// Logger defines the logging methods used by the server package.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// Searcher runs index and find batches.
type Searcher interface {
	Index(ctx context.Context, req facesearch.Request) error
	Find(ctx context.Context, req facesearch.Request) ([]facesearch.Result, error)
}

// Uploader stores an uploaded image and returns a URL it can be fetched from.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, error)
}

// Server wraps a chi router with the huma API and the HTTP server.
type Server struct {
	router   chi.Router
	api      huma.API
	cfg      Config
	searcher Searcher
	uploader Uploader
	logger   Logger

	httpServer *http.Server
}

// New builds the router and registers every route. uploader may be nil, in
// which case POST /v1/images is not registered.
func New(cfg Config, searcher Searcher, uploader Uploader, logger Logger) *Server {
	cfg = cfg.withDefaults()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(cfg.CORSOrigins))

	humaConfig := huma.DefaultConfig("facesearch", "1.0.0")
	humaConfig.Info.Description = "Face embedding indexing and retrieval evaluation API"
	api := humachi.New(r, humaConfig)

	s := &Server{
		router:   r,
		api:      api,
		cfg:      cfg,
		searcher: searcher,
		uploader: uploader,
		logger:   logger,
	}
	s.registerRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// API returns the huma API.
func (s *Server) API() huma.API {
	return s.api
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Address, err)
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server stopped unexpectedly", err, nil)
		}
	}()

	s.logger.Info("http server listening", nil, map[string]interface{}{
		"address": ln.Addr().String(),
	})
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server", nil, nil)
	return s.httpServer.Shutdown(ctx)
}

func corsMiddleware(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
}

func requestLogger(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			fields := map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"duration_ms": time.Since(start).Milliseconds(),
				"request_id":  middleware.GetReqID(r.Context()),
			}
			if ww.Status() >= http.StatusInternalServerError {
				logger.Warn("request failed", nil, fields)
				return
			}
			logger.Info("request served", nil, fields)
		})
	}
}
