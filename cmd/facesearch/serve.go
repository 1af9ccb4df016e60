package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/facesearch/internal/config"
	"github.com/Aleph-Alpha/facesearch/pkg/embedding"
	"github.com/Aleph-Alpha/facesearch/pkg/facesearch"
	"github.com/Aleph-Alpha/facesearch/pkg/images"
	"github.com/Aleph-Alpha/facesearch/pkg/logger"
	"github.com/Aleph-Alpha/facesearch/pkg/metrics"
	"github.com/Aleph-Alpha/facesearch/pkg/minio"
	"github.com/Aleph-Alpha/facesearch/pkg/postgres"
	"github.com/Aleph-Alpha/facesearch/pkg/qdrant"
	"github.com/Aleph-Alpha/facesearch/pkg/redis"
	"github.com/Aleph-Alpha/facesearch/pkg/server"
	"github.com/Aleph-Alpha/facesearch/pkg/tracer"
	"github.com/Aleph-Alpha/facesearch/pkg/vectordb"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr, _ := cmd.Flags().GetString("address"); addr != "" {
				v.Set("server.address", addr)
			}

			cfg, err := config.FromViper(v)
			if err != nil {
				return err
			}

			app := fx.New(appOptions(cfg)...)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}

	cmd.Flags().String("address", "", "HTTP listen address, overrides server.address")
	return cmd
}

// appOptions assembles the application. Storage modules are only included
// when enabled, so a disabled backend is never dialled.
func appOptions(cfg *config.Config) []fx.Option {
	opts := []fx.Option{
		fx.Supply(
			cfg.Logger,
			cfg.Metrics,
			cfg.Tracer,
			cfg.Server,
			cfg.Embedding,
			cfg.Images,
			cfg.VectorDB,
			cfg.FaceSearch,
		),
		fx.NopLogger,
		logger.FXModule,
		metrics.FXModule,
		tracer.FXModule,
		images.FXModule,
		embedding.FXModule,
		vectordb.FXModule,
		facesearch.FXModule,
		server.FXModule,
	}

	if cfg.Postgres.Enabled {
		opts = append(opts, fx.Supply(cfg.Postgres), postgres.FXModule)
	}
	if cfg.Qdrant.Enabled {
		opts = append(opts, fx.Supply(cfg.Qdrant), qdrant.FXModule)
	}
	if cfg.Redis.Enabled {
		opts = append(opts, fx.Supply(cfg.Redis), redis.FXModule)
	}
	if cfg.Minio.Enabled {
		opts = append(opts, fx.Supply(cfg.Minio), minio.FXModule, images.UploadFXModule)
	}

	return opts
}
