package images

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/facesearch/pkg/minio"
)

// FXModule provides the Fetcher. An images.Config must be supplied.
var FXModule = fx.Module("images",
	fx.Provide(NewFetcher),
)

// UploadFXModule provides the Uploader on top of minio.FXModule.
var UploadFXModule = fx.Module("images-upload",
	fx.Provide(
		func(m *minio.Minio) ObjectStore { return m },
		NewUploader,
	),
)
