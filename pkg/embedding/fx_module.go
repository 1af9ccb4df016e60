package embedding

import (
	"context"

	"go.uber.org/fx"
)

// FXModule provides *Client backed by the DeepFace provider. An embedding.Config
// must be supplied to the container.
var FXModule = fx.Module(
	"embedding",

	fx.Provide(
		NewDeepFaceProvider,
		func(p *DeepFaceProvider) Provider { return p },
		NewClient,
	),

	fx.Invoke(RegisterEmbeddingLifecycle),
)

func RegisterEmbeddingLifecycle(lc fx.Lifecycle, p *DeepFaceProvider) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return p.Close()
		},
	})
}
