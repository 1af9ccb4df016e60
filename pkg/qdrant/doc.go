// Package qdrant wraps the official Qdrant gRPC client.
//
// Client owns the connection, verifies it with a health check on start-up and
// exposes the small set of collection and point operations the vector search
// backend needs: collection bootstrap with a keyword payload index, upsert,
// thresholded nearest-neighbour query and exact filtered count.
//
// Basic usage:
//
//	client, err := qdrant.NewQdrantClient(qdrant.Config{Host: "localhost", Port: 6334}, log)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	err = client.EnsureCollection(ctx, "vgg-face_opencv_cosine", 4096, qdrant.Distance_Cosine, "label")
//
// FX Module Integration:
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Supply(cfg.Qdrant),
//		qdrant.FXModule,
//	)
package qdrant
