/*
Package facesearch orchestrates batches of face images through the embedding
service and the vector index.

Index embeds every image and stores it under its label. Find embeds every
image, searches the chosen database for stored faces within the model's
calibrated threshold and scores the matches against the image's label.

A request is validated in full before any image is fetched. Images are then
processed in input order; the first failure aborts the batch. Items indexed
before the failure stay indexed, and Find never returns partial results.

Configuration:

	facesearch:
	  concurrency: 4 # images processed at once, 1 = strictly sequential

Usage with fx:

	app := fx.New(
		logger.FXModule,
		metrics.FXModule,
		tracer.FXModule,
		images.FXModule,
		embedding.FXModule,
		vectordb.FXModule,
		facesearch.FXModule,
		// configs supplied with fx.Supply
	)
*/
package facesearch
