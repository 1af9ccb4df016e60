/*
Package server exposes the facesearch operations as a JSON HTTP API built on
chi and huma. The OpenAPI document is served at /openapi.json and interactive
docs at /docs.

Routes:

	GET  /health     liveness
	POST /v1/index   index a batch of labelled images (204)
	POST /v1/find    search for a batch of labelled images
	POST /v1/images  upload a raw image and receive a presigned URL (MinIO only)

Errors carry the status derived from the error code: validation failures are
400, embedding service and database failures 502, anything else 500.
*/
package server
