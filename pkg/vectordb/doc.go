// Package vectordb indexes and searches face embeddings across structurally
// different stores behind one Adapter contract.
//
// Three adapters are provided:
//
//   - PostgresAdapter keeps every embedding in a single pgvector table and
//     scopes candidates by model and detector before computing distances.
//   - QdrantAdapter keeps one collection per model, detector and metric.
//   - RedisAdapter keeps one RediSearch vector index per model, detector and
//     metric over hashes sharing a key prefix.
//
// Every adapter reports distances in the native sense of the metric, smaller
// meaning more similar, whatever the engine returns internally. Index ties the
// adapters to the calibrated per-model thresholds:
//
//	idx, err := vectordb.NewIndex(registry, log)
//	if err != nil {
//		return err
//	}
//	out, err := idx.Search(ctx, vectordb.BackendQdrant, key, vector, "alice")
package vectordb
