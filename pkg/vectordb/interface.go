package vectordb

import "context"

//go:generate mockgen -source=interface.go -destination=mock_adapter.go -package=vectordb

// Adapter is the operation set every storage backend implements.
type Adapter interface {
	// Backend names the engine behind the adapter.
	Backend() Backend

	// EnsureCollection makes key ready to hold vectors of the given
	// dimension. It is idempotent, and losing a creation race to another
	// caller is not an error.
	EnsureCollection(ctx context.Context, key CollectionKey, dimension int) error

	// Index appends item. Duplicate labels never fail.
	Index(ctx context.Context, key CollectionKey, item IndexedItem) error

	// Search returns every item within threshold of query, inclusive,
	// nearest first. A key that was never indexed yields no matches.
	Search(ctx context.Context, key CollectionKey, query Vector, threshold float64) ([]Match, error)

	// CountLabel counts all items with label in key, regardless of distance.
	CountLabel(ctx context.Context, key CollectionKey, label string) (int, error)
}
