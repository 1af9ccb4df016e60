package vectordb

import (
	"sort"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
)

// Registry maps backends to their adapters. It is populated once at start-up
// and read concurrently afterwards.
type Registry struct {
	adapters map[Backend]Adapter
}

// NewRegistry registers adapters. A later adapter for the same backend
// replaces an earlier one.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[Backend]Adapter, len(adapters))}
	for _, a := range adapters {
		if a != nil {
			r.adapters[a.Backend()] = a
		}
	}
	return r
}

// Get returns the adapter for backend. An unknown or unregistered backend is
// a validation error.
func (r *Registry) Get(backend Backend) (Adapter, error) {
	if !backend.Valid() {
		return nil, faceerr.New(faceerr.CodeValidation, "unknown database", faceerr.Field("database", backend))
	}
	a, ok := r.adapters[backend]
	if !ok {
		return nil, faceerr.New(faceerr.CodeValidation, "database is not enabled", faceerr.Field("database", backend))
	}
	return a, nil
}

// Has reports whether backend is registered.
func (r *Registry) Has(backend Backend) bool {
	_, ok := r.adapters[backend]
	return ok
}

// Backends returns the registered backends in a stable order.
func (r *Registry) Backends() []Backend {
	out := make([]Backend, 0, len(r.adapters))
	for b := range r.adapters {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
