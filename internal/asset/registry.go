package asset

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps asset kinds to loaders. Loaders of different asset types are
// stored side by side; use Lookup to get a typed loader back.
type Registry struct {
	mu      sync.RWMutex
	loaders map[Kind]any
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[Kind]any)}
}

// Register binds loader to its kind, replacing any previous loader.
func Register[T any](r *Registry, loader *Loader[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[loader.Kind()] = loader
}

// Lookup returns the loader registered for kind. It fails with ErrNoLoader if
// nothing is registered or the loader produces a different asset type.
func Lookup[T any](r *Registry, kind Kind) (*Loader[T], error) {
	r.mu.RLock()
	l, ok := r.loaders[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: kind %s", ErrNoLoader, kind)
	}
	typed, ok := l.(*Loader[T])
	if !ok {
		return nil, fmt.Errorf("%w: kind %s is bound to %v", ErrNoLoader, kind, l)
	}
	return typed, nil
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]Kind, 0, len(r.loaders))
	for k := range r.loaders {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
