package plugin

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry holds bundles compiled into the binary.
type Registry struct {
	mu      sync.RWMutex
	bundles map[string]*Bundle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{bundles: map[string]*Bundle{}}
}

// Register adds or replaces the bundle for id.
func (r *Registry) Register(id string, b *Bundle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bundles[id] = b
}

// IDs returns the registered ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.bundles))
}

// Load implements Loader. dir is ignored.
func (r *Registry) Load(_ context.Context, id, _ string) (*Bundle, error) {
	r.mu.RLock()
	b, ok := r.bundles[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s is not registered", ErrNotFound, id)
	}
	if b == nil || b.Generator == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalid, id)
	}
	return b, nil
}

// ChainLoader tries each loader in order and returns the first bundle
// found. Only ErrNotFound moves on to the next loader.
type ChainLoader []Loader

// Load implements Loader.
func (c ChainLoader) Load(ctx context.Context, id, dir string) (*Bundle, error) {
	for _, l := range c {
		b, err := l.Load(ctx, id, dir)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: plugin %s does not have a generator", ErrInvalid, id)
}
