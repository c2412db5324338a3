package module

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Registry maps module ids to modules registered in-process.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

// Register adds m. Registering a second module under the same id fails.
func (r *Registry) Register(m Module) error {
	if m == nil {
		return fmt.Errorf("module cannot be nil")
	}
	id := m.ID()
	if id == "" {
		return fmt.Errorf("module id cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[id]; exists {
		return fmt.Errorf("module %q already registered", id)
	}
	r.modules[id] = m
	r.order = append(r.order, id)
	return nil
}

// Unregister removes the module with id, reporting whether it was present.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[id]; !exists {
		return false
	}
	delete(r.modules, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Resolve implements Resolver.
func (r *Registry) Resolve(_ context.Context, id string) (Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.modules[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrUnknownModule)
	}
	return m, nil
}

// IDs returns the registered ids in registration order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Chain resolves an id with each resolver in turn, moving on only when a
// resolver reports ErrUnknownModule.
type Chain []Resolver

// Resolve implements Resolver.
func (c Chain) Resolve(ctx context.Context, id string) (Module, error) {
	for _, r := range c {
		m, err := r.Resolve(ctx, id)
		if errors.Is(err, ErrUnknownModule) {
			continue
		}
		return m, err
	}
	return nil, fmt.Errorf("%s: %w", id, ErrUnknownModule)
}
