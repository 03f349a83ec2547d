package plugin

import (
	"fmt"
	"sync"

	"github.com/pscheid92/freight/internal/domain"
)

// Registry maps plugin type names to descriptors. Safe for concurrent use.
type Registry struct {
	kind domain.PluginKind

	mu          sync.RWMutex
	descriptors map[string]*domain.PluginDescriptor
	order       []string
}

var _ domain.PluginRegistry = (*Registry)(nil)

func NewRegistry(kind domain.PluginKind) *Registry {
	return &Registry{
		kind:        kind,
		descriptors: make(map[string]*domain.PluginDescriptor),
	}
}

func (r *Registry) Kind() domain.PluginKind {
	return r.kind
}

// Register adds a descriptor. Registering the same type twice is an error.
func (r *Registry) Register(desc domain.PluginDescriptor) error {
	if desc.Type == "" {
		return fmt.Errorf("%s plugin type must not be empty", r.kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.descriptors[desc.Type]; exists {
		return fmt.Errorf("%s plugin %q already registered", r.kind, desc.Type)
	}
	r.descriptors[desc.Type] = &desc
	r.order = append(r.order, desc.Type)
	return nil
}

func (r *Registry) Get(typeName string) (*domain.PluginDescriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc, ok := r.descriptors[typeName]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", r.kind, typeName, domain.ErrPluginNotFound)
	}
	return desc, nil
}

// Types returns the registered type names in registration order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, len(r.order))
	copy(types, r.order)
	return types
}
