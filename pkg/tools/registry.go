package tools

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Registry manages available tools with thread-safe operations.
type Registry interface {
	Register(def *Definition) error
	Get(name string) (*Definition, error)
	List() []*Definition
	Has(name string) bool
	Count() int

	Clone() Registry
	Merge(other Registry) Registry
}

// InMemoryRegistry is a thread-safe in-memory Registry.
type InMemoryRegistry struct {
	mu   sync.RWMutex
	defs map[string]*Definition
}

func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		defs: make(map[string]*Definition),
	}
}

// Register adds a tool; registering the same name twice replaces the
// earlier definition.
func (r *InMemoryRegistry) Register(def *Definition) error {
	if def == nil || def.Name == "" {
		return errors.New("tool definition must have a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[def.Name] = def
	return nil
}

func (r *InMemoryRegistry) Get(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	if !ok {
		return nil, errors.Errorf("tool not found: %s", name)
	}
	return def, nil
}

// List returns all tools sorted by name, so provider tool listings and
// the catalog dump are deterministic.
func (r *InMemoryRegistry) List() []*Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Definition, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *InMemoryRegistry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.defs[name]
	return ok
}

func (r *InMemoryRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.defs)
}

func (r *InMemoryRegistry) Clone() Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cloned := NewInMemoryRegistry()
	for name, def := range r.defs {
		cloned.defs[name] = def
	}
	return cloned
}

// Merge returns a new registry with tools from both; on conflicts the
// other registry wins.
func (r *InMemoryRegistry) Merge(other Registry) Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	merged := NewInMemoryRegistry()
	for name, def := range r.defs {
		merged.defs[name] = def
	}
	if other != nil {
		for _, def := range other.List() {
			merged.defs[def.Name] = def
		}
	}
	return merged
}
