package registry

import (
	"sort"
	"sync"

	"github.com/fatpack/fatpack/pkg/errors"
)

// Registry stores named items. Registration happens from init
// functions and lookups happen from resolution goroutines, so access
// is guarded throughout. Once registered, an item stays for the life
// of the process.
type Registry[T any] interface {
	// Register adds an item under name. Empty and duplicate names are
	// rejected.
	Register(name string, item T) error

	// Get returns the item registered under name.
	Get(name string) (T, error)

	// Has reports whether name is registered.
	Has(name string) bool

	// List returns all registered names, sorted.
	List() []string
}

type registry[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// New creates an empty registry.
func New[T any]() Registry[T] {
	return &registry[T]{
		items: make(map[string]T),
	}
}

func (r *registry[T]) Register(name string, item T) error {
	if name == "" {
		return errors.New(errors.ErrInvalidInput, "registry name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[name]; exists {
		return errors.Newf(errors.ErrAlreadyExists, "item '%s' is already registered", name)
	}

	r.items[name] = item
	return nil
}

func (r *registry[T]) Get(name string) (T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, exists := r.items[name]
	if !exists {
		var zero T
		return zero, errors.Newf(errors.ErrNotFound, "item '%s' not found in registry", name)
	}

	return item, nil
}

func (r *registry[T]) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.items[name]
	return exists
}

func (r *registry[T]) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.items))
	for name := range r.items {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}
