// Package engine owns the process-wide registry of named indexes.
package engine

import (
	"log"
	"sync"

	apperrors "github.com/gramdex/gramdex/internal/errors"
	"github.com/gramdex/gramdex/services"
)

// Engine maps index names to live index instances. It implements the
// services.IndexManager interface. Index creation and deletion serialize
// on the registry lock; per-index operations serialize on the locks of the
// instance's own structures.
type Engine struct {
	mu      sync.RWMutex
	indexes map[string]*IndexInstance
}

// NewEngine creates an empty registry.
func NewEngine() *Engine {
	return &Engine{indexes: make(map[string]*IndexInstance)}
}

// CreateIndex creates a new empty index under the given name.
func (e *Engine) CreateIndex(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if name == "" {
		return apperrors.NewValidationError("name", "index name cannot be empty")
	}
	if _, exists := e.indexes[name]; exists {
		return apperrors.NewIndexAlreadyExistsError(name)
	}

	instance, err := NewIndexInstance()
	if err != nil {
		return err
	}
	e.indexes[name] = instance
	log.Printf("Index '%s' created.", name)
	return nil
}

// GetIndex retrieves an index by its name.
func (e *Engine) GetIndex(name string) (services.IndexAccessor, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	instance, exists := e.indexes[name]
	if !exists {
		return nil, apperrors.NewIndexNotFoundError(name)
	}
	return instance, nil
}

// DeleteIndex destroys an index and everything it holds.
func (e *Engine) DeleteIndex(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.indexes[name]; !exists {
		return apperrors.NewIndexNotFoundError(name)
	}
	delete(e.indexes, name)
	log.Printf("Index '%s' deleted.", name)
	return nil
}

// DeleteAllIndexes destroys every index. The registry map is replaced
// wholesale so the runtime can reclaim the backing storage.
func (e *Engine) DeleteAllIndexes() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.indexes = make(map[string]*IndexInstance)
	log.Printf("All indexes deleted.")
}

// ListIndexes returns the names of all existing indexes.
func (e *Engine) ListIndexes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.indexes))
	for name := range e.indexes {
		names = append(names, name)
	}
	return names
}
