package sources

import (
	"fmt"
	"sync"

	"github.com/VINUKA-DINETHMIN/ai-shopping-agent/internal/models"
)

// Registry holds the configured source adapters. Adding a site means
// registering another Source implementation here, never branching inside
// the aggregation pipeline. Registration order is preserved: it is the
// dispatch order of the pipeline.
type Registry struct {
	mu      sync.RWMutex
	sources map[models.SourceID]Source
	order   []models.SourceID
}

// NewRegistry creates an empty source registry.
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[models.SourceID]Source),
	}
}

// Register adds a source adapter. Registering the same ID twice is a
// wiring bug and fails loudly.
func (r *Registry) Register(src Source) error {
	if src == nil {
		return fmt.Errorf("source cannot be nil")
	}
	id := src.ID()
	if id == "" {
		return fmt.Errorf("source ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[id]; exists {
		return fmt.Errorf("source %s already registered", id)
	}
	r.sources[id] = src
	r.order = append(r.order, id)
	return nil
}

// Get retrieves a source by ID.
func (r *Registry) Get(id models.SourceID) (Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	src, exists := r.sources[id]
	if !exists {
		return nil, fmt.Errorf("source %s not registered", id)
	}
	return src, nil
}

// IDs returns every registered source ID in registration order.
func (r *Registry) IDs() []models.SourceID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]models.SourceID, len(r.order))
	copy(ids, r.order)
	return ids
}

// Resolve maps the requested IDs to adapters, keeping request order. An
// empty request resolves to every registered source.
func (r *Registry) Resolve(ids []models.SourceID) ([]Source, error) {
	if len(ids) == 0 {
		ids = r.IDs()
	}

	resolved := make([]Source, 0, len(ids))
	for _, id := range ids {
		src, err := r.Get(id)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, src)
	}
	return resolved, nil
}
