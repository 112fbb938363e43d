package adapters

import (
	"fmt"
	"sync"

	"github.com/brettbedarf/codecollab"
	"github.com/brettbedarf/codecollab/internal/util"
)

// Registry maps content store type names to their providers
type Registry struct {
	mu        sync.RWMutex
	providers map[string]codecollab.StoreProvider
}

func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[string]codecollab.StoreProvider),
	}
}

// Register ties a provider to a store type key. The first registration for
// a key wins; later ones are ignored.
func (r *Registry) Register(storeType string, provider codecollab.StoreProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[storeType]; exists {
		logger := util.GetLogger("Registry.Register")
		logger.Warn().Str("type", storeType).Msg("Provider already registered; ignoring")
		return
	}
	r.providers[storeType] = provider
}

// GetProvider returns the provider registered for storeType
func (r *Registry) GetProvider(storeType string) (codecollab.StoreProvider, error) {
	r.mu.RLock()
	p, ok := r.providers[storeType]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no content store provider for %q", storeType)
	}
	return p, nil
}

// Open looks up the provider for storeType and opens a store with opts
func (r *Registry) Open(storeType string, opts codecollab.StoreOptions) (codecollab.ContentStore, error) {
	p, err := r.GetProvider(storeType)
	if err != nil {
		return nil, err
	}
	return p.Open(opts)
}
