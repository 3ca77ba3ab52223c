package completion

import (
	"net/http"
	"sync"
	"time"

	"github.com/af-corp/bughunt-backend/internal/completion/adapters"
	"github.com/af-corp/bughunt-backend/internal/config"
)

// Registry manages provider adapters.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]adapters.ProviderAdapter
}

func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]adapters.ProviderAdapter),
	}
}

func (r *Registry) Register(name string, adapter adapters.ProviderAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[name] = adapter
}

func (r *Registry) Get(name string) (adapters.ProviderAdapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[name]
	return a, ok
}

// Swap replaces this registry's adapter set with other's under the
// write lock. Reload hooks must use this instead of copying the
// Registry value, which would copy the mutex out from under readers.
func (r *Registry) Swap(other *Registry) {
	other.mu.RLock()
	replacement := other.adapters
	other.mu.RUnlock()

	r.mu.Lock()
	r.adapters = replacement
	r.mu.Unlock()
}

// BuildFromConfig builds provider adapters from the providers config.
func BuildFromConfig(provCfg *config.ProvidersConfig) *Registry {
	registry := NewRegistry()
	for name, cfg := range provCfg.Providers {
		client := &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
				ForceAttemptHTTP2:   true,
			},
		}

		var adapter adapters.ProviderAdapter
		switch cfg.Type {
		case "gemini":
			adapter = adapters.NewGeminiAdapter(cfg, client)
		default:
			// OpenAI-compatible is the canonical wire format
			adapter = adapters.NewOpenAIAdapter(cfg, client)
		}
		registry.Register(name, adapter)
	}
	return registry
}
