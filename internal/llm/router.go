package llm

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Router manages LLM providers and picks one per model
type Router struct {
	providers       map[string]Provider
	defaultProvider string
	mu              sync.RWMutex
}

// NewRouter creates a new LLM router
func NewRouter(defaultProvider string) *Router {
	return &Router{
		providers:       make(map[string]Provider),
		defaultProvider: defaultProvider,
	}
}

// RegisterProvider registers an LLM provider
func (r *Router) RegisterProvider(provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.Name()] = provider
}

// GetProvider returns a configured provider by name
func (r *Router) GetProvider(name string) (Provider, error) {
	if name == "" {
		name = r.defaultProvider
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", name)
	}

	if !p.IsConfigured() {
		return nil, fmt.Errorf("provider not configured: %s", name)
	}

	return p, nil
}

// Resolve picks the provider for a model id and returns the model name to send.
// "provider:model" selects a provider explicitly; catalog ids use their catalog
// provider; otherwise the first provider listing the model wins, then the default.
func (r *Router) Resolve(model string) (Provider, string, error) {
	if prefix, rest, ok := strings.Cut(model, ":"); ok {
		r.mu.RLock()
		_, known := r.providers[prefix]
		r.mu.RUnlock()
		if known {
			p, err := r.GetProvider(prefix)
			return p, rest, err
		}
	}

	if m, ok := LookupModel(model); ok {
		p, err := r.GetProvider(m.Provider)
		return p, model, err
	}

	r.mu.RLock()
	names := r.sortedNames()
	for _, name := range names {
		p := r.providers[name]
		if p.IsConfigured() && slices.Contains(p.AvailableModels(), model) {
			r.mu.RUnlock()
			return p, model, nil
		}
	}
	r.mu.RUnlock()

	p, err := r.GetProvider("")
	if err != nil {
		return nil, "", err
	}
	if model == "" {
		model = p.DefaultModel()
	}
	return p, model, nil
}

// Chat resolves req.Model and forwards the request
func (r *Router) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	p, model, err := r.Resolve(req.Model)
	if err != nil {
		return nil, err
	}
	req.Model = model
	return p.Chat(ctx, req)
}

// ListProviders returns list of configured provider names
func (r *Router) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var providers []string
	for _, name := range r.sortedNames() {
		if r.providers[name].IsConfigured() {
			providers = append(providers, name)
		}
	}
	return providers
}

// DefaultProvider returns the default provider name
func (r *Router) DefaultProvider() string {
	return r.defaultProvider
}

// ProviderInfo contains information about an LLM provider
type ProviderInfo struct {
	Name       string   `json:"name"`
	Models     []string `json:"models"`
	Default    bool     `json:"default"`
	Configured bool     `json:"configured"`
}

// GetProvidersInfo returns information about all providers
func (r *Router) GetProvidersInfo() []ProviderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := []ProviderInfo{}
	for _, name := range r.sortedNames() {
		p := r.providers[name]
		infos = append(infos, ProviderInfo{
			Name:       name,
			Models:     p.AvailableModels(),
			Default:    name == r.defaultProvider,
			Configured: p.IsConfigured(),
		})
	}
	return infos
}

// sortedNames must be called with r.mu held
func (r *Router) sortedNames() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
