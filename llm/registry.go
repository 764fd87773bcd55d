package llm

import "sort"

// Registry maps typed provider identifiers to implementations. The mapping
// is fixed at construction time; there is no runtime mutation, so lookups
// need no locking.
type Registry struct {
	providers map[ProviderID]Provider
}

// NewRegistry builds a registry from the given providers, keyed by their
// own ID. A later provider with a duplicate ID replaces the earlier one.
func NewRegistry(providers ...Provider) *Registry {
	m := make(map[ProviderID]Provider, len(providers))
	for _, p := range providers {
		m[p.ID()] = p
	}
	return &Registry{providers: m}
}

// Get retrieves a provider by identifier.
func (r *Registry) Get(id ProviderID) (Provider, bool) {
	p, ok := r.providers[id]
	return p, ok
}

// List returns the sorted identifiers of all registered providers.
func (r *Registry) List() []ProviderID {
	ids := make([]ProviderID, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
