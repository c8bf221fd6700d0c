package testmod

import "sort"

var registry = map[string]Module{}

// Register binds a module to its slug. Called from module packages' init().
func Register(slug string, m Module) {
	if slug == "" || m == nil {
		return
	}
	registry[slug] = m
}

// Lookup returns the module registered under slug.
func Lookup(slug string) (Module, bool) { m, ok := registry[slug]; return m, ok }

// All returns every registered module's metadata, sorted by slug for stable
// listings.
func All() []Meta {
	out := make([]Meta, 0, len(registry))
	for _, m := range registry {
		out = append(out, m.Meta())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}
