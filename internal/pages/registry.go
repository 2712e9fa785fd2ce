package pages

import (
	"fmt"
	"sort"

	"github.com/san-kum/simcanvas/internal/dynamo"
)

// Registry indexes pages by name.
type Registry struct {
	pages map[string]Page
}

func NewRegistry(pages ...Page) *Registry {
	r := &Registry{pages: make(map[string]Page, len(pages))}
	for _, p := range pages {
		r.pages[p.Info().Name] = p
	}
	return r
}

// Default returns a registry holding every built-in page.
func Default() *Registry {
	return NewRegistry(
		Projectile(),
		Orbit(),
		Pendulum(),
		DoublePendulum(),
		Decay(),
		Circuit(),
		SkatePark(),
		FoodWeb(),
		ADAS(),
		Sorting(),
	)
}

func (r *Registry) Lookup(name string) (Page, error) {
	p, ok := r.pages[name]
	if !ok {
		return nil, fmt.Errorf("page %q: %w", name, dynamo.ErrUnknownPage)
	}
	return p, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByCategory groups pages by category, each group sorted by name.
func (r *Registry) ByCategory() map[string][]Page {
	out := make(map[string][]Page)
	for _, name := range r.Names() {
		p := r.pages[name]
		c := p.Info().Category
		out[c] = append(out[c], p)
	}
	return out
}

func (r *Registry) Categories() []string {
	groups := r.ByCategory()
	cats := make([]string, 0, len(groups))
	for c := range groups {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// Next returns the page after name in sorted order, wrapping around. A
// negative step walks backwards.
func (r *Registry) Next(name string, step int) string {
	names := r.Names()
	if len(names) == 0 {
		return ""
	}
	idx := sort.SearchStrings(names, name)
	if idx >= len(names) || names[idx] != name {
		return names[0]
	}
	n := len(names)
	return names[((idx+step)%n+n)%n]
}
