// Package xref tracks every documented symbol so type expressions and
// prose references can link back to the page that documents them.
package xref

import (
	"sort"
	"sync"

	"github.com/dgallion1/apidoc/internal/doctree"
)

// Entry records where a fully qualified name is documented.
type Entry struct {
	Fqn    string          `json:"fqn"`
	Ref    doctree.RefType `json:"ref"`
	Page   string          `json:"page"`
	Anchor string          `json:"anchor"`
}

// Registry maps fully qualified names to their documentation location.
// Registration is first-wins: once a name is claimed, later attempts
// are ignored so concurrent module workers never clobber each other.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

func New() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register claims a name. Returns false if the name was already taken.
func (r *Registry) Register(e Entry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.Fqn]; ok {
		return false
	}
	r.entries[e.Fqn] = e
	return true
}

func (r *Registry) Lookup(fqn string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[fqn]
	return e, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Fqns returns every registered name in sorted order.
func (r *Registry) Fqns() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for fqn := range r.entries {
		names = append(names, fqn)
	}
	sort.Strings(names)
	return names
}
