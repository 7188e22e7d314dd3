package dialect

import (
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/sqldoclint/pkg/core"
)

// Dialect registry
var (
	dialectsMu sync.RWMutex
	dialects   = make(map[core.Dialect]*Dialect)
	aliases    = make(map[string]core.Dialect)
)

// Register registers a dialect in the global registry.
// Called by dialect implementations in their init() functions.
func Register(d *Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[d.ID] = d
	aliases[d.Name] = d.ID
	for _, a := range d.Aliases {
		aliases[a] = d.ID
	}
}

// Get returns a dialect by canonical name or alias.
func Get(name string) (*Dialect, bool) {
	id, ok := Lookup(name)
	if !ok {
		return nil, false
	}
	return ByID(id)
}

// ByID returns the registered definition of a dialect.
func ByID(id core.Dialect) (*Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[id]
	return d, ok
}

// Lookup resolves a canonical name or alias to a dialect.
func Lookup(name string) (core.Dialect, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if id, ok := core.ParseDialect(key); ok {
		return id, true
	}
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	id, ok := aliases[key]
	return id, ok
}

// List returns all registered dialects in canonical order.
func List() []*Dialect {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	out := make([]*Dialect, 0, len(dialects))
	for _, d := range dialects {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Names returns all registered dialect names in canonical order.
func Names() []string {
	list := List()
	names := make([]string, len(list))
	for i, d := range list {
		names[i] = d.Name
	}
	return names
}
