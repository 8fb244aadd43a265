package view

import (
	"sort"
	"sync"

	"opinio/internal/state"
)

type entry struct {
	compute func(r state.Reader) any
}

type cached struct {
	version uint64
	value   any
}

// Registry maps view names to accessors over one container.
type Registry struct {
	store *state.Container

	mu    sync.RWMutex
	views map[string]entry

	cacheMu sync.Mutex
	cache   map[string]cached
}

// New constructs an empty Registry reading from store.
func New(store *state.Container) *Registry {
	return &Registry{
		store: store,
		views: make(map[string]entry),
		cache: make(map[string]cached),
	}
}

// Register adds acc under name. Names are unique.
func Register[T any](reg *Registry, name string, acc Accessor[T]) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, ok := reg.views[name]; ok {
		return &DuplicateViewError{Name: name}
	}
	reg.views[name] = entry{compute: func(r state.Reader) any { return acc.Eval(r) }}
	return nil
}

// MustRegister is Register for static view tables; it panics on a duplicate.
func MustRegister[T any](reg *Registry, name string, acc Accessor[T]) {
	if err := Register(reg, name, acc); err != nil {
		panic(err)
	}
}

// Get returns the current value of the named view.
func (reg *Registry) Get(name string) (any, error) {
	reg.mu.RLock()
	e, ok := reg.views[name]
	reg.mu.RUnlock()
	if !ok {
		return nil, &UnknownViewError{Name: name}
	}

	r := reg.store.Pin()
	reg.cacheMu.Lock()
	c, hit := reg.cache[name]
	reg.cacheMu.Unlock()
	if hit && c.version == r.Version() {
		viewReadsTotal.WithLabelValues("hit").Inc()
		return state.Clone(c.value), nil
	}

	v := e.compute(r)
	viewReadsTotal.WithLabelValues("miss").Inc()
	reg.cacheMu.Lock()
	// a concurrent reader may have cached a newer version already
	if cur, ok := reg.cache[name]; !ok || cur.version <= r.Version() {
		reg.cache[name] = cached{version: r.Version(), value: v}
	}
	reg.cacheMu.Unlock()
	return state.Clone(v), nil
}

// Read evaluates acc against the current committed state.
func Read[T any](reg *Registry, acc Accessor[T]) T {
	return acc.Eval(reg.store.Pin())
}

// Names lists registered view names in sorted order.
func (reg *Registry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]string, 0, len(reg.views))
	for n := range reg.views {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// All evaluates every view.
func (reg *Registry) All() map[string]any {
	out := make(map[string]any)
	for _, n := range reg.Names() {
		if v, err := reg.Get(n); err == nil {
			out[n] = v
		}
	}
	return out
}
