package state

import (
	"errors"
	"sort"
	"sync"
	"sync/atomic"
)

// ErrRootNotTree is returned by a batch that tried to replace the root with a
// value that is not a map.
var ErrRootNotTree = errors.New("state: root value must be a map")

// Reader is read-only access to the state. Event handlers receive a Reader so
// they cannot mutate state directly.
type Reader interface {
	// Get returns the value at p, or an empty map when p is absent.
	Get(p Path) any
	// Version is the number of committed batches so far.
	Version() uint64
}

// Updater computes the replacement for the value at a path.
type Updater func(current any) any

// Observer is notified after each committed batch with the new version.
type Observer func(version uint64)

// Container owns the state tree. It is safe for concurrent use; batches are
// serialized and readers always see the last committed tree.
type Container struct {
	batchMu sync.Mutex // one writer at a time

	mu      sync.RWMutex
	root    Tree
	version uint64

	obsMu     sync.Mutex
	observers map[uint64]Observer
	nextObsID uint64
	obsPanics atomic.Uint64
}

// New constructs a Container from an initial snapshot. The snapshot is copied.
func New(initial Tree) *Container {
	root, _ := Clone(initial).(map[string]any)
	if root == nil {
		root = Tree{}
	}
	return &Container{root: root, observers: make(map[uint64]Observer)}
}

// Get returns a deep copy of the committed value at p, or an empty map if absent.
func (c *Container) Get(p Path) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return read(c.root, p)
}

// Version returns the number of committed batches.
func (c *Container) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Snapshot returns a deep copy of the whole committed tree.
func (c *Container) Snapshot() Tree {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, _ := Clone(c.root).(map[string]any)
	return t
}

// Pin returns a Reader fixed at the current committed version. Later batches
// do not affect it; committed trees are never mutated in place.
func (c *Container) Pin() Reader {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return pinned{root: c.root, version: c.version}
}

type pinned struct {
	root    Tree
	version uint64
}

func (p pinned) Get(path Path) any { return read(p.root, path) }
func (p pinned) Version() uint64   { return p.version }

// Set replaces the value at p and notifies observers.
func (c *Container) Set(p Path, v any) error {
	return c.Batch(func(tx *Tx) error {
		tx.Set(p, v)
		return nil
	})
}

// Update replaces the value at p with fn(current) and notifies observers.
// An absent current value is materialized as an empty []any first.
func (c *Container) Update(p Path, fn Updater) error {
	return c.Batch(func(tx *Tx) error {
		tx.Update(p, fn)
		return nil
	})
}

// Swap replaces the entire tree with a single notification.
func (c *Container) Swap(t Tree) error {
	return c.Batch(func(tx *Tx) error {
		tx.Swap(t)
		return nil
	})
}

// Batch runs fn against a private working copy of the tree. When fn returns
// nil the copy is committed and observers are notified exactly once (only if
// fn wrote anything). When fn returns an error nothing is committed; a panic
// in fn also commits nothing and propagates to the caller.
func (c *Container) Batch(fn func(tx *Tx) error) error {
	v, err := c.commit(fn)
	if err != nil || v == 0 {
		return err
	}
	c.notify(v)
	return nil
}

// commit runs fn under batchMu and returns the new version, or 0 when nothing
// was written.
func (c *Container) commit(fn func(tx *Tx) error) (uint64, error) {
	c.batchMu.Lock()
	defer c.batchMu.Unlock()

	c.mu.RLock()
	tx := &Tx{root: c.root, version: c.version}
	c.mu.RUnlock()

	if err := fn(tx); err != nil {
		return 0, err
	}
	if tx.err != nil {
		return 0, tx.err
	}
	if !tx.dirty {
		return 0, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.root = tx.root
	c.version++
	return c.version, nil
}

// Subscribe registers an observer. The returned func cancels the subscription.
// Observers run synchronously after the commit, outside any container lock,
// in registration order.
func (c *Container) Subscribe(fn Observer) (cancel func()) {
	c.obsMu.Lock()
	id := c.nextObsID
	c.nextObsID++
	c.observers[id] = fn
	c.obsMu.Unlock()
	return func() {
		c.obsMu.Lock()
		delete(c.observers, id)
		c.obsMu.Unlock()
	}
}

// Notify runs the observers with the current version without committing.
func (c *Container) Notify() { c.notify(c.Version()) }

// ObserverPanics is the number of observer panics recovered so far.
func (c *Container) ObserverPanics() uint64 { return c.obsPanics.Load() }

// notify runs each observer in turn. A panicking observer is counted and
// skipped; the remaining observers still run.
func (c *Container) notify(version uint64) {
	c.obsMu.Lock()
	ids := make([]uint64, 0, len(c.observers))
	for id := range c.observers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]Observer, 0, len(ids))
	for _, id := range ids {
		fns = append(fns, c.observers[id])
	}
	c.obsMu.Unlock()
	for _, fn := range fns {
		c.observe(fn, version)
	}
}

func (c *Container) observe(fn Observer, version uint64) {
	defer func() {
		if recover() != nil {
			c.obsPanics.Add(1)
		}
	}()
	fn(version)
}

// Tx is the working copy of one batch. It implements Reader so handlers run
// inside the batch observe the writes of earlier steps.
type Tx struct {
	root    Tree
	version uint64
	dirty   bool
	err     error
}

// Get returns the value at p as seen by this batch.
func (tx *Tx) Get(p Path) any { return read(tx.root, p) }

// Version returns the committed version the batch started from.
func (tx *Tx) Version() uint64 { return tx.version }

// Dirty reports whether the batch has written anything so far.
func (tx *Tx) Dirty() bool { return tx.dirty }

// Set places v at p, creating intermediate maps as needed.
func (tx *Tx) Set(p Path, v any) {
	if p.IsRoot() {
		tx.Swap(asTree(v, &tx.err))
		return
	}
	tx.root = assign(tx.root, p, Clone(v)).(map[string]any)
	tx.dirty = true
}

// Update places fn(current) at p. An absent or nil current value is
// materialized as an empty []any before fn runs.
func (tx *Tx) Update(p Path, fn Updater) {
	cur, ok := lookup(tx.root, p)
	if !ok || cur == nil {
		cur = []any{}
	} else {
		cur = Clone(cur)
	}
	tx.Set(p, fn(cur))
}

// Swap replaces the whole tree.
func (tx *Tx) Swap(t Tree) {
	if t == nil {
		return
	}
	tx.root, _ = Clone(t).(map[string]any)
	tx.dirty = true
}

func read(root Tree, p Path) any {
	v, ok := lookup(root, p)
	if !ok {
		return Tree{}
	}
	return Clone(v)
}

func asTree(v any, errp *error) Tree {
	t, ok := v.(map[string]any)
	if !ok {
		*errp = ErrRootNotTree
		return nil
	}
	return t
}

// As reads the value at p and asserts it to T.
func As[T any](r Reader, p Path) (T, bool) {
	v, ok := r.Get(p).(T)
	return v, ok
}
