package registry

import "sync"

// Registry is a map that is safe for concurrent insert, remove and
// iteration. Iteration always works on a snapshot, so callbacks may freely
// call back into the registry.
type Registry[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V
}

func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{items: make(map[K]V)}
}

// Load returns the value stored under k.
func (r *Registry[K, V]) Load(k K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[k]
	return v, ok
}

// Store sets the value for k, replacing any existing value.
func (r *Registry[K, V]) Store(k K, v V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[k] = v
}

// LoadOrStore returns the existing value for k if present. Otherwise it
// stores v and returns it. loaded reports whether the value was already there.
func (r *Registry[K, V]) LoadOrStore(k K, v V) (actual V, loaded bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.items[k]; ok {
		return existing, true
	}
	r.items[k] = v
	return v, false
}

// LoadAndDelete removes k and returns the value it held.
func (r *Registry[K, V]) LoadAndDelete(k K) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.items[k]
	if ok {
		delete(r.items, k)
	}
	return v, ok
}

// Delete removes k. Deleting a missing key is a no-op.
func (r *Registry[K, V]) Delete(k K) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, k)
}

// Len returns the number of entries.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Keys returns a snapshot of the keys.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]K, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	return keys
}

// Values returns a snapshot of the values.
func (r *Registry[K, V]) Values() []V {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vals := make([]V, 0, len(r.items))
	for _, v := range r.items {
		vals = append(vals, v)
	}
	return vals
}

// Snapshot returns a copy of the current contents.
func (r *Registry[K, V]) Snapshot() map[K]V {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[K]V, len(r.items))
	for k, v := range r.items {
		out[k] = v
	}
	return out
}

// Range calls fn for each entry of a snapshot taken at call time. Iteration
// stops early if fn returns false.
func (r *Registry[K, V]) Range(fn func(K, V) bool) {
	for k, v := range r.Snapshot() {
		if !fn(k, v) {
			return
		}
	}
}
