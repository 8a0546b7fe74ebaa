package cookbook

import "sync"

// Registry is the insert-only store of admitted entries, keyed by name.
// Insert performs check-and-insert under a write lock so concurrent
// writers cannot race the same name, and lookups never observe a
// partially inserted entry. No update or delete is exposed.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]Entry),
	}
}

// Insert stores an entry under its name.
// Fails with DuplicateName if the name is already present.
func (r *Registry) Insert(entry Entry) error {
	name := entry.EntryName()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[name]; exists {
		return NewError(DuplicateName, "entry %q already exists in cookbook", name)
	}

	r.entries[name] = entry
	return nil
}

// Lookup returns the entry stored under name, if any. Never mutates.
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	return entry, ok
}

// Len returns the number of admitted entries
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
