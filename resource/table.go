package resource

import (
	"sort"
	"sync"
)

// Table is a keyed store of decoded resources of one kind. Registering
// under an existing key replaces and releases the old value.
type Table[T any] struct {
	entries   map[Key]T
	kind      string
	observers []Observer
	mu        sync.RWMutex
	obsMu     sync.RWMutex
}

// NewTable creates an empty table. kind names the resource kind in events.
func NewTable[T any](kind string) *Table[T] {
	return &Table[T]{
		entries: make(map[Key]T),
		kind:    kind,
	}
}

// Kind returns the resource kind name
func (t *Table[T]) Kind() string {
	return t.kind
}

// Insert stores value under key, releasing any previous value.
// It reports whether a previous value was replaced.
func (t *Table[T]) Insert(key Key, value T) bool {
	t.mu.Lock()
	old, existed := t.entries[key]
	t.entries[key] = value
	t.mu.Unlock()

	if existed {
		release(old)
		t.notify(Event{Type: EventReplaced, Kind: t.kind, Key: key, Value: value, Old: old})
	} else {
		t.notify(Event{Type: EventCreated, Kind: t.kind, Key: key, Value: value})
	}
	return existed
}

// Load decodes a value and stores it under key. The table is untouched
// when decode fails.
func (t *Table[T]) Load(key Key, decode func() (T, error)) error {
	value, err := decode()
	if err != nil {
		return err
	}
	t.Insert(key, value)
	return nil
}

// Get retrieves a value by key.
func (t *Table[T]) Get(key Key) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.entries[key]
	return v, ok
}

// Has reports whether key is present
func (t *Table[T]) Has(key Key) bool {
	_, ok := t.Get(key)
	return ok
}

// Remove drops a resource and returns (value, true) if found.
func (t *Table[T]) Remove(key Key) (T, bool) {
	t.mu.Lock()
	value, ok := t.entries[key]
	if ok {
		delete(t.entries, key)
	}
	t.mu.Unlock()

	if !ok {
		return value, false
	}
	release(value)
	t.notify(Event{Type: EventDropped, Kind: t.kind, Key: key, Value: value})
	return value, true
}

// Len returns the number of stored resources.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Keys returns the stored keys in ascending order
func (t *Table[T]) Keys() []Key {
	t.mu.RLock()
	keys := make([]Key, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	t.mu.RUnlock()
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Each iterates over all resources in key order until fn returns false.
func (t *Table[T]) Each(fn func(Key, T) bool) {
	for _, k := range t.Keys() {
		v, ok := t.Get(k)
		if !ok {
			continue
		}
		if !fn(k, v) {
			return
		}
	}
}

// Clear drops all resources.
func (t *Table[T]) Clear() {
	// Collect keys first to avoid holding the lock during Remove
	for _, k := range t.Keys() {
		t.Remove(k)
	}
}

// Subscribe adds an observer for lifecycle events.
func (t *Table[T]) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table[T]) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

func (t *Table[T]) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}

func release(v any) {
	if r, ok := v.(Releaser); ok {
		r.Release()
	}
}
