// Package memstore provides the in-memory reference store: independent
// keyed tables with no validation and no cross-table behavior. Callers own
// all filtering and ordering. A durable deployment swaps the repos built on
// these tables for the pgx implementations.
package memstore

import "sync"

// Table is a mutex-guarded map of id to record. The zero value is not
// usable; construct with NewTable.
type Table[T any] struct {
	mu   sync.RWMutex
	rows map[string]T
}

func NewTable[T any]() *Table[T] {
	return &Table[T]{rows: make(map[string]T)}
}

// Get returns the record for id and whether it exists.
func (t *Table[T]) Get(id string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.rows[id]
	return v, ok
}

// Set upserts the record under id.
func (t *Table[T]) Set(id string, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows[id] = v
}

// Delete removes id, reporting whether it existed.
func (t *Table[T]) Delete(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.rows[id]
	delete(t.rows, id)
	return ok
}

// Values returns a snapshot of all records, unordered.
func (t *Table[T]) Values() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]T, 0, len(t.rows))
	for _, v := range t.rows {
		out = append(out, v)
	}
	return out
}

// Len returns the number of records.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

// Reset clears the table. Test harness use only.
func (t *Table[T]) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = make(map[string]T)
}
