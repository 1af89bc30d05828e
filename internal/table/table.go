// Package table implements the two-phase Table abstraction (spec.md §4.3)
// and the process-wide Registry (spec.md §4.4): named maps with staged
// writes, an exclusive lock, and commit/rollback, shared across sessions.
package table

import "sync"

// Table is a named key-value map shared across sessions. All of Set, Get,
// Has, Commit, and Rollback require the caller to hold the lock (Lock or a
// successful TryLock) — Table does not acquire it itself, mirroring
// original_source/table.cpp's contract ("should only be called while the
// table's lock is held").
type Table struct {
	name string

	mu        sync.Mutex
	committed map[string]string
	staged    map[string]string
}

// New creates a Table with the given name and empty committed/staged maps.
func New(name string) *Table {
	return &Table{
		name:      name,
		committed: make(map[string]string),
		staged:    make(map[string]string),
	}
}

// Name returns the table's identifier, immutable since creation.
func (t *Table) Name() string { return t.name }

// Lock blocks until the table's exclusive lock is acquired.
func (t *Table) Lock() { t.mu.Lock() }

// TryLock attempts to acquire the lock without blocking, reporting success.
func (t *Table) TryLock() bool { return t.mu.TryLock() }

// Unlock releases the lock. The caller must hold it.
func (t *Table) Unlock() { t.mu.Unlock() }

// Set stages key=value, invisible to other sessions until Commit. Caller
// must hold the lock.
func (t *Table) Set(key, value string) {
	t.staged[key] = value
}

// Get returns staged[key] if present, else committed[key], else
// ErrKeyNotFound. Caller must hold the lock.
func (t *Table) Get(key string) (string, error) {
	if v, ok := t.staged[key]; ok {
		return v, nil
	}
	if v, ok := t.committed[key]; ok {
		return v, nil
	}
	return "", ErrKeyNotFound
}

// Has reports whether key is present in either map. Caller must hold the
// lock.
func (t *Table) Has(key string) bool {
	if _, ok := t.staged[key]; ok {
		return true
	}
	_, ok := t.committed[key]
	return ok
}

// Commit merges staged into committed, overwriting on collision, and clears
// staged. Caller must hold the lock.
func (t *Table) Commit() {
	for k, v := range t.staged {
		t.committed[k] = v
	}
	clear(t.staged)
}

// Rollback discards staged without touching committed. Caller must hold the
// lock.
func (t *Table) Rollback() {
	clear(t.staged)
}
