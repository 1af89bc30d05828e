package table

import "sync"

// Registry is the process-wide name→Table mapping. Entries are insert-only
// and, once inserted, pointer-stable for the process lifetime — sessions may
// hold a *Table across registry operations without it being invalidated.
//
// original_source/server.cpp declared a registry mutex but never took it on
// the create/find paths (flagged in spec.md §9); Registry guards both.
type Registry struct {
	mu     sync.Mutex
	tables map[string]*Table
}

func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]*Table)}
}

// Create inserts a new Table under name, or returns ErrTableExists if one is
// already present. Concurrent Create calls for the same name race to at most
// one success — the mutex serializes the check-and-insert.
func (r *Registry) Create(name string) (*Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tables[name]; ok {
		return nil, ErrTableExists
	}
	t := New(name)
	r.tables[name] = t
	return t, nil
}

// Find returns the Table registered under name, or nil if none exists.
func (r *Registry) Find(name string) *Table {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tables[name]
}
