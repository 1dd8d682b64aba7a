package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory DocumentStore used by unit tests and the
// standalone content binary. Documents keep insertion order per collection
// so a given read is stable.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Fields
	order       map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Fields),
		order:       make(map[string][]string),
	}
}

func (m *MemoryStore) col(collection string) map[string]Fields {
	c, ok := m.collections[collection]
	if !ok {
		c = make(map[string]Fields)
		m.collections[collection] = c
	}
	return c
}

func resolveTimestamps(fields Fields) Fields {
	out := fields.Clone()
	for k, v := range out {
		if _, ok := v.(serverTimestamp); ok {
			out[k] = nowUTC()
		}
	}
	return out
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (Fields, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.col(collection)[id]
	if !ok {
		return nil, ErrNotFound
	}
	return f.Clone(), nil
}

func (m *MemoryStore) List(ctx context.Context, collection string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c := m.col(collection)
	out := make([]Document, 0, len(c))
	for _, id := range m.order[collection] {
		if f, ok := c[id]; ok {
			out = append(out, Document{ID: id, Fields: f.Clone()})
		}
	}
	return out, nil
}

func (m *MemoryStore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := uuid.NewString()
	m.col(collection)[id] = resolveTimestamps(fields)
	m.order[collection] = append(m.order[collection], id)
	return id, nil
}

func (m *MemoryStore) Merge(ctx context.Context, collection, id string, fields Fields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.col(collection)
	cur, ok := c[id]
	if !ok {
		// merge upserts, matching the Mongo implementation
		cur = Fields{}
		m.order[collection] = append(m.order[collection], id)
	}
	next := cur.Clone()
	for k, v := range resolveTimestamps(fields) {
		next[k] = v
	}
	c[id] = next
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.col(collection)
	if _, ok := c[id]; !ok {
		return ErrNotFound
	}
	delete(c, id)
	ord := m.order[collection]
	for i, v := range ord {
		if v == id {
			m.order[collection] = append(ord[:i], ord[i+1:]...)
			break
		}
	}
	return nil
}
