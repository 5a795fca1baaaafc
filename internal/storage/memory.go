package storage

import (
	"context"
	"sync"
)

// MemoryRepository keeps values in process memory. It backs tests and the
// in-memory-only mode used when no persistent medium is available.
type MemoryRepository struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{data: make(map[string][]byte)}
}

func (m *MemoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryRepository) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Batch stages writes on a copy and swaps it in only if fn succeeds.
func (m *MemoryRepository) Batch(ctx context.Context, fn func(ctx context.Context, r Repository) error) error {
	m.mu.RLock()
	staged := &MemoryRepository{data: make(map[string][]byte, len(m.data))}
	for k, v := range m.data {
		staged.data[k] = v
	}
	m.mu.RUnlock()

	if err := fn(ctx, staged); err != nil {
		return err
	}

	m.mu.Lock()
	m.data = staged.data
	m.mu.Unlock()
	return nil
}

func (m *MemoryRepository) Close() error { return nil }
