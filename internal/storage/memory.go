package storage

import (
	"context"
	"sync"
)

// MemoryBackend keeps snapshots in process memory. Used by tests and the
// "memory" driver.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]byte)}
}

func (b *MemoryBackend) Read(_ context.Context, collection string) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	payload, ok := b.data[collection]
	if !ok {
		return nil, ErrNotExist
	}
	return append([]byte(nil), payload...), nil
}

func (b *MemoryBackend) Write(_ context.Context, collection string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[collection] = append([]byte(nil), payload...)
	return nil
}

func (b *MemoryBackend) Close() error { return nil }
