package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is the in-process Cache used when Redis is not configured.
type Memory struct {
	mu        sync.RWMutex
	entries   map[string][]byte
	lastFlush time.Time
}

// NewMemory creates an empty memory cache
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string][]byte),
	}
}

// Get returns a copy of the cached value
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of value under key
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = append([]byte(nil), value...)
	return nil
}

// Flush drops every entry
func (m *Memory) Flush(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string][]byte)
	m.lastFlush = time.Now()
	return nil
}

// Count returns the number of cached entries
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// LastFlush returns the timestamp of the last flush
func (m *Memory) LastFlush() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.lastFlush
}
