// Package cache provides the layered key-value cache used for
// spreadsheet snapshots, live API results and cumulative computations.
package cache

import (
	"context"
	"sync"
)

// Store is the raw key-value substrate the cache manager layers its
// validity policies over. Implementations must report quota pressure on
// Set by returning ErrQuotaExceeded and must list keys in first-insertion
// order, which the manager's eviction relies on.
type Store interface {
	// Get returns the stored bytes for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys returns all stored keys in first-insertion order.
	Keys(ctx context.Context) ([]string, error)
}

// MemoryStore implements Store with an in-process map and a byte budget
// standing in for the browser storage quota.
type MemoryStore struct {
	mu       sync.RWMutex
	values   map[string][]byte
	order    []string
	capacity int // total bytes of keys+values; 0 means unlimited
	used     int
}

// MemoryOption applies a configuration option to the MemoryStore.
type MemoryOption func(*MemoryStore)

// WithCapacity bounds the store to capacity bytes of keys plus values.
func WithCapacity(capacity int) MemoryOption {
	return func(s *MemoryStore) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

// NewMemoryStore creates an in-memory store with configuration options.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		values: make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the stored bytes for key, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores value under key. An overwrite keeps the key's original
// insertion position.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.used + len(key) + len(value)
	if prev, ok := s.values[key]; ok {
		next -= len(key) + len(prev)
	}
	if s.capacity > 0 && next > s.capacity {
		return ErrQuotaExceeded
	}

	if _, ok := s.values[key]; !ok {
		s.order = append(s.order, key)
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	s.values[key] = stored
	s.used = next
	return nil
}

// Delete removes key if present.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	if !ok {
		return nil
	}
	delete(s.values, key)
	s.used -= len(key) + len(v)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Keys returns all stored keys in first-insertion order.
func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, len(s.order))
	copy(keys, s.order)
	return keys, nil
}

// Len returns the number of stored keys.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
