package persistence

import (
	"maps"
	"sync"
)

// MemoryTabStore implements TabStore with a per-instance map.
type MemoryTabStore struct {
	mu        sync.RWMutex
	values    map[string]string
	supported bool
}

// NewMemoryTabStore creates an empty, supported tab store.
func NewMemoryTabStore() *MemoryTabStore {
	return &MemoryTabStore{values: make(map[string]string), supported: true}
}

// NewUnsupportedTabStore returns a tab store that reports Supported() == false,
// matching environments without tab-scoped storage.
func NewUnsupportedTabStore() *MemoryTabStore {
	return &MemoryTabStore{values: make(map[string]string)}
}

// Supported reports whether the store was created with NewMemoryTabStore.
func (s *MemoryTabStore) Supported() bool {
	return s.supported
}

// Get returns the value under key, or "" when it is absent.
func (s *MemoryTabStore) Get(key string) (string, error) {
	if !s.supported {
		return "", ErrUnsupported
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key], nil
}

// Set stores value under key. An empty key is rejected with ErrEmptyKey.
func (s *MemoryTabStore) Set(key, value string) error {
	if !s.supported {
		return ErrUnsupported
	}
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (s *MemoryTabStore) Remove(key string) error {
	if !s.supported {
		return ErrUnsupported
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Clone returns an independent copy of the store, the way a browser copies
// tab storage into a duplicated or restored tab.
func (s *MemoryTabStore) Clone() *MemoryTabStore {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return &MemoryTabStore{values: maps.Clone(s.values), supported: s.supported}
}
