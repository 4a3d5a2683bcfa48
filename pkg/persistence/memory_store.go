package persistence

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// MemoryStore implements Store with an in-process map.
// Several managers may share one MemoryStore to behave like tabs of one origin.
type MemoryStore struct {
	mu    sync.RWMutex
	props map[string]any
}

// NewMemoryStore creates an empty in-memory property store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{props: make(map[string]any)}
}

// Get returns a copy of the value under key.
func (s *MemoryStore) Get(_ context.Context, key string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneValue(s.props[key]), nil
}

// Register shallow-merges props.
func (s *MemoryStore) Register(_ context.Context, props Properties) error {
	if _, ok := props[""]; ok {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range props {
		s.props[k] = cloneValue(v)
	}
	return nil
}

// Unregister removes key.
func (s *MemoryStore) Unregister(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.props, key)
	return nil
}

// Snapshot returns a copy of every stored property.
func (s *MemoryStore) Snapshot() Properties {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(Properties, len(s.props))
	for k, v := range s.props {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue copies the container types a property bag holds so callers
// cannot mutate stored state through a returned value.
func cloneValue(v any) any {
	switch t := v.(type) {
	case []any:
		out := slices.Clone(t)
		for i := range out {
			out[i] = cloneValue(out[i])
		}
		return out
	case map[string]any:
		out := maps.Clone(t)
		for k := range out {
			out[k] = cloneValue(out[k])
		}
		return out
	default:
		return v
	}
}
