package persistence

import "context"

// Properties is a shallow property bag merged into a Store by Register.
type Properties map[string]any

// Store is a property bag shared by every SDK instance of one origin.
// Writers race; the last Register wins.
type Store interface {
	// Get returns the value stored under key, or nil when the key is absent.
	Get(ctx context.Context, key string) (any, error)

	// Register shallow-merges props into the bag and persists the result.
	Register(ctx context.Context, props Properties) error

	// Unregister removes key from the bag.
	Unregister(ctx context.Context, key string) error
}

// TabStore is storage scoped to a single tab (SDK instance).
type TabStore interface {
	// Supported reports whether the store can hold values at all.
	Supported() bool

	// Get returns the value under key or "" when absent.
	Get(key string) (string, error)

	Set(key, value string) error

	Remove(key string) error
}
