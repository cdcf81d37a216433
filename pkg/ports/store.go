package ports

import "context"

// KVStore defines the interface for persisting wizard artifacts.
// Writes are synchronous: once Set returns nil, the value survives a crash.
type KVStore interface {
	// Get retrieves the value stored under key.
	// Returns domain.ErrKeyNotFound if the key holds no value.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes the key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
}

// Lister is implemented by stores that can enumerate their keys.
type Lister interface {
	List(ctx context.Context) ([]string, error)
}
