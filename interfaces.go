package codecollab

import "context"

// ContentStore is the key-value persistence collaborator. Implementations
// live in the adapters package.
type ContentStore interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)

	// Set stores val under key, replacing any previous value
	Set(ctx context.Context, key string, val []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists the stored keys starting with prefix in ascending order
	Keys(ctx context.Context, prefix string) ([]string, error)

	Close() error
}

// StoreProvider is a factory for concrete [ContentStore] implementations.
// Providers are registered by type name in the adapters registry.
type StoreProvider interface {
	Open(opts StoreOptions) (ContentStore, error)
}

// StoreOptions carries the backend-agnostic settings handed to a [StoreProvider]
type StoreOptions struct {
	Path string // File path for disk-backed stores; ignored by memory stores
}

// Observer is notified after each successful tree mutation.
// Implementations must not call back into the project that emitted the event.
type Observer interface {
	OnEvent(ctx context.Context, ev Event)
}

// ObserverFunc adapts a plain function to [Observer]
type ObserverFunc func(ctx context.Context, ev Event)

func (f ObserverFunc) OnEvent(ctx context.Context, ev Event) {
	f(ctx, ev)
}
