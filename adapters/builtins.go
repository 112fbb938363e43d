package adapters

// NOTE: If build bloat becomes a concern for unused backends
// look into build tags i.e. +build !nobolt

type BuiltInStoreType = string

const (
	MemoryStoreType BuiltInStoreType = "memory"
	BoltStoreType   BuiltInStoreType = "bolt"
)

// RegisterBuiltins registers all built-in content stores on r by default
// or only the specific ones if keys are provided
func RegisterBuiltins(r *Registry, stores ...BuiltInStoreType) {
	if len(stores) == 0 {
		stores = append(stores, MemoryStoreType, BoltStoreType)
	}

	for _, key := range stores {
		switch key {
		case MemoryStoreType:
			r.Register(MemoryStoreType, MemoryProvider{})
		case BoltStoreType:
			r.Register(BoltStoreType, BoltProvider{})
		}
	}
}
