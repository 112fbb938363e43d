package adapters

import (
	"context"
	"slices"
	"strings"

	"github.com/brettbedarf/codecollab"
	"github.com/puzpuzpuz/xsync/v4"
)

// MemoryStore is a process-local [codecollab.ContentStore]. Values are copied
// on the way in and out so callers never share backing arrays with the store.
type MemoryStore struct {
	data *xsync.Map[string, []byte]
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: xsync.NewMap[string, []byte]()}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	v, ok := m.data.Load(key)
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, val []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.data.Store(key, slices.Clone(val))
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.data.Delete(key)
	return nil
}

func (m *MemoryStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var keys []string
	m.data.Range(func(k string, _ []byte) bool {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
		return true
	})
	slices.Sort(keys)
	return keys, nil
}

// Len returns the number of stored keys
func (m *MemoryStore) Len() int {
	return m.data.Size()
}

func (m *MemoryStore) Close() error {
	m.data.Clear()
	return nil
}

var _ codecollab.ContentStore = (*MemoryStore)(nil)

// MemoryProvider opens a fresh [MemoryStore]; opts are ignored
type MemoryProvider struct{}

func (MemoryProvider) Open(codecollab.StoreOptions) (codecollab.ContentStore, error) {
	return NewMemoryStore(), nil
}
