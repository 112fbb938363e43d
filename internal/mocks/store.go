package mocks

import (
	"context"

	"github.com/brettbedarf/codecollab"
	"github.com/stretchr/testify/mock"
)

// MockContentStore implements codecollab.ContentStore for testing across packages
type MockContentStore struct {
	mock.Mock
}

func (m *MockContentStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockContentStore) Set(ctx context.Context, key string, val []byte) error {
	args := m.Called(ctx, key, val)
	return args.Error(0)
}

func (m *MockContentStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockContentStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockContentStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ codecollab.ContentStore = (*MockContentStore)(nil)

// MockStoreProvider implements codecollab.StoreProvider for testing across packages
type MockStoreProvider struct {
	mock.Mock
}

func (m *MockStoreProvider) Open(opts codecollab.StoreOptions) (codecollab.ContentStore, error) {
	args := m.Called(opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(codecollab.ContentStore), args.Error(1)
}

var _ codecollab.StoreProvider = (*MockStoreProvider)(nil)
