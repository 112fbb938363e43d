package mocks

import (
	"context"

	"github.com/brettbedarf/codecollab"
	"github.com/stretchr/testify/mock"
)

// MockObserver implements codecollab.Observer for testing across packages
type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) OnEvent(ctx context.Context, ev codecollab.Event) {
	m.Called(ctx, ev)
}

var _ codecollab.Observer = (*MockObserver)(nil)
