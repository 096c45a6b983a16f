package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockLocker is a mock implementation of port.Locker. Obtain records the
// call and hands back a no-op release.
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (func(ctx context.Context) error, error) {
	args := m.Called(ctx, key, ttl)
	if args.Error(0) != nil {
		return nil, args.Error(0)
	}
	return func(context.Context) error { return nil }, nil
}
