package mocks

import (
	"context"
	"io"
	"time"

	"github.com/llsaimur/papertrails/internal/storage"
	"github.com/stretchr/testify/mock"
)

type MockRetention struct {
	mock.Mock
}

func (m *MockRetention) Save(ctx context.Context, key string, r io.Reader, opt storage.SaveOptions) error {
	args := m.Called(ctx, key, r, opt)
	return args.Error(0)
}

func (m *MockRetention) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockRetention) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockRetention) PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}
