package mocks

import (
	"context"

	"github.com/llsaimur/papertrails/internal/supabase"
	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) SignUp(ctx context.Context, email, password string) (*supabase.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.User), args.Error(1)
}

func (m *MockClient) SignIn(ctx context.Context, email, password string) (*supabase.Session, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.Session), args.Error(1)
}

func (m *MockClient) SendPasswordReset(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockClient) UpdateEmail(ctx context.Context, userToken, newEmail string) (*supabase.User, error) {
	args := m.Called(ctx, userToken, newEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*supabase.User), args.Error(1)
}
