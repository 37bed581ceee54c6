package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/llsaimur/papertrails/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Submit(ctx context.Context, in service.SubmitInput) (*service.SubmitResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmitResult), args.Error(1)
}

func (m *MockDocumentService) CheckStatus(ctx context.Context, ownerID, taskID string) (*service.StatusResult, error) {
	args := m.Called(ctx, ownerID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StatusResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, ownerID, id string) (*service.DocumentDetail, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentDetail), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, ownerID, categoryID string, importantOnly bool, page, limit int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, ownerID, categoryID, importantOnly, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Update(ctx context.Context, ownerID, id string, in service.UpdateInput) (*service.DocumentDetail, error) {
	args := m.Called(ctx, ownerID, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentDetail), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, ownerID, id string) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockDocumentService) SetImportant(ctx context.Context, ownerID, id string, important bool) error {
	args := m.Called(ctx, ownerID, id, important)
	return args.Error(0)
}

func (m *MockDocumentService) DownloadPDF(ctx context.Context, ownerID, id string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.String(1), args.Error(2)
}
