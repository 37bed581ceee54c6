package mocks

import (
	"context"
	"io"

	"github.com/llsaimur/papertrails/internal/paperless"
	"github.com/stretchr/testify/mock"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) UploadDocument(ctx context.Context, r io.Reader, fileName, title string, documentTypeID int, description string) (string, error) {
	args := m.Called(ctx, r, fileName, title, documentTypeID, description)
	return args.String(0), args.Error(1)
}

func (m *MockClient) GetTaskStatus(ctx context.Context, taskID string) (*paperless.TaskStatus, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paperless.TaskStatus), args.Error(1)
}

func (m *MockClient) GetDocument(ctx context.Context, id int) (*paperless.RemoteDocument, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paperless.RemoteDocument), args.Error(1)
}

func (m *MockClient) GetDocuments(ctx context.Context, ids []int) ([]paperless.RemoteDocument, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]paperless.RemoteDocument), args.Error(1)
}

func (m *MockClient) DeleteDocument(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClient) SetDocumentType(ctx context.Context, documentID, documentTypeID int) error {
	args := m.Called(ctx, documentID, documentTypeID)
	return args.Error(0)
}

func (m *MockClient) CreateDocumentType(ctx context.Context, name string) (*paperless.DocumentType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paperless.DocumentType), args.Error(1)
}

func (m *MockClient) UpdateDocumentType(ctx context.Context, id int, name string) (*paperless.DocumentType, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paperless.DocumentType), args.Error(1)
}

func (m *MockClient) DeleteDocumentType(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClient) DownloadDocument(ctx context.Context, contentURL string) (io.ReadCloser, error) {
	args := m.Called(ctx, contentURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockClient) ContentURL(documentID int) string {
	args := m.Called(documentID)
	return args.String(0)
}
