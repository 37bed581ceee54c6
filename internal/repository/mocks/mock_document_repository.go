package mocks

import (
	"context"

	"github.com/llsaimur/papertrails/internal/model"
	"github.com/llsaimur/papertrails/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, userID, id string) (*model.Document, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByTaskID(ctx context.Context, userID, taskID string) (*model.Document, error) {
	args := m.Called(ctx, userID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) List(ctx context.Context, userID string, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	args := m.Called(ctx, userID, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Document]), args.Error(1)
}

func (m *MockDocumentRepository) Update(ctx context.Context, doc *model.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) MarkRunning(ctx context.Context, userID, id string) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) Finalize(ctx context.Context, userID, id string, to model.Status, documentID int, contentURL string) (bool, error) {
	args := m.Called(ctx, userID, id, to, documentID, contentURL)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) Exists(ctx context.Context, userID, title, categoryID string, documentID int, excludeID string) (bool, error) {
	args := m.Called(ctx, userID, title, categoryID, documentID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentRepository) SetImportant(ctx context.Context, userID, id string, important bool) error {
	args := m.Called(ctx, userID, id, important)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}
