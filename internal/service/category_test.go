package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/llsaimur/papertrails/internal/model"
	"github.com/llsaimur/papertrails/internal/paperless"
	remoteMocks "github.com/llsaimur/papertrails/internal/paperless/mocks"
	"github.com/llsaimur/papertrails/internal/repository"
	repoMocks "github.com/llsaimur/papertrails/internal/repository/mocks"
)

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		in         CategoryInput
		setupMocks func(mRemote *remoteMocks.MockClient, mRepo *repoMocks.MockCategoryRepository)
		wantErr    error
	}{
		{
			name: "happy path pairs remote document type",
			in:   CategoryInput{Name: "Invoices", Description: "monthly bills"},
			setupMocks: func(mRemote *remoteMocks.MockClient, mRepo *repoMocks.MockCategoryRepository) {
				mRepo.On("ExistsName", ctx, testOwner, "Invoices", "").Return(false, nil)
				mRemote.On("CreateDocumentType", ctx, "Invoices").
					Return(&paperless.DocumentType{ID: 4, Name: "Invoices"}, nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(cat *model.Category) bool {
					return cat.Name == "Invoices" && cat.DocumentTypeID == 4 && cat.UserID == testOwner
				})).Return(&model.Category{ID: "cat-1", Name: "Invoices", DocumentTypeID: 4}, nil)
			},
		},
		{
			name:       "validation - empty name",
			in:         CategoryInput{},
			setupMocks: func(*remoteMocks.MockClient, *repoMocks.MockCategoryRepository) {},
			wantErr:    ErrCategoryNameRequired,
		},
		{
			name: "name already taken",
			in:   CategoryInput{Name: "Invoices"},
			setupMocks: func(mRemote *remoteMocks.MockClient, mRepo *repoMocks.MockCategoryRepository) {
				mRepo.On("ExistsName", ctx, testOwner, "Invoices", "").Return(true, nil)
			},
			wantErr: ErrCategoryNameTaken,
		},
		{
			name: "remote rejects document type",
			in:   CategoryInput{Name: "Invoices"},
			setupMocks: func(mRemote *remoteMocks.MockClient, mRepo *repoMocks.MockCategoryRepository) {
				mRepo.On("ExistsName", ctx, testOwner, "Invoices", "").Return(false, nil)
				mRemote.On("CreateDocumentType", ctx, "Invoices").
					Return(nil, paperless.ErrRemoteRejected)
			},
			wantErr: paperless.ErrRemoteRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRemote := new(remoteMocks.MockClient)
			mRepo := new(repoMocks.MockCategoryRepository)
			svc := NewCategoryService(mRemote, mRepo)

			tt.setupMocks(mRemote, mRepo)

			cat, err := svc.Create(ctx, testOwner, tt.in)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, cat)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 4, cat.DocumentTypeID)
			}
			mRemote.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestCategoryService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("renames local and remote", func(t *testing.T) {
		mRemote := new(remoteMocks.MockClient)
		mRepo := new(repoMocks.MockCategoryRepository)
		svc := NewCategoryService(mRemote, mRepo)

		mRepo.On("FindByID", ctx, testOwner, "cat-1").
			Return(&model.Category{ID: "cat-1", Name: "Invoices", DocumentTypeID: 4}, nil)
		mRepo.On("ExistsName", ctx, testOwner, "Bills", "cat-1").Return(false, nil)
		mRemote.On("UpdateDocumentType", ctx, 4, "Bills").
			Return(&paperless.DocumentType{ID: 4, Name: "Bills"}, nil)
		mRepo.On("Update", ctx, mock.MatchedBy(func(cat *model.Category) bool {
			return cat.Name == "Bills"
		})).Return(nil)

		cat, err := svc.Update(ctx, testOwner, "cat-1", CategoryInput{Name: "Bills"})
		assert.NoError(t, err)
		assert.Equal(t, "Bills", cat.Name)
		mRemote.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("new name already taken", func(t *testing.T) {
		mRepo := new(repoMocks.MockCategoryRepository)
		svc := NewCategoryService(nil, mRepo)

		mRepo.On("FindByID", ctx, testOwner, "cat-1").
			Return(&model.Category{ID: "cat-1", Name: "Invoices", DocumentTypeID: 4}, nil)
		mRepo.On("ExistsName", ctx, testOwner, "Bills", "cat-1").Return(true, nil)

		_, err := svc.Update(ctx, testOwner, "cat-1", CategoryInput{Name: "Bills"})
		assert.ErrorIs(t, err, ErrCategoryNameTaken)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockCategoryRepository)
		svc := NewCategoryService(nil, mRepo)

		mRepo.On("FindByID", ctx, testOwner, "missing").Return(nil, sql.ErrNoRows)

		_, err := svc.Update(ctx, testOwner, "missing", CategoryInput{Name: "Bills"})
		assert.ErrorIs(t, err, ErrCategoryNotFound)
	})
}

func TestCategoryService_List(t *testing.T) {
	ctx := context.Background()

	mRepo := new(repoMocks.MockCategoryRepository)
	svc := NewCategoryService(nil, mRepo)

	mRepo.On("List", ctx, testOwner, repository.PageQuery{Limit: 10, Offset: 10}).
		Return(&repository.PageResult[model.Category]{
			Items: []model.Category{{ID: "cat-1"}},
			Total: 11,
		}, nil)

	res, err := svc.List(ctx, testOwner, 2, 10)
	assert.NoError(t, err)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 11, res.Total)
	assert.Equal(t, 2, res.TotalPages)
	assert.Len(t, res.Items, 1)
	mRepo.AssertExpectations(t)
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes remote then local", func(t *testing.T) {
		mRemote := new(remoteMocks.MockClient)
		mRepo := new(repoMocks.MockCategoryRepository)
		svc := NewCategoryService(mRemote, mRepo)

		mRepo.On("FindByID", ctx, testOwner, "cat-1").
			Return(&model.Category{ID: "cat-1", Name: "Invoices", DocumentTypeID: 4}, nil)
		mRemote.On("DeleteDocumentType", ctx, 4).Return(nil)
		mRepo.On("Delete", ctx, testOwner, "cat-1").Return(nil)

		name, err := svc.Delete(ctx, testOwner, "cat-1")
		assert.NoError(t, err)
		assert.Equal(t, "Invoices", name)
		mRemote.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("remote delete failure keeps local row", func(t *testing.T) {
		mRemote := new(remoteMocks.MockClient)
		mRepo := new(repoMocks.MockCategoryRepository)
		svc := NewCategoryService(mRemote, mRepo)

		mRepo.On("FindByID", ctx, testOwner, "cat-1").
			Return(&model.Category{ID: "cat-1", DocumentTypeID: 4}, nil)
		mRemote.On("DeleteDocumentType", ctx, 4).Return(errors.New("paperless down"))

		_, err := svc.Delete(ctx, testOwner, "cat-1")
		assert.Error(t, err)
		mRepo.AssertNotCalled(t, "Delete", ctx, testOwner, "cat-1")
	})
}
