package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/llsaimur/papertrails/internal/model"
	"github.com/llsaimur/papertrails/internal/paperless"
	"github.com/llsaimur/papertrails/internal/repository"
)

var (
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryNameTaken    = errors.New("a category with this name already exists")
)

// CategoryInput carries a create or rename request.
type CategoryInput struct {
	Name        string
	Description string
}

// CategoryListResult is the service-level DTO for paginated categories.
type CategoryListResult struct {
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	Total      int              `json:"total"`
	TotalPages int              `json:"total_pages"`
	Items      []model.Category `json:"data"`
}

// CategoryService manages categories and their paired Paperless document
// types. A category never exists locally without its remote counterpart.
type CategoryService interface {
	Create(ctx context.Context, ownerID string, in CategoryInput) (*model.Category, error)
	Get(ctx context.Context, ownerID, id string) (*model.Category, error)
	List(ctx context.Context, ownerID string, page, limit int) (*CategoryListResult, error)
	Update(ctx context.Context, ownerID, id string, in CategoryInput) (*model.Category, error)
	Delete(ctx context.Context, ownerID, id string) (string, error)
}

type categoryService struct {
	remote paperless.Client
	repo   repository.CategoryRepository
}

// NewCategoryService constructs a new CategoryService.
func NewCategoryService(remote paperless.Client, repo repository.CategoryRepository) CategoryService {
	return &categoryService{remote: remote, repo: repo}
}

func (s *categoryService) Create(ctx context.Context, ownerID string, in CategoryInput) (*model.Category, error) {
	if in.Name == "" {
		return nil, ErrCategoryNameRequired
	}

	taken, err := s.repo.ExistsName(ctx, ownerID, in.Name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrCategoryNameTaken
	}

	// Remote first: if Paperless rejects the document type there is nothing
	// to roll back locally.
	dt, err := s.remote.CreateDocumentType(ctx, in.Name)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cat := &model.Category{
		ID:             uuid.New().String(),
		UserID:         ownerID,
		Name:           dt.Name,
		Description:    in.Description,
		DocumentTypeID: dt.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return s.repo.Create(ctx, cat)
}

func (s *categoryService) Get(ctx context.Context, ownerID, id string) (*model.Category, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	cat, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return cat, nil
}

func (s *categoryService) List(ctx context.Context, ownerID string, page, limit int) (*CategoryListResult, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}

	res, err := s.repo.List(ctx, ownerID, repository.PageQuery{Limit: limit, Offset: (page - 1) * limit})
	if err != nil {
		return nil, err
	}

	return &CategoryListResult{
		Page:       page,
		Limit:      limit,
		Total:      res.Total,
		TotalPages: (res.Total + limit - 1) / limit,
		Items:      res.Items,
	}, nil
}

func (s *categoryService) Update(ctx context.Context, ownerID, id string, in CategoryInput) (*model.Category, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if in.Name == "" {
		return nil, ErrCategoryNameRequired
	}

	cat, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	taken, err := s.repo.ExistsName(ctx, ownerID, in.Name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrCategoryNameTaken
	}

	if _, err := s.remote.UpdateDocumentType(ctx, cat.DocumentTypeID, in.Name); err != nil {
		return nil, err
	}

	cat.Name = in.Name
	cat.Description = in.Description
	cat.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// Delete removes the remote document type and then the local category, and
// returns the deleted category's name for the confirmation message.
func (s *categoryService) Delete(ctx context.Context, ownerID, id string) (string, error) {
	if id == "" {
		return "", ErrIDRequired
	}
	cat, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrCategoryNotFound
		}
		return "", err
	}

	if err := s.remote.DeleteDocumentType(ctx, cat.DocumentTypeID); err != nil {
		return "", err
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return "", err
	}
	return cat.Name, nil
}
