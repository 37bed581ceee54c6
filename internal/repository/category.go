package repository

import (
	"context"

	"github.com/llsaimur/papertrails/internal/model"
)

// CategoryRepository defines data access for categories, scoped by owner.
type CategoryRepository interface {
	Create(ctx context.Context, cat *model.Category) (*model.Category, error)
	FindByID(ctx context.Context, userID, id string) (*model.Category, error)

	// ExistsName reports whether the owner already has a category with the
	// name, excluding the given id (empty excludeID checks all rows).
	ExistsName(ctx context.Context, userID, name, excludeID string) (bool, error)

	// List returns the owner's categories ordered by name.
	List(ctx context.Context, userID string, pq PageQuery) (*PageResult[model.Category], error)

	Update(ctx context.Context, cat *model.Category) error
	Delete(ctx context.Context, userID, id string) error
}
