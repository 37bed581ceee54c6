package repository

import (
	"context"

	"github.com/llsaimur/papertrails/internal/model"
)

// UserRepository defines data access for the local mirror of auth-provider
// identities.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsEmail(ctx context.Context, email string) (bool, error)
	UpdateEmail(ctx context.Context, id, email string) error
}
