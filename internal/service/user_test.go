package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/llsaimur/papertrails/internal/model"
	repoMocks "github.com/llsaimur/papertrails/internal/repository/mocks"
	"github.com/llsaimur/papertrails/internal/supabase"
	authMocks "github.com/llsaimur/papertrails/internal/supabase/mocks"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		in         RegisterInput
		setupMocks func(mAuth *authMocks.MockClient, mRepo *repoMocks.MockUserRepository)
		wantErr    error
	}{
		{
			name: "happy path mirrors provider subject",
			in:   RegisterInput{Name: "Sam", Email: "sam@example.com", Password: "secret"},
			setupMocks: func(mAuth *authMocks.MockClient, mRepo *repoMocks.MockUserRepository) {
				mRepo.On("ExistsEmail", ctx, "sam@example.com").Return(false, nil)
				mAuth.On("SignUp", ctx, "sam@example.com", "secret").
					Return(&supabase.User{ID: "sub-1", Email: "sam@example.com"}, nil)
				mRepo.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
					return u.ID == "sub-1" && u.Name == "Sam" && u.Email == "sam@example.com"
				})).Return(&model.User{ID: "sub-1", Name: "Sam", Email: "sam@example.com"}, nil)
			},
		},
		{
			name:       "validation - missing email",
			in:         RegisterInput{Password: "secret"},
			setupMocks: func(*authMocks.MockClient, *repoMocks.MockUserRepository) {},
			wantErr:    ErrEmailRequired,
		},
		{
			name:       "validation - missing password",
			in:         RegisterInput{Email: "sam@example.com"},
			setupMocks: func(*authMocks.MockClient, *repoMocks.MockUserRepository) {},
			wantErr:    ErrPasswordRequired,
		},
		{
			name: "email already registered",
			in:   RegisterInput{Email: "sam@example.com", Password: "secret"},
			setupMocks: func(mAuth *authMocks.MockClient, mRepo *repoMocks.MockUserRepository) {
				mRepo.On("ExistsEmail", ctx, "sam@example.com").Return(true, nil)
			},
			wantErr: ErrEmailTaken,
		},
		{
			name: "provider rejects sign-up",
			in:   RegisterInput{Email: "sam@example.com", Password: "weak"},
			setupMocks: func(mAuth *authMocks.MockClient, mRepo *repoMocks.MockUserRepository) {
				mRepo.On("ExistsEmail", ctx, "sam@example.com").Return(false, nil)
				mAuth.On("SignUp", ctx, "sam@example.com", "weak").
					Return(nil, &supabase.AuthError{StatusCode: 422, Message: "password too weak"})
			},
			wantErr: &supabase.AuthError{StatusCode: 422, Message: "password too weak"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mAuth := new(authMocks.MockClient)
			mRepo := new(repoMocks.MockUserRepository)
			svc := NewUserService(mAuth, mRepo)

			tt.setupMocks(mAuth, mRepo)

			user, err := svc.Register(ctx, tt.in)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "sub-1", user.ID)
			}
			mAuth.AssertExpectations(t)
			mRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mAuth := new(authMocks.MockClient)
		mRepo := new(repoMocks.MockUserRepository)
		svc := NewUserService(mAuth, mRepo)

		mAuth.On("SignIn", ctx, "sam@example.com", "secret").Return(&supabase.Session{
			AccessToken: "jwt-token",
			ExpiresIn:   3600,
			User:        supabase.User{ID: "sub-1", Email: "sam@example.com"},
		}, nil)
		mRepo.On("FindByEmail", ctx, "sam@example.com").
			Return(&model.User{ID: "sub-1", Name: "Sam", Email: "sam@example.com"}, nil)

		res, err := svc.Login(ctx, "sam@example.com", "secret")
		assert.NoError(t, err)
		assert.Equal(t, "Sam", res.Name)
		assert.Equal(t, "jwt-token", res.Token)
		assert.Equal(t, 3600, res.ExpiresIn)
	})

	t.Run("bad credentials", func(t *testing.T) {
		mAuth := new(authMocks.MockClient)
		svc := NewUserService(mAuth, nil)

		mAuth.On("SignIn", ctx, "sam@example.com", "wrong").
			Return(nil, &supabase.AuthError{StatusCode: 400, Message: "invalid login credentials"})

		_, err := svc.Login(ctx, "sam@example.com", "wrong")
		assert.Error(t, err)
	})

	t.Run("no local profile", func(t *testing.T) {
		mAuth := new(authMocks.MockClient)
		mRepo := new(repoMocks.MockUserRepository)
		svc := NewUserService(mAuth, mRepo)

		mAuth.On("SignIn", ctx, "ghost@example.com", "secret").Return(&supabase.Session{
			AccessToken: "jwt-token",
			User:        supabase.User{ID: "sub-2", Email: "ghost@example.com"},
		}, nil)
		mRepo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, sql.ErrNoRows)

		_, err := svc.Login(ctx, "ghost@example.com", "secret")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUserService_UpdateEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("updates provider then local mirror", func(t *testing.T) {
		mAuth := new(authMocks.MockClient)
		mRepo := new(repoMocks.MockUserRepository)
		svc := NewUserService(mAuth, mRepo)

		mRepo.On("FindByID", ctx, "sub-1").
			Return(&model.User{ID: "sub-1", Name: "Sam", Email: "sam@example.com"}, nil)
		mRepo.On("ExistsEmail", ctx, "new@example.com").Return(false, nil)
		mAuth.On("UpdateEmail", ctx, "jwt-token", "new@example.com").
			Return(&supabase.User{ID: "sub-1", Email: "new@example.com"}, nil)
		mRepo.On("UpdateEmail", ctx, "sub-1", "new@example.com").Return(nil)

		user, err := svc.UpdateEmail(ctx, "sub-1", "jwt-token", "new@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "new@example.com", user.Email)
		mAuth.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("new email already in use", func(t *testing.T) {
		mAuth := new(authMocks.MockClient)
		mRepo := new(repoMocks.MockUserRepository)
		svc := NewUserService(mAuth, mRepo)

		mRepo.On("FindByID", ctx, "sub-1").
			Return(&model.User{ID: "sub-1", Email: "sam@example.com"}, nil)
		mRepo.On("ExistsEmail", ctx, "taken@example.com").Return(true, nil)

		_, err := svc.UpdateEmail(ctx, "sub-1", "jwt-token", "taken@example.com")
		assert.ErrorIs(t, err, ErrEmailTaken)
		mAuth.AssertNotCalled(t, "UpdateEmail", ctx, "jwt-token", "taken@example.com")
	})
}

func TestUserService_Me(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		svc := NewUserService(nil, mRepo)

		mRepo.On("FindByID", ctx, "sub-1").Return(&model.User{ID: "sub-1", Name: "Sam"}, nil)

		user, err := svc.Me(ctx, "sub-1")
		assert.NoError(t, err)
		assert.Equal(t, "Sam", user.Name)
	})

	t.Run("not found", func(t *testing.T) {
		mRepo := new(repoMocks.MockUserRepository)
		svc := NewUserService(nil, mRepo)

		mRepo.On("FindByID", ctx, "ghost").Return(nil, sql.ErrNoRows)

		_, err := svc.Me(ctx, "ghost")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
