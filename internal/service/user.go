package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/llsaimur/papertrails/internal/model"
	"github.com/llsaimur/papertrails/internal/repository"
	"github.com/llsaimur/papertrails/internal/supabase"
)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrEmailTaken       = errors.New("email is already registered")
	ErrUserNotFound     = errors.New("user not found")
)

// RegisterInput carries a sign-up request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult pairs the local profile with the identity provider's session.
type LoginResult struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// UserService manages account profiles. Credentials live in Supabase; the
// local users table only mirrors the provider subject, name and email.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Me(ctx context.Context, userID string) (*model.User, error)
	SendPasswordReset(ctx context.Context, email string) error

	// UpdateEmail changes the address at the provider using the caller's own
	// access token, then mirrors the change locally.
	UpdateEmail(ctx context.Context, userID, accessToken, newEmail string) (*model.User, error)
}

type userService struct {
	auth supabase.Client
	repo repository.UserRepository
}

// NewUserService constructs a new UserService.
func NewUserService(auth supabase.Client, repo repository.UserRepository) UserService {
	return &userService{auth: auth, repo: repo}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if in.Email == "" {
		return nil, ErrEmailRequired
	}
	if in.Password == "" {
		return nil, ErrPasswordRequired
	}

	taken, err := s.repo.ExistsEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	su, err := s.auth.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	// The provider subject is the primary key; local and remote identities
	// stay joined by it for the account's lifetime.
	user := &model.User{
		ID:        su.ID,
		Name:      in.Name,
		Email:     su.Email,
		CreatedAt: time.Now().UTC(),
	}
	return s.repo.Create(ctx, user)
}

func (s *userService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	sess, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByEmail(ctx, sess.User.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &LoginResult{
		Name:      user.Name,
		Email:     user.Email,
		Token:     sess.AccessToken,
		ExpiresIn: int(sess.ExpiresIn),
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) SendPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	return s.auth.SendPasswordReset(ctx, email)
}

func (s *userService) UpdateEmail(ctx context.Context, userID, accessToken, newEmail string) (*model.User, error) {
	if newEmail == "" {
		return nil, ErrEmailRequired
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	taken, err := s.repo.ExistsEmail(ctx, newEmail)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	if _, err := s.auth.UpdateEmail(ctx, accessToken, newEmail); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateEmail(ctx, userID, newEmail); err != nil {
		return nil, err
	}
	user.Email = newEmail
	return user, nil
}
