package services

import (
	"context"
	"fmt"

	"travel-webapi/internal/models"
	"travel-webapi/internal/password"
	"travel-webapi/internal/repositories"

	"go.uber.org/zap"
)

// UserInput carries the validated fields for admin user create/update.
// Password is optional on update; empty keeps the current hash.
type UserInput struct {
	Name     string
	Email    string
	Password string
}

// UserService defines admin CRUD over user accounts.
type UserService interface {
	List(ctx context.Context, params repositories.ListParams) ([]models.User, *repositories.PageMeta, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, input UserInput) (*models.User, error)
	Update(ctx context.Context, id int64, input UserInput) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type userServiceImpl struct {
	repo   repositories.UserRepository
	logger *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(repo repositories.UserRepository, logger *zap.Logger) UserService {
	return &userServiceImpl{repo: repo, logger: logger}
}

func (s *userServiceImpl) List(ctx context.Context, params repositories.ListParams) ([]models.User, *repositories.PageMeta, error) {
	return s.repo.List(ctx, params)
}

func (s *userServiceImpl) Get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// Create persists a new user. The email must be unused and the password is
// hashed before it ever reaches the repository.
func (s *userServiceImpl) Create(ctx context.Context, input UserInput) (*models.User, error) {
	existing, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		s.logger.Error("Failed to hash password during user create", zap.String("email", input.Email), zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Name: input.Name, Email: input.Email, PasswordHash: hashed}
	if _, err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.Get(ctx, user.ID)
}

// Update persists name/email and, when a password is supplied, a new hash.
// The email must not belong to a different user.
func (s *userServiceImpl) Update(ctx context.Context, id int64, input UserInput) (*models.User, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	if input.Email != existing.Email {
		other, err := s.repo.FindByEmail(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, ErrEmailExists
		}
	}

	existing.Name = input.Name
	existing.Email = input.Email
	if input.Password != "" {
		hashed, err := password.Hash(input.Password)
		if err != nil {
			s.logger.Error("Failed to hash password during user update", zap.Int64("id", id), zap.Error(err))
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		existing.PasswordHash = hashed
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *userServiceImpl) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
