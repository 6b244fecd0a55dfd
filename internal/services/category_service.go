package services

import (
	"context"

	"travel-webapi/internal/models"
	"travel-webapi/internal/repositories"

	"go.uber.org/zap"
)

// CategoryService defines CRUD over lookup categories.
type CategoryService interface {
	List(ctx context.Context, params repositories.ListParams) ([]models.Category, *repositories.PageMeta, error)
	Get(ctx context.Context, id int64) (*models.Category, error)
	Create(ctx context.Context, name string) (*models.Category, error)
	Update(ctx context.Context, id int64, name string) (*models.Category, error)
	Delete(ctx context.Context, id int64) error
}

type categoryServiceImpl struct {
	repo   repositories.CategoryRepository
	logger *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(repo repositories.CategoryRepository, logger *zap.Logger) CategoryService {
	return &categoryServiceImpl{repo: repo, logger: logger}
}

func (s *categoryServiceImpl) List(ctx context.Context, params repositories.ListParams) ([]models.Category, *repositories.PageMeta, error) {
	return s.repo.List(ctx, params)
}

func (s *categoryServiceImpl) Get(ctx context.Context, id int64) (*models.Category, error) {
	cat, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, ErrNotFound
	}
	return cat, nil
}

func (s *categoryServiceImpl) Create(ctx context.Context, name string) (*models.Category, error) {
	cat := &models.Category{Name: name}
	if _, err := s.repo.Create(ctx, cat); err != nil {
		return nil, err
	}
	return s.Get(ctx, cat.ID)
}

func (s *categoryServiceImpl) Update(ctx context.Context, id int64, name string) (*models.Category, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	existing.Name = name
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *categoryServiceImpl) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
