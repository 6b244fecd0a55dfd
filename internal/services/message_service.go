package services

import (
	"context"

	"travel-webapi/internal/models"
	"travel-webapi/internal/repositories"

	"go.uber.org/zap"
)

// MessageInput carries the validated fields for a contact message.
type MessageInput struct {
	Name    string
	Email   string
	Message string
}

// MessageService defines CRUD over contact messages.
type MessageService interface {
	List(ctx context.Context, params repositories.ListParams) ([]models.Message, *repositories.PageMeta, error)
	Get(ctx context.Context, id int64) (*models.Message, error)
	Create(ctx context.Context, input MessageInput) (*models.Message, error)
	Update(ctx context.Context, id int64, input MessageInput) (*models.Message, error)
	Delete(ctx context.Context, id int64) error
}

type messageServiceImpl struct {
	repo   repositories.MessageRepository
	logger *zap.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(repo repositories.MessageRepository, logger *zap.Logger) MessageService {
	return &messageServiceImpl{repo: repo, logger: logger}
}

func (s *messageServiceImpl) List(ctx context.Context, params repositories.ListParams) ([]models.Message, *repositories.PageMeta, error) {
	return s.repo.List(ctx, params)
}

func (s *messageServiceImpl) Get(ctx context.Context, id int64) (*models.Message, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrNotFound
	}
	return msg, nil
}

func (s *messageServiceImpl) Create(ctx context.Context, input MessageInput) (*models.Message, error) {
	msg := &models.Message{Name: input.Name, Email: input.Email, Message: input.Message}
	if _, err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return s.Get(ctx, msg.ID)
}

func (s *messageServiceImpl) Update(ctx context.Context, id int64, input MessageInput) (*models.Message, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	existing.Name = input.Name
	existing.Email = input.Email
	existing.Message = input.Message
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *messageServiceImpl) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}
