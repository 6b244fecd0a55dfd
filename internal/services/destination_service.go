package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"travel-webapi/internal/models"
	"travel-webapi/internal/repositories"
	"travel-webapi/internal/storage"

	"go.uber.org/zap"
)

// DestinationInput carries the validated fields for create/update. Image is
// the optional uploaded file; when nil on update the existing image is kept.
type DestinationInput struct {
	UserID      *int64
	CategoryID  *int64
	Name        string
	Location    string
	Description string
	Image       *multipart.FileHeader
}

// DestinationService defines CRUD over destinations including the image
// attachment lifecycle.
type DestinationService interface {
	List(ctx context.Context, params repositories.ListParams) ([]models.Destination, *repositories.PageMeta, error)
	Get(ctx context.Context, id int64) (*models.Destination, error)
	Create(ctx context.Context, input DestinationInput) (*models.Destination, error)
	Update(ctx context.Context, id int64, input DestinationInput) (*models.Destination, error)
	Delete(ctx context.Context, id int64) error
}

type destinationServiceImpl struct {
	repo   repositories.DestinationRepository
	files  storage.Store
	logger *zap.Logger
}

// NewDestinationService creates a new DestinationService
func NewDestinationService(repo repositories.DestinationRepository, files storage.Store, logger *zap.Logger) DestinationService {
	return &destinationServiceImpl{repo: repo, files: files, logger: logger}
}

// withImageURL resolves the stored file name into its public URL.
func (s *destinationServiceImpl) withImageURL(dest *models.Destination) *models.Destination {
	if dest != nil && dest.Image != nil {
		url := s.files.URL(*dest.Image)
		dest.ImageURL = &url
	}
	return dest
}

func (s *destinationServiceImpl) List(ctx context.Context, params repositories.ListParams) ([]models.Destination, *repositories.PageMeta, error) {
	dests, meta, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, nil, err
	}
	for i := range dests {
		s.withImageURL(&dests[i])
	}
	return dests, meta, nil
}

func (s *destinationServiceImpl) Get(ctx context.Context, id int64) (*models.Destination, error) {
	dest, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dest == nil {
		return nil, ErrNotFound
	}
	return s.withImageURL(dest), nil
}

// Create stores the uploaded image (when present) and then the record. A
// failed insert removes the freshly stored file so nothing is orphaned.
func (s *destinationServiceImpl) Create(ctx context.Context, input DestinationInput) (*models.Destination, error) {
	dest := &models.Destination{
		UserID:      input.UserID,
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Location:    input.Location,
		Description: input.Description,
	}

	if input.Image != nil {
		name, err := s.files.Save(input.Image)
		if err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		dest.Image = &name
	}

	if _, err := s.repo.Create(ctx, dest); err != nil {
		if dest.Image != nil {
			if rmErr := s.files.Remove(*dest.Image); rmErr != nil {
				s.logger.Warn("Failed to remove stored image after insert failure", zap.String("image", *dest.Image), zap.Error(rmErr))
			}
		}
		return nil, err
	}

	return s.Get(ctx, dest.ID)
}

// Update replaces the record's fields. When a new image is supplied the
// previous file is removed only after the row persists; removal failures are
// logged, never fatal, so storage errors cannot orphan the database state.
func (s *destinationServiceImpl) Update(ctx context.Context, id int64, input DestinationInput) (*models.Destination, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	dest := &models.Destination{
		ID:          id,
		UserID:      input.UserID,
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Location:    input.Location,
		Description: input.Description,
		Image:       existing.Image,
	}

	var oldImage string
	if input.Image != nil {
		name, err := s.files.Save(input.Image)
		if err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		dest.Image = &name
		if existing.Image != nil {
			oldImage = *existing.Image
		}
	}

	if err := s.repo.Update(ctx, dest); err != nil {
		if input.Image != nil && dest.Image != nil {
			if rmErr := s.files.Remove(*dest.Image); rmErr != nil {
				s.logger.Warn("Failed to remove stored image after update failure", zap.String("image", *dest.Image), zap.Error(rmErr))
			}
		}
		return nil, err
	}

	// Post-persist hook: the old file goes away exactly once, after the new
	// record is durable.
	if oldImage != "" {
		if err := s.files.Remove(oldImage); err != nil {
			s.logger.Warn("Failed to remove replaced image", zap.Int64("id", id), zap.String("image", oldImage), zap.Error(err))
		}
	}

	return s.Get(ctx, id)
}

// Delete removes the record and then its stored image. A file removal failure
// is logged but does not fail the operation.
func (s *destinationServiceImpl) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	if existing.Image != nil {
		if err := s.files.Remove(*existing.Image); err != nil {
			s.logger.Warn("Failed to remove image of deleted destination", zap.Int64("id", id), zap.String("image", *existing.Image), zap.Error(err))
		}
	}
	return nil
}
