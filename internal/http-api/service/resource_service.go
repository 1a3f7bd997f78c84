package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"librarium/internal/http-api/models"
	"librarium/internal/http-api/repository"
	"librarium/internal/storage"
)

type ResourceService interface {
	Upload(ctx context.Context, title, author, subject, originalFileName string, content io.Reader) (*models.DigitalResource, error)
	List(ctx context.Context) ([]models.DigitalResource, error)
	Download(ctx context.Context, id int64) (*models.DigitalResource, io.ReadCloser, error)
	Delete(ctx context.Context, id int64) error
}

type resourceService struct {
	resourceRepo repository.ResourceRepository
	store        *storage.FileStore
	logger       *slog.Logger
}

func NewResourceService(resourceRepo repository.ResourceRepository, store *storage.FileStore, logger *slog.Logger) ResourceService {
	return &resourceService{resourceRepo: resourceRepo, store: store, logger: logger}
}

// Upload stores the bytes under an opaque uuid-based name so uploads can
// never collide or leak the original name into the filesystem.
func (s *resourceService) Upload(ctx context.Context, title, author, subject, originalFileName string, content io.Reader) (*models.DigitalResource, error) {
	stored := uuid.New().String() + filepath.Ext(originalFileName)
	if err := s.store.Save(stored, content); err != nil {
		return nil, err
	}

	resource := &models.DigitalResource{
		Title:            title,
		Author:           author,
		Subject:          subject,
		StoredFileName:   stored,
		OriginalFileName: originalFileName,
	}
	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		// No metadata row, no reason to keep the bytes.
		if rmErr := s.store.Remove(stored); rmErr != nil {
			s.logger.Warn("failed to clean up orphaned upload", "file", stored, "error", rmErr)
		}
		return nil, err
	}
	return resource, nil
}

func (s *resourceService) List(ctx context.Context) ([]models.DigitalResource, error) {
	return s.resourceRepo.List(ctx)
}

func (s *resourceService) Download(ctx context.Context, id int64) (*models.DigitalResource, io.ReadCloser, error) {
	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	f, err := s.store.Open(resource.StoredFileName)
	if err != nil {
		return nil, nil, err
	}
	return resource, f, nil
}

func (s *resourceService) Delete(ctx context.Context, id int64) error {
	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.resourceRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.store.Remove(resource.StoredFileName); err != nil {
		s.logger.Warn("resource row deleted but file removal failed", "file", resource.StoredFileName, "error", err)
	}
	return nil
}
