package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"librarium/internal/http-api/repository"
	"librarium/internal/storage"
)

var ErrUnsupportedImage = errors.New("unsupported image type")

var imageContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type ProfileService interface {
	UploadPicture(ctx context.Context, userID, originalFileName string, content io.Reader) error
	// Picture returns the avatar bytes and their content type.
	Picture(ctx context.Context, userID string) (io.ReadCloser, string, error)
}

type profileService struct {
	userRepo repository.UserRepository
	avatars  *storage.FileStore
	logger   *slog.Logger
}

func NewProfileService(userRepo repository.UserRepository, avatars *storage.FileStore, logger *slog.Logger) ProfileService {
	return &profileService{userRepo: userRepo, avatars: avatars, logger: logger}
}

// UploadPicture stores the avatar as <userID><ext>, one file per user. A new
// upload with a different extension replaces the old file.
func (s *profileService) UploadPicture(ctx context.Context, userID, originalFileName string, content io.Reader) error {
	ext := strings.ToLower(filepath.Ext(originalFileName))
	if _, ok := imageContentTypes[ext]; !ok {
		return ErrUnsupportedImage
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	stored := userID + ext
	if err := s.avatars.Save(stored, content); err != nil {
		return err
	}
	if user.AvatarFile != "" && user.AvatarFile != stored {
		if err := s.avatars.Remove(user.AvatarFile); err != nil {
			s.logger.Warn("failed to remove previous avatar", "file", user.AvatarFile, "error", err)
		}
	}
	user.AvatarFile = stored
	return s.userRepo.Update(ctx, user)
}

func (s *profileService) Picture(ctx context.Context, userID string) (io.ReadCloser, string, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if user.AvatarFile == "" {
		return nil, "", errors.New("no profile picture")
	}
	f, err := s.avatars.Open(user.AvatarFile)
	if err != nil {
		return nil, "", err
	}
	contentType := imageContentTypes[strings.ToLower(filepath.Ext(user.AvatarFile))]
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return f, contentType, nil
}
