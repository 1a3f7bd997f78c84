package database

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"librarium/internal/auth"
	"librarium/internal/config"
	"librarium/internal/http-api/models"
)

// SeedLibrarian creates the initial staff account when none exists yet.
// A fresh deployment has no way to mint a Librarian otherwise. Does nothing
// unless SEED_LIBRARIAN_PASSWORD is set.
func SeedLibrarian(db *gorm.DB, cfg *config.Config, logger *slog.Logger) error {
	if cfg.SeedLibrarianPassword == "" {
		return nil
	}

	var existing models.User
	err := db.Where("role = ?", models.RoleLibrarian).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check for librarian: %w", err)
	}

	hashed, err := auth.HashPassword(cfg.SeedLibrarianPassword)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	librarian := &models.User{
		ID:       uuid.New().String(),
		Username: cfg.SeedLibrarianUsername,
		Email:    cfg.SeedLibrarianEmail,
		Password: hashed,
		Role:     models.RoleLibrarian,
	}
	if err := db.Create(librarian).Error; err != nil {
		return fmt.Errorf("create seed librarian: %w", err)
	}
	logger.Info("seeded initial librarian account", "username", librarian.Username)
	return nil
}
