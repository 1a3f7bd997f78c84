package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"librarium/internal/http-api/models"
)

// Connect opens the postgres database and tunes the underlying pool.
func Connect(databaseURL string, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logger.Info("database connected")
	return db, nil
}

// Migrate creates or updates the schema for every entity.
func Migrate(db *gorm.DB, logger *slog.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Book{},
		&models.Loan{},
		&models.Reservation{},
		&models.Notification{},
		&models.Review{},
		&models.WishlistItem{},
		&models.DigitalResource{},
		&models.RefreshToken{},
		&models.PasswordResetToken{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	logger.Info("database schema migrated")
	return nil
}

// Close releases the connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
