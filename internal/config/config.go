package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// HTTP server
	HTTPPort    int      `env:"HTTP_PORT" default:"8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" default:"http://localhost:3000"`

	// Database
	DatabaseURL string `env:"DATABASE_URL" required:"true"`

	// Authentication
	JWTSecret       string        `env:"JWT_SECRET" required:"true"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" default:"168h"`
	ResetTokenTTL   time.Duration `env:"RESET_TOKEN_TTL" default:"1h"`

	// Redis cache
	RedisURL string        `env:"REDIS_URL" default:"redis://localhost:6379"`
	CacheTTL time.Duration `env:"CACHE_TTL" default:"5m"`

	// Loan policy
	FinePerDay float64 `env:"FINE_PER_DAY" default:"0.25"`

	// Due-date sweeper
	SweepInterval      time.Duration `env:"SWEEP_INTERVAL" default:"2h"`
	SweepRetryInterval time.Duration `env:"SWEEP_RETRY_INTERVAL" default:"5m"`

	// External LLM API (OpenRouter-compatible chat completions)
	LLMAPIURL string `env:"LLM_API_URL" default:"https://openrouter.ai/api/v1/chat/completions"`
	LLMAPIKey string `env:"LLM_API_KEY"`
	LLMModel  string `env:"LLM_MODEL" default:"mistralai/mistral-7b-instruct"`

	// File storage
	UploadsPath string `env:"UPLOADS_PATH" default:"./private-uploads"`
	AvatarsPath string `env:"AVATARS_PATH" default:"./private-uploads/avatars"`

	// Bootstrap librarian account (seeded only when the password is set)
	SeedLibrarianUsername string `env:"SEED_LIBRARIAN_USERNAME" default:"librarian"`
	SeedLibrarianEmail    string `env:"SEED_LIBRARIAN_EMAIL" default:"librarian@example.com"`
	SeedLibrarianPassword string `env:"SEED_LIBRARIAN_PASSWORD"`
}

// LoadConfig loads configuration from environment variables,
// reading a .env file first when one exists.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		// Missing .env is fine - system env vars still apply.
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 8080); err != nil {
		return nil, err
	}
	if err := loadEnvStringSlice(&config.CORSOrigins, "CORS_ORIGINS", []string{"http://localhost:3000"}); err != nil {
		return nil, err
	}

	if err := loadEnvStringRequired(&config.DatabaseURL, "DATABASE_URL"); err != nil {
		return nil, err
	}

	if err := loadEnvStringRequired(&config.JWTSecret, "JWT_SECRET"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.AccessTokenTTL, "ACCESS_TOKEN_TTL", 15*time.Minute); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.RefreshTokenTTL, "REFRESH_TOKEN_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.ResetTokenTTL, "RESET_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}

	if err := loadEnvString(&config.RedisURL, "REDIS_URL", "redis://localhost:6379"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.CacheTTL, "CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}

	if err := loadEnvFloat(&config.FinePerDay, "FINE_PER_DAY", 0.25); err != nil {
		return nil, err
	}

	if err := loadEnvDuration(&config.SweepInterval, "SWEEP_INTERVAL", 2*time.Hour); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.SweepRetryInterval, "SWEEP_RETRY_INTERVAL", 5*time.Minute); err != nil {
		return nil, err
	}

	if err := loadEnvString(&config.LLMAPIURL, "LLM_API_URL", "https://openrouter.ai/api/v1/chat/completions"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LLMAPIKey, "LLM_API_KEY", ""); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LLMModel, "LLM_MODEL", "mistralai/mistral-7b-instruct"); err != nil {
		return nil, err
	}

	if err := loadEnvString(&config.UploadsPath, "UPLOADS_PATH", "./private-uploads"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.AvatarsPath, "AVATARS_PATH", "./private-uploads/avatars"); err != nil {
		return nil, err
	}

	if err := loadEnvString(&config.SeedLibrarianUsername, "SEED_LIBRARIAN_USERNAME", "librarian"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SeedLibrarianEmail, "SEED_LIBRARIAN_EMAIL", "librarian@example.com"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.SeedLibrarianPassword, "SEED_LIBRARIAN_PASSWORD", ""); err != nil {
		return nil, err
	}

	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringSlice(target *[]string, key string, defaultValue []string) error {
	if value := os.Getenv(key); value != "" {
		*target = strings.Split(value, ",")
		for i, v := range *target {
			(*target)[i] = strings.TrimSpace(v)
		}
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}
	if len(c.JWTSecret) < 32 {
		errors = append(errors, "JWT_SECRET should be at least 32 characters long")
	}
	if c.FinePerDay < 0 {
		errors = append(errors, "FINE_PER_DAY must not be negative")
	}
	if c.SweepInterval <= 0 || c.SweepRetryInterval <= 0 {
		errors = append(errors, "sweep intervals must be positive")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}
	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}
