package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/caarlos0/env/v6"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultPhotosSubDir    = "photos"
	DefaultDocumentsSubDir = "documents"
	DefaultThumbsSubDir    = "thumbnails"
)

const (
	defaultPort             = "8080"
	defaultTokenHours       = 8
	defaultMaxPhotoBytes    = 5 * 1024 * 1024
	defaultMaxDocumentBytes = 15 * 1024 * 1024
	defaultThumbnailMaxSize = 300
)

type Config struct {
	// server settings
	Port        string `env:"PORT"`
	CORSOrigin  string `env:"CORS_ORIGIN"`
	WebDistPath string `env:"WEB_DIST_PATH"`

	// database path (SQLite)
	DatabasePath string `env:"DATABASE_PATH"`

	// auth settings
	JWTSecret      string `env:"JWT_SECRET"`
	TokenExpiryHrs int    `env:"TOKEN_EXPIRY_HOURS"`
	BcryptCost     int    `env:"BCRYPT_COST"`
	SeedAdminEmail string `env:"SEED_ADMIN_EMAIL"`
	SeedAdminPass  string `env:"SEED_ADMIN_PASSWORD"`
	SeedAdminName  string `env:"SEED_ADMIN_NAME"`

	// upload storage configuration
	UploadsPath   string // primary root for uploaded media (photos, documents, thumbnails)
	PhotosPath    string // full-calculated path for case photos
	DocumentsPath string // full-calculated path for case documents
	ThumbsPath    string // full-calculated path for generated photo thumbnails

	// upload limits
	MaxPhotoBytes    int64
	MaxDocumentBytes int64

	// thumbnail generation settings
	ThumbnailMaxSize int
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

// LoadConfig reads configuration from the environment. JWT_SECRET is the only
// hard requirement; everything else falls back to a sensible default.
func LoadConfig() (Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment configuration: %w", err)
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "http://localhost:5173"
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "legajos.db"
	}
	if cfg.TokenExpiryHrs <= 0 {
		cfg.TokenExpiryHrs = defaultTokenHours
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	uploads := getEnvOrDefault("UPLOADS_PATH", filepath.Join(".", "uploads"))
	absUploads, err := filepath.Abs(uploads)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for uploads directory '%s': %w", uploads, err)
	}
	cfg.UploadsPath = absUploads
	cfg.PhotosPath = filepath.Join(absUploads, getEnvOrDefault("PHOTOS_SUBDIR", DefaultPhotosSubDir))
	cfg.DocumentsPath = filepath.Join(absUploads, getEnvOrDefault("DOCUMENTS_SUBDIR", DefaultDocumentsSubDir))
	cfg.ThumbsPath = filepath.Join(absUploads, getEnvOrDefault("THUMBNAILS_SUBDIR", DefaultThumbsSubDir))

	cfg.MaxPhotoBytes = int64(getEnvIntOrDefault("MAX_PHOTO_BYTES", defaultMaxPhotoBytes))
	cfg.MaxDocumentBytes = int64(getEnvIntOrDefault("MAX_DOCUMENT_BYTES", defaultMaxDocumentBytes))
	cfg.ThumbnailMaxSize = getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize)

	return cfg, nil
}
