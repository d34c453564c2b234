package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultPhotosSubDir     = "photos"
	DefaultThumbnailsSubDir = "thumbnails"
	DefaultArchivesSubDir   = "archives"
)

const (
	defaultThumbnailWidth      = 400
	defaultThumbnailHeight     = 300
	defaultThumbnailQuality    = 80
	defaultIngestBatchSize     = 10
	defaultMaxPhotosPerSession = 1500
	defaultMaxUploadFileSize   = 10 * 1024 * 1024 // 10 MiB per file
)

type Config struct {
	// database path
	DatabasePath string

	// blob storage configuration
	MediaStoragePath string // root for original photos, thumbnails and archives
	ArchivesPath     string // full-calculated path for session archives

	// thumbnail transform settings
	ThumbnailWidth   int
	ThumbnailHeight  int
	ThumbnailQuality int

	// ingestion settings
	IngestBatchSize     int
	MaxPhotosPerSession int
	MaxUploadFileSize   int64

	// photographer auth
	JWTSecret string

	// base URL used to build client gallery links
	FrontendURL string
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

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "alboom.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	archiveSubDir := getEnvOrDefault("ARCHIVES_SUBDIR", DefaultArchivesSubDir)
	absArchivesPath := filepath.Join(absMediaStorage, archiveSubDir)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	cfg := Config{
		DatabasePath:        dbPath,
		MediaStoragePath:    absMediaStorage,
		ArchivesPath:        absArchivesPath,
		ThumbnailWidth:      getEnvIntOrDefault("THUMBNAIL_WIDTH", defaultThumbnailWidth),
		ThumbnailHeight:     getEnvIntOrDefault("THUMBNAIL_HEIGHT", defaultThumbnailHeight),
		ThumbnailQuality:    getEnvIntOrDefault("THUMBNAIL_JPEG_QUALITY", defaultThumbnailQuality),
		IngestBatchSize:     getEnvIntOrDefault("INGEST_BATCH_SIZE", defaultIngestBatchSize),
		MaxPhotosPerSession: getEnvIntOrDefault("MAX_PHOTOS_PER_SESSION", defaultMaxPhotosPerSession),
		MaxUploadFileSize:   int64(getEnvIntOrDefault("MAX_UPLOAD_FILE_SIZE", defaultMaxUploadFileSize)),
		JWTSecret:           jwtSecret,
		FrontendURL:         getEnvOrDefault("FRONTEND_URL", "http://localhost:3001"),
	}

	return cfg, nil
}
