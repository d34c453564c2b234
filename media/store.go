package media

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore defines the interface for saving and retrieving photo assets by
// key. Keys follow the layout sessions/{sessionID}/photos/{storedFilename}
// and sessions/{sessionID}/thumbnails/thumb_{storedFilename}.
type BlobStore interface {
	// Put stores data under key and returns a retrievable locator
	Put(ctx context.Context, key string, contentType string, data io.Reader) (string, error)
	// Get retrieves a reader for a stored blob
	Get(key string) (io.ReadCloser, os.FileInfo, error)
	// Delete removes a blob; deleting a missing blob is not an error
	Delete(key string) error
	// GetFullPath returns the absolute filesystem path for a key
	GetFullPath(key string) (string, error)
}

// LocalStorage implements the BlobStore interface using the local filesystem
type LocalStorage struct {
	basePath string // absolute path to the MEDIA_STORAGE_PATH
}

// NewLocalStorage creates a new local filesystem blob store
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	absBasePath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("invalid base storage path '%s': %w", basePath, err)
	}

	if err := os.MkdirAll(absBasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory '%s': %w", absBasePath, err)
	}

	log.Printf("media.store: Initialized LocalStorage at %s", absBasePath)
	return &LocalStorage{basePath: absBasePath}, nil
}

// Put writes data under key. The write goes to a temporary name first and is
// renamed into place, so a concurrent reader never sees a partial blob.
func (ls *LocalStorage) Put(ctx context.Context, key string, contentType string, data io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fullPath, err := ls.GetFullPath(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create blob directory for '%s': %w", key, err)
	}

	tmpPath := filepath.Join(filepath.Dir(fullPath), "."+uuid.NewString()+".tmp")
	outFile, err := os.Create(tmpPath)
	if err != nil {
		return "", fmt.Errorf("failed to create blob temp file for '%s': %w", key, err)
	}

	_, err = io.Copy(outFile, data)
	if cerr := outFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write blob data for '%s': %w", key, err)
	}

	if err := os.Rename(tmpPath, fullPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to finalize blob '%s': %w", key, err)
	}

	return filepath.ToSlash(key), nil
}

func (ls *LocalStorage) Get(key string) (io.ReadCloser, os.FileInfo, error) {
	fullPath, err := ls.GetFullPath(key)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("blob not found at '%s': %w", key, err)
		}
		return nil, nil, fmt.Errorf("failed to open blob '%s': %w", key, err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to stat blob '%s': %w", key, err)
	}

	return file, info, nil
}

// Delete removes a blob file
func (ls *LocalStorage) Delete(key string) error {
	fullPath, err := ls.GetFullPath(key)
	if err != nil {
		return err
	}

	err = os.Remove(fullPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete blob '%s': %w", key, err)
	}
	return nil
}

// GetFullPath calculates the absolute path and performs security check
func (ls *LocalStorage) GetFullPath(key string) (string, error) {
	cleanKey := filepath.Clean(filepath.FromSlash(key))

	fullPath := filepath.Join(ls.basePath, cleanKey)

	absFullPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for '%s': %w", key, err)
	}

	if !strings.HasPrefix(absFullPath, ls.basePath) {
		return "", fmt.Errorf("invalid key: access denied for '%s'", key)
	}

	return absFullPath, nil
}

// PhotoBlobKey builds the blob key for an original photo
func PhotoBlobKey(sessionID uint, storedFilename string) string {
	return fmt.Sprintf("sessions/%d/photos/%s", sessionID, storedFilename)
}

// ThumbnailBlobKey builds the blob key for a photo thumbnail
func ThumbnailBlobKey(sessionID uint, storedFilename string) string {
	return fmt.Sprintf("sessions/%d/thumbnails/thumb_%s", sessionID, storedFilename)
}
