package utils

import (
	"archive/zip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/alboomhq/alboombackend/media"
	"github.com/alboomhq/alboombackend/models"
)

// CreateSelectionZip creates a ZIP archive of the given photos, read from
// the blob store. Entries use the stored filename.
// archiveSaveDir: the full, absolute path where the ZIP file should be saved.
// Returns: full path of the archive, size in bytes, error.
func CreateSelectionZip(blobs media.BlobStore, photos []models.Photo, archiveSaveDir string) (string, int64, error) {
	if len(photos) == 0 {
		return "", 0, fmt.Errorf("no photos to archive")
	}

	if err := os.MkdirAll(archiveSaveDir, 0755); err != nil {
		return "", 0, fmt.Errorf("failed to create zip save directory %s: %w", archiveSaveDir, err)
	}

	timestamp := time.Now().Unix()
	archiveUUID, _ := uuid.NewRandom()
	zipFilename := fmt.Sprintf("selection_%d_%s.zip", timestamp, archiveUUID.String()[:8])
	zipFilePath := filepath.Join(archiveSaveDir, zipFilename)

	zipFile, err := os.Create(zipFilePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create zip file %s: %w", zipFilePath, err)
	}
	defer zipFile.Close()

	zipWriter := zip.NewWriter(zipFile)

	added := 0
	for _, photo := range photos {
		blob, _, err := blobs.Get(photo.BlobKey)
		if err != nil {
			log.Printf("zipper: Failed to open blob %s for zipping: %v. Skipping.", photo.BlobKey, err)
			continue
		}

		writer, err := zipWriter.Create(photo.Filename)
		if err != nil {
			blob.Close()
			log.Printf("zipper: Failed to create entry in zip for %s: %v. Skipping.", photo.Filename, err)
			continue
		}

		_, err = io.Copy(writer, blob)
		blob.Close()
		if err != nil {
			log.Printf("zipper: Failed to write %s to zip: %v. Skipping.", photo.Filename, err)
			continue
		}
		added++
	}

	if added == 0 {
		zipWriter.Close()
		zipFile.Close()
		os.Remove(zipFilePath)
		return "", 0, fmt.Errorf("no photo blobs could be added to the archive")
	}

	if err := zipWriter.Close(); err != nil {
		return "", 0, fmt.Errorf("failed to finalize zip writer for %s: %w", zipFilePath, err)
	}

	zipInfo, err := os.Stat(zipFilePath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to stat created zip file %s: %w", zipFilePath, err)
	}

	log.Printf("Successfully created selection zip: %s (Size: %d bytes)", zipFilePath, zipInfo.Size())
	return zipFilePath, zipInfo.Size(), nil
}
