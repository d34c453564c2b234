package repository

import (
	"fmt"
	"sort"

	"github.com/facette/natsort"
	"gorm.io/gorm"

	"github.com/alboomhq/alboombackend/models"
)

// GormPhotoRepository handles database operations for Photo entities
type GormPhotoRepository struct {
	DB *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *GormPhotoRepository {
	return &GormPhotoRepository{DB: db}
}

// Create inserts a new photo record. Callers must have both blobs stored
// before this is called; a listed photo always has both assets.
func (r *GormPhotoRepository) Create(photo *models.Photo) error {
	err := r.DB.Create(photo).Error
	if err != nil {
		return fmt.Errorf("failed to create photo %s: %w", photo.Filename, err)
	}
	return nil
}

// ListBySession retrieves a session's photos ordered by stored filename.
// Natural ordering keeps camera sequences sane (IMG_2 before IMG_10), which
// plain byte order would not.
func (r *GormPhotoRepository) ListBySession(sessionID uint) ([]models.Photo, error) {
	var photos []models.Photo
	err := r.DB.Where("session_id = ?", sessionID).Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list photos for session %d: %w", sessionID, err)
	}
	sort.SliceStable(photos, func(i, j int) bool {
		return natsort.Compare(photos[i].Filename, photos[j].Filename)
	})
	return photos, nil
}

// CountBySession returns the number of photos in a session, used for the
// capacity check before ingestion
func (r *GormPhotoRepository) CountBySession(sessionID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&models.Photo{}).Where("session_id = ?", sessionID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count photos for session %d: %w", sessionID, err)
	}
	return count, nil
}

// GetByIDs retrieves photos by ID, in no particular order
func (r *GormPhotoRepository) GetByIDs(ids []uint) ([]models.Photo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var photos []models.Photo
	err := r.DB.Where("id IN ?", ids).Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get photos by IDs: %w", err)
	}
	return photos, nil
}
