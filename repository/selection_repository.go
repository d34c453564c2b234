package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/alboomhq/alboombackend/models"
)

// GormSelectionRepository handles the client selection state for sessions
type GormSelectionRepository struct {
	DB *gorm.DB
}

func NewSelectionRepository(db *gorm.DB) *GormSelectionRepository {
	return &GormSelectionRepository{DB: db}
}

// ReplaceForSession atomically swaps the session's selection set: clear then
// repopulate inside one transaction, so readers never observe the
// intermediate empty state. Concurrent replaces serialize at the store and
// the later arrival wins whole.
func (r *GormSelectionRepository) ReplaceForSession(sessionID uint, photoIDs []uint) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", sessionID).Delete(&models.Selection{}).Error; err != nil {
			return err
		}
		if len(photoIDs) == 0 {
			return nil
		}
		selections := make([]models.Selection, 0, len(photoIDs))
		for _, photoID := range photoIDs {
			selections = append(selections, models.Selection{SessionID: sessionID, PhotoID: photoID})
		}
		return tx.Create(&selections).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace selections for session %d: %w", sessionID, err)
	}
	return nil
}

// GetPhotoIDsBySession returns the photo IDs currently selected for a
// session, reflecting the most recently completed replace
func (r *GormSelectionRepository) GetPhotoIDsBySession(sessionID uint) ([]uint, error) {
	var photoIDs []uint
	err := r.DB.Model(&models.Selection{}).Where("session_id = ?", sessionID).Pluck("photo_id", &photoIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get selections for session %d: %w", sessionID, err)
	}
	return photoIDs, nil
}
