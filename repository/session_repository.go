package repository

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/alboomhq/alboombackend/models"
)

// GormSessionRepository handles database operations for Session entities
type GormSessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{DB: db}
}

// Create inserts a new session; the client token is minted by the model's
// BeforeCreate hook
func (r *GormSessionRepository) Create(session *models.Session) error {
	err := r.DB.Create(session).Error
	if err != nil {
		return fmt.Errorf("failed to create session %q: %w", session.Title, err)
	}
	return nil
}

// GetByID retrieves a session by its ID
func (r *GormSessionRepository) GetByID(id uint) (*models.Session, error) {
	var session models.Session
	err := r.DB.First(&session, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get session by ID %d: %w", id, err)
	}
	return &session, nil
}

// GetByIDForPhotographer retrieves a session only if it is owned by the
// given photographer
func (r *GormSessionRepository) GetByIDForPhotographer(id, photographerID uint) (*models.Session, error) {
	var session models.Session
	err := r.DB.Where("id = ? AND photographer_id = ?", id, photographerID).First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get session %d for photographer %d: %w", id, photographerID, err)
	}
	return &session, nil
}

// GetByToken retrieves a session by its client access token (exact match)
func (r *GormSessionRepository) GetByToken(token string) (*models.Session, error) {
	var session models.Session
	err := r.DB.Where("client_token = ?", token).First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get session by token: %w", err)
	}
	return &session, nil
}

// ListByPhotographer retrieves all sessions owned by a photographer, newest first
func (r *GormSessionRepository) ListByPhotographer(photographerID uint) ([]models.Session, error) {
	var sessions []models.Session
	err := r.DB.Where("photographer_id = ?", photographerID).Order("created_at DESC").Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for photographer %d: %w", photographerID, err)
	}
	return sessions, nil
}

// UpdateStatus sets the session lifecycle state. The client token is never
// touched here or anywhere else after creation.
func (r *GormSessionRepository) UpdateStatus(sessionID uint, status string) error {
	result := r.DB.Model(&models.Session{}).Where("id = ?", sessionID).Updates(map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return fmt.Errorf("failed to update status for session %d: %w", sessionID, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a session and cascades to its photos and selections
func (r *GormSessionRepository) Delete(id uint) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.Selection{}).Error; err != nil {
			return err
		}
		if err := tx.Where("session_id = ?", id).Delete(&models.Photo{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Session{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return err
		}
		return fmt.Errorf("failed to delete session %d: %w", id, err)
	}
	return nil
}
