package repository

import (
	"github.com/alboomhq/alboombackend/models"
)

// PhotographerRepository defines the methods for photographer account data
type PhotographerRepository interface {
	Create(photographer *models.Photographer) error
	GetByID(id uint) (*models.Photographer, error)
	GetByEmail(email string) (*models.Photographer, error)
}

// SessionRepositoryInterface defines the methods for session data operations
type SessionRepositoryInterface interface {
	Create(session *models.Session) error
	GetByID(id uint) (*models.Session, error)
	GetByIDForPhotographer(id, photographerID uint) (*models.Session, error)
	GetByToken(token string) (*models.Session, error)
	ListByPhotographer(photographerID uint) ([]models.Session, error)
	UpdateStatus(sessionID uint, status string) error
	Delete(id uint) error
}

// PhotoRepositoryInterface defines the methods for photo data operations.
// Photos are created only by ingestion and never mutated afterwards.
type PhotoRepositoryInterface interface {
	Create(photo *models.Photo) error
	ListBySession(sessionID uint) ([]models.Photo, error)
	CountBySession(sessionID uint) (int64, error)
	GetByIDs(ids []uint) ([]models.Photo, error)
}

// SelectionRepositoryInterface defines the methods for selection state.
// ReplaceForSession is the only write: the whole set is swapped atomically.
type SelectionRepositoryInterface interface {
	ReplaceForSession(sessionID uint, photoIDs []uint) error
	GetPhotoIDsBySession(sessionID uint) ([]uint, error)
}
