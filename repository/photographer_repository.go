package repository

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/alboomhq/alboombackend/models"
)

// GormPhotographerRepository handles database operations for Photographer entities
type GormPhotographerRepository struct {
	DB *gorm.DB
}

func NewPhotographerRepository(db *gorm.DB) *GormPhotographerRepository {
	return &GormPhotographerRepository{DB: db}
}

// Create inserts a new photographer account
func (r *GormPhotographerRepository) Create(photographer *models.Photographer) error {
	err := r.DB.Create(photographer).Error
	if err != nil {
		return fmt.Errorf("failed to create photographer %s: %w", photographer.Email, err)
	}
	return nil
}

// GetByID retrieves a photographer by ID
func (r *GormPhotographerRepository) GetByID(id uint) (*models.Photographer, error) {
	var photographer models.Photographer
	err := r.DB.First(&photographer, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get photographer by ID %d: %w", id, err)
	}
	return &photographer, nil
}

// GetByEmail retrieves a photographer by email, used for login
func (r *GormPhotographerRepository) GetByEmail(email string) (*models.Photographer, error) {
	var photographer models.Photographer
	err := r.DB.Where("email = ?", email).First(&photographer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get photographer by email %s: %w", email, err)
	}
	return &photographer, nil
}
